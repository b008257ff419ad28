package evexml

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.eveonline.com"

// endpointSuffix is appended to every endpoint path on the wire.
const endpointSuffix = ".xml.aspx"

// resultPrefix locates the payload inside the response envelope.
const resultPrefix = "eveapi/result/"

// Dispatcher issues API calls. It applies the per-endpoint authorization
// policy, builds the request URL, performs the round trip and unwraps the
// response envelope, surfacing in-band error documents as errors.
type Dispatcher struct {
	base      string
	transport Transport
	parse     ParseFunc
	log       *zap.SugaredLogger
	keys      *keyInfoCache
}

func newDispatcher(base string, transport Transport, parse ParseFunc, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		base:      strings.TrimRight(base, "/"),
		transport: transport,
		parse:     parse,
		log:       log,
		keys:      newKeyInfoCache(),
	}
}

// Call dispatches one endpoint invocation. params uses the library's
// lowercase/underscore parameter names; renaming to the wire casing happens
// here. cred may be nil for public access. The query string is emitted in
// sorted key order.
func (d *Dispatcher) Call(ctx context.Context, endpoint Endpoint, params map[string]string, cred *Credential) (*Result, error) {
	if err := endpoint.Validate(); err != nil {
		return nil, err
	}
	authed, err := d.authorize(ctx, endpoint, params, cred)
	if err != nil {
		return nil, err
	}

	requestURL := d.buildURL(endpoint, authed)
	requestID := uuid.NewString()
	start := time.Now()

	resp, err := d.transport.Get(ctx, requestURL)
	if err != nil {
		d.log.Debugw("api call failed",
			"request_id", requestID,
			"endpoint", string(endpoint),
			"error", err,
		)
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	d.log.Debugw("api call",
		"request_id", requestID,
		"endpoint", string(endpoint),
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	doc, err := d.parse(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s response", endpoint)
	}
	return newResult(endpoint, doc)
}

// authorize applies the endpoint's authorization class to params. Credential
// fields supplied by the caller are always discarded first; only the policy
// may attach them.
func (d *Dispatcher) authorize(ctx context.Context, endpoint Endpoint, params map[string]string, cred *Credential) (map[string]string, error) {
	authed := make(map[string]string, len(params)+2)
	for k, v := range params {
		if k == "key_id" || k == "v_code" {
			continue
		}
		authed[k] = v
	}

	switch endpoint.auth() {
	case authPublic:
		return authed, nil
	case authCharacterScoped:
		if d.scopeCovers(ctx, cred, authed["character_id"], (*KeyInfo).ValidForCharacter) {
			attachCredential(authed, cred)
		}
		return authed, nil
	case authCorporationScoped:
		if d.scopeCovers(ctx, cred, authed["corporation_id"], (*KeyInfo).ValidForCorporation) {
			attachCredential(authed, cred)
		}
		return authed, nil
	default:
		if !cred.usable() {
			return nil, errors.Wrapf(ErrMissingCredential, "%s", endpoint)
		}
		attachCredential(authed, cred)
		return authed, nil
	}
}

// scopeCovers reports whether cred's resolved scope covers the id named in
// rawID. A missing credential, an absent id or a failed scope resolution all
// report false, which makes the conditional endpoints fall back to an
// unauthenticated call.
func (d *Dispatcher) scopeCovers(ctx context.Context, cred *Credential, rawID string, valid func(*KeyInfo, int64) bool) bool {
	if !cred.usable() || rawID == "" {
		return false
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return false
	}
	info, err := d.KeyInfo(ctx, cred)
	if err != nil {
		d.log.Warnw("key scope resolution failed, proceeding unauthenticated",
			"key_id", cred.KeyID,
			"error", err,
		)
		return false
	}
	return valid(info, id)
}

func attachCredential(params map[string]string, cred *Credential) {
	params["key_id"] = cred.KeyID
	params["v_code"] = cred.VCode
}

// buildURL assembles the request URL. url.Values.Encode percent-encodes and
// sorts keys, giving a deterministic query string.
func (d *Dispatcher) buildURL(endpoint Endpoint, params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(wireParam(k), v)
	}
	u := d.base + "/" + string(endpoint) + endpointSuffix
	if encoded := values.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// Result is one successful API response: the payload document plus the
// envelope's timestamps. Paths passed to Value, Nodes and Rows are relative
// to the envelope's result element.
type Result struct {
	Endpoint    Endpoint
	CurrentTime time.Time
	CachedUntil time.Time

	doc Document
}

// newResult unwraps the eveapi envelope. An in-band error document becomes
// an APIError, marked ErrInvalidCredential when the code means the key pair
// itself was refused.
func newResult(endpoint Endpoint, doc Document) (*Result, error) {
	if nodes := doc.Nodes("eveapi/error"); len(nodes) > 0 {
		code := 0
		if raw, ok := nodes[0].Attr("code"); ok {
			code, _ = strconv.Atoi(raw)
		}
		apiErr := &APIError{Endpoint: endpoint, Code: code, Message: nodes[0].Text()}
		if credentialRejected(code) {
			return nil, errors.Mark(apiErr, ErrInvalidCredential)
		}
		return nil, apiErr
	}
	if len(doc.Nodes("eveapi/result")) == 0 {
		return nil, errors.Newf("%s: response missing result element", endpoint)
	}

	res := &Result{Endpoint: endpoint, doc: doc}
	if raw, ok := doc.Value("eveapi/currentTime"); ok && raw != "" {
		if t, err := parseEveTime(raw); err == nil {
			res.CurrentTime = t
		}
	}
	if raw, ok := doc.Value("eveapi/cachedUntil"); ok && raw != "" {
		if t, err := parseEveTime(raw); err == nil {
			res.CachedUntil = t
		}
	}
	return res, nil
}

// Value returns the first matching element's text under the result element.
func (r *Result) Value(path string) (string, bool) {
	return r.doc.Value(resultPrefix + path)
}

// Nodes returns every element matching path under the result element.
func (r *Result) Nodes(path string) []Node {
	return r.doc.Nodes(resultPrefix + path)
}

// Rows returns the rows of the named top-level rowset.
func (r *Result) Rows(rowset string) []Node {
	return r.Nodes("rowset[@name='" + rowset + "']/row")
}

// attr returns the named attribute of n, or "" when absent.
func attr(n Node, name string) string {
	v, _ := n.Attr(name)
	return v
}

// attrInt parses the named attribute as an integer, 0 when absent or
// malformed. Listing parsers treat malformed rows as absent data rather
// than failing the whole collection.
func attrInt(n Node, name string) int64 {
	v, ok := n.Attr(name)
	if !ok {
		return 0
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return i
}
