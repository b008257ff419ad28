package evexml

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client is the root object of the package. It owns the dispatcher, the
// per-kind identity caches and the lookup-table collections; every entity
// handed out by one Client shares them. A bare Client serves the public
// endpoints; call Session to bind a key pair for the rest.
type Client struct {
	disp   *Dispatcher
	caches *cacheStore
	log    *zap.SugaredLogger

	alliances    collection
	skills       collection
	certificates collection
}

type options struct {
	baseURL   string
	timeout   time.Duration
	transport Transport
	parse     ParseFunc
	log       *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at a different API root, typically a test
// server.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithTimeout bounds each round trip of the stock transport. Ignored when
// WithTransport is also given.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithTransport substitutes the HTTP layer.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// WithParser substitutes the XML layer.
func WithParser(p ParseFunc) Option {
	return func(o *options) { o.parse = p }
}

// WithLogger attaches a logger. The client is silent without one.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *options) { o.log = log }
}

// NewClient builds a Client against the production API with a 30 second
// transport timeout, overridable via options.
func NewClient(opts ...Option) *Client {
	o := options{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		parse:   ParseXML,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop().Sugar()
	}
	if o.transport == nil {
		o.transport = newHTTPTransport(o.timeout)
	}
	return &Client{
		disp:   newDispatcher(o.baseURL, o.transport, o.parse, o.log),
		caches: newCacheStore(),
		log:    o.log,
	}
}

// Dispatcher exposes the client's dispatcher for direct endpoint calls.
func (c *Client) Dispatcher() *Dispatcher { return c.disp }

// Cached reports whether the identity cache already holds fields for the
// entity, without triggering any fetch. Entries are never evicted; use the
// entity's CachedUntil to judge freshness.
func (c *Client) Cached(kind Kind, id int64) bool {
	return c.caches.table(kind).has(id)
}

// Session binds a key pair to the client. Sessions share the client's
// caches, so entities resolved under one session serve later sessions too.
func (c *Client) Session(keyID, vCode string) *Session {
	return &Session{
		client: c,
		cred:   &Credential{KeyID: keyID, VCode: vCode},
	}
}

// NewSession is shorthand for NewClient(opts...).Session(keyID, vCode).
func NewSession(keyID, vCode string, opts ...Option) *Session {
	return NewClient(opts...).Session(keyID, vCode)
}

// Session is a key pair bound to a Client. The authenticated construction
// surface hangs off it; the key itself resolves lazily on first use.
type Session struct {
	client *Client
	cred   *Credential
}

// Client returns the owning client.
func (s *Session) Client() *Client { return s.client }

// Credential returns the session's key pair.
func (s *Session) Credential() *Credential { return s.cred }

// KeyInfo resolves the session's key scope, at most once per key pair.
func (s *Session) KeyInfo(ctx context.Context) (*KeyInfo, error) {
	return s.client.disp.KeyInfo(ctx, s.cred)
}

// AccountStatus is the account-level standing reported by the status
// endpoint.
type AccountStatus struct {
	PaidUntil    time.Time
	CreateDate   time.Time
	LogonCount   int64
	LogonMinutes int64
}

// AccountStatus fetches the account's standing. Fetched per call, not
// cached.
func (s *Session) AccountStatus(ctx context.Context) (*AccountStatus, error) {
	res, err := s.client.disp.Call(ctx, EndpointAccountStatus, nil, s.cred)
	if err != nil {
		return nil, err
	}

	status := &AccountStatus{}
	if raw, ok := res.Value("paidUntil"); ok && raw != "" {
		t, err := parseEveTime(raw)
		if err != nil {
			return nil, err
		}
		status.PaidUntil = t
	}
	if raw, ok := res.Value("createDate"); ok && raw != "" {
		t, err := parseEveTime(raw)
		if err != nil {
			return nil, err
		}
		status.CreateDate = t
	}
	if raw, ok := res.Value("logonCount"); ok {
		status.LogonCount, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw, ok := res.Value("logonMinutes"); ok {
		status.LogonMinutes, _ = strconv.ParseInt(raw, 10, 64)
	}
	return status, nil
}
