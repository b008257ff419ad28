package evexml

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

// Endpoint identifies one API operation as "category/Call", for example
// "eve/CharacterInfo". The dispatcher appends the ".xml.aspx" suffix on the
// wire.
type Endpoint string

// Endpoints this package calls. Call accepts any Endpoint that validates, so
// the set is open for callers with custom needs.
const (
	EndpointAPIKeyInfo       Endpoint = "account/APIKeyInfo"
	EndpointCharacters       Endpoint = "account/Characters"
	EndpointAccountStatus    Endpoint = "account/AccountStatus"
	EndpointCharacterInfo    Endpoint = "eve/CharacterInfo"
	EndpointAllianceList     Endpoint = "eve/AllianceList"
	EndpointSkillTree        Endpoint = "eve/SkillTree"
	EndpointCertificateTree  Endpoint = "eve/CertificateTree"
	EndpointCharacterSheet   Endpoint = "char/CharacterSheet"
	EndpointSkillQueue       Endpoint = "char/SkillQueue"
	EndpointSkillInTraining  Endpoint = "char/SkillInTraining"
	EndpointCorporationSheet Endpoint = "corp/CorporationSheet"
)

// validEndpointRegex requires a lowercase category, a slash, and a MixedCase
// call name.
var validEndpointRegex = regexp.MustCompile(`^[a-z]+/[A-Z][A-Za-z0-9]*$`)

// Validate checks the endpoint path shape without touching the network.
func (e Endpoint) Validate() error {
	if !validEndpointRegex.MatchString(string(e)) {
		return errors.Wrapf(ErrInvalidEndpoint, "%q", string(e))
	}
	return nil
}

// category returns the path segment before the slash.
func (e Endpoint) category() string {
	cat, _, _ := strings.Cut(string(e), "/")
	return cat
}

// authClass partitions endpoints by how the dispatcher handles credentials.
type authClass int

const (
	// authPublic endpoints never receive credential fields; any present are
	// stripped before the call.
	authPublic authClass = iota

	// authCharacterScoped endpoints receive credential fields only when the
	// key's scope covers the character_id parameter, and otherwise proceed
	// unauthenticated.
	authCharacterScoped

	// authCorporationScoped endpoints receive credential fields only when the
	// key's scope covers the corporation_id parameter.
	authCorporationScoped

	// authRequired endpoints always receive credential fields and fail fast
	// without a usable key pair.
	authRequired
)

var endpointAuth = map[Endpoint]authClass{
	EndpointAPIKeyInfo:       authRequired,
	EndpointCharacters:       authRequired,
	EndpointAccountStatus:    authRequired,
	EndpointCharacterInfo:    authCharacterScoped,
	EndpointAllianceList:     authPublic,
	EndpointSkillTree:        authPublic,
	EndpointCertificateTree:  authPublic,
	EndpointCharacterSheet:   authRequired,
	EndpointSkillQueue:       authRequired,
	EndpointSkillInTraining:  authRequired,
	EndpointCorporationSheet: authCorporationScoped,
}

// auth returns the endpoint's authorization class. Endpoints outside the
// known set default by category: account, char and corp data is always
// key-gated upstream, everything else is public.
func (e Endpoint) auth() authClass {
	if c, ok := endpointAuth[e]; ok {
		return c
	}
	switch e.category() {
	case "account", "char", "corp":
		return authRequired
	}
	return authPublic
}

// Wire parameter names for the library's internal conventions. Internal code
// passes lowercase/underscore names; the dispatcher renames them to the
// remote API's exact casing when building the query string.
var wireParamNames = map[string]string{
	"key_id":         "keyID",
	"v_code":         "vCode",
	"character_id":   "characterID",
	"corporation_id": "corporationID",
}

func wireParam(name string) string {
	if wire, ok := wireParamNames[name]; ok {
		return wire
	}
	return name
}
