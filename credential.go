package evexml

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// Credential is an API key pair. KeyID is the numeric key identifier in its
// textual form; VCode is the verification code. The verification code is a
// secret and is never written to logs by this package.
type Credential struct {
	KeyID string
	VCode string
}

// usable reports whether the pair can be attached to a request at all.
func (c *Credential) usable() bool {
	return c != nil && c.KeyID != "" && c.VCode != ""
}

// KeyType classifies an API key by the breadth of data it unlocks.
type KeyType string

// Key types reported by the key info endpoint.
const (
	KeyAccount     KeyType = "Account"
	KeyCharacter   KeyType = "Character"
	KeyCorporation KeyType = "Corporation"
)

// NeverExpires is the expiry reported for keys created without an expiry
// date. It orders after any concrete expiry under normal time comparison.
var NeverExpires = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// CharacterRef is one character listed on a key.
type CharacterRef struct {
	ID              int64
	Name            string
	CorporationID   int64
	CorporationName string
}

// KeyInfo is a key pair's resolved scope.
type KeyInfo struct {
	Type       KeyType
	AccessMask int64
	Expires    time.Time

	// Characters lists the characters the key unlocks. Empty for
	// corporation keys.
	Characters []CharacterRef

	// Corporations lists the corporation ids the key unlocks. Empty unless
	// Type is KeyCorporation.
	Corporations []int64
}

// ValidForCharacter reports whether the key unlocks authenticated character
// data for id. A key whose character list was never populated grants
// nothing.
func (k *KeyInfo) ValidForCharacter(id int64) bool {
	if k == nil {
		return false
	}
	for _, ref := range k.Characters {
		if ref.ID == id {
			return true
		}
	}
	return false
}

// ValidForCorporation reports whether the key unlocks authenticated
// corporation data for id, under the same unknown-means-no rule.
func (k *KeyInfo) ValidForCorporation(id int64) bool {
	if k == nil {
		return false
	}
	for _, corpID := range k.Corporations {
		if corpID == id {
			return true
		}
	}
	return false
}

// Expired reports whether the key's expiry has passed at the given time.
func (k *KeyInfo) Expired(now time.Time) bool {
	return k != nil && k.Expires.Before(now)
}

// keyInfoCache memoizes resolved scopes per key pair, so constructing many
// sessions over the same pair costs one remote call. Failed resolutions are
// not cached; a rejected pair stays uncached and a retry asks the API again.
type keyInfoCache struct {
	mu      sync.Mutex
	entries map[Credential]*KeyInfo
}

func newKeyInfoCache() *keyInfoCache {
	return &keyInfoCache{entries: make(map[Credential]*KeyInfo)}
}

// KeyInfo resolves cred's scope, at most once per key pair for this
// dispatcher. Concurrent resolutions of the same pair serialize here.
func (d *Dispatcher) KeyInfo(ctx context.Context, cred *Credential) (*KeyInfo, error) {
	if !cred.usable() {
		return nil, errors.Wrap(ErrMissingCredential, "resolving key info")
	}

	d.keys.mu.Lock()
	defer d.keys.mu.Unlock()
	if info, ok := d.keys.entries[*cred]; ok {
		return info, nil
	}

	res, err := d.Call(ctx, EndpointAPIKeyInfo, nil, cred)
	if err != nil {
		return nil, err
	}
	info, err := parseKeyInfo(res)
	if err != nil {
		return nil, err
	}
	d.keys.entries[*cred] = info
	return info, nil
}

// parseKeyInfo extracts the key element and its character rowset. The
// character list feeds character scope for account and character keys; for
// corporation keys the rows instead contribute the corporation scope.
func parseKeyInfo(res *Result) (*KeyInfo, error) {
	keyNodes := res.Nodes("key")
	if len(keyNodes) == 0 {
		return nil, errors.Newf("%s: response missing key element", res.Endpoint)
	}
	key := keyNodes[0]

	info := &KeyInfo{Expires: NeverExpires}
	if raw, ok := key.Attr("type"); ok {
		info.Type = KeyType(raw)
	}
	if raw, ok := key.Attr("accessMask"); ok && raw != "" {
		mask, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "parsing access mask")
		}
		info.AccessMask = mask
	}
	if raw, ok := key.Attr("expires"); ok && raw != "" {
		expires, err := parseEveTime(raw)
		if err != nil {
			return nil, errors.Wrap(err, "parsing key expiry")
		}
		info.Expires = expires
	}

	rows := key.Nodes("rowset[@name='characters']/row")
	refs := make([]CharacterRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, CharacterRef{
			ID:              attrInt(row, "characterID"),
			Name:            attr(row, "characterName"),
			CorporationID:   attrInt(row, "corporationID"),
			CorporationName: attr(row, "corporationName"),
		})
	}

	if info.Type == KeyCorporation {
		seen := make(map[int64]bool, len(refs))
		for _, ref := range refs {
			if ref.CorporationID != 0 && !seen[ref.CorporationID] {
				seen[ref.CorporationID] = true
				info.Corporations = append(info.Corporations, ref.CorporationID)
			}
		}
	} else {
		info.Characters = refs
	}
	return info, nil
}
