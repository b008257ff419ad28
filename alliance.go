package evexml

import (
	"context"
	"strconv"
	"time"
)

// Alliance is one entry of the alliance directory. The directory is a
// lookup-table kind: the whole listing is fetched at most once per Client
// and every alliance resolves against that shared load.
type Alliance struct {
	rec    record
	client *Client
	cred   *Credential
}

// Alliance returns a lazy handle on the alliance with the given id.
func (c *Client) Alliance(id int64) *Alliance {
	return c.newAlliance(nil, id, "")
}

// AllianceNamed returns a lazy handle resolved by case-insensitive name
// match against the directory. A name matching nothing resolves to an
// entity with no fields.
func (c *Client) AllianceNamed(name string) *Alliance {
	return c.newAlliance(nil, 0, name)
}

func (c *Client) newAlliance(cred *Credential, id int64, name string) *Alliance {
	a := &Alliance{client: c, cred: cred}
	a.rec.init(KindAlliance, id, name, c.caches.table(KindAlliance), nil)
	a.rec.resolve = a.resolveFields
	return a
}

// resolveFields loads the directory if needed and adopts this alliance's
// record from it.
func (a *Alliance) resolveFields(ctx context.Context) (int64, fieldSet, error) {
	if err := a.client.ensureAlliances(ctx, a.cred); err != nil {
		return 0, nil, err
	}
	return adoptFromCollection(&a.client.alliances, a.client.caches.table(KindAlliance), a.rec.id, a.rec.name)
}

// ensureAlliances loads the alliance directory at most once per Client. The
// directory endpoint is public, so any credential is stripped on the wire.
func (c *Client) ensureAlliances(ctx context.Context, cred *Credential) error {
	return c.alliances.ensure(ctx, func(ctx context.Context) ([]int64, error) {
		return c.loadAlliances(ctx, cred)
	})
}

// loadAlliances fetches the directory and merges every alliance into the
// identity cache, member corporation intervals included.
func (c *Client) loadAlliances(ctx context.Context, cred *Credential) ([]int64, error) {
	res, err := c.disp.Call(ctx, EndpointAllianceList, nil, cred)
	if err != nil {
		return nil, err
	}

	cache := c.caches.table(KindAlliance)
	cachedUntil := ""
	if !res.CachedUntil.IsZero() {
		cachedUntil = formatEveTime(res.CachedUntil)
	}

	rows := res.Rows("alliances")
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		id := attrInt(row, "allianceID")
		if id == 0 {
			continue
		}
		fields := fieldSet{}
		for _, name := range []string{"name", "shortName", "executorCorpID", "memberCount", "startDate"} {
			if v, ok := row.Attr(name); ok {
				fields[name] = v
			}
		}
		if members := row.Nodes("rowset[@name='memberCorporations']/row"); len(members) > 0 {
			pairs := make([][2]string, 0, len(members))
			for _, m := range members {
				pairs = append(pairs, [2]string{attr(m, "corporationID"), attr(m, "startDate")})
			}
			fields["memberCorporations"] = encodePairs(pairs)
		}
		if cachedUntil != "" {
			fields["cachedUntil"] = cachedUntil
		}
		cache.merge(id, fields)
		ids = append(ids, id)
	}
	return ids, nil
}

// Alliances returns the full directory, ascending by id.
func (c *Client) Alliances(ctx context.Context) ([]*Alliance, error) {
	return c.listAlliances(ctx, nil)
}

// Alliances returns the full directory through the session. The endpoint is
// public; the session's credential never reaches the wire.
func (s *Session) Alliances(ctx context.Context) ([]*Alliance, error) {
	return s.client.listAlliances(ctx, s.cred)
}

func (c *Client) listAlliances(ctx context.Context, cred *Credential) ([]*Alliance, error) {
	if err := c.ensureAlliances(ctx, cred); err != nil {
		return nil, err
	}
	ids := c.alliances.snapshot()
	out := make([]*Alliance, len(ids))
	for i, id := range ids {
		out[i] = c.newAlliance(cred, id, "")
	}
	return out, nil
}

// Field returns the raw value of any resolved field by canonical name.
func (a *Alliance) Field(ctx context.Context, name string) (string, bool, error) {
	return a.rec.Field(ctx, name)
}

// Resolved reports whether the alliance has been resolved.
func (a *Alliance) Resolved() bool { return a.rec.Resolved() }

// ID returns the alliance's numeric id, forcing a directory load for
// name-keyed handles. 0 means the name matched nothing.
func (a *Alliance) ID(ctx context.Context) (int64, error) {
	return a.rec.ID(ctx)
}

// CachedUntil returns the server-side cache expiry of the directory data.
func (a *Alliance) CachedUntil(ctx context.Context) (time.Time, error) {
	return a.rec.CachedUntil(ctx)
}

// Name returns the alliance's full name.
func (a *Alliance) Name(ctx context.Context) (string, error) {
	return a.rec.strField(ctx, "name")
}

// ShortName returns the alliance's ticker.
func (a *Alliance) ShortName(ctx context.Context) (string, error) {
	return a.rec.strField(ctx, "shortName")
}

// ExecutorCorpID returns the id of the alliance's executor corporation.
func (a *Alliance) ExecutorCorpID(ctx context.Context) (int64, error) {
	return a.rec.intField(ctx, "executorCorpID")
}

// MemberCount returns the alliance's member count.
func (a *Alliance) MemberCount(ctx context.Context) (int64, error) {
	return a.rec.intField(ctx, "memberCount")
}

// StartDate returns when the alliance was founded.
func (a *Alliance) StartDate(ctx context.Context) (time.Time, error) {
	return a.rec.timeField(ctx, "startDate")
}

// ExecutorCorporation returns the executor corporation as a lazy handle
// carrying this alliance's credential context, or nil when the directory
// lists none.
func (a *Alliance) ExecutorCorporation(ctx context.Context) (*Corporation, error) {
	id, err := a.rec.intField(ctx, "executorCorpID")
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	return a.client.newCorporation(a.cred, id, nil), nil
}

// MemberCorporations returns the alliance's member corporations with their
// join dates preset, so no extra call is needed merely to learn the
// interval.
func (a *Alliance) MemberCorporations(ctx context.Context) ([]*Corporation, error) {
	raw, err := a.rec.strField(ctx, "memberCorporations")
	if err != nil || raw == "" {
		return nil, err
	}

	pairs := decodePairs(raw)
	corps := make([]*Corporation, 0, len(pairs))
	for _, p := range pairs {
		id, err := strconv.ParseInt(p[0], 10, 64)
		if err != nil || id == 0 {
			continue
		}
		preset := fieldSet{}
		if p[1] != "" {
			preset["startDate"] = p[1]
		}
		corps = append(corps, a.client.newCorporation(a.cred, id, preset))
	}
	return corps, nil
}
