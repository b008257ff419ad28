package evexml

import (
	"context"
	"strconv"
	"time"
)

// Skill is one entry of the skill tree, a lookup-table kind: the whole tree
// is fetched at most once per Client and every skill resolves against that
// shared load.
type Skill struct {
	rec    record
	client *Client
	cred   *Credential
}

// Skill returns a lazy handle on the skill with the given type id.
func (c *Client) Skill(id int64) *Skill {
	return c.newSkill(nil, id, "")
}

// SkillNamed returns a lazy handle resolved by case-insensitive name match
// against the tree. A duplicated name resolves to the lowest type id.
func (c *Client) SkillNamed(name string) *Skill {
	return c.newSkill(nil, 0, name)
}

func (c *Client) newSkill(cred *Credential, id int64, name string) *Skill {
	sk := &Skill{client: c, cred: cred}
	sk.rec.init(KindSkill, id, name, c.caches.table(KindSkill), nil)
	sk.rec.resolve = sk.resolveFields
	return sk
}

func (sk *Skill) resolveFields(ctx context.Context) (int64, fieldSet, error) {
	if err := sk.client.ensureSkills(ctx, sk.cred); err != nil {
		return 0, nil, err
	}
	return adoptFromCollection(&sk.client.skills, sk.client.caches.table(KindSkill), sk.rec.id, sk.rec.name)
}

// ensureSkills loads the skill tree at most once per Client. The tree
// endpoint is public, so any credential is stripped on the wire.
func (c *Client) ensureSkills(ctx context.Context, cred *Credential) error {
	return c.skills.ensure(ctx, func(ctx context.Context) ([]int64, error) {
		return c.loadSkills(ctx, cred)
	})
}

// loadSkills fetches the tree and merges every skill into the identity
// cache. Skills are nested per group; the group's name and id are folded
// into each skill's fields.
func (c *Client) loadSkills(ctx context.Context, cred *Credential) ([]int64, error) {
	res, err := c.disp.Call(ctx, EndpointSkillTree, nil, cred)
	if err != nil {
		return nil, err
	}

	cache := c.caches.table(KindSkill)
	cachedUntil := ""
	if !res.CachedUntil.IsZero() {
		cachedUntil = formatEveTime(res.CachedUntil)
	}

	var ids []int64
	for _, group := range res.Rows("skillGroups") {
		groupID := attr(group, "groupID")
		groupName := attr(group, "groupName")
		for _, row := range group.Nodes("rowset[@name='skills']/row") {
			id := attrInt(row, "typeID")
			if id == 0 {
				continue
			}
			fields := fieldSet{
				"groupID":   groupID,
				"groupName": groupName,
			}
			if v, ok := row.Attr("typeName"); ok {
				fields["name"] = v
			}
			if v, ok := row.Attr("published"); ok {
				fields["published"] = v
			}
			if v, ok := row.Value("description"); ok {
				fields["description"] = v
			}
			if v, ok := row.Value("rank"); ok {
				fields["rank"] = v
			}
			if v, ok := row.Value("requiredAttributes/primaryAttribute"); ok {
				fields["primaryAttribute"] = v
			}
			if v, ok := row.Value("requiredAttributes/secondaryAttribute"); ok {
				fields["secondaryAttribute"] = v
			}
			if reqs := row.Nodes("rowset[@name='requiredSkills']/row"); len(reqs) > 0 {
				pairs := make([][2]string, 0, len(reqs))
				for _, req := range reqs {
					pairs = append(pairs, [2]string{attr(req, "typeID"), attr(req, "skillLevel")})
				}
				fields["requiredSkills"] = encodePairs(pairs)
			}
			if cachedUntil != "" {
				fields["cachedUntil"] = cachedUntil
			}
			cache.merge(id, fields)
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Skills returns every skill in the tree, ascending by type id.
func (c *Client) Skills(ctx context.Context) ([]*Skill, error) {
	if err := c.ensureSkills(ctx, nil); err != nil {
		return nil, err
	}
	ids := c.skills.snapshot()
	out := make([]*Skill, len(ids))
	for i, id := range ids {
		out[i] = c.newSkill(nil, id, "")
	}
	return out, nil
}

// Field returns the raw value of any resolved field by canonical name.
func (sk *Skill) Field(ctx context.Context, name string) (string, bool, error) {
	return sk.rec.Field(ctx, name)
}

// Resolved reports whether the skill has been resolved.
func (sk *Skill) Resolved() bool { return sk.rec.Resolved() }

// ID returns the skill's type id, forcing a tree load for name-keyed
// handles. 0 means the name matched nothing.
func (sk *Skill) ID(ctx context.Context) (int64, error) {
	return sk.rec.ID(ctx)
}

// CachedUntil returns the server-side cache expiry of the tree data.
func (sk *Skill) CachedUntil(ctx context.Context) (time.Time, error) {
	return sk.rec.CachedUntil(ctx)
}

// Name returns the skill's name.
func (sk *Skill) Name(ctx context.Context) (string, error) {
	return sk.rec.strField(ctx, "name")
}

// GroupID returns the id of the skill's group.
func (sk *Skill) GroupID(ctx context.Context) (int64, error) {
	return sk.rec.intField(ctx, "groupID")
}

// GroupName returns the name of the skill's group.
func (sk *Skill) GroupName(ctx context.Context) (string, error) {
	return sk.rec.strField(ctx, "groupName")
}

// Description returns the skill's description.
func (sk *Skill) Description(ctx context.Context) (string, error) {
	return sk.rec.strField(ctx, "description")
}

// Rank returns the skill's training time multiplier.
func (sk *Skill) Rank(ctx context.Context) (int64, error) {
	return sk.rec.intField(ctx, "rank")
}

// Published reports whether the skill is visible in game.
func (sk *Skill) Published(ctx context.Context) (bool, error) {
	return sk.rec.boolField(ctx, "published")
}

// PrimaryAttribute returns the skill's primary training attribute.
func (sk *Skill) PrimaryAttribute(ctx context.Context) (string, error) {
	return sk.rec.strField(ctx, "primaryAttribute")
}

// SecondaryAttribute returns the skill's secondary training attribute.
func (sk *Skill) SecondaryAttribute(ctx context.Context) (string, error) {
	return sk.rec.strField(ctx, "secondaryAttribute")
}

// SkillRequirement is one prerequisite of a skill.
type SkillRequirement struct {
	Skill  *Skill
	TypeID int64
	Level  int64
}

// RequiredSkills returns the skill's prerequisites as lazy handles into the
// same tree.
func (sk *Skill) RequiredSkills(ctx context.Context) ([]SkillRequirement, error) {
	raw, err := sk.rec.strField(ctx, "requiredSkills")
	if err != nil || raw == "" {
		return nil, err
	}

	pairs := decodePairs(raw)
	reqs := make([]SkillRequirement, 0, len(pairs))
	for _, p := range pairs {
		typeID, err := strconv.ParseInt(p[0], 10, 64)
		if err != nil || typeID == 0 {
			continue
		}
		level, _ := strconv.ParseInt(p[1], 10, 64)
		reqs = append(reqs, SkillRequirement{
			Skill:  sk.client.Skill(typeID),
			TypeID: typeID,
			Level:  level,
		})
	}
	return reqs, nil
}
