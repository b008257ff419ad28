package evexml

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Character is a pilot, bound to a session. Resolution always fetches the
// public profile; when the session's key covers the character it fetches
// the authenticated sheet in the same pass, so one instance costs at most
// two remote calls.
type Character struct {
	rec     record
	session *Session
}

// Character returns a lazy handle on the character with the given id.
// Construction never touches the network.
func (s *Session) Character(id int64) *Character {
	return s.newCharacter(id, nil)
}

func (s *Session) newCharacter(id int64, preset fieldSet) *Character {
	c := &Character{session: s}
	c.rec.init(KindCharacter, id, "", s.client.caches.table(KindCharacter), preset)
	c.rec.resolve = c.resolveFields
	return c
}

// Characters lists the characters on the session's account. Each entry is
// pre-seeded with the name and corporation from the listing; everything
// else resolves lazily.
func (s *Session) Characters(ctx context.Context) ([]*Character, error) {
	res, err := s.client.disp.Call(ctx, EndpointCharacters, nil, s.cred)
	if err != nil {
		return nil, err
	}

	rows := res.Rows("characters")
	chars := make([]*Character, 0, len(rows))
	for _, row := range rows {
		id := attrInt(row, "characterID")
		if id == 0 {
			continue
		}
		preset := fieldSet{}
		if v, ok := row.Attr("name"); ok {
			preset["name"] = v
		}
		if v, ok := row.Attr("corporationID"); ok {
			preset["corporationID"] = v
		}
		if v, ok := row.Attr("corporationName"); ok {
			preset["corporationName"] = v
		}
		chars = append(chars, s.newCharacter(id, preset))
	}
	return chars, nil
}

// resolveFields resolves the key scope first, then fetches the public
// profile and, when the key covers this character, the authenticated sheet.
// Both documents fold into one field set; nothing is kept from a pass that
// did not fully succeed.
func (c *Character) resolveFields(ctx context.Context) (int64, fieldSet, error) {
	id := c.rec.id
	params := map[string]string{"character_id": strconv.FormatInt(id, 10)}

	info, err := c.session.KeyInfo(ctx)
	if err != nil {
		return 0, nil, err
	}

	res, err := c.session.client.disp.Call(ctx, EndpointCharacterInfo, params, c.session.cred)
	if err != nil {
		return 0, nil, err
	}
	fields := parseCharacterInfo(res)

	if info.ValidForCharacter(id) {
		sheet, err := c.session.client.disp.Call(ctx, EndpointCharacterSheet, params, c.session.cred)
		if err != nil {
			return 0, nil, err
		}
		fields.merge(parseCharacterSheet(sheet))
	}
	return id, fields, nil
}

// characterInfoFields maps the public profile's element names to canonical
// field names. Canonical names follow the sheet endpoint where the two
// documents describe the same fact.
var characterInfoFields = map[string]string{
	"characterName":     "name",
	"race":              "race",
	"bloodline":         "bloodline",
	"corporationID":     "corporationID",
	"corporation":       "corporationName",
	"corporationDate":   "corporationDate",
	"alliance":          "allianceName",
	"allianceID":        "allianceID",
	"allianceDate":      "allianceDate",
	"securityStatus":    "securityStatus",
	"accountBalance":    "balance",
	"skillPoints":       "skillPoints",
	"shipName":          "shipName",
	"shipTypeID":        "shipTypeID",
	"shipTypeName":      "shipTypeName",
	"lastKnownLocation": "lastKnownLocation",
}

func parseCharacterInfo(res *Result) fieldSet {
	fields := fieldSet{}
	for wire, canonical := range characterInfoFields {
		if v, ok := res.Value(wire); ok && v != "" {
			fields[canonical] = v
		}
	}
	if rows := res.Rows("employmentHistory"); len(rows) > 0 {
		pairs := make([][2]string, 0, len(rows))
		for _, row := range rows {
			pairs = append(pairs, [2]string{attr(row, "corporationID"), attr(row, "startDate")})
		}
		fields["employmentHistory"] = encodePairs(pairs)
	}
	if !res.CachedUntil.IsZero() {
		fields["cachedUntil"] = formatEveTime(res.CachedUntil)
	}
	return fields
}

// characterSheetFields maps the authenticated sheet's element names to
// canonical field names.
var characterSheetFields = map[string]string{
	"name":             "name",
	"DoB":              "dateOfBirth",
	"race":             "race",
	"bloodLine":        "bloodline",
	"ancestry":         "ancestry",
	"gender":           "gender",
	"corporationName":  "corporationName",
	"corporationID":    "corporationID",
	"allianceName":     "allianceName",
	"allianceID":       "allianceID",
	"cloneName":        "cloneName",
	"cloneSkillPoints": "cloneSkillPoints",
	"balance":          "balance",

	"attributes/intelligence": "intelligence",
	"attributes/memory":       "memory",
	"attributes/charisma":     "charisma",
	"attributes/perception":   "perception",
	"attributes/willpower":    "willpower",
}

func parseCharacterSheet(res *Result) fieldSet {
	fields := fieldSet{}
	for wire, canonical := range characterSheetFields {
		if v, ok := res.Value(wire); ok && v != "" {
			fields[canonical] = v
		}
	}

	if rows := res.Rows("skills"); len(rows) > 0 {
		pairs := make([][2]string, 0, len(rows))
		for _, row := range rows {
			pairs = append(pairs, [2]string{
				attr(row, "typeID"),
				attr(row, "level") + ":" + attr(row, "skillpoints"),
			})
		}
		fields["skills"] = encodePairs(pairs)
	}
	if rows := res.Rows("certificates"); len(rows) > 0 {
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			if id := attrInt(row, "certificateID"); id != 0 {
				ids = append(ids, id)
			}
		}
		fields["certificates"] = encodeInts(ids)
	}
	return fields
}

// Field returns the raw value of any resolved field by canonical name.
func (c *Character) Field(ctx context.Context, name string) (string, bool, error) {
	return c.rec.Field(ctx, name)
}

// Resolved reports whether the character has been resolved.
func (c *Character) Resolved() bool { return c.rec.Resolved() }

// ID returns the character's numeric id.
func (c *Character) ID() int64 { return c.rec.id }

// CachedUntil returns the server-side cache expiry of the profile data.
func (c *Character) CachedUntil(ctx context.Context) (time.Time, error) {
	return c.rec.CachedUntil(ctx)
}

// Name returns the character's name.
func (c *Character) Name(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "name")
}

// Race returns the character's race.
func (c *Character) Race(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "race")
}

// Bloodline returns the character's bloodline.
func (c *Character) Bloodline(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "bloodline")
}

// Ancestry returns the character's ancestry. Sheet data; absent without a
// covering key.
func (c *Character) Ancestry(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "ancestry")
}

// Gender returns the character's gender. Sheet data.
func (c *Character) Gender(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "gender")
}

// DateOfBirth returns the character's creation date. Sheet data.
func (c *Character) DateOfBirth(ctx context.Context) (time.Time, error) {
	return c.rec.timeField(ctx, "dateOfBirth")
}

// SecurityStatus returns the character's security standing.
func (c *Character) SecurityStatus(ctx context.Context) (float64, error) {
	return c.rec.floatField(ctx, "securityStatus")
}

// CorporationID returns the id of the character's current corporation.
func (c *Character) CorporationID(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "corporationID")
}

// CorporationName returns the name of the character's current corporation.
func (c *Character) CorporationName(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "corporationName")
}

// CorporationDate returns when the character joined their current
// corporation.
func (c *Character) CorporationDate(ctx context.Context) (time.Time, error) {
	return c.rec.timeField(ctx, "corporationDate")
}

// AllianceID returns the character's alliance id, 0 when not in one.
func (c *Character) AllianceID(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "allianceID")
}

// AllianceName returns the character's alliance name.
func (c *Character) AllianceName(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "allianceName")
}

// Balance returns the character's wallet balance. Authenticated data;
// absent without a covering key.
func (c *Character) Balance(ctx context.Context) (float64, error) {
	return c.rec.floatField(ctx, "balance")
}

// SkillPoints returns the character's total skill points. Authenticated
// data.
func (c *Character) SkillPoints(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "skillPoints")
}

// CloneName returns the character's medical clone grade. Sheet data.
func (c *Character) CloneName(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "cloneName")
}

// CloneSkillPoints returns the clone's skill point capacity. Sheet data.
func (c *Character) CloneSkillPoints(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "cloneSkillPoints")
}

// ShipName returns the name of the ship the character was last seen in.
func (c *Character) ShipName(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "shipName")
}

// ShipTypeID returns the hull type id of that ship.
func (c *Character) ShipTypeID(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "shipTypeID")
}

// ShipTypeName returns the hull type name of that ship.
func (c *Character) ShipTypeName(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "shipTypeName")
}

// LastKnownLocation returns the character's last seen location.
func (c *Character) LastKnownLocation(ctx context.Context) (string, error) {
	return c.rec.strField(ctx, "lastKnownLocation")
}

// Intelligence returns the intelligence attribute. Sheet data.
func (c *Character) Intelligence(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "intelligence")
}

// Memory returns the memory attribute. Sheet data.
func (c *Character) Memory(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "memory")
}

// Charisma returns the charisma attribute. Sheet data.
func (c *Character) Charisma(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "charisma")
}

// Perception returns the perception attribute. Sheet data.
func (c *Character) Perception(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "perception")
}

// Willpower returns the willpower attribute. Sheet data.
func (c *Character) Willpower(ctx context.Context) (int64, error) {
	return c.rec.intField(ctx, "willpower")
}

// Corporation returns the character's current corporation, seeded with the
// name already known from the profile. Returns nil when the corporation id
// is absent.
func (c *Character) Corporation(ctx context.Context) (*Corporation, error) {
	id, err := c.rec.intField(ctx, "corporationID")
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	preset := fieldSet{}
	if name, err := c.rec.strField(ctx, "corporationName"); err == nil && name != "" {
		preset["name"] = name
	}
	return c.session.client.newCorporation(c.session.cred, id, preset), nil
}

// Alliance returns the character's alliance, or nil when not in one.
func (c *Character) Alliance(ctx context.Context) (*Alliance, error) {
	id, err := c.rec.intField(ctx, "allianceID")
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	return c.session.client.newAlliance(c.session.cred, id, ""), nil
}

// TrainedSkill is one skill the character has trained, with the level and
// points reached.
type TrainedSkill struct {
	Skill  *Skill
	TypeID int64
	Level  int64
	Points int64
}

// Skills returns the character's trained skills. Sheet data: without a
// covering key the list is empty.
func (c *Character) Skills(ctx context.Context) ([]TrainedSkill, error) {
	raw, err := c.rec.strField(ctx, "skills")
	if err != nil || raw == "" {
		return nil, err
	}

	entries := decodePairs(raw)
	skills := make([]TrainedSkill, 0, len(entries))
	for _, entry := range entries {
		typeID, err := strconv.ParseInt(entry[0], 10, 64)
		if err != nil || typeID == 0 {
			continue
		}
		levelRaw, pointsRaw, _ := strings.Cut(entry[1], ":")
		level, _ := strconv.ParseInt(levelRaw, 10, 64)
		points, _ := strconv.ParseInt(pointsRaw, 10, 64)
		skills = append(skills, TrainedSkill{
			Skill:  c.session.client.Skill(typeID),
			TypeID: typeID,
			Level:  level,
			Points: points,
		})
	}
	return skills, nil
}

// Certificates returns the certificates awarded to the character. Sheet
// data: without a covering key the list is empty.
func (c *Character) Certificates(ctx context.Context) ([]*Certificate, error) {
	raw, err := c.rec.strField(ctx, "certificates")
	if err != nil || raw == "" {
		return nil, err
	}

	ids := decodeInts(raw)
	certs := make([]*Certificate, 0, len(ids))
	for _, id := range ids {
		certs = append(certs, c.session.client.Certificate(id))
	}
	return certs, nil
}

// Corporations returns the character's employment history, most recent
// first. Each corporation carries an inferred employment interval: a stint
// ends one second before the next more recent stint begins, and the current
// employer has no end date. A corporation can appear more than once when
// the character rejoined it; duplicates are kept.
func (c *Character) Corporations(ctx context.Context) ([]*Corporation, error) {
	raw, err := c.rec.strField(ctx, "employmentHistory")
	if err != nil || raw == "" {
		return nil, err
	}

	type stint struct {
		corpID int64
		start  time.Time
	}
	entries := decodePairs(raw)
	stints := make([]stint, 0, len(entries))
	for _, entry := range entries {
		corpID, err := strconv.ParseInt(entry[0], 10, 64)
		if err != nil || corpID == 0 {
			continue
		}
		start, err := parseEveTime(entry[1])
		if err != nil {
			return nil, errors.Wrapf(err, "employment record for corporation %d", corpID)
		}
		stints = append(stints, stint{corpID: corpID, start: start})
	}
	sort.Slice(stints, func(i, j int) bool { return stints[i].start.After(stints[j].start) })

	corps := make([]*Corporation, 0, len(stints))
	for i, st := range stints {
		preset := fieldSet{"startDate": formatEveTime(st.start)}
		if i > 0 {
			preset["endDate"] = formatEveTime(stints[i-1].start.Add(-time.Second))
		}
		corps = append(corps, c.session.client.newCorporation(c.session.cred, st.corpID, preset))
	}
	return corps, nil
}

func (c *Character) params() map[string]string {
	return map[string]string{"character_id": strconv.FormatInt(c.rec.id, 10)}
}

// SkillQueueEntry is one row of the character's training queue. Start and
// end times are zero while the queue is paused.
type SkillQueueEntry struct {
	Position  int64
	Skill     *Skill
	TypeID    int64
	Level     int64
	StartSP   int64
	EndSP     int64
	StartTime time.Time
	EndTime   time.Time
}

// SkillQueue fetches the character's training queue ordered by position.
// Fetched per call, not cached on the entity.
func (c *Character) SkillQueue(ctx context.Context) ([]SkillQueueEntry, error) {
	res, err := c.session.client.disp.Call(ctx, EndpointSkillQueue, c.params(), c.session.cred)
	if err != nil {
		return nil, err
	}

	rows := res.Rows("skillqueue")
	queue := make([]SkillQueueEntry, 0, len(rows))
	for _, row := range rows {
		typeID := attrInt(row, "typeID")
		if typeID == 0 {
			continue
		}
		entry := SkillQueueEntry{
			Position: attrInt(row, "queuePosition"),
			Skill:    c.session.client.Skill(typeID),
			TypeID:   typeID,
			Level:    attrInt(row, "level"),
			StartSP:  attrInt(row, "startSP"),
			EndSP:    attrInt(row, "endSP"),
		}
		if raw := attr(row, "startTime"); raw != "" {
			if t, err := parseEveTime(raw); err == nil {
				entry.StartTime = t
			}
		}
		if raw := attr(row, "endTime"); raw != "" {
			if t, err := parseEveTime(raw); err == nil {
				entry.EndTime = t
			}
		}
		queue = append(queue, entry)
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i].Position < queue[j].Position })
	return queue, nil
}

// TrainingSkill describes the skill currently training.
type TrainingSkill struct {
	Skill     *Skill
	TypeID    int64
	ToLevel   int64
	StartSP   int64
	DestSP    int64
	StartTime time.Time
	EndTime   time.Time
}

// SkillInTraining fetches the skill currently training, or nil when the
// queue is idle. Fetched per call, not cached on the entity.
func (c *Character) SkillInTraining(ctx context.Context) (*TrainingSkill, error) {
	res, err := c.session.client.disp.Call(ctx, EndpointSkillInTraining, c.params(), c.session.cred)
	if err != nil {
		return nil, err
	}

	if active, ok := res.Value("skillInTraining"); !ok || active == "0" {
		return nil, nil
	}
	typeID := int64(0)
	if raw, ok := res.Value("trainingTypeID"); ok {
		typeID, _ = strconv.ParseInt(raw, 10, 64)
	}
	training := &TrainingSkill{
		Skill:  c.session.client.Skill(typeID),
		TypeID: typeID,
	}
	if raw, ok := res.Value("trainingToLevel"); ok {
		training.ToLevel, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw, ok := res.Value("trainingStartSP"); ok {
		training.StartSP, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw, ok := res.Value("trainingDestinationSP"); ok {
		training.DestSP, _ = strconv.ParseInt(raw, 10, 64)
	}
	if raw, ok := res.Value("trainingStartTime"); ok && raw != "" {
		if t, err := parseEveTime(raw); err == nil {
			training.StartTime = t
		}
	}
	if raw, ok := res.Value("trainingEndTime"); ok && raw != "" {
		if t, err := parseEveTime(raw); err == nil {
			training.EndTime = t
		}
	}
	return training, nil
}
