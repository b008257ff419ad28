package evexml

import (
	"context"
	"strconv"
	"time"
)

// Corporation is a player corporation, resolved through the corporation
// sheet. The sheet is a scope-conditional endpoint: without a covering key
// the public version is fetched, which omits member detail.
type Corporation struct {
	rec    record
	client *Client
	cred   *Credential
}

// Corporation returns a lazy handle resolved through the public sheet.
func (c *Client) Corporation(id int64) *Corporation {
	return c.newCorporation(nil, id, nil)
}

// Corporation returns a lazy handle carrying the session's credential, so
// the authenticated sheet is used when the key covers the corporation.
func (s *Session) Corporation(id int64) *Corporation {
	return s.client.newCorporation(s.cred, id, nil)
}

func (c *Client) newCorporation(cred *Credential, id int64, preset fieldSet) *Corporation {
	corp := &Corporation{client: c, cred: cred}
	corp.rec.init(KindCorporation, id, "", c.caches.table(KindCorporation), preset)
	corp.rec.resolve = corp.resolveFields
	return corp
}

func (corp *Corporation) resolveFields(ctx context.Context) (int64, fieldSet, error) {
	params := map[string]string{"corporation_id": strconv.FormatInt(corp.rec.id, 10)}
	res, err := corp.client.disp.Call(ctx, EndpointCorporationSheet, params, corp.cred)
	if err != nil {
		return 0, nil, err
	}
	return corp.rec.id, parseCorporationSheet(res), nil
}

// corporationSheetFields maps the sheet's element names to canonical field
// names.
var corporationSheetFields = map[string]string{
	"corporationName": "name",
	"ticker":          "ticker",
	"ceoID":           "ceoID",
	"ceoName":         "ceoName",
	"stationID":       "stationID",
	"stationName":     "stationName",
	"description":     "description",
	"url":             "url",
	"allianceID":      "allianceID",
	"allianceName":    "allianceName",
	"taxRate":         "taxRate",
	"memberCount":     "memberCount",
	"memberLimit":     "memberLimit",
	"shares":          "shares",
}

func parseCorporationSheet(res *Result) fieldSet {
	fields := fieldSet{}
	for wire, canonical := range corporationSheetFields {
		if v, ok := res.Value(wire); ok && v != "" {
			fields[canonical] = v
		}
	}
	if !res.CachedUntil.IsZero() {
		fields["cachedUntil"] = formatEveTime(res.CachedUntil)
	}
	return fields
}

// Field returns the raw value of any resolved field by canonical name.
func (corp *Corporation) Field(ctx context.Context, name string) (string, bool, error) {
	return corp.rec.Field(ctx, name)
}

// Resolved reports whether the corporation has been resolved.
func (corp *Corporation) Resolved() bool { return corp.rec.Resolved() }

// ID returns the corporation's numeric id.
func (corp *Corporation) ID() int64 { return corp.rec.id }

// CachedUntil returns the server-side cache expiry of the sheet data.
func (corp *Corporation) CachedUntil(ctx context.Context) (time.Time, error) {
	return corp.rec.CachedUntil(ctx)
}

// Name returns the corporation's name.
func (corp *Corporation) Name(ctx context.Context) (string, error) {
	return corp.rec.strField(ctx, "name")
}

// Ticker returns the corporation's ticker.
func (corp *Corporation) Ticker(ctx context.Context) (string, error) {
	return corp.rec.strField(ctx, "ticker")
}

// CEOID returns the id of the corporation's CEO.
func (corp *Corporation) CEOID(ctx context.Context) (int64, error) {
	return corp.rec.intField(ctx, "ceoID")
}

// CEOName returns the name of the corporation's CEO.
func (corp *Corporation) CEOName(ctx context.Context) (string, error) {
	return corp.rec.strField(ctx, "ceoName")
}

// StationID returns the id of the corporation's home station.
func (corp *Corporation) StationID(ctx context.Context) (int64, error) {
	return corp.rec.intField(ctx, "stationID")
}

// StationName returns the name of the corporation's home station.
func (corp *Corporation) StationName(ctx context.Context) (string, error) {
	return corp.rec.strField(ctx, "stationName")
}

// Description returns the corporation's description.
func (corp *Corporation) Description(ctx context.Context) (string, error) {
	return corp.rec.strField(ctx, "description")
}

// URL returns the corporation's home page.
func (corp *Corporation) URL(ctx context.Context) (string, error) {
	return corp.rec.strField(ctx, "url")
}

// AllianceID returns the corporation's alliance id, 0 when not in one.
func (corp *Corporation) AllianceID(ctx context.Context) (int64, error) {
	return corp.rec.intField(ctx, "allianceID")
}

// AllianceName returns the corporation's alliance name.
func (corp *Corporation) AllianceName(ctx context.Context) (string, error) {
	return corp.rec.strField(ctx, "allianceName")
}

// TaxRate returns the corporation's tax rate.
func (corp *Corporation) TaxRate(ctx context.Context) (float64, error) {
	return corp.rec.floatField(ctx, "taxRate")
}

// MemberCount returns the corporation's member count.
func (corp *Corporation) MemberCount(ctx context.Context) (int64, error) {
	return corp.rec.intField(ctx, "memberCount")
}

// Shares returns the corporation's issued shares. Authenticated data;
// absent without a covering key.
func (corp *Corporation) Shares(ctx context.Context) (int64, error) {
	return corp.rec.intField(ctx, "shares")
}

// StartDate returns the start of an employment or membership interval, for
// handles produced by an employment history or an alliance member listing.
// Zero for handles constructed directly by id.
func (corp *Corporation) StartDate(ctx context.Context) (time.Time, error) {
	return corp.rec.timeField(ctx, "startDate")
}

// EndDate returns the end of an employment interval. Zero means the
// interval is still open, the current employer case.
func (corp *Corporation) EndDate(ctx context.Context) (time.Time, error) {
	return corp.rec.timeField(ctx, "endDate")
}

// Alliance returns the corporation's alliance as a lazy handle carrying
// this corporation's credential context, or nil when the corporation is not
// in an alliance.
func (corp *Corporation) Alliance(ctx context.Context) (*Alliance, error) {
	id, err := corp.rec.intField(ctx, "allianceID")
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	return corp.client.newAlliance(corp.cred, id, ""), nil
}
