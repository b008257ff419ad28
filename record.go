package evexml

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// Kind names one entity family. Each kind has its own identity cache table.
type Kind string

// Entity kinds served by this package.
const (
	KindCharacter   Kind = "character"
	KindCorporation Kind = "corporation"
	KindAlliance    Kind = "alliance"
	KindSkill       Kind = "skill"
	KindCertificate Kind = "certificate"
)

// fieldSet holds an entity's attributes as strings keyed by canonical field
// name. Values keep the API's textual form; typed accessors parse on read.
type fieldSet map[string]string

// merge copies fields from other that are not already set. Values already
// present are never overwritten.
func (fs fieldSet) merge(other fieldSet) {
	for k, v := range other {
		if _, ok := fs[k]; !ok {
			fs[k] = v
		}
	}
}

// clone returns an independent copy.
func (fs fieldSet) clone() fieldSet {
	out := make(fieldSet, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}

// List-valued attributes travel through the field set as one string so the
// identity cache stays a flat map. Entries are joined with ";", an entry's
// id and payload with ":". Payloads may contain ":" themselves (timestamps
// do), so decoding cuts each entry only once.

func encodePairs(pairs [][2]string) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p[0] + ":" + p[1]
	}
	return strings.Join(parts, ";")
}

func decodePairs(s string) [][2]string {
	if s == "" {
		return nil
	}
	entries := strings.Split(s, ";")
	out := make([][2]string, 0, len(entries))
	for _, e := range entries {
		k, v, _ := strings.Cut(e, ":")
		out = append(out, [2]string{k, v})
	}
	return out
}

func encodeInts(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ";")
}

func decodeInts(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ";")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

// resolveFunc fetches an entity's fields. It returns the entity's numeric id
// (possibly discovered during a name lookup) and the field set parsed from
// the response. It must not touch the record itself; the record merges the
// result under its own lock.
type resolveFunc func(ctx context.Context) (int64, fieldSet, error)

// record is the resolvable core embedded in every entity type.
//
// Fields are write-once: the first value stored under a name wins for the
// life of the instance. Resolution runs at most once per instance and only
// on the first read of an unset field; a failed attempt leaves the record
// unresolved so a later read can retry. Reads after resolution are local,
// including reads of fields that stayed absent.
type record struct {
	mu       sync.Mutex
	kind     Kind
	id       int64
	name     string
	fields   fieldSet
	resolved bool
	resolve  resolveFunc
	cache    *identityCache
}

// init prepares the record in place. Entities call it from their
// constructors and assign resolve afterwards.
func (r *record) init(kind Kind, id int64, name string, cache *identityCache, preset fieldSet) {
	r.kind = kind
	r.id = id
	r.name = name
	r.cache = cache
	r.fields = make(fieldSet, len(preset)+4)
	r.fields.merge(preset)
}

// value returns the named field, resolving the record first when needed.
// The lock is held across resolution, which serializes concurrent readers
// of the same instance and preserves at-most-once resolution.
func (r *record) value(ctx context.Context, name string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.fields[name]; ok {
		return v, true, nil
	}
	if r.resolved {
		return "", false, nil
	}

	// Another instance may have resolved this id already.
	if r.id != 0 && r.cache != nil {
		if cached, ok := r.cache.get(r.id); ok {
			r.fields.merge(cached)
			r.resolved = true
			v, ok := r.fields[name]
			return v, ok, nil
		}
	}

	if r.resolve == nil {
		r.resolved = true
		return "", false, nil
	}

	id, fetched, err := r.resolve(ctx)
	if err != nil {
		return "", false, err
	}
	if r.id == 0 {
		r.id = id
	}
	r.fields.merge(fetched)
	if r.id != 0 && r.cache != nil {
		r.cache.merge(r.id, fetched)
	}
	r.resolved = true

	v, ok := r.fields[name]
	return v, ok, nil
}

// Field returns the raw textual value of the named field, resolving the
// record on first access. ok is false when the field is absent after
// resolution; that is not an error.
func (r *record) Field(ctx context.Context, name string) (value string, ok bool, err error) {
	return r.value(ctx, name)
}

// Resolved reports whether resolution has completed.
func (r *record) Resolved() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved
}

// ID returns the entity's numeric id, forcing resolution for name-keyed
// instances. It returns 0 when the name matched nothing.
func (r *record) ID(ctx context.Context) (int64, error) {
	r.mu.Lock()
	id := r.id
	r.mu.Unlock()
	if id != 0 {
		return id, nil
	}
	if _, _, err := r.value(ctx, "name"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id, nil
}

// CachedUntil returns the server-side cache expiry for the data behind this
// entity, when the response carried one.
func (r *record) CachedUntil(ctx context.Context) (time.Time, error) {
	return r.timeField(ctx, "cachedUntil")
}

// strField returns the named field's text, or "" when absent.
func (r *record) strField(ctx context.Context, name string) (string, error) {
	v, _, err := r.value(ctx, name)
	return v, err
}

// intField parses the named field as an integer, 0 when absent.
func (r *record) intField(ctx context.Context, name string) (int64, error) {
	v, ok, err := r.value(ctx, name)
	if err != nil || !ok || v == "" {
		return 0, err
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing field %s", name)
	}
	return n, nil
}

// floatField parses the named field as a float, 0 when absent.
func (r *record) floatField(ctx context.Context, name string) (float64, error) {
	v, ok, err := r.value(ctx, name)
	if err != nil || !ok || v == "" {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing field %s", name)
	}
	return f, nil
}

// boolField reports a truthy field, "1" or "true".
func (r *record) boolField(ctx context.Context, name string) (bool, error) {
	v, ok, err := r.value(ctx, name)
	if err != nil || !ok {
		return false, err
	}
	return v == "1" || strings.EqualFold(v, "true"), nil
}

// timeField parses the named field as an API timestamp, zero when absent or
// empty.
func (r *record) timeField(ctx context.Context, name string) (time.Time, error) {
	v, ok, err := r.value(ctx, name)
	if err != nil || !ok || v == "" {
		return time.Time{}, err
	}
	t, err := parseEveTime(v)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing field %s", name)
	}
	return t, nil
}
