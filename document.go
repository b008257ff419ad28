package evexml

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Document is the read side of a parsed API response. Paths are slash
// separated element paths from the document root and may carry attribute
// filters, for example "eveapi/result/rowset[@name='characters']/row".
type Document interface {
	// Value returns the trimmed text of the first element matching path.
	// The second return is false when no element matches.
	Value(path string) (string, bool)

	// Nodes returns every element matching path, in document order.
	Nodes(path string) []Node
}

// Node is one element of a Document.
type Node interface {
	// Attr returns the named attribute. The second return is false when the
	// attribute is not present.
	Attr(name string) (string, bool)

	// Text returns the element's trimmed character data.
	Text() string

	// Value and Nodes mirror Document but resolve paths relative to this
	// element.
	Value(path string) (string, bool)
	Nodes(path string) []Node
}

// ParseFunc turns a response body into a Document. The dispatcher uses
// ParseXML unless configured otherwise; tests substitute their own.
type ParseFunc func(body []byte) (Document, error)

// eveTimeLayout is the API's timestamp format. All values are UTC with no
// zone designator.
const eveTimeLayout = "2006-01-02 15:04:05"

// parseEveTime parses an API timestamp.
func parseEveTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(eveTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing timestamp %q", s)
	}
	return t, nil
}

// formatEveTime renders t in the API's timestamp format.
func formatEveTime(t time.Time) string {
	return t.UTC().Format(eveTimeLayout)
}
