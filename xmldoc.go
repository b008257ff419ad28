package evexml

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/cockroachdb/errors"
)

// xmlDocument adapts an etree document to the Document interface.
type xmlDocument struct {
	doc *etree.Document
}

// xmlNode adapts an etree element to the Node interface.
type xmlNode struct {
	el *etree.Element
}

// ParseXML parses body into a Document backed by etree.
func ParseXML(body []byte) (Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, errors.Wrap(err, "parsing xml document")
	}
	return &xmlDocument{doc: doc}, nil
}

// Value implements Document.
func (d *xmlDocument) Value(path string) (string, bool) {
	el := d.doc.FindElement(path)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}

// Nodes implements Document.
func (d *xmlDocument) Nodes(path string) []Node {
	return wrapElements(d.doc.FindElements(path))
}

// Attr implements Node.
func (n *xmlNode) Attr(name string) (string, bool) {
	attr := n.el.SelectAttr(name)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// Text implements Node.
func (n *xmlNode) Text() string {
	return strings.TrimSpace(n.el.Text())
}

// Value implements Node.
func (n *xmlNode) Value(path string) (string, bool) {
	el := n.el.FindElement(path)
	if el == nil {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}

// Nodes implements Node.
func (n *xmlNode) Nodes(path string) []Node {
	return wrapElements(n.el.FindElements(path))
}

func wrapElements(els []*etree.Element) []Node {
	if len(els) == 0 {
		return nil
	}
	nodes := make([]Node, len(els))
	for i, el := range els {
		nodes[i] = &xmlNode{el: el}
	}
	return nodes
}
