// Package catalog parses raw catalog XML (MARCXML or Atom) into an element
// tree that field rules can be evaluated against.
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/lehigh-university-libraries/hepbib/hub"
)

// Kind describes the shape of a parsed catalog document.
type Kind string

const (
	KindMARCXML Kind = "marcxml"
	KindAtom    Kind = "atom"
	KindUnknown Kind = "unknown"
)

// Document is a parsed catalog record. It is never mutated after Parse.
type Document struct {
	record *etree.Element
	kind   Kind
}

// Record returns the element queries are evaluated against: the first
// MARC <record> or Atom <entry>, or the root when neither is present.
func (d *Document) Record() *etree.Element {
	return d.record
}

// Kind reports whether the document is MARCXML or Atom.
func (d *Document) Kind() Kind {
	return d.kind
}

// Parse reads an XML catalog document. Any decoding failure, or input
// without a single root element, is reported as hub.ErrMalformedDocument.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes is like Parse for an in-memory document.
func ParseBytes(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty input", hub.ErrMalformedDocument)
	}

	tree := etree.NewDocument()
	// Catalog exports are not always declared UTF-8; pass bytes through.
	tree.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", hub.ErrMalformedDocument, err)
	}

	switch n := len(tree.ChildElements()); {
	case n == 0:
		return nil, fmt.Errorf("%w: no root element", hub.ErrMalformedDocument)
	case n > 1:
		return nil, fmt.Errorf("%w: multiple root elements", hub.ErrMalformedDocument)
	}

	root := tree.Root()
	doc := &Document{record: root, kind: KindUnknown}
	if rec := first(root, "record"); rec != nil {
		doc.record = rec
		doc.kind = KindMARCXML
	} else if entry := first(root, "entry"); entry != nil {
		doc.record = entry
		doc.kind = KindAtom
	} else if root.Tag == "feed" {
		doc.kind = KindAtom
	}

	return doc, nil
}

// first returns the first element (depth-first, document order) with the
// given local name, including e itself.
func first(e *etree.Element, tag string) *etree.Element {
	if e.Tag == tag {
		return e
	}
	for _, ch := range e.ChildElements() {
		if found := first(ch, tag); found != nil {
			return found
		}
	}
	return nil
}

// childrenNamed returns the direct children with the given local name,
// whatever their namespace prefix.
func childrenNamed(e *etree.Element, tag string) []*etree.Element {
	var result []*etree.Element
	for _, ch := range e.ChildElements() {
		if ch.Tag == tag {
			result = append(result, ch)
		}
	}
	return result
}

// attr returns the value of the attribute with the given local name.
func attr(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// Text returns the character data of e and all of its descendants,
// concatenated in document order.
func Text(e *etree.Element) string {
	var sb strings.Builder
	collectText(e, &sb)
	return sb.String()
}

func collectText(e *etree.Element, sb *strings.Builder) {
	sb.WriteString(e.Text())
	for _, ch := range e.ChildElements() {
		collectText(ch, sb)
		sb.WriteString(ch.Tail())
	}
}
