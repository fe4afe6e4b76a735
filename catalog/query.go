package catalog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

var (
	// 773p, 001, 037a[9=arXiv]
	marcQueryRegex = regexp.MustCompile(`^(\d{3})([0-9a-zA-Z])?(?:\[([0-9a-zA-Z])=([^\]]*)\])?$`)

	// name or name[attr=value]
	pathStepRegex = regexp.MustCompile(`^([A-Za-z_][\w.\-]*)(?:\[([A-Za-z_][\w.\-]*)=([^\]]*)\])?$`)
)

// Step is one element of a path query.
type Step struct {
	Name      string
	AttrName  string
	AttrValue string
}

// Query is a single lookup against a catalog record.
//
// MARC queries address control fields ("001") or datafield subfields
// ("773p"), optionally restricted by a sibling subfield ("037a[9=arXiv]").
// Path queries walk child elements from the record ("author/name") and may
// read an attribute instead of text ("link[title=pdf]@href").
type Query struct {
	Raw string

	Tag       string
	Code      string
	CondCode  string
	CondValue string

	Steps []Step
	Attr  string
}

// IsMARC reports whether the query addresses MARC fields.
func (q Query) IsMARC() bool {
	return q.Tag != ""
}

// IsControlField reports whether the query addresses a MARC control field (00X).
func (q Query) IsControlField() bool {
	return q.Tag != "" && q.Code == "" && strings.HasPrefix(q.Tag, "00")
}

func (q Query) String() string {
	return q.Raw
}

// ParseQuery parses the compact query notation.
func ParseQuery(raw string) (Query, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Query{}, fmt.Errorf("empty query")
	}

	if m := marcQueryRegex.FindStringSubmatch(raw); m != nil {
		q := Query{Raw: raw, Tag: m[1], Code: m[2], CondCode: m[3], CondValue: m[4]}
		if q.Code == "" && !strings.HasPrefix(q.Tag, "00") {
			return Query{}, fmt.Errorf("query %q: datafield %s needs a subfield code", raw, q.Tag)
		}
		if q.Code == "" && q.CondCode != "" {
			return Query{}, fmt.Errorf("query %q: control fields take no condition", raw)
		}
		return q, nil
	}

	q := Query{Raw: raw}
	path := raw
	if idx := strings.LastIndex(path, "@"); idx >= 0 && !strings.Contains(path[idx:], "]") {
		q.Attr = path[idx+1:]
		path = path[:idx]
		if q.Attr == "" {
			return Query{}, fmt.Errorf("query %q: empty attribute name", raw)
		}
	}
	for _, seg := range splitPath(path) {
		m := pathStepRegex.FindStringSubmatch(seg)
		if m == nil {
			return Query{}, fmt.Errorf("query %q: invalid path step %q", raw, seg)
		}
		q.Steps = append(q.Steps, Step{Name: m[1], AttrName: m[2], AttrValue: m[3]})
	}
	return q, nil
}

// splitPath splits on "/" outside of [predicates], so values such as
// "application/pdf" survive.
func splitPath(path string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range path {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case '/':
			if depth == 0 {
				parts = append(parts, path[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, path[start:])
}

// MustParseQuery is like ParseQuery but panics on error.
func MustParseQuery(raw string) Query {
	q, err := ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	return q
}

// Nodes returns the elements the query selects, in document order.
// For MARC subfield queries these are the <subfield> elements.
func (q Query) Nodes(doc *Document) []*etree.Element {
	if doc == nil || doc.record == nil {
		return nil
	}
	if q.IsMARC() {
		return q.marcNodes(doc.record)
	}
	return q.pathNodes(doc.record)
}

// Values returns the text (or attribute) of every selected node, raw and
// in document order. Empty values are included.
func (q Query) Values(doc *Document) []string {
	nodes := q.Nodes(doc)
	values := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if q.Attr != "" {
			values = append(values, attr(n, q.Attr))
		} else {
			values = append(values, Text(n))
		}
	}
	return values
}

func (q Query) marcNodes(record *etree.Element) []*etree.Element {
	var result []*etree.Element
	if q.IsControlField() {
		for _, cf := range childrenNamed(record, "controlfield") {
			if attr(cf, "tag") == q.Tag {
				result = append(result, cf)
			}
		}
		return result
	}

	for _, df := range childrenNamed(record, "datafield") {
		if attr(df, "tag") != q.Tag {
			continue
		}
		if q.CondCode != "" && !hasSubfield(df, q.CondCode, q.CondValue) {
			continue
		}
		for _, sf := range childrenNamed(df, "subfield") {
			if attr(sf, "code") == q.Code {
				result = append(result, sf)
			}
		}
	}
	return result
}

func hasSubfield(df *etree.Element, code, value string) bool {
	for _, sf := range childrenNamed(df, "subfield") {
		if attr(sf, "code") == code && strings.EqualFold(strings.TrimSpace(Text(sf)), value) {
			return true
		}
	}
	return false
}

func (q Query) pathNodes(record *etree.Element) []*etree.Element {
	current := []*etree.Element{record}
	for _, step := range q.Steps {
		var next []*etree.Element
		for _, n := range current {
			for _, c := range childrenNamed(n, step.Name) {
				if step.AttrName != "" && !strings.EqualFold(attr(c, step.AttrName), step.AttrValue) {
					continue
				}
				next = append(next, c)
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	return current
}
