// Package profile holds the per-source rule tables and resolves a catalog
// source and identifier into a query URL and the rules to extract with.
package profile

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/hepbib/catalog"
	"github.com/lehigh-university-libraries/hepbib/hub"
)

// Kind is a catalog source.
type Kind string

const (
	KindCDS     Kind = "cds"
	KindINSPIRE Kind = "inspire"
	KindArxiv   Kind = "arxiv"
)

// Kinds lists every supported source in a stable order.
func Kinds() []Kind {
	return []Kind{KindCDS, KindINSPIRE, KindArxiv}
}

// ParseKind parses a source name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindCDS, KindINSPIRE, KindArxiv:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q (want cds, inspire or arxiv)", hub.ErrUnsupportedSource, s)
}

// Authorship selects which author list the builder prefers.
type Authorship string

const (
	// AuthorshipCollaboration credits the collaboration and falls back to
	// personal names when the record has none.
	AuthorshipCollaboration Authorship = "collaboration"

	// AuthorshipPersonal credits personal names and falls back to the
	// collaboration when the record lists nobody.
	AuthorshipPersonal Authorship = "personal"
)

// Transforms applied to the winning value of a rule.
const (
	TransformYear        = "year"
	TransformMonth       = "month"
	TransformArxivID     = "arxiv-id"
	TransformStripMarkup = "strip-markup"
)

var knownTransforms = map[string]bool{
	TransformYear:        true,
	TransformMonth:       true,
	TransformArxivID:     true,
	TransformStripMarkup: true,
}

// Profile describes one catalog source.
type Profile struct {
	// Name is the profile identifier (e.g., "cds")
	Name string `yaml:"name" json:"name"`

	// Kind is the catalog source this profile reads
	Kind Kind `yaml:"kind" json:"kind"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// QueryURL is the search URL template; {id} is replaced by the
	// query-escaped identifier
	QueryURL string `yaml:"query_url" json:"query_url"`

	// RecordURL is the landing page template; {recid} is replaced by the RecordId
	RecordURL string `yaml:"record_url" json:"record_url"`

	// Authorship selects collaboration or personal author lists
	Authorship Authorship `yaml:"authorship" json:"authorship"`

	// Fields maps canonical field names to lookup rules
	Fields map[string]*FieldRule `yaml:"fields" json:"fields"`

	// PDF configures the full text link heuristic
	PDF PDFRule `yaml:"pdf,omitempty" json:"pdf,omitempty"`
}

// FieldRule is an ordered list of queries for one canonical field.
type FieldRule struct {
	// Queries are tried in order; the first non-empty value wins
	Queries []string `yaml:"queries,omitempty" json:"queries,omitempty"`

	// Default is used when no query yields a value
	Default string `yaml:"default,omitempty" json:"default,omitempty"`

	// Transform post-processes the winning value (year, month, arxiv-id, strip-markup)
	Transform string `yaml:"transform,omitempty" json:"transform,omitempty"`

	// Multi collects every value of every query instead of the first one
	Multi bool `yaml:"multi,omitempty" json:"multi,omitempty"`

	// Required makes an unmatched rule an error
	Required bool `yaml:"required,omitempty" json:"required,omitempty"`

	compiled []catalog.Query
}

// Compiled returns the parsed queries. Compile must have succeeded.
func (r *FieldRule) Compiled() []catalog.Query {
	return r.compiled
}

// Compile parses the rule's queries.
func (r *FieldRule) Compile() error {
	if len(r.Queries) == 0 && r.Default == "" {
		return fmt.Errorf("rule has neither queries nor a default")
	}
	if r.Transform != "" && !knownTransforms[r.Transform] {
		return fmt.Errorf("unknown transform %q", r.Transform)
	}
	r.compiled = make([]catalog.Query, 0, len(r.Queries))
	for _, raw := range r.Queries {
		q, err := catalog.ParseQuery(raw)
		if err != nil {
			return err
		}
		r.compiled = append(r.compiled, q)
	}
	return nil
}

// PDFRule finds the full text link. Links in Fulltext are explicitly
// marked as full text and win; otherwise the first URL from Links whose
// path ends in ".pdf" is used.
type PDFRule struct {
	Fulltext []string `yaml:"fulltext,omitempty" json:"fulltext,omitempty"`
	Links    []string `yaml:"links,omitempty" json:"links,omitempty"`

	fulltext []catalog.Query
	links    []catalog.Query
}

// FulltextQueries returns the compiled full-text queries.
func (p *PDFRule) FulltextQueries() []catalog.Query {
	return p.fulltext
}

// LinkQueries returns the compiled candidate link queries.
func (p *PDFRule) LinkQueries() []catalog.Query {
	return p.links
}

func (p *PDFRule) compile() error {
	p.fulltext = p.fulltext[:0]
	p.links = p.links[:0]
	for _, raw := range p.Fulltext {
		q, err := catalog.ParseQuery(raw)
		if err != nil {
			return err
		}
		p.fulltext = append(p.fulltext, q)
	}
	for _, raw := range p.Links {
		q, err := catalog.ParseQuery(raw)
		if err != nil {
			return err
		}
		p.links = append(p.links, q)
	}
	return nil
}

// Rule returns the rule for a canonical field, or nil.
func (p *Profile) Rule(field string) *FieldRule {
	return p.Fields[field]
}

// RecordURLFor returns the landing page of a record.
func (p *Profile) RecordURLFor(recid string) string {
	if recid == "" {
		return ""
	}
	return strings.ReplaceAll(p.RecordURL, "{recid}", recid)
}

// BaseRecordURL is the part of the record template before the record id.
func (p *Profile) BaseRecordURL() string {
	base, _, _ := strings.Cut(p.RecordURL, "{recid}")
	return base
}

// Compile validates the profile and parses every query. It must be called
// before the profile is used for extraction; registries do it on load.
func (p *Profile) Compile() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if _, err := ParseKind(string(p.Kind)); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	switch p.Authorship {
	case "":
		p.Authorship = AuthorshipPersonal
	case AuthorshipCollaboration, AuthorshipPersonal:
	default:
		return fmt.Errorf("profile %s: unknown authorship %q", p.Name, p.Authorship)
	}
	if !strings.Contains(p.QueryURL, "{id}") {
		return fmt.Errorf("profile %s: query_url has no {id} placeholder", p.Name)
	}
	if !strings.Contains(p.RecordURL, "{recid}") {
		return fmt.Errorf("profile %s: record_url has no {recid} placeholder", p.Name)
	}

	rec := p.Fields[hub.FieldRecordId]
	if rec == nil || len(rec.Queries) == 0 {
		return fmt.Errorf("profile %s: no %s rule", p.Name, hub.FieldRecordId)
	}
	rec.Required = true

	blank := &hub.Entry{}
	for field, rule := range p.Fields {
		if rule == nil {
			return fmt.Errorf("profile %s: empty rule for %s", p.Name, field)
		}
		if _, ok := blank.Get(field); !ok {
			return fmt.Errorf("profile %s: unknown field %q", p.Name, field)
		}
		if err := rule.Compile(); err != nil {
			return fmt.Errorf("profile %s: field %s: %w", p.Name, field, err)
		}
	}

	if err := p.PDF.compile(); err != nil {
		return fmt.Errorf("profile %s: pdf: %w", p.Name, err)
	}
	return nil
}
