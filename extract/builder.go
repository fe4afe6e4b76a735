package extract

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lehigh-university-libraries/hepbib/catalog"
	"github.com/lehigh-university-libraries/hepbib/helpers"
	"github.com/lehigh-university-libraries/hepbib/hub"
	"github.com/lehigh-university-libraries/hepbib/profile"
)

// Build assembles a canonical entry from one catalog document.
//
// The record id is resolved first; a document without one does not
// describe a usable record and fails with hub.ErrCatalogMismatch. The
// citation key falls back to the record id and fails with
// hub.ErrMandatoryFieldMissing only when both are empty. Every other
// field degrades to "".
func Build(doc *catalog.Document, prof *profile.Profile) (hub.Entry, error) {
	if prof == nil {
		return hub.Entry{}, fmt.Errorf("%w: no profile", hub.ErrUnsupportedSource)
	}
	if doc == nil {
		return hub.Entry{}, &hub.FieldError{Profile: prof.Name, Field: hub.FieldRecordId, Err: hub.ErrMalformedDocument}
	}

	recid, err := Extract(doc, prof.Rule(hub.FieldRecordId))
	if err != nil || recid == "" {
		return hub.Entry{}, &hub.FieldError{Profile: prof.Name, Field: hub.FieldRecordId, Err: hub.ErrCatalogMismatch}
	}

	entry := hub.Entry{
		RecordId: recid,
		Source:   prof.Name,
	}

	entry.EprintId, _ = Lookup(doc, prof.Rule(hub.FieldEprintId))
	if entry.EprintId == "" {
		slog.Debug("no eprint id, using record id as citation key", "profile", prof.Name, "recid", recid)
		entry.EprintId = recid
	}
	if strings.TrimSpace(entry.EprintId) == "" {
		return hub.Entry{}, &hub.FieldError{Profile: prof.Name, Field: hub.FieldEprintId, Err: hub.ErrMandatoryFieldMissing}
	}

	for _, field := range hub.ScalarFields() {
		v, _ := Lookup(doc, prof.Rule(field))
		entry.Set(field, v)
	}

	entry.Author = buildAuthor(doc, prof, entry.Collaboration)
	entry.Url = prof.RecordURLFor(recid)
	entry.PdfLink = PDFLink(doc, &prof.PDF)

	neutralizeQuotes(&entry)

	result := hub.Validate(&entry)
	if !result.IsValid() {
		return hub.Entry{}, fmt.Errorf("%s: %w", prof.Name, result.Error())
	}
	for _, w := range result.Warnings {
		slog.Debug("incomplete entry", "profile", prof.Name, "recid", recid, "field", w.Field, "warning", w.Message)
	}

	return entry, nil
}

// BuildFromReader parses a raw catalog document and builds its entry.
func BuildFromReader(r io.Reader, prof *profile.Profile) (hub.Entry, error) {
	doc, err := catalog.Parse(r)
	if err != nil {
		name := ""
		if prof != nil {
			name = prof.Name
		}
		return hub.Entry{}, fmt.Errorf("%s: %w", name, err)
	}
	return Build(doc, prof)
}

// buildAuthor picks the author list according to the profile's
// authorship mode and falls back to the other list when empty.
func buildAuthor(doc *catalog.Document, prof *profile.Profile, collaboration string) string {
	personal := helpers.FormatAuthors(ExtractAll(doc, prof.Rule(hub.FieldAuthor)), true)
	group := ""
	if collaboration != "" {
		group = helpers.FormatAuthors(helpers.SplitNames(collaboration), false)
	}

	if prof.Authorship == profile.AuthorshipCollaboration {
		if group != "" {
			return group
		}
		return personal
	}
	if personal != "" {
		return personal
	}
	return group
}

// PDFLink returns the first link explicitly marked as full text, else the
// first link whose path ends in ".pdf", else "".
func PDFLink(doc *catalog.Document, rule *profile.PDFRule) string {
	if rule == nil {
		return ""
	}
	for _, q := range rule.FulltextQueries() {
		for _, raw := range q.Values(doc) {
			if v := strings.TrimSpace(raw); v != "" {
				return v
			}
		}
	}
	for _, q := range rule.LinkQueries() {
		for _, raw := range q.Values(doc) {
			if v := strings.TrimSpace(raw); isPDF(v) {
				return v
			}
		}
	}
	return ""
}

func isPDF(link string) bool {
	if link == "" {
		return false
	}
	path := link
	if u, err := url.Parse(link); err == nil && u.Path != "" {
		path = u.Path
	}
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

// neutralizeQuotes replaces double quotes with single quotes in every
// field that ends up in BibTeX. Url and PdfLink are left alone.
func neutralizeQuotes(e *hub.Entry) {
	fields := append([]string{hub.FieldRecordId, hub.FieldEprintId, hub.FieldAuthor}, hub.ScalarFields()...)
	for _, f := range fields {
		if v, ok := e.Get(f); ok && strings.Contains(v, `"`) {
			e.Set(f, strings.ReplaceAll(v, `"`, "'"))
		}
	}
}
