package bibtex

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/lehigh-university-libraries/hepbib/format"
	"github.com/lehigh-university-libraries/hepbib/helpers"
	"github.com/lehigh-university-libraries/hepbib/hub"
)

// field pairs a BibTeX key with the entry field it is read from.
type field struct {
	key   string
	value func(*hub.Entry) string
}

// fieldOrder is the fixed output order of an @article entry.
var fieldOrder = []field{
	{"author", func(e *hub.Entry) string { return e.Author }},
	{"title", func(e *hub.Entry) string { return e.Title }},
	{"journal", func(e *hub.Entry) string { return e.Journal }},
	{"year", func(e *hub.Entry) string { return e.Year }},
	{"month", func(e *hub.Entry) string { return e.Month }},
	{"volume", func(e *hub.Entry) string { return e.Volume }},
	{"number", func(e *hub.Entry) string { return e.Number }},
	{"pages", func(e *hub.Entry) string { return e.Pages }},
	{"doi", func(e *hub.Entry) string { return e.Doi }},
	{"eprint", func(e *hub.Entry) string { return e.EprintId }},
	{"archiveprefix", func(e *hub.Entry) string { return e.ArchivePrefix }},
	{"primaryclass", func(e *hub.Entry) string { return e.PrimaryClass }},
	{"collaboration", func(e *hub.Entry) string { return e.Collaboration }},
	{"url", func(e *hub.Entry) string { return e.Url }},
	{"note", func(e *hub.Entry) string { return e.Note }},
	{"abstract", func(e *hub.Entry) string { return e.Abstract }},
}

// Serialize writes entries as BibTeX @article blocks.
func (f *Format) Serialize(w io.Writer, entries []hub.Entry, opts *format.SerializeOptions) error {
	if opts == nil {
		opts = format.NewSerializeOptions()
	}

	for i := range entries {
		text, err := Marshal(&entries[i])
		if err != nil {
			return fmt.Errorf("serializing entry %d: %w", i, err)
		}
		if i > 0 && opts.Separator != "" {
			if _, err := io.WriteString(w, opts.Separator); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}

	return nil
}

// Marshal renders one entry as an @article block keyed by its EprintId.
// Empty fields are omitted.
func Marshal(entry *hub.Entry) (string, error) {
	key := citationKey(entry.EprintId)
	if key == "" {
		return "", &hub.FieldError{Profile: entry.Source, Field: hub.FieldEprintId, Err: hub.ErrMandatoryFieldMissing}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "@article{%s,\n", key)
	for _, f := range fieldOrder {
		v := escapeValue(f.value(entry))
		if v == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s = \"{%s}\",\n", f.key, v)
	}
	sb.WriteString("}\n")
	return sb.String(), nil
}

// escapeValue makes a value safe inside "{...}": double quotes become
// single quotes, whitespace is collapsed and braces are dropped unless
// they balance.
func escapeValue(s string) string {
	return helpers.BalanceBraces(helpers.NormalizeWhitespace(strings.ReplaceAll(s, `"`, "'")))
}

// citationKey strips characters that would end or corrupt the key.
func citationKey(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return -1
		}
		switch r {
		case ',', '{', '}', '"', '\'', '#', '%', '=':
			return -1
		}
		return r
	}, s)
}
