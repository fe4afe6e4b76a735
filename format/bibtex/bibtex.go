// Package bibtex provides a format plugin for BibTeX bibliography entries.
package bibtex

import (
	"github.com/lehigh-university-libraries/hepbib/format"
)

// Format implements the BibTeX format.
type Format struct{}

// Ensure Format implements the interfaces
var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "bibtex"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "BibTeX @article entries"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"bib", "bibtex"}
}

func init() {
	format.Register(&Format{})
}
