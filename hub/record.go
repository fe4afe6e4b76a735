// Package hub defines the canonical bibliographic entry every catalog source is mapped onto.
package hub

// Entry is the canonical bibliographic entry built from one catalog record.
//
// Every field is a plain string. Optional fields that a record does not
// carry are empty, never absent, so callers cannot tell "queried and empty"
// from "not queried".
type Entry struct {
	// RecordId is the source-native record identifier (MARC 001, arXiv id).
	RecordId string

	// EprintId is the preprint number and the BibTeX citation key.
	EprintId string

	Title    string
	Abstract string

	// Author is the formatted BibTeX author list ("{Last}, First and ...").
	Author string

	// Collaboration is the group credited on the record, kept even when
	// Author holds personal names.
	Collaboration string

	Journal string
	Year    string
	Month   string
	Volume  string
	Number  string
	Pages   string
	Doi     string

	// ArchivePrefix and PrimaryClass are set for arXiv eprints.
	ArchivePrefix string
	PrimaryClass  string

	// Note carries free-text comments such as "10 pages, 3 figures".
	Note string

	// Url is the canonical record landing page.
	Url string

	// PdfLink is a best-effort full text URL. It is never escaped.
	PdfLink string

	// Source names the profile that produced the entry.
	Source string
}

// Field names used in error messages and rule tables.
const (
	FieldRecordId      = "RecordId"
	FieldEprintId      = "EprintId"
	FieldTitle         = "Title"
	FieldAbstract      = "Abstract"
	FieldAuthor        = "Author"
	FieldCollaboration = "Collaboration"
	FieldJournal       = "Journal"
	FieldYear          = "Year"
	FieldMonth         = "Month"
	FieldVolume        = "Volume"
	FieldNumber        = "Number"
	FieldPages         = "Pages"
	FieldDoi           = "Doi"
	FieldArchivePrefix = "ArchivePrefix"
	FieldPrimaryClass  = "PrimaryClass"
	FieldNote          = "Note"
	FieldUrl           = "Url"
	FieldPdfLink       = "PdfLink"
)

// Get returns the value of a canonical field by name.
func (e *Entry) Get(field string) (string, bool) {
	p := e.fieldPtr(field)
	if p == nil {
		return "", false
	}
	return *p, true
}

// Set assigns a canonical field by name. It reports false for unknown names.
func (e *Entry) Set(field, value string) bool {
	p := e.fieldPtr(field)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (e *Entry) fieldPtr(field string) *string {
	switch field {
	case FieldRecordId:
		return &e.RecordId
	case FieldEprintId:
		return &e.EprintId
	case FieldTitle:
		return &e.Title
	case FieldAbstract:
		return &e.Abstract
	case FieldAuthor:
		return &e.Author
	case FieldCollaboration:
		return &e.Collaboration
	case FieldJournal:
		return &e.Journal
	case FieldYear:
		return &e.Year
	case FieldMonth:
		return &e.Month
	case FieldVolume:
		return &e.Volume
	case FieldNumber:
		return &e.Number
	case FieldPages:
		return &e.Pages
	case FieldDoi:
		return &e.Doi
	case FieldArchivePrefix:
		return &e.ArchivePrefix
	case FieldPrimaryClass:
		return &e.PrimaryClass
	case FieldNote:
		return &e.Note
	case FieldUrl:
		return &e.Url
	case FieldPdfLink:
		return &e.PdfLink
	}
	return nil
}

// ScalarFields lists the fields filled directly from a single rule lookup.
// Author, Url and PdfLink are assembled by the builder.
func ScalarFields() []string {
	return []string{
		FieldTitle,
		FieldAbstract,
		FieldCollaboration,
		FieldJournal,
		FieldYear,
		FieldMonth,
		FieldVolume,
		FieldNumber,
		FieldPages,
		FieldDoi,
		FieldArchivePrefix,
		FieldPrimaryClass,
		FieldNote,
	}
}
