package hub

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogMismatch means the document has no record identifier and
	// does not describe a usable catalog record.
	ErrCatalogMismatch = errors.New("catalog mismatch")

	// ErrMandatoryFieldMissing means the citation key could not be resolved.
	ErrMandatoryFieldMissing = errors.New("mandatory field missing")

	// ErrMalformedDocument means the catalog document could not be parsed.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrUnsupportedSource means the source kind is not cds, inspire or arxiv.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrFieldNotFound is returned for a required rule that matched nothing.
	ErrFieldNotFound = errors.New("field not found")
)

// FieldError reports which mandatory field failed and for which profile.
type FieldError struct {
	Profile string // Profile name (e.g., "cds")
	Field   string // Canonical field (e.g., "RecordId")
	Err     error
}

func (e *FieldError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Profile, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
