package hub

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation failure with context.
type ValidationError struct {
	Field   string // Field name (e.g., "EprintId")
	Code    string // Error code (e.g., "required", "unescaped_quote")
	Message string // Human-readable message
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult contains all validation errors for an entry.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError // Non-fatal issues such as a missing title
}

// IsValid returns true if there are no errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Error returns a combined error message, or nil if valid.
func (r *ValidationResult) Error() error {
	if r.IsValid() {
		return nil
	}
	var msgs []string
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

func (r *ValidationResult) addError(field, code, msg string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: msg})
}

func (r *ValidationResult) addWarning(field, code, msg string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Code: code, Message: msg})
}

// Validate checks the invariants a built entry must hold before it is
// serialized: a record id, a citation key, and no raw double quotes in
// the fields that end up in BibTeX.
func Validate(e *Entry) *ValidationResult {
	result := &ValidationResult{}

	if strings.TrimSpace(e.RecordId) == "" {
		result.addError(FieldRecordId, "required", "record identifier is required")
	}
	if strings.TrimSpace(e.EprintId) == "" {
		result.addError(FieldEprintId, "required", "citation key is required")
	}

	for _, field := range append([]string{FieldAuthor}, ScalarFields()...) {
		v, _ := e.Get(field)
		if strings.Contains(v, `"`) {
			result.addError(field, "unescaped_quote", "contains a raw double quote")
		}
	}

	if e.Title == "" {
		result.addWarning(FieldTitle, "missing", "entry has no title")
	}
	if e.Author == "" {
		result.addWarning(FieldAuthor, "missing", "entry has no author")
	}

	return result
}
