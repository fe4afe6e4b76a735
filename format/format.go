// Package format defines the interface for output format plugins.
package format

import (
	"io"

	"github.com/lehigh-university-libraries/hepbib/hub"
)

// Format defines the interface that all format plugins must implement.
type Format interface {
	// Name returns the format identifier (e.g., "bibtex", "json")
	Name() string

	// Description returns a human-readable format description
	Description() string

	// Extensions returns file extensions associated with this format
	Extensions() []string
}

// Serializer is a format that can write entries to output.
type Serializer interface {
	Format

	// Serialize writes entries to the output.
	// Options is format-specific configuration.
	Serialize(w io.Writer, entries []hub.Entry, opts *SerializeOptions) error
}

// SerializeOptions contains options for serialization.
type SerializeOptions struct {
	// Pretty enables pretty-printing (for JSON)
	Pretty bool

	// Separator is written between consecutive entries
	Separator string
}

// NewSerializeOptions creates SerializeOptions with defaults.
func NewSerializeOptions() *SerializeOptions {
	return &SerializeOptions{
		Separator: "\n",
	}
}
