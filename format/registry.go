package format

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Registry holds registered formats.
type Registry struct {
	formats map[string]Format
}

// DefaultRegistry is the global format registry.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a new format registry.
func NewRegistry() *Registry {
	return &Registry{
		formats: make(map[string]Format),
	}
}

// Register adds a format to the registry.
func (r *Registry) Register(f Format) {
	r.formats[strings.ToLower(f.Name())] = f
}

// Get retrieves a format by name.
func (r *Registry) Get(name string) (Format, bool) {
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// GetSerializer retrieves a serializer by name.
func (r *Registry) GetSerializer(name string) (Serializer, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	s, ok := f.(Serializer)
	if !ok {
		return nil, fmt.Errorf("format %s does not support serialization", name)
	}
	return s, nil
}

// List returns all registered format names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formats))
	for name := range r.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DetectFormat picks a format from an output file extension.
func (r *Registry) DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, name := range r.List() {
		f := r.formats[name]
		for _, fext := range f.Extensions() {
			if ext == fext {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("could not detect format for %s", filename)
}

// Register adds a format to the default registry.
func Register(f Format) {
	DefaultRegistry.Register(f)
}

// GetSerializer retrieves a serializer from the default registry.
func GetSerializer(name string) (Serializer, error) {
	return DefaultRegistry.GetSerializer(name)
}

// DetectFormat detects format using the default registry.
func DetectFormat(filename string) (Format, error) {
	return DefaultRegistry.DetectFormat(filename)
}
