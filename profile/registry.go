package profile

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yaml
var embeddedProfiles embed.FS

// AppName names the XDG configuration and cache directories.
const AppName = "hepbib"

// Registry holds loaded profiles keyed by name.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry creates a registry with the embedded cds, inspire and arxiv
// profiles loaded. An embedded profile that fails to load is a build
// defect and is returned as an error.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		profiles: make(map[string]*Profile),
	}

	entries, err := embeddedProfiles.ReadDir("profiles")
	if err != nil {
		return nil, fmt.Errorf("reading embedded profiles: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := embeddedProfiles.ReadFile("profiles/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded profile %s: %w", entry.Name(), err)
		}

		p, err := parseProfile(data, strings.TrimSuffix(entry.Name(), ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("embedded profile %s: %w", entry.Name(), err)
		}
		r.profiles[p.Name] = p
	}

	return r, nil
}

// UserProfileDir returns the directory user profiles are read from:
// $HEPBIB_PROFILE_DIR, or $XDG_CONFIG_HOME/hepbib/profiles.
func UserProfileDir() string {
	if dir := os.Getenv("HEPBIB_PROFILE_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppName, "profiles")
}

// LoadDefault returns the embedded profiles overlaid with any user
// profiles found in UserProfileDir. A missing directory is not an error.
func LoadDefault() (*Registry, error) {
	r, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	dir := UserProfileDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return r, nil
	}
	if err := r.LoadFromDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadProfile loads a profile from a file path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}
	return parseProfile(data, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// LoadProfileFromString loads a profile from YAML content.
func LoadProfileFromString(content string) (*Profile, error) {
	return parseProfile([]byte(content), "")
}

func parseProfile(data []byte, fallbackName string) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}
	// Use filename without extension as profile name if not set
	if p.Name == "" {
		p.Name = fallbackName
	}
	if err := p.Compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get retrieves a profile by name.
func (r *Registry) Get(name string) (*Profile, bool) {
	p, ok := r.profiles[strings.ToLower(name)]
	return p, ok
}

// Register adds or replaces a profile. The profile must be compiled.
func (r *Registry) Register(p *Profile) {
	r.profiles[strings.ToLower(p.Name)] = p
}

// Override makes p the profile used when resolving its kind.
func (r *Registry) Override(p *Profile) {
	r.profiles[string(p.Kind)] = p
}

// List returns all registered profile names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFromDirectory loads every *.yaml profile in dir, replacing loaded
// profiles with the same name.
func (r *Registry) LoadFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading profile directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		p, err := LoadProfile(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		slog.Debug("loaded user profile", "name", p.Name, "path", path)
		r.Register(p)
	}

	return nil
}
