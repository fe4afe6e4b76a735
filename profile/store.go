package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UserProfilePath returns the path of a user profile file.
func UserProfilePath(name string) string {
	name = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	return filepath.Join(UserProfileDir(), name+".yaml")
}

// EmbeddedYAML returns the source of an embedded profile.
func EmbeddedYAML(name string) ([]byte, error) {
	data, err := embeddedProfiles.ReadFile("profiles/" + strings.ToLower(name) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("profile %q is not embedded", name)
	}
	return data, nil
}

// Init copies an embedded profile into the user profile directory so it
// can be edited. An existing file is only replaced when force is set.
func Init(name string, force bool) (string, error) {
	data, err := EmbeddedYAML(name)
	if err != nil {
		return "", err
	}

	path := UserProfilePath(name)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("profile %q already exists at %s", name, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating profiles directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing profile: %w", err)
	}
	return path, nil
}

// Delete removes a user profile, restoring the embedded one if any.
func Delete(name string) error {
	path := UserProfilePath(name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("profile %q not found", name)
		}
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}
