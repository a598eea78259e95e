package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPrefsPath returns the standard preferences location,
// ~/.ctapress/prefs.yaml.
func DefaultPrefsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ctapress", "prefs.yaml")
}

// LoadPrefs reads preferences from a YAML file. A missing file is not an
// error: first runs simply start from defaults.
func LoadPrefs(path string) (Prefs, error) {
	var p Prefs

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("failed to read preferences: %w", err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prefs{}, fmt.Errorf("failed to parse preferences file %s: %w", path, err)
	}

	return p, nil
}

// SavePrefs writes preferences to a YAML file, creating the directory if
// needed. Called once at exit with the run's effective settings.
func SavePrefs(p Prefs, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences file: %w", err)
	}

	return nil
}
