package manifest

import (
	"encoding/json"
	"fmt"
	"os"
)

// ComposerManifest is the subset of composer.json the installer inspects.
type ComposerManifest struct {
	Require    map[string]string `json:"require"`
	RequireDev map[string]string `json:"require-dev"`
}

// ReadComposer parses the composer.json at path.
func ReadComposer(path string) (*ComposerManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var m ComposerManifest
	if err = json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}

// HasPackage reports whether name is listed in require or require-dev.
func (m *ComposerManifest) HasPackage(name string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.Require[name]; ok {
		return true
	}
	_, ok := m.RequireDev[name]
	return ok
}

// ComposerHasPackage reports whether the composer.json at path lists name.
// A missing or unreadable manifest counts as "not listed".
func ComposerHasPackage(path, name string) bool {
	m, err := ReadComposer(path)
	if err != nil {
		return false
	}
	return m.HasPackage(name)
}
