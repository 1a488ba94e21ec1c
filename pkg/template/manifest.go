package template

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v2"

	"github.com/netfuse/hpmq/pkg/util/files"
)

const ManifestFilename = "hpmq-template.yaml"

// Manifest is the optional hpmq-template.yaml at the root of a template.
type Manifest struct {
	MinVersion string   `yaml:"min_version,omitempty"`
	Ignore     []string `yaml:"ignore,omitempty"`
}

// LoadManifest reads the manifest in dir. A template without one gets an
// empty manifest.
func LoadManifest(dir string) (*Manifest, error) {
	manifest := &Manifest{}
	manifestPath := filepath.Join(dir, ManifestFilename)
	exists, err := files.Exists(manifestPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return manifest, nil
	}

	text, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(text, manifest); err != nil {
		return nil, fmt.Errorf("Failed to parse %s: %w", ManifestFilename, err)
	}
	return manifest, nil
}

// CheckVersion fails when the template needs a newer hpmq than current.
func (m *Manifest) CheckVersion(current string) error {
	if m.MinVersion == "" {
		return nil
	}
	minVersion, err := version.NewVersion(m.MinVersion)
	if err != nil {
		return fmt.Errorf("Invalid min_version %q in %s: %w", m.MinVersion, ManifestFilename, err)
	}
	currentVersion, err := version.NewVersion(current)
	if err != nil {
		return fmt.Errorf("Invalid hpmq version %q: %w", current, err)
	}
	if currentVersion.LessThan(minVersion) {
		return fmt.Errorf("This template requires hpmq %s or newer, you have %s", minVersion, currentVersion)
	}
	return nil
}
