package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-containerregistry/pkg/name"
	"gopkg.in/yaml.v2"

	"github.com/netfuse/hpmq/pkg/global"
	"github.com/netfuse/hpmq/pkg/util/console"
	"github.com/netfuse/hpmq/pkg/util/files"
)

const settingsFilename = "settings.yaml"

// UserSettings represents global user settings that span multiple projects
type UserSettings struct {
	// Registry is used for image references that don't name one.
	Registry string `yaml:"registry,omitempty"`
	// Insecure allows plain HTTP registries.
	Insecure bool `yaml:"insecure,omitempty"`
	// TemplateGit is the template `hpmq init` uses when neither --git nor --path is given.
	TemplateGit string `yaml:"template_git,omitempty"`
}

// LoadUserSettings loads the global user settings from disk, returning default struct
// if no file exists
func LoadUserSettings() (*UserSettings, error) {
	settings := UserSettings{}

	settingsPath, err := userSettingsPath()
	if err != nil {
		return nil, err
	}

	exists, err := files.Exists(settingsPath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &settings, nil
	}
	text, err := os.ReadFile(settingsPath)
	if err != nil {
		console.Warnf("Failed to read %s: %s", settingsPath, err)
		return &settings, nil
	}

	if err := yaml.Unmarshal(text, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save saves global user settings to disk
func (s *UserSettings) Save() error {
	settingsPath, err := userSettingsPath()
	if err != nil {
		return err
	}

	bytes, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(settingsPath, bytes, 0o600)
}

// NameOptions are the options image references are parsed with.
func (s *UserSettings) NameOptions() []name.Option {
	var opts []name.Option
	if s.Registry != "" {
		opts = append(opts, name.WithDefaultRegistry(s.Registry))
	}
	if s.Insecure {
		opts = append(opts, name.Insecure)
	}
	return opts
}

// ParseReference parses an image reference such as repo.example.com/moss/hello-wasm:0.1.
func (s *UserSettings) ParseReference(image string) (name.Reference, error) {
	ref, err := name.ParseReference(image, s.NameOptions()...)
	if err != nil {
		return nil, fmt.Errorf("Not a valid image reference %q: %w", image, err)
	}
	return ref, nil
}

func userSettingsPath() (string, error) {
	dir, err := global.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFilename), nil
}
