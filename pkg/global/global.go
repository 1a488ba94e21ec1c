package global

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

var (
	Version        = "0.1.0"
	BuildTime      = "none"
	Verbose        = false
	BuildFilename  = "Hpmqfile"
	HomeEnvVar     = "HPMQ_HOME"
	DefaultHomeDir = "~/.hpmq"
	LabelNamespace = "io.hpmq."
)

// HomeDir returns the directory hpmq keeps its image store, containers and
// settings in. HPMQ_HOME takes precedence over ~/.hpmq.
func HomeDir() (string, error) {
	dir := os.Getenv(HomeEnvVar)
	if dir == "" {
		dir = DefaultHomeDir
	}
	dir, err := homedir.Expand(dir)
	if err != nil {
		return "", err
	}
	return filepath.Abs(dir)
}
