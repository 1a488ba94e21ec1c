package dockerfile

import (
	"fmt"
	"path/filepath"

	"github.com/netfuse/hpmq/pkg/buildconfig"
	"github.com/netfuse/hpmq/pkg/util/console"
	"github.com/netfuse/hpmq/pkg/util/files"
)

// Translate folds every node of doc into a BuildConfig. Nodes that cannot be
// parsed are reported as warnings and skipped; the only fatal condition is a
// document without any usable COPY.
func (p *Parser) Translate(doc *Document) (*buildconfig.BuildConfig, error) {
	builder := buildconfig.NewBuilder()
	for _, n := range doc.Nodes {
		console.Debugf("line %d: %s", n.StartLine, n.Original)
		ins, err := p.ParseInstruction(n)
		if err != nil {
			console.Warnf("Skipping instruction: %s", err)
			continue
		}
		builder.Apply(ins)
	}
	return builder.Build()
}

// LoadBuildConfig reads the build file at path and translates it, resolving
// COPY sources against the file's directory. It returns that directory too.
func LoadBuildConfig(path string) (*buildconfig.BuildConfig, string, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	exists, err := files.Exists(path)
	if err != nil {
		return nil, "", err
	}
	if !exists {
		return nil, "", fmt.Errorf("%s does not exist in %s. Are you in the right directory?", filepath.Base(path), filepath.Dir(path))
	}

	doc, err := DecodeFile(path)
	if err != nil {
		return nil, "", err
	}
	contextDir := filepath.Dir(path)
	cfg, err := NewParser(contextDir).Translate(doc)
	if err != nil {
		return nil, "", err
	}
	return cfg, contextDir, nil
}
