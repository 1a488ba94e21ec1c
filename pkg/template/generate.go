// Package template scaffolds new projects from git or local templates.
package template

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/netfuse/hpmq/pkg/global"
	"github.com/netfuse/hpmq/pkg/util/console"
	"github.com/netfuse/hpmq/pkg/util/files"
)

// Prompter asks the user for values the command line left out.
type Prompter interface {
	Prompt(label string) (string, error)
}

type Options struct {
	// Git is a repository URL to clone the template from.
	Git    string
	Branch string
	// Path is a local template directory. Exactly one of Git and Path is set.
	Path string
	// Name is the project name. It is asked for when empty.
	Name string
	// Destination is the directory the project directory is created in.
	Destination string
	Force       bool
	Prompter    Prompter
}

// Generate renders the template into <Destination>/<Name> and returns that directory.
func Generate(ctx context.Context, opts Options) (string, error) {
	if opts.Git != "" && opts.Path != "" {
		return "", errors.New("--git and --path can not be used together")
	}
	if opts.Git == "" && opts.Path == "" {
		return "", errors.New("No template given, use --git or --path")
	}

	projectName, err := resolveName(opts)
	if err != nil {
		return "", err
	}

	dest := filepath.Join(opts.Destination, projectName)
	exists, err := files.Exists(dest)
	if err != nil {
		return "", err
	}
	if exists && !opts.Force {
		return "", fmt.Errorf("%s already exists, use --force to overwrite it", dest)
	}

	src := opts.Path
	if opts.Git != "" {
		tmp, err := os.MkdirTemp("", "hpmq-template-")
		if err != nil {
			return "", err
		}
		defer os.RemoveAll(tmp)
		src = filepath.Join(tmp, "template")
		console.Infof("Cloning %s", opts.Git)
		if err := clone(ctx, opts.Git, opts.Branch, src); err != nil {
			return "", err
		}
	} else {
		isDir, err := files.IsDir(src)
		if err != nil {
			return "", err
		}
		if !isDir {
			return "", fmt.Errorf("Template path %s is not a directory", src)
		}
	}

	manifest, err := LoadManifest(src)
	if err != nil {
		return "", err
	}
	if err := manifest.CheckVersion(global.Version); err != nil {
		return "", err
	}
	matcher, err := CreateMatcher(src, manifest.Ignore)
	if err != nil {
		return "", err
	}

	replacer := Placeholders(projectName)
	err = Walk(src, matcher, func(rel string, info os.FileInfo) error {
		target := filepath.Join(dest, replacer.Replace(rel))
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !info.Mode().IsRegular() {
			console.Debugf("Skipping %s: not a regular file", rel)
			return nil
		}
		return render(filepath.Join(src, rel), target, info.Mode().Perm(), replacer)
	})
	if err != nil {
		return "", err
	}

	console.Infof("Created %s", dest)
	return dest, nil
}

// Placeholders substitutes {{project-name}} and {{crate_name}}.
func Placeholders(projectName string) *strings.Replacer {
	crateName := strings.ReplaceAll(strings.ToLower(projectName), "-", "_")
	return strings.NewReplacer(
		"{{project-name}}", projectName,
		"{{crate_name}}", crateName,
	)
}

func resolveName(opts Options) (string, error) {
	projectName := strings.TrimSpace(opts.Name)
	if projectName == "" {
		if opts.Prompter == nil {
			return "", errors.New("No project name given, use --name")
		}
		var err error
		projectName, err = opts.Prompter.Prompt("Project name")
		if err != nil {
			return "", err
		}
		projectName = strings.TrimSpace(projectName)
	}
	if projectName == "" || projectName == "." || projectName == ".." || strings.ContainsAny(projectName, `/\`) {
		return "", fmt.Errorf("Invalid project name %q", projectName)
	}
	return projectName, nil
}

// render copies src to dest, substituting placeholders when src has any.
func render(src, dest string, mode os.FileMode, replacer *strings.Replacer) error {
	content, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if !bytes.Contains(content, []byte("{{")) {
		return files.CopyFile(src, dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte(replacer.Replace(string(content))), mode)
}
