package template

import (
	"bufio"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/netfuse/hpmq/pkg/util/files"
)

const IgnoreFilename = ".hpmqignore"

// CreateMatcher compiles the template's .hpmqignore together with extra
// patterns. It returns nil when there is nothing to ignore.
func CreateMatcher(dir string, extra []string) (*ignore.GitIgnore, error) {
	patterns := append([]string{}, extra...)

	ignorePath := filepath.Join(dir, IgnoreFilename)
	exists, err := files.Exists(ignorePath)
	if err != nil {
		return nil, err
	}
	if exists {
		lines, err := readIgnoreFile(ignorePath)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, lines...)
	}

	if len(patterns) == 0 {
		return nil, nil
	}
	return ignore.CompileIgnoreLines(patterns...), nil
}

// Walk visits the template files under root, skipping ignored paths, the
// .git directory, the ignore file and the manifest. fn receives paths
// relative to root.
func Walk(root string, ignoreMatcher *ignore.GitIgnore, fn func(rel string, info os.FileInfo) error) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if info.IsDir() && info.Name() == ".git" {
			return filepath.SkipDir
		}
		if rel == IgnoreFilename || rel == ManifestFilename {
			return nil
		}
		if ignored(ignoreMatcher, filepath.ToSlash(rel), info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		return fn(rel, info)
	})
}

// ignored also tries directories with a trailing slash so that patterns
// like "target/" skip the directory itself.
func ignored(matcher *ignore.GitIgnore, rel string, isDir bool) bool {
	if matcher == nil {
		return false
	}
	return matcher.MatchesPath(rel) || (isDir && matcher.MatchesPath(rel+"/"))
}

func readIgnoreFile(ignorePath string) ([]string, error) {
	var patterns []string
	file, err := os.Open(ignorePath)
	if err != nil {
		return patterns, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	return patterns, scanner.Err()
}
