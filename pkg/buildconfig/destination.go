package buildconfig

import (
	"fmt"
	"path"
	"strings"
)

// Destination is a path inside the image, split into its directory and an
// optional file name. File is empty when the path names a directory.
type Destination struct {
	Dir  string `json:"dir"`
	File string `json:"file,omitempty"`
}

// ParseDestination splits s into a Destination. A trailing "/" or a final
// "." or ".." segment yields a directory-only destination; otherwise the last
// segment is the file name and everything up to the last "/" is the directory.
func ParseDestination(s string) (Destination, error) {
	if strings.TrimSpace(s) == "" {
		return Destination{}, fmt.Errorf("destination path is empty")
	}
	if strings.ContainsRune(s, 0) {
		return Destination{}, fmt.Errorf("destination path %q contains a NUL byte", s)
	}
	if strings.HasSuffix(s, "/") {
		return Destination{Dir: s}, nil
	}

	i := strings.LastIndex(s, "/")
	last := s[i+1:]
	if last == "." || last == ".." {
		return Destination{Dir: s}, nil
	}
	return Destination{Dir: s[:i+1], File: last}, nil
}

func (d Destination) IsFile() bool {
	return d.File != ""
}

// WithFile returns a copy of d naming the file name inside d's directory.
func (d Destination) WithFile(name string) Destination {
	dir := d.Dir
	if dir != "" && !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return Destination{Dir: dir, File: name}
}

// Path joins the directory and file name back into a single path as written.
func (d Destination) Path() string {
	return d.Dir + d.File
}

// ImagePath is the absolute, cleaned location of d in the image filesystem.
// Relative destinations are rooted at "/".
func (d Destination) ImagePath() string {
	return path.Clean("/" + d.Path())
}

func (d Destination) String() string {
	return d.Path()
}
