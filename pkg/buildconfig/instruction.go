package buildconfig

import "path/filepath"

// Instruction is one classified build instruction. The set of variants is
// closed: Copy, Cmd and SetKind.
type Instruction interface {
	isInstruction()
}

// Copy transfers a single local file into the image.
type Copy struct {
	// Source is the local path as written in the build file.
	Source string      `json:"source"`
	Dest   Destination `json:"dest"`
}

// Cmd names the file the image runs on start.
type Cmd struct {
	Dest Destination `json:"dest"`
}

// SetKind selects the image's runtime category.
type SetKind struct {
	Kind Kind `json:"kind"`
}

func (Copy) isInstruction()    {}
func (Cmd) isInstruction()     {}
func (SetKind) isInstruction() {}

// LocalPath is the file Source refers to when resolved against contextDir.
func (c Copy) LocalPath(contextDir string) string {
	if filepath.IsAbs(c.Source) || contextDir == "" {
		return c.Source
	}
	return filepath.Join(contextDir, c.Source)
}
