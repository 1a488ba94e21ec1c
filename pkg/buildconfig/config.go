package buildconfig

import (
	"encoding/json"
	"fmt"

	"github.com/netfuse/hpmq/pkg/errors"
)

// Builder accumulates instructions in document order. COPY instructions are
// appended; KIND and CMD keep the last value seen.
type Builder struct {
	copies []Copy
	kind   Kind
	cmd    *Destination
}

func NewBuilder() *Builder {
	return &Builder{kind: KindWasi}
}

func (b *Builder) AppendCopy(c Copy) {
	b.copies = append(b.copies, c)
}

func (b *Builder) SetKind(k Kind) {
	b.kind = k
}

func (b *Builder) SetCmd(d Destination) {
	b.cmd = &d
}

// Apply folds a single instruction into the builder.
func (b *Builder) Apply(ins Instruction) {
	switch ins := ins.(type) {
	case Copy:
		b.AppendCopy(ins)
	case Cmd:
		b.SetCmd(ins.Dest)
	case SetKind:
		b.SetKind(ins.Kind)
	default:
		panic(fmt.Sprintf("unknown instruction type %T", ins))
	}
}

// Len returns the number of copies appended so far.
func (b *Builder) Len() int {
	return len(b.copies)
}

// Build finalizes the builder. It fails when no COPY was appended.
func (b *Builder) Build() (*BuildConfig, error) {
	if len(b.copies) == 0 {
		return nil, errors.MissingCopy()
	}
	cfg := &BuildConfig{
		copies: make([]Copy, len(b.copies)),
		kind:   b.kind,
	}
	copy(cfg.copies, b.copies)
	if b.cmd != nil {
		cmd := *b.cmd
		cfg.cmd = &cmd
	}
	return cfg, nil
}

// BuildConfig is the finalized description of an image: the files to copy
// in, the runtime kind and, optionally, the file to run.
type BuildConfig struct {
	copies []Copy
	kind   Kind
	cmd    *Destination
}

// Copies returns the copy instructions in document order.
func (c *BuildConfig) Copies() []Copy {
	out := make([]Copy, len(c.copies))
	copy(out, c.copies)
	return out
}

func (c *BuildConfig) Kind() Kind {
	return c.kind
}

// Cmd returns the entrypoint, and false when the build file had no CMD.
func (c *BuildConfig) Cmd() (Destination, bool) {
	if c.cmd == nil {
		return Destination{}, false
	}
	return *c.cmd, true
}

type buildConfigJSON struct {
	Copies []Copy       `json:"copies"`
	Kind   Kind         `json:"kind"`
	Cmd    *Destination `json:"cmd,omitempty"`
}

func (c *BuildConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(buildConfigJSON{
		Copies: c.copies,
		Kind:   c.kind,
		Cmd:    c.cmd,
	})
}
