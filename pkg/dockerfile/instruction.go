package dockerfile

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/netfuse/hpmq/pkg/buildconfig"
	"github.com/netfuse/hpmq/pkg/errors"
	"github.com/netfuse/hpmq/pkg/util/console"
	"github.com/netfuse/hpmq/pkg/util/files"
)

// Parser classifies decoded nodes into build instructions. COPY sources are
// resolved against ContextDir unless they are absolute.
type Parser struct {
	ContextDir string
}

func NewParser(contextDir string) *Parser {
	return &Parser{ContextDir: contextDir}
}

// ParseInstruction turns one node into a Copy, Cmd or SetKind instruction.
// Any other instruction, or a COPY or CMD that cannot be built, is an error.
func (p *Parser) ParseInstruction(n Node) (buildconfig.Instruction, error) {
	switch n.Kind {
	case NodeCopy:
		return p.parseCopy(n)
	case NodeCmd:
		return parseCmd(n)
	default:
		if strings.EqualFold(n.Name, "KIND") {
			return parseKind(n), nil
		}
		return nil, errors.UnsupportedInstruction(n.StartLine, n.Original)
	}
}

func (p *Parser) parseCopy(n Node) (buildconfig.Instruction, error) {
	for _, flag := range n.Flags {
		if strings.HasPrefix(flag, "--from") {
			return nil, errors.InvalidInstruction(n.StartLine, n.Original, "COPY --from is not supported, there are no build stages")
		}
		console.Debugf("line %d: ignoring COPY flag %s", n.StartLine, flag)
	}
	if len(n.Args) < 2 || n.Args[0] == "" {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, "COPY requires a source and a destination")
	}
	if len(n.Args) > 2 {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, "COPY supports a single source file")
	}
	src, rawDest := n.Args[0], n.Args[1]

	local := buildconfig.Copy{Source: src}.LocalPath(p.ContextDir)
	exists, err := files.Exists(local)
	if err != nil {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, err.Error())
	}
	if !exists {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, "source file "+local+" does not exist")
	}
	isDir, err := files.IsDir(local)
	if err != nil {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, err.Error())
	}
	if isDir {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, "COPY supports a single file, "+local+" is a directory")
	}

	dest, err := buildconfig.ParseDestination(rawDest)
	if err != nil {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, err.Error())
	}
	if !dest.IsFile() {
		dest = dest.WithFile(path.Base(filepath.ToSlash(src)))
	}
	return buildconfig.Copy{Source: src, Dest: dest}, nil
}

func parseCmd(n Node) (buildconfig.Instruction, error) {
	var first string
	if n.Exec {
		if len(n.Args) > 0 {
			first = n.Args[0]
		}
	} else if len(n.Args) > 0 {
		words, err := splitWords(strings.Join(n.Args, " "))
		if err != nil {
			return nil, errors.InvalidInstruction(n.StartLine, n.Original, "CMD is not a valid command line: "+err.Error())
		}
		if len(words) > 0 {
			first = words[0]
		}
	}
	if first == "" {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, "CMD requires a file argument")
	}

	dest, err := buildconfig.ParseDestination(first)
	if err != nil {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, err.Error())
	}
	if !dest.IsFile() {
		return nil, errors.InvalidInstruction(n.StartLine, n.Original, "CMD must reference a file")
	}
	return buildconfig.Cmd{Dest: dest}, nil
}

// parseKind never fails: anything other than a single "app" word is WASI.
func parseKind(n Node) buildconfig.Instruction {
	if n.Exec || len(n.Args) != 1 {
		return buildconfig.SetKind{Kind: buildconfig.KindWasi}
	}
	return buildconfig.SetKind{Kind: buildconfig.ParseKind(n.Args[0])}
}
