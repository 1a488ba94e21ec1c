package dockerfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
	"mvdan.cc/sh/v3/shell"

	"github.com/netfuse/hpmq/pkg/util/console"
)

type NodeKind int

const (
	NodeMisc NodeKind = iota
	NodeCopy
	NodeCmd
)

// Node is one decoded instruction of a build file.
type Node struct {
	Kind NodeKind
	// Name is the upper-cased instruction keyword, e.g. COPY or KIND.
	Name string
	Args []string
	// Flags holds "--flag=value" options such as COPY --from.
	Flags []string
	// Exec is set when the arguments were written as a JSON array.
	Exec      bool
	Original  string
	StartLine int
}

// Document is the ordered list of instructions of a build file.
type Document struct {
	Nodes []Node
}

const noInstructionsMessage = "file with no instructions"

// Decode reads Dockerfile syntax from r.
func Decode(r io.Reader) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return &Document{}, nil
	}

	result, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		// buildkit refuses files holding only comments and blank lines.
		if strings.Contains(err.Error(), noInstructionsMessage) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("Failed to parse build file: %w", err)
	}
	for _, w := range result.Warnings {
		console.Debugf("build file: %s", w.Short)
	}

	doc := &Document{}
	for _, child := range result.AST.Children {
		doc.Nodes = append(doc.Nodes, newNode(child))
	}
	return doc, nil
}

// DecodeFile reads and decodes the build file at path.
func DecodeFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func newNode(n *parser.Node) Node {
	node := Node{
		Name:      strings.ToUpper(n.Value),
		Flags:     n.Flags,
		Exec:      n.Attributes["json"],
		Original:  n.Original,
		StartLine: n.StartLine,
	}
	switch node.Name {
	case "COPY":
		node.Kind = NodeCopy
	case "CMD":
		node.Kind = NodeCmd
	default:
		node.Kind = NodeMisc
	}

	for next := n.Next; next != nil; next = next.Next {
		node.Args = append(node.Args, next.Value)
	}

	// buildkit drops the arguments of instructions it does not know, so
	// custom directives get theirs back from the original line.
	if node.Kind == NodeMisc && !hasValues(node.Args) {
		node.Args, node.Exec = splitOriginal(n.Original)
	}
	return node
}

func hasValues(args []string) bool {
	for _, a := range args {
		if a != "" {
			return true
		}
	}
	return false
}

func splitOriginal(original string) ([]string, bool) {
	fields := strings.Fields(original)
	if len(fields) < 2 {
		return nil, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(original), fields[0]))
	if strings.HasPrefix(rest, "[") {
		return []string{rest}, true
	}
	words, err := splitWords(rest)
	if err != nil {
		return fields[1:], false
	}
	return words, false
}

// splitWords splits s the way a POSIX shell would, without expanding variables.
func splitWords(s string) ([]string, error) {
	return shell.Fields(s, func(name string) string {
		return "$" + name
	})
}
