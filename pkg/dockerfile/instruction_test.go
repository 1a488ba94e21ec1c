package dockerfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netfuse/hpmq/pkg/buildconfig"
	"github.com/netfuse/hpmq/pkg/errors"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	return path
}

func TestParseCopy(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.wasm")
	p := NewParser(dir)

	ins, err := p.ParseInstruction(Node{Kind: NodeCopy, Name: "COPY", Args: []string{"./app.wasm", "/app/"}})
	require.NoError(t, err)
	require.Equal(t, buildconfig.Copy{
		Source: "./app.wasm",
		Dest:   buildconfig.Destination{Dir: "/app/", File: "app.wasm"},
	}, ins)

	ins, err = p.ParseInstruction(Node{Kind: NodeCopy, Name: "COPY", Args: []string{"app.wasm", "/app/main.wasm"}})
	require.NoError(t, err)
	require.Equal(t, buildconfig.Destination{Dir: "/app/", File: "main.wasm"}, ins.(buildconfig.Copy).Dest)
}

func TestParseCopyAbsoluteSource(t *testing.T) {
	src := writeFile(t, t.TempDir(), "lib.wasm")

	ins, err := NewParser("/somewhere/else").ParseInstruction(Node{Kind: NodeCopy, Args: []string{src, "/"}})
	require.NoError(t, err)
	require.Equal(t, src, ins.(buildconfig.Copy).Source)
	require.Equal(t, "/lib.wasm", ins.(buildconfig.Copy).Dest.ImagePath())
}

func TestParseCopyErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt")
	writeFile(t, dir, "b.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets"), 0o755))
	p := NewParser(dir)

	for name, node := range map[string]Node{
		"no arguments":      {Kind: NodeCopy, Original: "COPY"},
		"no destination":    {Kind: NodeCopy, Args: []string{"a.txt"}, Original: "COPY a.txt"},
		"missing source":    {Kind: NodeCopy, Args: []string{"nope.txt", "/x"}, Original: "COPY nope.txt /x"},
		"directory source":  {Kind: NodeCopy, Args: []string{"assets", "/assets/"}, Original: "COPY assets /assets/"},
		"multiple sources":  {Kind: NodeCopy, Args: []string{"a.txt", "b.txt", "/d/"}, Original: "COPY a.txt b.txt /d/"},
		"empty destination": {Kind: NodeCopy, Args: []string{"a.txt", " "}, Original: "COPY a.txt"},
		"build stage":       {Kind: NodeCopy, Args: []string{"a.txt", "/d/"}, Flags: []string{"--from=build"}, Original: "COPY --from=build a.txt /d/"},
	} {
		t.Run(name, func(t *testing.T) {
			ins, err := p.ParseInstruction(node)
			require.Nil(t, ins)
			require.True(t, errors.IsInvalidInstruction(err), "got %v", err)
			require.Contains(t, err.Error(), node.Original)
		})
	}
}

func TestParseCmd(t *testing.T) {
	p := NewParser(t.TempDir())

	ins, err := p.ParseInstruction(Node{Kind: NodeCmd, Args: []string{"/bin/run.sh --port 80"}})
	require.NoError(t, err)
	require.Equal(t, buildconfig.Cmd{Dest: buildconfig.Destination{Dir: "/bin/", File: "run.sh"}}, ins)

	ins, err = p.ParseInstruction(Node{Kind: NodeCmd, Exec: true, Args: []string{"a.txt", "x"}})
	require.NoError(t, err)
	require.Equal(t, buildconfig.Cmd{Dest: buildconfig.Destination{File: "a.txt"}}, ins)

	ins, err = p.ParseInstruction(Node{Kind: NodeCmd, Args: []string{`"/opt/my app/run" now`}})
	require.NoError(t, err)
	require.Equal(t, "run", ins.(buildconfig.Cmd).Dest.File)
}

func TestParseCmdErrors(t *testing.T) {
	p := NewParser(t.TempDir())

	for name, node := range map[string]Node{
		"no arguments":    {Kind: NodeCmd},
		"empty exec form": {Kind: NodeCmd, Exec: true},
		"directory":       {Kind: NodeCmd, Args: []string{"/bin/"}},
		"exec directory":  {Kind: NodeCmd, Exec: true, Args: []string{"/app/."}},
		"bad quoting":     {Kind: NodeCmd, Args: []string{`"/bin/run`}},
	} {
		t.Run(name, func(t *testing.T) {
			ins, err := p.ParseInstruction(node)
			require.Nil(t, ins)
			require.True(t, errors.IsInvalidInstruction(err), "got %v", err)
		})
	}
}

func TestParseKind(t *testing.T) {
	p := NewParser(t.TempDir())

	for _, tt := range []struct {
		node Node
		want buildconfig.Kind
	}{
		{Node{Name: "KIND", Args: []string{"APP"}}, buildconfig.KindApp},
		{Node{Name: "kind", Args: []string{"app"}}, buildconfig.KindApp},
		{Node{Name: "Kind", Args: []string{"wasi"}}, buildconfig.KindWasi},
		{Node{Name: "KIND", Args: []string{"vm"}}, buildconfig.KindWasi},
		{Node{Name: "KIND"}, buildconfig.KindWasi},
		{Node{Name: "KIND", Exec: true, Args: []string{`["app"]`}}, buildconfig.KindWasi},
		{Node{Name: "KIND", Args: []string{"app", "extra"}}, buildconfig.KindWasi},
		{Node{Name: "KIND", Args: []string{"app", "more"}, Original: "KIND app  more"}, buildconfig.KindWasi},
	} {
		ins, err := p.ParseInstruction(tt.node)
		require.NoError(t, err)
		require.Equal(t, buildconfig.SetKind{Kind: tt.want}, ins)
	}
}

func TestParseUnsupported(t *testing.T) {
	p := NewParser(t.TempDir())

	for _, name := range []string{"RUN", "FROM", "ENV", "ADD", "KINDS", ""} {
		ins, err := p.ParseInstruction(Node{Kind: NodeMisc, Name: name, StartLine: 4, Original: name + " x"})
		require.Nil(t, ins)
		require.True(t, errors.IsUnsupportedInstruction(err), "got %v", err)
		require.Contains(t, err.Error(), "line 4")
	}
}
