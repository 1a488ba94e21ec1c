package buildconfig

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/netfuse/hpmq/pkg/errors"
)

func TestBuildWithoutCopyFails(t *testing.T) {
	b := NewBuilder()
	b.Apply(SetKind{Kind: KindApp})
	b.Apply(Cmd{Dest: Destination{Dir: "/bin/", File: "run.sh"}})

	cfg, err := b.Build()
	require.Nil(t, cfg)
	require.True(t, errors.IsMissingCopy(err))
}

func TestBuildDefaults(t *testing.T) {
	b := NewBuilder()
	b.Apply(Copy{Source: "a.txt", Dest: Destination{Dir: "/d/", File: "a.txt"}})

	cfg, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, KindWasi, cfg.Kind())

	// A missing CMD is allowed and leaves the entrypoint unset.
	_, ok := cfg.Cmd()
	require.False(t, ok)
}

func TestBuildLastWriteWinsAndCopyOrder(t *testing.T) {
	b := NewBuilder()
	first := Copy{Source: "one", Dest: Destination{Dir: "/", File: "one"}}
	second := Copy{Source: "two", Dest: Destination{Dir: "/", File: "two"}}
	b.Apply(first)
	b.Apply(SetKind{Kind: KindApp})
	b.Apply(Cmd{Dest: Destination{File: "one"}})
	b.Apply(second)
	b.Apply(first)
	b.Apply(SetKind{Kind: KindWasi})
	b.Apply(Cmd{Dest: Destination{File: "two"}})

	cfg, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, []Copy{first, second, first}, cfg.Copies())
	require.Equal(t, KindWasi, cfg.Kind())

	cmd, ok := cfg.Cmd()
	require.True(t, ok)
	require.Equal(t, "two", cmd.File)
}

func TestBuildConfigIsImmutable(t *testing.T) {
	b := NewBuilder()
	b.AppendCopy(Copy{Source: "a", Dest: Destination{File: "a"}})
	cfg, err := b.Build()
	require.NoError(t, err)

	b.AppendCopy(Copy{Source: "b", Dest: Destination{File: "b"}})
	copies := cfg.Copies()
	copies[0].Source = "changed"

	require.Len(t, cfg.Copies(), 1)
	require.Equal(t, "a", cfg.Copies()[0].Source)
}

func TestBuildConfigJSON(t *testing.T) {
	b := NewBuilder()
	b.AppendCopy(Copy{Source: "./app.wasm", Dest: Destination{Dir: "/app/", File: "app.wasm"}})
	b.SetKind(KindApp)
	cfg, err := b.Build()
	require.NoError(t, err)

	out, err := json.Marshal(cfg)
	require.NoError(t, err)
	require.JSONEq(t, `{"copies":[{"source":"./app.wasm","dest":{"dir":"/app/","file":"app.wasm"}}],"kind":"app"}`, string(out))
}

func TestParseKind(t *testing.T) {
	require.Equal(t, KindApp, ParseKind("APP"))
	require.Equal(t, KindApp, ParseKind("app"))
	require.Equal(t, KindWasi, ParseKind("wasi"))
	require.Equal(t, KindWasi, ParseKind("something"))
	require.Equal(t, KindWasi, ParseKind(""))

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("App")))
	require.Equal(t, KindApp, k)
	require.Error(t, k.UnmarshalText([]byte("vm")))
}
