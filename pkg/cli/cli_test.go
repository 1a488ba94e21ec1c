package cli

import (
	"bytes"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docker/cli/cli/config"
	ggcrregistry "github.com/google/go-containerregistry/pkg/registry"
	"github.com/stretchr/testify/require"

	"github.com/netfuse/hpmq/pkg/errors"
	"github.com/netfuse/hpmq/pkg/global"
	"github.com/netfuse/hpmq/pkg/settings"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd, err := NewRootCommand()
	require.NoError(t, err)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func writeProject(t *testing.T, hpmqfile string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.wasm"), []byte("\x00asm"), 0o644))
	path := filepath.Join(dir, global.BuildFilename)
	require.NoError(t, os.WriteFile(path, []byte(hpmqfile), 0o644))
	return path
}

func TestBuildPushPullContainerInit(t *testing.T) {
	home := t.TempDir()
	t.Setenv(global.HomeEnvVar, home)

	server := httptest.NewServer(ggcrregistry.New(ggcrregistry.Logger(log.New(io.Discard, "", 0))))
	defer server.Close()
	ref := strings.TrimPrefix(server.URL, "http://") + "/moss/hello-wasm:0.1"

	hpmqfile := writeProject(t, "COPY app.wasm /app/\nRUN make\nCMD [\"/app/app.wasm\"]\nKIND wasi\n")

	_, err := run(t, "build", "-i", ref, "-c", hpmqfile)
	require.NoError(t, err)

	out, err := run(t, "images", "-q")
	require.NoError(t, err)
	require.Equal(t, ref+"\n", out)

	_, err = run(t, "push", "-i", ref, "-u", "moss", "-p", "secret")
	require.NoError(t, err)

	_, err = run(t, "rmi", ref)
	require.NoError(t, err)
	out, err = run(t, "images", "-q")
	require.NoError(t, err)
	require.Empty(t, out)

	_, err = run(t, "pull", "-i", ref, "-u", "moss", "-p", "secret")
	require.NoError(t, err)
	out, err = run(t, "images")
	require.NoError(t, err)
	require.Contains(t, out, ref)
	require.Contains(t, out, "wasi")

	_, err = run(t, "ct-init", "-i", ref, "-u", "moss", "-p", "secret")
	require.NoError(t, err)
	rootfs := filepath.Join(home, "containers", strings.NewReplacer("/", "_", ":", "_").Replace(ref), "rootfs")
	require.FileExists(t, filepath.Join(rootfs, "app", "app.wasm"))

	_, err = run(t, "ct-init", "-i", ref, "-u", "moss", "-p", "secret")
	require.True(t, errors.IsContainerExists(err))

	_, err = run(t, "ct-init", "-i", ref, "-u", "moss", "-p", "secret", "--force", "TRUE")
	require.NoError(t, err)
}

func TestContainerInitPullsMissingImage(t *testing.T) {
	t.Setenv(global.HomeEnvVar, t.TempDir())

	server := httptest.NewServer(ggcrregistry.New(ggcrregistry.Logger(log.New(io.Discard, "", 0))))
	defer server.Close()
	ref := strings.TrimPrefix(server.URL, "http://") + "/moss/app:1"

	hpmqfile := writeProject(t, "COPY app.wasm /bin/app\nCMD /bin/app\nKIND app\n")
	_, err := run(t, "build", "-i", ref, "-c", hpmqfile)
	require.NoError(t, err)
	_, err = run(t, "push", "-i", ref, "-u", "moss", "-p", "secret")
	require.NoError(t, err)
	_, err = run(t, "rmi", ref)
	require.NoError(t, err)

	_, err = run(t, "ct-init", "-i", ref, "-u", "moss", "-p", "secret")
	require.NoError(t, err)

	out, err := run(t, "images", "-q")
	require.NoError(t, err)
	require.Equal(t, ref+"\n", out)
}

func TestContainerInitUnknownImage(t *testing.T) {
	home := t.TempDir()
	t.Setenv(global.HomeEnvVar, home)

	server := httptest.NewServer(ggcrregistry.New(ggcrregistry.Logger(log.New(io.Discard, "", 0))))
	defer server.Close()
	ref := strings.TrimPrefix(server.URL, "http://") + "/moss/missing:1"

	_, err := run(t, "ct-init", "-i", ref, "-u", "moss", "-p", "secret")
	require.True(t, errors.IsImageNotFound(err), "got %v", err)
	require.NoDirExists(t, filepath.Join(home, "containers", strings.NewReplacer("/", "_", ":", "_").Replace(ref)))
}

func TestBuildWithoutCopyWritesNothing(t *testing.T) {
	home := t.TempDir()
	t.Setenv(global.HomeEnvVar, home)

	hpmqfile := writeProject(t, "CMD [\"/app/app.wasm\"]\nKIND app\n")
	_, err := run(t, "build", "-i", "repo.example.com/moss/hello-wasm:0.1", "-c", hpmqfile)
	require.True(t, errors.IsMissingCopy(err))
	require.NoDirExists(t, filepath.Join(home, "oci"))
}

func TestBuildMissingFile(t *testing.T) {
	t.Setenv(global.HomeEnvVar, t.TempDir())

	_, err := run(t, "build", "-i", "repo.example.com/moss/hello-wasm:0.1", "-c", filepath.Join(t.TempDir(), "Hpmqfile"))
	require.ErrorContains(t, err, "does not exist")
}

func TestPushMissingImage(t *testing.T) {
	t.Setenv(global.HomeEnvVar, t.TempDir())

	_, err := run(t, "push", "-i", "repo.example.com/moss/missing:0.1", "-u", "moss", "-p", "secret")
	require.True(t, errors.IsImageNotFound(err))
}

func TestInspectBuildFile(t *testing.T) {
	t.Setenv(global.HomeEnvVar, t.TempDir())
	hpmqfile := writeProject(t, "COPY app.wasm /app/\nCMD [\"/app/app.wasm\"]\nKIND app\n")

	out, err := run(t, "inspect", "-c", hpmqfile, "--format", "yaml")
	require.NoError(t, err)
	require.Contains(t, out, "kind: app")
	require.Contains(t, out, "source: app.wasm")

	out, err = run(t, "inspect", "--config", hpmqfile)
	require.NoError(t, err)
	require.Contains(t, out, `"kind": "app"`)

	_, err = run(t, "inspect", "-c", hpmqfile, "--format", "toml")
	require.ErrorContains(t, err, "Unknown format")
}

func TestInspectStoredImage(t *testing.T) {
	t.Setenv(global.HomeEnvVar, t.TempDir())
	ref := "repo.example.com/moss/hello-wasm:0.1"
	hpmqfile := writeProject(t, "COPY app.wasm /app/\nCMD [\"/app/app.wasm\"]\n")

	_, err := run(t, "build", "-i", ref, "-c", hpmqfile)
	require.NoError(t, err)

	out, err := run(t, "inspect", "-i", ref)
	require.NoError(t, err)
	require.Contains(t, out, `"platform": "wasip1/wasm"`)
	require.Contains(t, out, `"/app/app.wasm"`)
}

func TestInitFromPath(t *testing.T) {
	t.Setenv(global.HomeEnvVar, t.TempDir())
	tmpl := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpl, "Hpmqfile"), []byte("COPY {{crate_name}}.wasm /app/\n"), 0o644))
	cwd := t.TempDir()
	t.Chdir(cwd)

	_, err := run(t, "init", "--path", tmpl, "--name", "hello-wasm")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(cwd, "hello-wasm", "Hpmqfile"))
	require.NoError(t, err)
	require.Equal(t, "COPY hello_wasm.wasm /app/\n", string(content))
}

func TestInitWithoutTemplate(t *testing.T) {
	t.Setenv(global.HomeEnvVar, t.TempDir())
	t.Chdir(t.TempDir())

	_, err := run(t, "init", "--name", "demo")
	require.ErrorContains(t, err, "No template given")
}

func TestLoginSetsDefaultRegistry(t *testing.T) {
	t.Setenv(global.HomeEnvVar, t.TempDir())
	config.SetDir(t.TempDir())

	server := httptest.NewServer(ggcrregistry.New(ggcrregistry.Logger(log.New(io.Discard, "", 0))))
	defer server.Close()
	host := strings.TrimPrefix(server.URL, "http://")

	_, err := run(t, "login", host, "-u", "moss", "-p", "secret")
	require.NoError(t, err)
	userSettings, err := settings.LoadUserSettings()
	require.NoError(t, err)
	require.Empty(t, userSettings.Registry)

	_, err = run(t, "login", host, "-u", "moss", "-p", "secret", "--default")
	require.NoError(t, err)
	userSettings, err = settings.LoadUserSettings()
	require.NoError(t, err)
	require.Equal(t, host, userSettings.Registry)

	ref, err := userSettings.ParseReference("moss/hello-wasm:0.1")
	require.NoError(t, err)
	require.Equal(t, host+"/moss/hello-wasm:0.1", ref.Name())
}
