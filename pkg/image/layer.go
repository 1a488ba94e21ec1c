package image

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/google/go-containerregistry/pkg/v1/types"

	"github.com/netfuse/hpmq/pkg/buildconfig"
	"github.com/netfuse/hpmq/pkg/util/console"
)

// newLayer writes every copied file, with its parent directories, into an
// uncompressed tar held in memory. When several COPY instructions share a
// destination only the last one is written.
func newLayer(ctx context.Context, cfg *buildconfig.BuildConfig, contextDir string) (v1.Layer, error) {
	entrypoint := ""
	if cmd, ok := cfg.Cmd(); ok {
		entrypoint = cmd.ImagePath()
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	dirs := map[string]bool{}

	copies := cfg.Copies()
	last := map[string]int{}
	for i, c := range copies {
		last[c.Dest.ImagePath()] = i
	}

	for i, c := range copies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		target := c.Dest.ImagePath()
		if last[target] != i {
			console.Debugf("%s is overwritten by a later COPY", target)
			continue
		}
		if err := writeParents(tw, dirs, target); err != nil {
			return nil, err
		}

		local := c.LocalPath(contextDir)
		mode := os.FileMode(0)
		if target == entrypoint {
			mode = 0o111
		}
		console.Debugf("Adding %s as %s", local, target)
		if err := writeFile(tw, local, target, mode); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}

	data := buf.Bytes()
	return tarball.LayerFromOpener(func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}, tarball.WithMediaType(types.OCILayer))
}

func writeParents(tw *tar.Writer, written map[string]bool, target string) error {
	var parents []string
	for dir := path.Dir(target); dir != "/" && !written[dir]; dir = path.Dir(dir) {
		parents = append(parents, dir)
	}
	for i := len(parents) - 1; i >= 0; i-- {
		dir := parents[i]
		err := tw.WriteHeader(&tar.Header{
			Name:     strings.TrimPrefix(dir, "/") + "/",
			Typeflag: tar.TypeDir,
			Mode:     0o755,
		})
		if err != nil {
			return err
		}
		written[dir] = true
	}
	return nil
}

func writeFile(tw *tar.Writer, local string, target string, extraMode os.FileMode) error {
	f, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("Failed to open %s: %w", local, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", local)
	}

	err = tw.WriteHeader(&tar.Header{
		Name:     strings.TrimPrefix(target, "/"),
		Typeflag: tar.TypeReg,
		Mode:     int64(info.Mode().Perm() | extraMode),
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	})
	if err != nil {
		return err
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("Failed to add %s to layer: %w", local, err)
	}
	return nil
}
