// Package container unpacks stored images into local container directories.
package container

import (
	"archive/tar"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/mutate"

	"github.com/netfuse/hpmq/pkg/errors"
	"github.com/netfuse/hpmq/pkg/global"
	"github.com/netfuse/hpmq/pkg/image"
	"github.com/netfuse/hpmq/pkg/util/console"
	"github.com/netfuse/hpmq/pkg/util/files"
)

const MetadataFilename = "container.json"

// FetchFunc retrieves an image that is not in the local store yet.
type FetchFunc func(ctx context.Context, ref name.Reference) (v1.Image, error)

type Options struct {
	Ref   name.Reference
	Store *image.Store
	// Root is the directory containers are created in.
	Root  string
	Force bool
	// Fetch is called when Ref is not in Store. The fetched image is stored before unpacking.
	Fetch FetchFunc
}

// Container is written to container.json next to the unpacked rootfs.
type Container struct {
	Dir        string   `json:"-"`
	Ref        string   `json:"ref"`
	Digest     string   `json:"digest"`
	Kind       string   `json:"kind"`
	Platform   string   `json:"platform"`
	Entrypoint []string `json:"entrypoint,omitempty"`
}

// DefaultRoot is the containers directory under the hpmq home directory.
func DefaultRoot() (string, error) {
	home, err := global.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "containers"), nil
}

// DirName maps an image reference to a directory name.
func DirName(ref name.Reference) string {
	return strings.NewReplacer("/", "_", ":", "_", "@", "_").Replace(ref.Name())
}

// Init unpacks opts.Ref into <Root>/<DirName(Ref)>/rootfs.
func Init(ctx context.Context, opts Options) (*Container, error) {
	dir := filepath.Join(opts.Root, DirName(opts.Ref))
	exists, err := files.Exists(dir)
	if err != nil {
		return nil, err
	}
	if exists && !opts.Force {
		return nil, errors.ContainerExists(dir)
	}

	img, err := resolveImage(ctx, opts)
	if err != nil {
		return nil, err
	}

	if exists {
		console.Infof("Removing existing container at %s", dir)
		if err := os.RemoveAll(dir); err != nil {
			return nil, err
		}
	}

	rootfs := filepath.Join(dir, "rootfs")
	if err := os.MkdirAll(rootfs, 0o755); err != nil {
		return nil, err
	}
	if err := unpack(ctx, img, rootfs); err != nil {
		_ = os.RemoveAll(dir)
		return nil, err
	}

	c, err := describe(opts.Ref, img)
	if err != nil {
		return nil, err
	}
	c.Dir = dir
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, MetadataFilename), data, 0o644); err != nil {
		return nil, err
	}
	return c, nil
}

func resolveImage(ctx context.Context, opts Options) (v1.Image, error) {
	img, err := opts.Store.Image(opts.Ref)
	if err == nil {
		return img, nil
	}
	if !errors.IsImageNotFound(err) || opts.Fetch == nil {
		return nil, err
	}

	console.Infof("%s is not in the local store, pulling it", opts.Ref.Name())
	img, err = opts.Fetch(ctx, opts.Ref)
	if err != nil {
		return nil, err
	}
	if err := opts.Store.Write(opts.Ref, img); err != nil {
		return nil, err
	}
	return opts.Store.Image(opts.Ref)
}

func describe(ref name.Reference, img v1.Image) (*Container, error) {
	digest, err := img.Digest()
	if err != nil {
		return nil, err
	}
	meta, err := image.GetMetadata(img)
	if err != nil {
		return nil, err
	}
	return &Container{
		Ref:        ref.Name(),
		Digest:     digest.String(),
		Kind:       meta.Kind.String(),
		Platform:   meta.Platform,
		Entrypoint: meta.Entrypoint,
	}, nil
}

// unpack writes the flattened filesystem of img under root. Entries that
// would land outside root are rejected.
func unpack(ctx context.Context, img v1.Image, root string) error {
	rc := mutate.Extract(img)
	defer rc.Close()

	tr := tar.NewReader(rc)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Failed to read image filesystem: %w", err)
		}

		target, err := targetPath(root, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(tr, target, os.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if !symlinkInside(hdr.Name, hdr.Linkname) {
				console.Warnf("Skipping symlink %s pointing outside the container: %s", hdr.Name, hdr.Linkname)
				continue
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		default:
			console.Debugf("Skipping %s: unsupported entry type %c", hdr.Name, hdr.Typeflag)
		}
	}
}

func targetPath(root, entry string) (string, error) {
	clean := path.Clean("/" + entry)
	target := filepath.Join(root, filepath.FromSlash(clean))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", fmt.Errorf("image entry %s escapes the container root", entry)
	}
	return target, nil
}

func symlinkInside(entry, link string) bool {
	if path.IsAbs(link) {
		return false
	}
	dir := strings.TrimPrefix(path.Dir(path.Clean(entry)), "/")
	resolved := path.Clean(path.Join(dir, link))
	return resolved != ".." && !strings.HasPrefix(resolved, "../")
}

func writeEntry(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
