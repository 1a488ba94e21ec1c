package image

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/empty"
	"github.com/google/go-containerregistry/pkg/v1/layout"
	"github.com/google/go-containerregistry/pkg/v1/match"

	"github.com/netfuse/hpmq/pkg/buildconfig"
	"github.com/netfuse/hpmq/pkg/errors"
	"github.com/netfuse/hpmq/pkg/global"
	"github.com/netfuse/hpmq/pkg/util/console"
	"github.com/netfuse/hpmq/pkg/util/files"
)

const refNameAnnotation = "org.opencontainers.image.ref.name"

// Store keeps built and pulled images in an OCI image layout, one manifest
// per image reference.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore is the store under the hpmq home directory.
func DefaultStore() (*Store, error) {
	home, err := global.HomeDir()
	if err != nil {
		return nil, err
	}
	return NewStore(filepath.Join(home, "oci")), nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) layout() (layout.Path, error) {
	exists, err := files.Exists(filepath.Join(s.dir, "index.json"))
	if err != nil {
		return "", err
	}
	if exists {
		return layout.FromPath(s.dir)
	}
	console.Debugf("Creating image store in %s", s.dir)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	return layout.Write(s.dir, empty.Index)
}

// Write stores img under ref, replacing any image previously stored under the same name.
func (s *Store) Write(ref name.Reference, img v1.Image) error {
	lp, err := s.layout()
	if err != nil {
		return err
	}
	err = lp.ReplaceImage(img, match.Name(ref.Name()), layout.WithAnnotations(map[string]string{
		refNameAnnotation: ref.Name(),
	}))
	if err != nil {
		return fmt.Errorf("Failed to write %s to the image store: %w", ref.Name(), err)
	}
	return nil
}

// Image returns the image stored under ref.
func (s *Store) Image(ref name.Reference) (v1.Image, error) {
	desc, err := s.find(ref)
	if err != nil {
		return nil, err
	}
	lp, err := s.layout()
	if err != nil {
		return nil, err
	}
	return lp.Image(desc.Digest)
}

// Remove drops ref from the store index. Its blobs are left in place.
func (s *Store) Remove(ref name.Reference) error {
	if _, err := s.find(ref); err != nil {
		return err
	}
	lp, err := s.layout()
	if err != nil {
		return err
	}
	return lp.RemoveDescriptors(match.Name(ref.Name()))
}

func (s *Store) find(ref name.Reference) (*v1.Descriptor, error) {
	manifests, err := s.manifests()
	if err != nil {
		return nil, err
	}
	for _, desc := range manifests {
		if desc.Annotations[refNameAnnotation] == ref.Name() {
			return &desc, nil
		}
	}
	return nil, errors.ImageNotFound(ref.Name())
}

func (s *Store) manifests() ([]v1.Descriptor, error) {
	lp, err := s.layout()
	if err != nil {
		return nil, err
	}
	index, err := lp.ImageIndex()
	if err != nil {
		return nil, err
	}
	manifest, err := index.IndexManifest()
	if err != nil {
		return nil, fmt.Errorf("Failed to read image store index: %w", err)
	}
	return manifest.Manifests, nil
}

// Entry describes one stored image.
type Entry struct {
	Ref     string
	Digest  v1.Hash
	Kind    buildconfig.Kind
	Created time.Time
}

// List returns the stored images sorted by reference.
func (s *Store) List() ([]Entry, error) {
	manifests, err := s.manifests()
	if err != nil {
		return nil, err
	}
	lp, err := s.layout()
	if err != nil {
		return nil, err
	}

	entries := []Entry{}
	for _, desc := range manifests {
		ref := desc.Annotations[refNameAnnotation]
		if ref == "" {
			continue
		}
		img, err := lp.Image(desc.Digest)
		if err != nil {
			return nil, err
		}
		meta, err := GetMetadata(img)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{
			Ref:     ref,
			Digest:  desc.Digest,
			Kind:    meta.Kind,
			Created: meta.Created,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Ref < entries[j].Ref
	})
	return entries, nil
}
