package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
	"golang.org/x/sync/errgroup"

	"github.com/netfuse/hpmq/pkg/util/console"
)

//nolint:staticcheck // ST1012: matches the naming used by callers
var NotFoundError = errors.New("image reference not found")

// RegistryClient talks to an OCI registry with a fixed set of credentials.
type RegistryClient struct {
	auth authn.Authenticator
	// Progress receives the push progress bar. nil disables it.
	Progress io.Writer
}

func NewRegistryClient(auth authn.Authenticator) *RegistryClient {
	if auth == nil {
		auth = authn.Anonymous
	}
	c := &RegistryClient{auth: auth}
	if console.IsTTY(os.Stderr) {
		c.Progress = os.Stderr
	}
	return c
}

func (c *RegistryClient) options(ctx context.Context) []remote.Option {
	return []remote.Option{
		remote.WithContext(ctx),
		remote.WithAuth(c.auth),
		remote.WithUserAgent("hpmq"),
	}
}

// Push uploads img and tags it as ref, reporting upload progress as it goes.
func (c *RegistryClient) Push(ctx context.Context, ref name.Reference, img v1.Image) error {
	console.Debugf("Pushing %s", ref.Name())

	updates := make(chan v1.Update, 64)
	bar := newProgress(c.Progress, ref.Context().RepositoryStr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		opts := append(c.options(gctx), remote.WithProgress(updates))
		if err := remote.Write(ref, img, opts...); err != nil {
			return fmt.Errorf("Failed to push %s: %w", ref.Name(), err)
		}
		return nil
	})
	g.Go(func() error {
		bar.consume(updates)
		return nil
	})
	return g.Wait()
}

// Pull fetches the image manifest and config for ref. Layers are fetched lazily.
func (c *RegistryClient) Pull(ctx context.Context, ref name.Reference) (v1.Image, error) {
	console.Debugf("Pulling %s", ref.Name())
	img, err := remote.Image(ref, c.options(ctx)...)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", ref.Name(), NotFoundError)
		}
		return nil, fmt.Errorf("Failed to pull %s: %w", ref.Name(), err)
	}
	return img, nil
}

// Exists reports whether ref resolves to a manifest, without fetching it.
func (c *RegistryClient) Exists(ctx context.Context, ref name.Reference) (bool, error) {
	if _, err := remote.Head(ref, c.options(ctx)...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func isNotFound(err error) bool {
	var e *transport.Error
	if !errors.As(err, &e) {
		return false
	}
	if e.StatusCode == http.StatusNotFound {
		return true
	}
	for _, diagnosticErr := range e.Errors {
		if diagnosticErr.Code == transport.ManifestUnknownErrorCode || diagnosticErr.Code == transport.NameUnknownErrorCode {
			return true
		}
	}
	return false
}
