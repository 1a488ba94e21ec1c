package image

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/client"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"golang.org/x/sync/errgroup"

	"github.com/netfuse/hpmq/pkg/util/console"
)

// LoadIntoDaemon streams img to the local Docker daemon as if by `docker load`.
func LoadIntoDaemon(ctx context.Context, ref name.Reference, img v1.Image) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return fmt.Errorf("Failed to connect to Docker: %w", err)
	}
	defer cli.Close()

	pr, pw := io.Pipe()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := tarball.Write(ref, img, pw)
		pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		resp, err := cli.ImageLoad(ctx, pr)
		if err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("Failed to load image into Docker: %w", err)
		}
		defer resp.Body.Close()
		out, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		console.Debug(string(out))
		return nil
	})
	return g.Wait()
}
