package cli

import (
	"context"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/spf13/cobra"

	"github.com/netfuse/hpmq/pkg/container"
	"github.com/netfuse/hpmq/pkg/errors"
	"github.com/netfuse/hpmq/pkg/image"
	"github.com/netfuse/hpmq/pkg/util/console"
)

var forceFlag string

func newContainerInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ct-init",
		Short:   "Unpack an image into a local container directory",
		Example: `hpmq ct-init -i repo.example.com/moss/hello-wasm:0.1 --force true`,
		RunE:    containerInit,
		Args:    cobra.NoArgs,
	}
	addImageFlag(cmd)
	addCredentialFlags(cmd.Flags())
	cmd.Flags().StringVarP(&forceFlag, "force", "f", "false", "Replace an existing container directory (true or false)")
	return cmd
}

func containerInit(cmd *cobra.Command, args []string) error {
	ref, err := parseImage()
	if err != nil {
		return err
	}
	store, err := image.DefaultStore()
	if err != nil {
		return err
	}
	root, err := container.DefaultRoot()
	if err != nil {
		return err
	}

	c, err := container.Init(cmd.Context(), container.Options{
		Ref:   ref,
		Store: store,
		Root:  root,
		Force: strings.EqualFold(forceFlag, "true"),
		Fetch: fetchFromRegistry,
	})
	if err != nil {
		return err
	}
	console.Infof("Container for %s initialised in %s", ref.Name(), c.Dir)
	return nil
}

func fetchFromRegistry(ctx context.Context, ref name.Reference) (v1.Image, error) {
	client, err := newRegistryClient(ref)
	if err != nil {
		return nil, err
	}
	exists, err := client.Exists(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.ImageNotFound(ref.Name())
	}
	return client.Pull(ctx, ref)
}
