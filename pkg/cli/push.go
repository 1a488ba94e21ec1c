package cli

import (
	"github.com/spf13/cobra"

	"github.com/netfuse/hpmq/pkg/image"
	"github.com/netfuse/hpmq/pkg/util/console"
)

func newPushCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "push",
		Short:   "Push an image from the local store to its registry",
		Example: `hpmq push -i repo.example.com/moss/hello-wasm:0.1`,
		RunE:    push,
		Args:    cobra.NoArgs,
	}
	addImageFlag(cmd)
	addCredentialFlags(cmd.Flags())
	return cmd
}

func push(cmd *cobra.Command, args []string) error {
	ref, err := parseImage()
	if err != nil {
		return err
	}
	store, err := image.DefaultStore()
	if err != nil {
		return err
	}
	img, err := store.Image(ref)
	if err != nil {
		return err
	}

	client, err := newRegistryClient(ref)
	if err != nil {
		return err
	}
	console.Infof("Pushing image '%s'...", ref.Name())
	if err := client.Push(cmd.Context(), ref, img); err != nil {
		return err
	}
	console.Infof("%s pushed successfully", ref.Name())
	return nil
}
