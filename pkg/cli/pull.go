package cli

import (
	"github.com/spf13/cobra"

	"github.com/netfuse/hpmq/pkg/image"
	"github.com/netfuse/hpmq/pkg/util/console"
)

func newPullCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pull",
		Short:   "Pull an image from a registry into the local store",
		Example: `hpmq pull -i repo.example.com/moss/hello-wasm:0.1`,
		RunE:    pull,
		Args:    cobra.NoArgs,
	}
	addImageFlag(cmd)
	addCredentialFlags(cmd.Flags())
	return cmd
}

func pull(cmd *cobra.Command, args []string) error {
	ref, err := parseImage()
	if err != nil {
		return err
	}
	client, err := newRegistryClient(ref)
	if err != nil {
		return err
	}
	img, err := client.Pull(cmd.Context(), ref)
	if err != nil {
		return err
	}

	store, err := image.DefaultStore()
	if err != nil {
		return err
	}
	if err := store.Write(ref, img); err != nil {
		return err
	}
	digest, err := img.Digest()
	if err != nil {
		return err
	}
	console.Infof("%s@%s pulled successfully", ref.Name(), digest)
	return nil
}
