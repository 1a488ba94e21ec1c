package cli

import (
	"github.com/spf13/cobra"

	"github.com/netfuse/hpmq/pkg/dockerfile"
	"github.com/netfuse/hpmq/pkg/image"
	"github.com/netfuse/hpmq/pkg/util/console"
)

var loadFlag bool

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "build",
		Short:   "Build an image from the Hpmqfile in the current directory",
		Example: `hpmq build -i repo.example.com/moss/hello-wasm:0.1`,
		RunE:    buildCommand,
		Args:    cobra.NoArgs,
	}
	addImageFlag(cmd)
	addBuildFileFlag(cmd)
	cmd.Flags().BoolVar(&loadFlag, "load", false, "Also load the image into the local Docker daemon")
	return cmd
}

func buildCommand(cmd *cobra.Command, args []string) error {
	ref, err := parseImage()
	if err != nil {
		return err
	}

	cfg, contextDir, err := dockerfile.LoadBuildConfig(buildFileFlag)
	if err != nil {
		return err
	}

	console.Infof("Building %s", ref.Name())
	img, err := image.Build(cmd.Context(), cfg, contextDir)
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

	if loadFlag {
		console.Infof("Loading %s into Docker", ref.Name())
		if err := image.LoadIntoDaemon(cmd.Context(), ref, img); err != nil {
			return err
		}
	}

	digest, err := img.Digest()
	if err != nil {
		return err
	}
	console.Infof("%s@%s built successfully", ref.Name(), digest)
	return nil
}
