package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/netfuse/hpmq/pkg/dockerfile"
	"github.com/netfuse/hpmq/pkg/image"
)

func newInspectCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the build configuration of an Hpmqfile, or the metadata of a stored image",
		Example: `hpmq inspect -c Hpmqfile --format yaml
hpmq inspect -i repo.example.com/moss/hello-wasm:0.1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd, format)
		},
		Args: cobra.NoArgs,
	}
	addBuildFileFlag(cmd)
	cmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Inspect an image in the local store instead of a build file")
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json or yaml)")
	return cmd
}

func inspect(cmd *cobra.Command, format string) error {
	var value any
	if imageFlag != "" {
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
		value, err = image.GetMetadata(img)
		if err != nil {
			return err
		}
	} else {
		cfg, _, err := dockerfile.LoadBuildConfig(buildFileFlag)
		if err != nil {
			return err
		}
		value = cfg
	}

	var out []byte
	var err error
	switch strings.ToLower(format) {
	case "json":
		out, err = json.MarshalIndent(value, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(value)
	default:
		return fmt.Errorf("Unknown format %q, use json or yaml", format)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
