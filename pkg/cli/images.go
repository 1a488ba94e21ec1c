package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/netfuse/hpmq/pkg/image"
	"github.com/netfuse/hpmq/pkg/util/console"
)

func newImagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "images",
		Short:   "List images in the local store",
		RunE:    listImages,
		Args:    cobra.NoArgs,
		Aliases: []string{"ls"},
	}

	cmd.Flags().BoolP("quiet", "q", false, "Quiet output, only display image references")

	return cmd
}

func listImages(cmd *cobra.Command, args []string) error {
	quiet, err := cmd.Flags().GetBool("quiet")
	if err != nil {
		return err
	}
	store, err := image.DefaultStore()
	if err != nil {
		return err
	}
	entries, err := store.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if quiet {
		for _, entry := range entries {
			fmt.Fprintln(out, entry.Ref)
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IMAGE\tDIGEST\tKIND\tCREATED")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.Ref, shortDigest(entry.Digest.Hex), entry.Kind, console.FormatTime(entry.Created))
	}
	return w.Flush()
}

func shortDigest(hex string) string {
	if len(hex) > 12 {
		return hex[:12]
	}
	return hex
}
