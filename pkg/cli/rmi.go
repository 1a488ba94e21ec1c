package cli

import (
	"github.com/spf13/cobra"

	"github.com/netfuse/hpmq/pkg/image"
	"github.com/netfuse/hpmq/pkg/settings"
	"github.com/netfuse/hpmq/pkg/util/console"
)

func newRemoveImageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rmi IMAGE [IMAGE...]",
		Short:   "Remove images from the local store",
		RunE:    removeImages,
		Args:    cobra.MinimumNArgs(1),
		Aliases: []string{"rm"},
	}
	return cmd
}

func removeImages(cmd *cobra.Command, args []string) error {
	userSettings, err := settings.LoadUserSettings()
	if err != nil {
		return err
	}
	store, err := image.DefaultStore()
	if err != nil {
		return err
	}
	for _, arg := range args {
		ref, err := userSettings.ParseReference(arg)
		if err != nil {
			return err
		}
		if err := store.Remove(ref); err != nil {
			return err
		}
		console.Infof("Removed %s", ref.Name())
	}
	return nil
}
