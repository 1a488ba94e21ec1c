package cli

import (
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/spf13/cobra"

	"github.com/netfuse/hpmq/pkg/registry"
	"github.com/netfuse/hpmq/pkg/settings"
	"github.com/netfuse/hpmq/pkg/util/console"
)

func newLoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:        "login [REGISTRY]",
		SuggestFor: []string{"auth", "authenticate", "authorize"},
		Short:      "Log in to a container registry",
		Long: `Log in to a container registry.

Prompts for a user name and password unless they are given as flags, checks
them against the registry, then stores them using Docker's credential system.
Without an argument the registry from the hpmq settings is used. With
--default the registry is saved to the hpmq settings.`,
		RunE: login,
		Args: cobra.MaximumNArgs(1),
	}
	addCredentialFlags(cmd.Flags())
	cmd.Flags().Bool("default", false, "Also use this registry for image references that don't name one")
	return cmd
}

func login(cmd *cobra.Command, args []string) error {
	userSettings, err := settings.LoadUserSettings()
	if err != nil {
		return err
	}
	host := userSettings.Registry
	if len(args) > 0 {
		host = args[0]
	}
	if host == "" {
		host = name.DefaultRegistry
	}
	var opts []name.Option
	if userSettings.Insecure {
		opts = append(opts, name.Insecure)
	}
	reg, err := name.NewRegistry(host, opts...)
	if err != nil {
		return err
	}

	console.Infof("Logging in to %s", reg.RegistryStr())
	err = registry.Login(cmd.Context(), reg, registry.Credentials{
		Username: usernameFlag,
		Password: passwordFlag,
	}, prompter)
	if err != nil {
		return err
	}
	console.Infof("Login succeeded for %s", reg.RegistryStr())

	makeDefault, err := cmd.Flags().GetBool("default")
	if err != nil {
		return err
	}
	if makeDefault && userSettings.Registry != reg.RegistryStr() {
		userSettings.Registry = reg.RegistryStr()
		if err := userSettings.Save(); err != nil {
			return err
		}
		console.Infof("%s is now the default registry", reg.RegistryStr())
	}
	return nil
}
