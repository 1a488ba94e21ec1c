package cli

import (
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/netfuse/hpmq/pkg/global"
	"github.com/netfuse/hpmq/pkg/registry"
	"github.com/netfuse/hpmq/pkg/settings"
	"github.com/netfuse/hpmq/pkg/util/console"
)

var imageFlag string
var buildFileFlag string
var usernameFlag string
var passwordFlag string

// prompter asks for credentials and project names that were not passed as flags.
var prompter registry.Prompter = console.TerminalPrompter{}

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "hpmq",
		Short:   "Build, push and run WASI and app images",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		// This stops errors being printed because we print them in cmd/hpmq/main.go
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newInitCommand(),
		newBuildCommand(),
		newPushCommand(),
		newPullCommand(),
		newContainerInitCommand(),
		newInspectCommand(),
		newImagesCommand(),
		newRemoveImageCommand(),
		newLoginCommand(),
	)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
}

func addImageFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Full image reference, e.g. repo.example.com/moss/hello-wasm:0.1")
	_ = cmd.MarkFlagRequired("image")
}

func addBuildFileFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&buildFileFlag, "config", "c", global.BuildFilename, "Path to the build file")
}

func addCredentialFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&usernameFlag, "user-name", "u", "", "Registry user name, asked for when missing")
	flags.StringVarP(&passwordFlag, "password", "p", "", "Registry password, asked for when missing")
}

// parseImage parses imageFlag with the user's default registry settings applied.
func parseImage() (name.Reference, error) {
	userSettings, err := settings.LoadUserSettings()
	if err != nil {
		return nil, err
	}
	return userSettings.ParseReference(imageFlag)
}

func newRegistryClient(ref name.Reference) (*registry.RegistryClient, error) {
	auth, err := registry.ResolveAuth(ref.Context().Registry, registry.Credentials{
		Username: usernameFlag,
		Password: passwordFlag,
	}, prompter)
	if err != nil {
		return nil, err
	}
	return registry.NewRegistryClient(auth), nil
}
