package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/netfuse/hpmq/pkg/settings"
	"github.com/netfuse/hpmq/pkg/template"
	"github.com/netfuse/hpmq/pkg/util/console"
)

func newInitCommand() *cobra.Command {
	var opts template.Options

	cmd := &cobra.Command{
		Use:        "init",
		SuggestFor: []string{"new", "start", "generate"},
		Short:      "Create a new project from a template",
		Example:    `hpmq init --git https://git.example.com/hpmq-wasi-template.git --name hello-wasm`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initCommand(cmd, opts)
		},
		Args: cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&opts.Git, "git", "g", "", "Git repository to clone the template from")
	cmd.Flags().StringVarP(&opts.Path, "path", "p", "", "Local path to copy the template from. Can not be specified together with --git")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Project name")
	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", "Branch to use when cloning the template")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Write into the project directory even if it exists")
	cmd.MarkFlagsMutuallyExclusive("git", "path")

	return cmd
}

func initCommand(cmd *cobra.Command, opts template.Options) error {
	if opts.Git == "" && opts.Path == "" {
		userSettings, err := settings.LoadUserSettings()
		if err != nil {
			return err
		}
		if userSettings.TemplateGit == "" {
			return errors.New("No template given. Pass --git or --path, or set template_git in the hpmq settings")
		}
		opts.Git = userSettings.TemplateGit
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	opts.Destination = cwd
	opts.Prompter = prompter

	dir, err := template.Generate(cmd.Context(), opts)
	if err != nil {
		return err
	}
	console.Infof("Done! Your project is in %s", dir)
	return nil
}
