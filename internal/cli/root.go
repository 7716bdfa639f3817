// Package cli implements the cmskit command tree.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/cmskit/internal/logging"
	"github.com/rshade/cmskit/internal/tui"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return tui.IsTerminal(f)
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the cmskit CLI.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "cmskit",
		Short:   "Install the CMS scaffold into a Laravel application",
		Long:    "cmskit copies a users/roles/posts admin CMS into a Laravel application and wires its dependencies",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			result, err := setupLogging(cmd)
			if err != nil {
				return err
			}
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return logResult.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to a config file (default $CMSKIT_HOME/config.yaml)")
	cmd.PersistentFlags().String("path", "", "Laravel application root (default: nearest directory with an artisan script)")

	cmd.AddCommand(NewInstallCmd(), NewDefaultsCmd(), NewDoctorCmd(), NewConfigCmd(), NewVersionCmd())

	return cmd
}

const rootCmdExample = `  # Install interactively, answering the framework and backup prompts
  cmskit install

  # Install with Pest and backups, no prompts
  cmskit install 1 1

  # Use a composer.phar instead of the global composer
  cmskit install 0 1 --composer /opt/composer.phar

  # Starter kit plus CMS with default answers
  cmskit defaults

  # Check the host application and required tools
  cmskit doctor

  # Write the default configuration, then check it
  cmskit config init
  cmskit config validate`
