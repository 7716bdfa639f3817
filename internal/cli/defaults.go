package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/cmskit/internal/config"
	"github.com/rshade/cmskit/internal/installer"
)

// NewDefaultsCmd creates the defaults command, which installs the companion
// starter kit and then the CMS without asking any questions.
func NewDefaultsCmd() *cobra.Command {
	var composer string

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Install the starter kit and the CMS with default answers",
		Long: `Runs the companion starter kit installer ('php artisan bries:copy 1 0 1 1 0'
by default, configurable under 'companion' in the config file) and then the
CMS installation with Pest and without backups.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hc, err := newHostContext(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("composer") {
				composer = hc.Config.Install.Composer
			}
			return runSteps(cmd, "CMS and Bries installation", installer.DefaultsSteps(hc, composer))
		},
	}

	cmd.Flags().StringVar(&composer, "composer", config.DefaultComposer,
		"Absolute path to the Composer binary used to install packages")

	return cmd
}
