package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/cmskit/internal/config"
	"github.com/rshade/cmskit/internal/hostapp"
	"github.com/rshade/cmskit/internal/installer"
	"github.com/rshade/cmskit/internal/pkgmgr"
	"github.com/rshade/cmskit/internal/tui"
)

// newRunner builds the subprocess runner for a command. Tests replace it.
//
//nolint:gochecknoglobals // Test seam.
var newRunner = func(cmd *cobra.Command) pkgmgr.Runner {
	return pkgmgr.NewExecRunner(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// newAsker picks how missing answers are asked for. Tests replace it.
//
//nolint:gochecknoglobals // Test seam.
var newAsker = askerFor

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var composer string

	cmd := &cobra.Command{
		Use:   "install [pest] [backup]",
		Short: "Install the CMS into the Laravel application",
		Long: `Copies the CMS controllers, models, views, routes and database files into
the Laravel application, installs the feature tests for Pest or PHPUnit,
adds the front-end packages to package.json, builds the assets and runs
'php artisan migrate:fresh --seed --seeder=CmsSeeder'.

The fresh migration drops every table in the application database.

pest and backup accept 1 or 0. Missing answers are asked for interactively.`,
		Example: `  # Ask for both answers
  cmskit install

  # Pest, no backups
  cmskit install 1 0

  # PHPUnit with backups, using a specific composer.phar
  cmskit install 0 1 --composer /opt/composer.phar`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args, composer)
		},
	}

	cmd.Flags().StringVar(&composer, "composer", config.DefaultComposer,
		"Absolute path to the Composer binary used to install packages")

	return cmd
}

func runInstall(cmd *cobra.Command, args []string, composer string) error {
	ctx := cmd.Context()

	hc, err := newHostContext(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("composer") {
		composer = hc.Config.Install.Composer
	}

	opts, err := ResolveOptions(ctx, args, composer, newAsker(cmd))
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			newBanner(cmd).Failure("Installation cancelled")
			return exitError(installer.ExitFailure, "installation cancelled")
		}
		return err
	}

	logger.Debug().
		Ctx(ctx).
		Str("operation", "install").
		Str("base_path", hc.BasePath).
		Bool("pest", opts.Pest).
		Bool("backup", opts.Backup).
		Str("composer", opts.Composer).
		Msg("resolved installation options")

	return runSteps(cmd, "CMS installation", installer.Steps(hc, opts))
}

// newHostContext builds the host context for the application this
// invocation targets.
func newHostContext(cmd *cobra.Command) (*hostapp.Context, error) {
	return hostapp.New(resolveHostDir(cmd), config.GetGlobalConfig(), newRunner(cmd), cmd.OutOrStdout())
}

// newBanner returns the status reporter for cmd's output, styled only on a
// terminal.
func newBanner(cmd *cobra.Command) *tui.Banner {
	out := cmd.OutOrStdout()
	styled := false
	if f, ok := out.(*os.File); ok {
		styled = isTerminal(f)
	}
	return tui.NewBanner(out, styled)
}

// runSteps runs steps through the orchestrator and converts a failure into
// an ExitError.
func runSteps(cmd *cobra.Command, name string, steps []installer.Step) error {
	o := installer.New(newBanner(cmd))
	o.Name = name
	if code := o.Run(cmd.Context(), steps); code != installer.ExitSuccess {
		return exitError(code, "%s failed", name)
	}
	return nil
}
