package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/cmskit/internal/config"
	"github.com/rshade/cmskit/internal/hostapp"
	"github.com/rshade/cmskit/internal/manifest"
	"github.com/rshade/cmskit/internal/pkgmgr"
	"github.com/rshade/cmskit/internal/stage"
	"github.com/rshade/cmskit/internal/testsuite"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cmskit configuration",
	}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}

// NewConfigInitCmd creates the config init command. By default it writes the
// global $CMSKIT_HOME/config.yaml; with --host it writes the .cmskit.yaml
// overlay into the Laravel application instead.
func NewConfigInitCmd() *cobra.Command {
	var (
		force bool
		host  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Without flags the global configuration at $CMSKIT_HOME/config.yaml is written.
Use --host to write a .cmskit.yaml overlay into the Laravel application; its
sections replace the global ones for installs into that application.`,
		Example: `  # Create the global configuration
  cmskit config init

  # Create an overlay in the application at ./app
  cmskit config init --host --path ./app

  # Overwrite an existing file
  cmskit config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.GlobalConfigPath()
			if host {
				path = filepath.Join(resolveHostDir(cmd), config.OverlayFileName)
			}
			return initConfig(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&host, "host", false, "write the .cmskit.yaml overlay into the Laravel application")

	return cmd
}

func initConfig(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	cfg := config.Default()
	cfg.SetConfigPath(path)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", cfg.ConfigPath())
	return nil
}

// NewConfigValidateCmd creates the config validate command.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration resolved for this invocation: the global file
(or --config) with the application's .cmskit.yaml overlay applied.

This includes:
- Node dependency version ranges
- The stub directory, when install.stub_dir is set
- The composer.phar path, when install.composer is not "global"`,
		Example: `  # Validate the configuration for the application in the current directory
  cmskit config validate

  # Show the resolved values
  cmskit config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	var problems []error
	if err := manifest.Dependencies(cfg.Install.NodeDependencies).Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := validateStubDir(cfg.Install.StubDir); err != nil {
		problems = append(problems, err)
	}
	if c := cfg.Install.Composer; c != "" && c != pkgmgr.GlobalComposer {
		if _, err := os.Stat(c); err != nil {
			problems = append(problems, fmt.Errorf("composer %s: %w", c, err))
		}
	}

	if len(problems) > 0 {
		cmd.PrintErrln("Configuration errors:")
		for _, p := range problems {
			cmd.PrintErrf("  - %s\n", p)
		}
		return fmt.Errorf("configuration has %d error(s)", len(problems))
	}

	cmd.Println("Configuration is valid")
	if verbose {
		printConfigDetails(cmd, cfg)
	}
	return nil
}

// validateStubDir checks that a configured stub directory holds every entry
// the installer copies.
func validateStubDir(dir string) error {
	if dir == "" {
		return nil
	}
	fsys, err := hostapp.LoadStubs(dir)
	if err != nil {
		return err
	}
	mappings := append(stage.DefaultMappings(), testsuite.StubMappings()...)
	if err = stage.VerifyStubs(fsys, mappings); err != nil {
		return fmt.Errorf("stub_dir %s: %w", dir, err)
	}
	return nil
}

func printConfigDetails(cmd *cobra.Command, cfg *config.Config) {
	stubDir := cfg.Install.StubDir
	if stubDir == "" {
		stubDir = "(embedded)"
	}

	cmd.Println()
	cmd.Println("Configuration details:")
	if p := cfg.ConfigPath(); p != "" {
		cmd.Printf("  Config file: %s\n", p)
	}
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Backup suffix: %s\n", cfg.Install.BackupSuffix)
	cmd.Printf("  Seeder: %s\n", cfg.Install.Seeder)
	cmd.Printf("  PHP binary: %s\n", cfg.Install.PHPBinary)
	cmd.Printf("  Composer: %s\n", cfg.Install.Composer)
	cmd.Printf("  Stub directory: %s\n", stubDir)
	cmd.Printf("  Companion command: %s %v\n", cfg.Companion.Command, cfg.Companion.Arguments)

	deps := manifest.Dependencies(cfg.Install.NodeDependencies)
	cmd.Printf("  Node dependencies: %d\n", len(deps))
	for _, name := range deps.Names() {
		cmd.Printf("    - %s %s\n", name, deps[name])
	}
}
