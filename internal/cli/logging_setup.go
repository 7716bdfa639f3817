package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/cmskit/internal/config"
	"github.com/rshade/cmskit/internal/logging"
)

// Environment overrides for the logging section.
const (
	EnvLogLevel  = "CMSKIT_LOG_LEVEL"
	EnvLogFormat = "CMSKIT_LOG_FORMAT"
)

// setupLogging resolves the configuration for this invocation and configures
// logging from the config file, environment and CLI flags.
func setupLogging(cmd *cobra.Command) (logging.LogPathResult, error) {
	if err := loadConfig(cmd); err != nil {
		return logging.LogPathResult{}, err
	}
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
		loggingCfg.File = ""
	}

	if envLevel := os.Getenv(EnvLogLevel); envLevel != "" && !debug {
		loggingCfg.Level = envLevel
	}
	if envFormat := os.Getenv(EnvLogFormat); envFormat != "" {
		loggingCfg.Format = envFormat
	}

	// Ensure log directory exists after all overrides have been applied.
	if loggingCfg.File != "" {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	runID := logging.GetOrGenerateRunID(ctx)
	ctx = logging.ContextWithRunID(ctx, runID)
	ctx = logger.With().Str("run_id", runID).Logger().WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Str("run_id", runID).Msg("command started")

	return result, nil
}

// loadConfig loads --config when given, otherwise the global file with the
// host overlay, and stores the result as the invocation's configuration.
func loadConfig(cmd *cobra.Command) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		config.SetGlobalConfig(cfg)
		return nil
	}

	hostDir := resolveHostDir(cmd)
	config.SetGlobalConfig(config.NewWithHostDir(cmd.Context(), hostDir))
	return nil
}

// resolveHostDir returns the Laravel application root for this invocation.
func resolveHostDir(cmd *cobra.Command) string {
	flagValue, _ := cmd.Flags().GetString("path")
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return config.ResolveHostDir(cmd.Context(), flagValue, wd)
}
