package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rshade/cmskit/internal/logging"
)

// LoggingConfig is the logging section of the configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// ToLoggingConfig converts LoggingConfig to logging.Config.
//
// The conversion applies these rules:
//   - Level, Format are copied directly
//   - If File is set, Output becomes "file" and File is passed through
//   - If File is empty, Output defaults to "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// GetLoggingConfig returns a copy of the Logging section of the global configuration.
// Overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	cfg := GetGlobalConfig()
	return cfg.Logging
}

// EnsureLogDir creates the directory of the configured log file.
func EnsureLogDir() error {
	lc := GetLoggingConfig()
	if lc.File == "" {
		return nil
	}
	dir := filepath.Dir(lc.File)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating log directory %s: %w", dir, err)
	}
	return nil
}
