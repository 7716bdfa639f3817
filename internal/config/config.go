// Package config loads cmskit configuration from ~/.cmskit/config.yaml and an
// optional .cmskit.yaml overlay in the host application.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultBackupSuffix marks pre-installation copies of host files.
	DefaultBackupSuffix = ".backup-cms"

	// DefaultSeeder is the seeder run after the fresh migration.
	DefaultSeeder = "CmsSeeder"

	// DefaultComposer selects the composer binary found on PATH.
	DefaultComposer = "global"

	configFileName = "config.yaml"
	dirPerm        = 0o750
	filePerm       = 0o600
)

// Config is the root configuration document.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Install   InstallConfig   `yaml:"install"`
	Companion CompanionConfig `yaml:"companion"`

	configPath string
}

// InstallConfig tunes the installation procedure.
type InstallConfig struct {
	BackupSuffix string `yaml:"backup_suffix"`
	Seeder       string `yaml:"seeder"`
	PHPBinary    string `yaml:"php_binary"`
	Composer     string `yaml:"composer"`
	// StubDir replaces the embedded stub tree with a directory on disk.
	StubDir          string            `yaml:"stub_dir,omitempty"`
	NodeDependencies map[string]string `yaml:"node_dependencies"`
}

// CompanionConfig describes the artisan command chained by `cmskit defaults`.
type CompanionConfig struct {
	Command   string   `yaml:"command"`
	Arguments []string `yaml:"arguments"`
}

// DefaultNodeDependencies returns the front-end packages the CMS assets need.
func DefaultNodeDependencies() map[string]string {
	return map[string]string{
		"@popperjs/core":  "^2.11.8",
		"autoprefixer":    "^10.4.21",
		"axios":           "^1.8.2",
		"bootstrap":       "^5.3.7",
		"bootstrap-icons": "^1.13.1",
		"sass":            "^1.89.2",
	}
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Install: InstallConfig{
			BackupSuffix:     DefaultBackupSuffix,
			Seeder:           DefaultSeeder,
			PHPBinary:        "php",
			Composer:         DefaultComposer,
			NodeDependencies: DefaultNodeDependencies(),
		},
		Companion: CompanionConfig{
			// dark=1 grid=0 cheatsheet=1 pest=1 backup=0
			Command:   "bries:copy",
			Arguments: []string{"1", "0", "1", "1", "0"},
		},
	}
}

// ResolveConfigDir returns $CMSKIT_HOME or ~/.cmskit.
func ResolveConfigDir() string {
	if home := os.Getenv("CMSKIT_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".cmskit"
	}
	return filepath.Join(userHome, ".cmskit")
}

// GlobalConfigPath returns the location of the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(ResolveConfigDir(), configFileName)
}

// New loads the global configuration, falling back to defaults when the file
// is missing or unreadable.
func New() *Config {
	path := GlobalConfigPath()
	cfg, err := Load(path)
	if err != nil {
		cfg = Default()
		cfg.configPath = path
	}
	return cfg
}

// Load reads the configuration at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to its path, creating the directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), dirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, filePerm); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// SetConfigPath overrides where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// ConfigPath returns the file the configuration was loaded from or saves to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Install.BackupSuffix == "" {
		c.Install.BackupSuffix = d.Install.BackupSuffix
	}
	if c.Install.Seeder == "" {
		c.Install.Seeder = d.Install.Seeder
	}
	if c.Install.PHPBinary == "" {
		c.Install.PHPBinary = d.Install.PHPBinary
	}
	if c.Install.Composer == "" {
		c.Install.Composer = d.Install.Composer
	}
	if len(c.Install.NodeDependencies) == 0 {
		c.Install.NodeDependencies = d.Install.NodeDependencies
	}
	if c.Companion.Command == "" {
		c.Companion = d.Companion
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
}

//nolint:gochecknoglobals // Set once per invocation by the root command.
var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// SetGlobalConfig stores the configuration resolved for this invocation.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig returns the configuration for this invocation, loading the
// global file on first use.
func GetGlobalConfig() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = New()
	}
	return globalConfig
}
