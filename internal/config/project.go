package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/rshade/cmskit/internal/logging"
)

// OverlayFileName is the host-project configuration overlay.
const OverlayFileName = ".cmskit.yaml"

// artisanFile marks the root of a Laravel application.
const artisanFile = "artisan"

// ErrNoHostApp is returned when no Laravel application is found.
var ErrNoHostApp = errors.New("no Laravel application found (missing artisan)")

// FindHostApp walks up from startDir looking for a directory that contains
// an artisan script. The returned path is absolute.
func FindHostApp(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		info, statErr := os.Stat(filepath.Join(dir, artisanFile))
		if statErr == nil && !info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoHostApp
		}
		dir = parent
	}
}

// ResolveHostDir determines the host application root.
// It checks (in order):
//  1. flagValue (--path CLI flag), used as-is
//  2. CMSKIT_HOST_DIR env var, used as-is
//  3. FindHostApp(startDir) walk-up
//
// When nothing is found startDir itself is returned so that precondition
// checks later report the missing files precisely.
func ResolveHostDir(ctx context.Context, flagValue, startDir string) string {
	if flagValue != "" {
		return toAbs(ctx, flagValue)
	}

	if envDir := os.Getenv("CMSKIT_HOST_DIR"); envDir != "" {
		return toAbs(ctx, envDir)
	}

	root, err := FindHostApp(startDir)
	if err != nil {
		if !errors.Is(err, ErrNoHostApp) {
			logger := logging.FromContext(ctx)
			logger.Warn().
				Str("component", "config").
				Err(err).
				Str("start_dir", startDir).
				Msg("unexpected error during host application discovery")
		}
		return toAbs(ctx, startDir)
	}

	return root
}

// NewWithHostDir loads the global config then shallow-merges the host's
// .cmskit.yaml on top. If hostDir is empty or has no overlay, behaves
// identically to New().
func NewWithHostDir(ctx context.Context, hostDir string) *Config {
	cfg := New()

	if hostDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(hostDir, OverlayFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := New()
	if err := ShallowMergeYAML(merged, overlayPath); err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Str("operation", "merge_host_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge host config, using global defaults")
		return cfg
	}

	return merged
}

func toAbs(ctx context.Context, dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("component", "config").
			Err(err).
			Str("dir", dir).
			Msg("failed to resolve absolute path for host directory")
		return dir
	}
	return abs
}
