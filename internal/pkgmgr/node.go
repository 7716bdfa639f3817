package pkgmgr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rshade/cmskit/internal/logging"
)

// NodeManager identifies a Node package manager and the lockfiles that select it.
type NodeManager struct {
	Name      string
	Lockfiles []string
}

// nodeManagers is checked in order; npm is the fallback.
//
//nolint:gochecknoglobals // Fixed lookup table.
var nodeManagers = []NodeManager{
	{Name: "pnpm", Lockfiles: []string{"pnpm-lock.yaml"}},
	{Name: "yarn", Lockfiles: []string{"yarn.lock"}},
	{Name: "bun", Lockfiles: []string{"bun.lock", "bun.lockb"}},
}

// DetectNodeManager picks the package manager whose lockfile is present in dir.
func DetectNodeManager(dir string) string {
	for _, m := range nodeManagers {
		for _, lock := range m.Lockfiles {
			if _, err := os.Stat(filepath.Join(dir, lock)); err == nil {
				return m.Name
			}
		}
	}
	return "npm"
}

// CompileAssets installs Node dependencies and runs the build script in dir.
func CompileAssets(ctx context.Context, r Runner, dir string) error {
	manager := DetectNodeManager(dir)

	log := logging.FromContext(ctx)
	log.Info().
		Ctx(ctx).
		Str("component", "pkgmgr").
		Str("operation", "compile_assets").
		Str("manager", manager).
		Msg("compiling node packages")

	if err := r.Run(ctx, dir, manager, "install"); err != nil {
		return fmt.Errorf("installing node packages: %w", err)
	}
	if err := r.Run(ctx, dir, manager, "run", "build"); err != nil {
		return fmt.Errorf("building assets: %w", err)
	}
	return nil
}
