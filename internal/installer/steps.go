package installer

import (
	"context"
	"fmt"

	"github.com/rshade/cmskit/internal/database"
	"github.com/rshade/cmskit/internal/hostapp"
	"github.com/rshade/cmskit/internal/logging"
	"github.com/rshade/cmskit/internal/manifest"
	"github.com/rshade/cmskit/internal/pkgmgr"
	"github.com/rshade/cmskit/internal/stage"
	"github.com/rshade/cmskit/internal/testsuite"
)

// Steps returns the installation sequence for the host in hc.
func Steps(hc *hostapp.Context, opts Options) []Step {
	return []Step{
		{Message: "Copying cms files...", Action: copyFiles(hc, opts)},
		{Message: "Setting up testunit...", Action: installTests(hc, opts)},
		{Message: "Updating node packages...", Action: updateNodeDependencies(hc)},
		{Message: "Compiling node packages...", Action: compileAssets(hc)},
		{Message: "Migrating database...", Action: migrateFreshSeed(hc)},
	}
}

// DefaultsSteps runs the companion starter kit installer and then the CMS
// installation with DefaultOptions.
func DefaultsSteps(hc *hostapp.Context, composer string) []Step {
	opts := DefaultOptions()
	if composer != "" {
		opts.Composer = composer
	}

	companion := hc.Config.Companion
	steps := []Step{{
		Message: "Installing Bries...",
		Action: func(ctx context.Context) (bool, error) {
			if err := hc.Artisan().Call(ctx, companion.Command, companion.Arguments...); err != nil {
				return false, err
			}
			return true, nil
		},
	}}
	return append(steps, Steps(hc, opts)...)
}

func copyFiles(hc *hostapp.Context, opts Options) Action {
	return func(ctx context.Context) (bool, error) {
		result, err := stage.New(hc.Stubs, hc.BasePath, hc.BackupSuffix, opts.Backup).Stage(ctx)
		if err != nil {
			return false, err
		}
		fmt.Fprintln(hc.Out, result.Summary())
		return true, nil
	}
}

func installTests(hc *hostapp.Context, opts Options) Action {
	return func(ctx context.Context) (bool, error) {
		inst := &testsuite.Installer{
			Stubs:    hc.Stubs,
			Base:     hc.BasePath,
			Composer: hc.Composer(opts.Composer),
		}
		framework, err := inst.Install(ctx, opts.Pest)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(hc.Out, "Installed %s feature tests\n", framework)
		return true, nil
	}
}

func updateNodeDependencies(hc *hostapp.Context) Action {
	return func(ctx context.Context) (bool, error) {
		deps := manifest.Dependencies(hc.Config.Install.NodeDependencies)
		updated, err := manifest.UpdateNodeDependencies(hc.Path(stage.PackageJSONFile), deps)
		if err != nil {
			return false, err
		}
		if !updated {
			logging.FromContext(ctx).Warn().
				Ctx(ctx).
				Str("component", "installer").
				Str("operation", "update_node_dependencies").
				Msg("package.json not found, skipping dependency update")
		}
		return true, nil
	}
}

func compileAssets(hc *hostapp.Context) Action {
	return func(ctx context.Context) (bool, error) {
		if err := pkgmgr.CompileAssets(ctx, hc.Runner, hc.BasePath); err != nil {
			return false, err
		}
		return true, nil
	}
}

func migrateFreshSeed(hc *hostapp.Context) Action {
	return func(ctx context.Context) (bool, error) {
		m := database.Migrator{Artisan: hc.Artisan(), Seeder: hc.Config.Install.Seeder}
		if err := m.MigrateFreshSeed(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
}
