// Package testsuite installs the CMS feature tests for the host's PHP test
// framework, swapping PHPUnit for Pest through Composer when Pest is chosen.
package testsuite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rshade/cmskit/internal/logging"
	"github.com/rshade/cmskit/internal/manifest"
	"github.com/rshade/cmskit/internal/pkgmgr"
	"github.com/rshade/cmskit/internal/stage"
)

// Composer packages involved in the framework swap.
const (
	PHPUnitPackage     = "phpunit/phpunit"
	PestPackage        = "pestphp/pest"
	PestLaravelPackage = "pestphp/pest-plugin-laravel"
)

// Stub locations for each framework.
const (
	phpunitStubDir = "tests/Feature/Cms"
	pestStubDir    = "tests-pest/Feature/Cms"
	pestBootstrap  = "tests-pest/Pest.php"

	featureDir     = "tests/Feature/Cms"
	pestConfigFile = "tests/Pest.php"
	composerFile   = "composer.json"
	pestVendorDir  = "vendor/pestphp/pest"
)

// StubMappings lists the test stubs Install reads, for stub tree checks.
func StubMappings() []stage.Mapping {
	return []stage.Mapping{
		{Source: phpunitStubDir, Destination: featureDir, Kind: stage.KindDir},
		{Source: pestStubDir, Destination: featureDir, Kind: stage.KindDir},
		{Source: pestBootstrap, Destination: pestConfigFile, Kind: stage.KindFile},
	}
}

// ErrPackageManager is wrapped when the Composer package swap fails.
var ErrPackageManager = errors.New("composer package swap failed")

// Framework is the PHP test framework the CMS tests are written for.
type Framework int

const (
	// PHPUnit is the Laravel default.
	PHPUnit Framework = iota
	// Pest replaces PHPUnit as a dev dependency.
	Pest
)

func (f Framework) String() string {
	if f == Pest {
		return "Pest"
	}
	return "PHPUnit"
}

// Installer copies test stubs into the host application.
type Installer struct {
	Stubs    fs.FS
	Base     string
	Composer pkgmgr.Composer
}

// UsingPest reports whether the host already depends on Pest, either in
// composer.json or through an installed vendor directory.
func UsingPest(base string) bool {
	if manifest.ComposerHasPackage(filepath.Join(base, composerFile), PestPackage) {
		return true
	}
	info, err := os.Stat(filepath.Join(base, filepath.FromSlash(pestVendorDir)))
	return err == nil && info.IsDir()
}

// Install installs the Pest stubs when pest is requested or Pest is already
// in use, and the PHPUnit stubs otherwise. It returns the framework used.
// A failed Composer command stops the installation before any stub is copied.
func (i *Installer) Install(ctx context.Context, pest bool) (Framework, error) {
	log := logging.FromContext(ctx)

	testsDir := filepath.Join(i.Base, "tests")
	if err := os.MkdirAll(testsDir, 0o755); err != nil {
		return PHPUnit, fmt.Errorf("%w: creating %s: %w", stage.ErrWriteFailed, testsDir, err)
	}

	framework := PHPUnit
	if pest || UsingPest(i.Base) {
		framework = Pest
	}

	log.Info().
		Ctx(ctx).
		Str("component", "testsuite").
		Str("operation", "install").
		Stringer("framework", framework).
		Bool("requested_pest", pest).
		Msg("installing test scaffolding")

	if framework == Pest {
		if err := i.swapToPest(ctx); err != nil {
			return framework, err
		}
		if _, err := stage.CopyTree(i.Stubs, pestStubDir, i.path(featureDir)); err != nil {
			return framework, err
		}
		if err := stage.CopyStub(i.Stubs, pestBootstrap, i.path(pestConfigFile)); err != nil {
			return framework, err
		}
		return framework, nil
	}

	if _, err := stage.CopyTree(i.Stubs, phpunitStubDir, i.path(featureDir)); err != nil {
		return framework, err
	}
	return framework, nil
}

func (i *Installer) swapToPest(ctx context.Context) error {
	if manifest.ComposerHasPackage(i.path(composerFile), PHPUnitPackage) {
		if err := i.Composer.Remove(ctx, []string{PHPUnitPackage}, true); err != nil {
			return fmt.Errorf("%w: %w", ErrPackageManager, err)
		}
	}
	if err := i.Composer.Require(ctx, []string{PestPackage, PestLaravelPackage}, true); err != nil {
		return fmt.Errorf("%w: %w", ErrPackageManager, err)
	}
	return nil
}

func (i *Installer) path(rel string) string {
	return filepath.Join(i.Base, filepath.FromSlash(rel))
}
