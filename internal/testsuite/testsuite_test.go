package testsuite_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cmskit/internal/pkgmgr"
	"github.com/rshade/cmskit/internal/pkgmgr/pkgmgrtest"
	"github.com/rshade/cmskit/internal/stage"
	"github.com/rshade/cmskit/internal/testsuite"
	"github.com/rshade/cmskit/stubs"
)

const composerWithPHPUnit = `{
    "require": {"laravel/framework": "^12.0"},
    "require-dev": {"phpunit/phpunit": "^11.5"}
}`

func newHost(t *testing.T, composerJSON string) string {
	t.Helper()
	base := t.TempDir()
	if composerJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(base, "composer.json"), []byte(composerJSON), 0o644))
	}
	return base
}

func newInstaller(base string, runner *pkgmgrtest.Runner) *testsuite.Installer {
	return &testsuite.Installer{
		Stubs:    stubs.Default(),
		Base:     base,
		Composer: pkgmgr.Composer{Runner: runner, Dir: base, Binary: pkgmgr.GlobalComposer},
	}
}

func TestInstall_PestSwapsPackages(t *testing.T) {
	t.Parallel()

	base := newHost(t, composerWithPHPUnit)
	runner := pkgmgrtest.New()

	framework, err := newInstaller(base, runner).Install(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, testsuite.Pest, framework)

	assert.Equal(t, []string{
		"composer remove --dev phpunit/phpunit",
		"composer require --dev pestphp/pest pestphp/pest-plugin-laravel",
	}, runner.Calls())

	assert.FileExists(t, filepath.Join(base, "tests", "Pest.php"))
	assert.FileExists(t, filepath.Join(base, "tests", "Feature", "Cms", "CmsPostControllerTest.php"))
	assert.NoFileExists(t, filepath.Join(base, "tests", "Feature", "Cms", "CmsPagesTest.php"),
		"PHPUnit-only stubs are not copied for Pest")
}

func TestInstall_PestWithoutPHPUnitSkipsRemove(t *testing.T) {
	t.Parallel()

	base := newHost(t, `{"require-dev": {"mockery/mockery": "^1.6"}}`)
	runner := pkgmgrtest.New()

	_, err := newInstaller(base, runner).Install(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"composer require --dev pestphp/pest pestphp/pest-plugin-laravel",
	}, runner.Calls())
}

func TestInstall_PHPUnitLeavesComposerAlone(t *testing.T) {
	t.Parallel()

	base := newHost(t, composerWithPHPUnit)
	runner := pkgmgrtest.New()

	framework, err := newInstaller(base, runner).Install(t.Context(), false)
	require.NoError(t, err)
	assert.Equal(t, testsuite.PHPUnit, framework)
	assert.Empty(t, runner.Calls())

	data, err := os.ReadFile(filepath.Join(base, "composer.json"))
	require.NoError(t, err)
	assert.Equal(t, composerWithPHPUnit, string(data))

	assert.FileExists(t, filepath.Join(base, "tests", "Feature", "Cms", "CmsPagesTest.php"))
	assert.NoFileExists(t, filepath.Join(base, "tests", "Pest.php"))
}

func TestInstall_ExistingPestWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(t *testing.T, base string)
	}{
		{
			name: "composer.json requires pest",
			setup: func(t *testing.T, base string) {
				t.Helper()
				require.NoError(t, os.WriteFile(filepath.Join(base, "composer.json"),
					[]byte(`{"require-dev": {"pestphp/pest": "^3.0"}}`), 0o644))
			},
		},
		{
			name: "vendor directory present",
			setup: func(t *testing.T, base string) {
				t.Helper()
				require.NoError(t, os.MkdirAll(filepath.Join(base, "vendor", "pestphp", "pest"), 0o755))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base := t.TempDir()
			tt.setup(t, base)
			assert.True(t, testsuite.UsingPest(base))

			framework, err := newInstaller(base, pkgmgrtest.New()).Install(t.Context(), false)
			require.NoError(t, err)
			assert.Equal(t, testsuite.Pest, framework)
			assert.FileExists(t, filepath.Join(base, "tests", "Pest.php"))
		})
	}
}

func TestInstall_ComposerFailureCopiesNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		failOn string
	}{
		{name: "remove fails", failOn: "composer remove"},
		{name: "require fails", failOn: "composer require"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base := newHost(t, composerWithPHPUnit)
			runner := pkgmgrtest.New().FailOn(tt.failOn)

			_, err := newInstaller(base, runner).Install(t.Context(), true)
			require.ErrorIs(t, err, testsuite.ErrPackageManager)
			require.ErrorIs(t, err, pkgmgr.ErrCommandFailed)

			assert.NoDirExists(t, filepath.Join(base, "tests", "Feature", "Cms"))
			assert.NoFileExists(t, filepath.Join(base, "tests", "Pest.php"))
		})
	}
}

func TestInstall_PharComposer(t *testing.T) {
	t.Parallel()

	base := newHost(t, "")
	runner := pkgmgrtest.New()
	inst := newInstaller(base, runner)
	inst.Composer.Binary = "/opt/composer.phar"

	_, err := inst.Install(t.Context(), true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"php /opt/composer.phar require --dev pestphp/pest pestphp/pest-plugin-laravel",
	}, runner.Calls())
}

func TestFramework_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Pest", testsuite.Pest.String())
	assert.Equal(t, "PHPUnit", testsuite.PHPUnit.String())
}

func TestStubMappings_PresentInEmbeddedStubs(t *testing.T) {
	t.Parallel()

	require.NoError(t, stage.VerifyStubs(stubs.Default(), testsuite.StubMappings()))
}
