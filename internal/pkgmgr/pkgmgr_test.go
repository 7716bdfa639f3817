package pkgmgr_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rshade/cmskit/internal/pkgmgr"
	"github.com/rshade/cmskit/internal/pkgmgr/pkgmgrtest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestComposerCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		composer pkgmgr.Composer
		verb     string
		packages []string
		dev      bool
		wantName string
		wantArgs []string
	}{
		{
			name:     "global require dev",
			composer: pkgmgr.Composer{Binary: "global"},
			verb:     "require",
			packages: []string{"pestphp/pest", "pestphp/pest-plugin-laravel"},
			dev:      true,
			wantName: "composer",
			wantArgs: []string{"require", "--dev", "pestphp/pest", "pestphp/pest-plugin-laravel"},
		},
		{
			name:     "empty binary means global",
			composer: pkgmgr.Composer{},
			verb:     "remove",
			packages: []string{"phpunit/phpunit"},
			wantName: "composer",
			wantArgs: []string{"remove", "phpunit/phpunit"},
		},
		{
			name:     "phar through php",
			composer: pkgmgr.Composer{Binary: "/opt/composer.phar", PHP: "/usr/bin/php8.3"},
			verb:     "remove",
			packages: []string{"phpunit/phpunit"},
			dev:      true,
			wantName: "/usr/bin/php8.3",
			wantArgs: []string{"/opt/composer.phar", "remove", "--dev", "phpunit/phpunit"},
		},
		{
			name:     "phar with default php",
			composer: pkgmgr.Composer{Binary: "composer.phar"},
			verb:     "require",
			packages: []string{"a/b"},
			wantName: "php",
			wantArgs: []string{"composer.phar", "require", "a/b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			name, args := tt.composer.Command(tt.verb, tt.packages, tt.dev)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestComposerRequireAndRemove(t *testing.T) {
	t.Parallel()

	runner := pkgmgrtest.New()
	c := pkgmgr.Composer{Runner: runner, Dir: "/host", Binary: "global"}

	require.NoError(t, c.Remove(t.Context(), []string{"phpunit/phpunit"}, true))
	require.NoError(t, c.Require(t.Context(), []string{"pestphp/pest"}, true))

	assert.Equal(t, []string{
		"composer remove --dev phpunit/phpunit",
		"composer require --dev pestphp/pest",
	}, runner.Calls())
}

func TestComposerFailureWrapsCommandError(t *testing.T) {
	t.Parallel()

	runner := pkgmgrtest.New().FailOn("composer require")
	c := pkgmgr.Composer{Runner: runner, Dir: "/host"}

	err := c.Require(t.Context(), []string{"pestphp/pest"}, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgmgr.ErrCommandFailed)
	assert.Contains(t, err.Error(), "composer require")
}

func TestDetectNodeManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lockfile string
		want     string
	}{
		{"", "npm"},
		{"package-lock.json", "npm"},
		{"pnpm-lock.yaml", "pnpm"},
		{"yarn.lock", "yarn"},
		{"bun.lock", "bun"},
		{"bun.lockb", "bun"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.lockfile, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			if tt.lockfile != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, tt.lockfile), nil, 0o600))
			}
			assert.Equal(t, tt.want, pkgmgr.DetectNodeManager(dir))
		})
	}
}

func TestDetectNodeManager_PnpmWinsOverYarn(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pnpm-lock.yaml"), nil, 0o600))

	assert.Equal(t, "pnpm", pkgmgr.DetectNodeManager(dir))
}

func TestCompileAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "yarn.lock"), nil, 0o600))

	runner := pkgmgrtest.New()
	require.NoError(t, pkgmgr.CompileAssets(t.Context(), runner, dir))
	assert.Equal(t, []string{"yarn install", "yarn run build"}, runner.Calls())
}

func TestCompileAssets_InstallFailureSkipsBuild(t *testing.T) {
	t.Parallel()

	runner := pkgmgrtest.New().FailOn("npm install")
	err := pkgmgr.CompileAssets(t.Context(), runner, t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "installing node packages")
	assert.Equal(t, []string{"npm install"}, runner.Calls())
}

func TestArtisanCall(t *testing.T) {
	t.Parallel()

	runner := pkgmgrtest.New()
	a := pkgmgr.Artisan{Runner: runner, Dir: "/host"}

	require.NoError(t, a.Call(t.Context(), "migrate:fresh", "--seed", "--seeder=CmsSeeder"))
	assert.Equal(t, []string{"php artisan migrate:fresh --seed --seeder=CmsSeeder"}, runner.Calls())
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var stdout, stderr bytes.Buffer
	r := pkgmgr.NewExecRunner(&stdout, &stderr)
	dir := t.TempDir()

	require.NoError(t, r.Run(t.Context(), dir, "sh", "-c", "pwd"))
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), filepath.Base(resolved))

	out, err := r.Output(t.Context(), dir, "sh", "-c", "echo 1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", string(out))

	err = r.Run(t.Context(), dir, "sh", "-c", "exit 3")
	require.ErrorIs(t, err, pkgmgr.ErrCommandFailed)

	_, err = r.Output(t.Context(), dir, "sh", "-c", "echo boom >&2; exit 1")
	require.ErrorIs(t, err, pkgmgr.ErrCommandFailed)
	assert.Contains(t, err.Error(), "boom")
}
