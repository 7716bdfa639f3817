package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cmskit/internal/installer"
	"github.com/rshade/cmskit/internal/pkgmgr/pkgmgrtest"
	"github.com/rshade/cmskit/internal/tui"
)

func TestInstallCmd_PositionalArgs(t *testing.T) {
	base := newTestHost(t)
	runner := pkgmgrtest.New()
	useFakeRunner(t, runner)

	out, err := executeRoot(t, "", "install", "0", "1", "--path", base)
	require.NoError(t, err, out)

	assert.Contains(t, out, "(step 1/5) Copying cms files...")
	assert.Contains(t, out, "(step 5/5) Migrating database...")
	assert.Contains(t, out, "CMS installation successful!")
	assert.NotContains(t, out, "Which testing framework", "answers given positionally are not asked")

	assert.Equal(t, []string{
		"npm install",
		"npm run build",
		"php artisan migrate:fresh --seed --seeder=CmsSeeder",
	}, runner.Calls(), "PHPUnit leaves composer alone")

	assert.FileExists(t, filepath.Join(base, "routes", "web.php.backup-cms"))
	assert.FileExists(t, filepath.Join(base, "tests", "Feature", "Cms", "CmsPagesTest.php"))
}

func TestInstallCmd_PromptsForMissing(t *testing.T) {
	base := newTestHost(t)
	runner := pkgmgrtest.New()
	useFakeRunner(t, runner)

	// Empty line takes the Pest default; EOF takes the backup default.
	out, err := executeRoot(t, "\n", "install", "--path", base)
	require.NoError(t, err, out)

	assert.Contains(t, out, "? Which testing framework do you prefer?")
	assert.Contains(t, out, "[1] Pest (default)")
	assert.Contains(t, out, "? Would you like to backup the original files?")
	assert.Contains(t, runner.Calls(), "composer require --dev pestphp/pest pestphp/pest-plugin-laravel")
	assert.NoFileExists(t, filepath.Join(base, "routes", "web.php.backup-cms"))
}

func TestInstallCmd_PromptsOnlyForBackup(t *testing.T) {
	base := newTestHost(t)
	useFakeRunner(t, pkgmgrtest.New())

	out, err := executeRoot(t, "yes\n", "install", "1", "--path", base)
	require.NoError(t, err, out)

	assert.NotContains(t, out, "Which testing framework")
	assert.Contains(t, out, "Would you like to backup the original files?")
	assert.FileExists(t, filepath.Join(base, "routes", "web.php.backup-cms"))
}

func TestInstallCmd_ComposerPhar(t *testing.T) {
	base := newTestHost(t)
	runner := pkgmgrtest.New()
	useFakeRunner(t, runner)

	_, err := executeRoot(t, "", "install", "1", "0", "--composer", "/opt/composer.phar", "--path", base)
	require.NoError(t, err)

	assert.Contains(t, runner.Calls(), "php /opt/composer.phar remove --dev phpunit/phpunit")
}

func TestInstallCmd_FailureExitError(t *testing.T) {
	base := newTestHost(t)
	require.NoError(t, os.Remove(filepath.Join(base, "routes", "web.php")))
	runner := pkgmgrtest.New()
	useFakeRunner(t, runner)

	out, err := executeRoot(t, "", "install", "1", "0", "--path", base)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode)
	assert.True(t, exitErr.Reported)
	assert.Contains(t, out, "CMS installation failed")
	assert.NotContains(t, out, "(step 2/5)")
	assert.Empty(t, runner.Calls())
}

func TestInstallCmd_CancelledPrompt(t *testing.T) {
	base := newTestHost(t)
	runner := pkgmgrtest.New()
	useFakeRunner(t, runner)

	orig := newAsker
	newAsker = func(*cobra.Command) Asker {
		return func(context.Context, installer.Prompt) (installer.Choice, error) {
			return installer.Choice{}, tui.ErrAborted
		}
	}
	t.Cleanup(func() { newAsker = orig })

	out, err := executeRoot(t, "", "install", "--path", base)
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode)
	assert.True(t, exitErr.Reported)
	assert.Contains(t, out, "[ERROR] Installation cancelled")
	assert.NotContains(t, out, "(step 1/5)")
	assert.Empty(t, runner.Calls())
}

func TestInstallCmd_InvalidArgument(t *testing.T) {
	base := newTestHost(t)
	useFakeRunner(t, pkgmgrtest.New())

	_, err := executeRoot(t, "", "install", "maybe", "--path", base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pest")

	_, err = executeRoot(t, "", "install", "1", "0", "1", "--path", base)
	require.Error(t, err)
}

func TestDefaultsCmd(t *testing.T) {
	base := newTestHost(t)
	runner := pkgmgrtest.New()
	useFakeRunner(t, runner)

	out, err := executeRoot(t, "", "defaults", "--path", base)
	require.NoError(t, err, out)

	calls := runner.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "php artisan bries:copy 1 0 1 1 0", calls[0])
	assert.Contains(t, calls, "composer require --dev pestphp/pest pestphp/pest-plugin-laravel")
	assert.Contains(t, out, "(step 1/6) Installing Bries...")
	assert.Contains(t, out, "CMS and Bries installation successful!")
	assert.NoFileExists(t, filepath.Join(base, "routes", "web.php.backup-cms"))
}

func TestDefaultsCmd_CompanionFromHostOverlay(t *testing.T) {
	base := newTestHost(t)
	overlay := "companion:\n  command: kit:install\n  arguments: [\"--dark\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(base, ".cmskit.yaml"), []byte(overlay), 0o644))
	runner := pkgmgrtest.New()
	useFakeRunner(t, runner)

	_, err := executeRoot(t, "", "defaults", "--path", base)
	require.NoError(t, err)
	assert.Equal(t, "php artisan kit:install --dark", runner.Calls()[0])
}

func TestVersionCmd(t *testing.T) {
	newTestHost(t)
	out, err := executeRoot(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "cmskit "))
}
