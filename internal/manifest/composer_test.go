package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cmskit/internal/manifest"
)

func TestComposerHasPackage(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "composer.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
    "require": {"php": "^8.2", "laravel/framework": "^12.0"},
    "require-dev": {"phpunit/phpunit": "^11.5.3"}
}`), 0o644))

	assert.True(t, manifest.ComposerHasPackage(path, "laravel/framework"))
	assert.True(t, manifest.ComposerHasPackage(path, "phpunit/phpunit"))
	assert.False(t, manifest.ComposerHasPackage(path, "pestphp/pest"))
}

func TestComposerHasPackage_MissingOrBroken(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.False(t, manifest.ComposerHasPackage(filepath.Join(dir, "composer.json"), "phpunit/phpunit"))

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0o644))
	assert.False(t, manifest.ComposerHasPackage(broken, "phpunit/phpunit"))

	_, err := manifest.ReadComposer(broken)
	require.Error(t, err)
}

func TestComposerManifest_NilSafe(t *testing.T) {
	t.Parallel()

	var m *manifest.ComposerManifest
	assert.False(t, m.HasPackage("anything"))
}
