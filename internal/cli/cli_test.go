package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cmskit/internal/pkgmgr"
	"github.com/rshade/cmskit/internal/pkgmgr/pkgmgrtest"
)

// useFakeRunner swaps the subprocess runner for the duration of the test.
func useFakeRunner(t *testing.T, r *pkgmgrtest.Runner) {
	t.Helper()
	orig := newRunner
	newRunner = func(*cobra.Command) pkgmgr.Runner { return r }
	t.Cleanup(func() { newRunner = orig })
}

// newTestHost creates a minimal Laravel application and isolates config and
// logging from the developer's environment.
func newTestHost(t *testing.T) string {
	t.Helper()
	t.Setenv("CMSKIT_HOME", t.TempDir())
	t.Setenv("CMSKIT_HOST_DIR", "")
	t.Setenv(EnvLogLevel, "error")

	base := t.TempDir()
	files := map[string]string{
		"artisan":        "#!/usr/bin/env php\n",
		"routes/web.php": "<?php\n",
		"vite.config.js": "input: ['resources/css/app.css', 'resources/js/app.js'],\n",
		"package.json":   `{"private": true}`,
		"composer.json":  `{"require-dev": {"phpunit/phpunit": "^11.5"}}`,
	}
	for rel, content := range files {
		path := filepath.Join(base, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return base
}

// executeRoot runs the root command with args and stdin, returning output.
func executeRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	root := NewRootCmd("test")
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}
