// Package hostapp describes the Laravel application cmskit installs into.
// A Context is built once per run and handed to every installation step.
package hostapp

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rshade/cmskit/internal/config"
	"github.com/rshade/cmskit/internal/pkgmgr"
	"github.com/rshade/cmskit/stubs"
)

// ErrStubDir is returned when a configured stub directory is unusable.
var ErrStubDir = errors.New("invalid stub directory")

// Context carries everything a step needs about the host application.
type Context struct {
	BasePath     string
	BackupSuffix string
	Config       *config.Config
	Stubs        fs.FS
	Runner       pkgmgr.Runner
	Out          io.Writer
}

// New builds a Context for the application rooted at base. Stubs come from
// cfg.Install.StubDir when set, otherwise from the embedded tree.
func New(base string, cfg *config.Config, runner pkgmgr.Runner, out io.Writer) (*Context, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolving host path %s: %w", base, err)
	}

	stubFS, err := LoadStubs(cfg.Install.StubDir)
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = io.Discard
	}

	return &Context{
		BasePath:     abs,
		BackupSuffix: cfg.Install.BackupSuffix,
		Config:       cfg,
		Stubs:        stubFS,
		Runner:       runner,
		Out:          out,
	}, nil
}

// LoadStubs returns the stub tree at dir, or the embedded one when dir is empty.
func LoadStubs(dir string) (fs.FS, error) {
	if dir == "" {
		return stubs.Default(), nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStubDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrStubDir, dir)
	}
	return os.DirFS(dir), nil
}

// Path joins slash-separated rel onto the base path.
func (c *Context) Path(rel string) string {
	return filepath.Join(c.BasePath, filepath.FromSlash(rel))
}

// Exists reports whether rel exists under the base path.
func (c *Context) Exists(rel string) bool {
	_, err := os.Stat(c.Path(rel))
	return err == nil
}

// Composer returns a Composer bound to the host for the given binary
// selection ("global" or a path to composer.phar).
func (c *Context) Composer(binary string) pkgmgr.Composer {
	if binary == "" {
		binary = c.Config.Install.Composer
	}
	return pkgmgr.Composer{
		Runner: c.Runner,
		Dir:    c.BasePath,
		Binary: binary,
		PHP:    c.Config.Install.PHPBinary,
	}
}

// Artisan returns an artisan caller bound to the host.
func (c *Context) Artisan() pkgmgr.Artisan {
	return pkgmgr.Artisan{
		Runner: c.Runner,
		Dir:    c.BasePath,
		PHP:    c.Config.Install.PHPBinary,
	}
}
