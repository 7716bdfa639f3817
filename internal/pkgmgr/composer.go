package pkgmgr

import (
	"context"
	"fmt"

	"github.com/rshade/cmskit/internal/logging"
)

// GlobalComposer selects the composer binary on PATH.
const GlobalComposer = "global"

// Composer adds and removes PHP packages in the host application.
type Composer struct {
	Runner Runner
	Dir    string
	// Binary is "global" or the path to a composer.phar run through PHP.
	Binary string
	PHP    string
}

// Require runs `composer require [--dev] packages...`.
func (c Composer) Require(ctx context.Context, packages []string, dev bool) error {
	return c.manage(ctx, "require", packages, dev)
}

// Remove runs `composer remove [--dev] packages...`.
func (c Composer) Remove(ctx context.Context, packages []string, dev bool) error {
	return c.manage(ctx, "remove", packages, dev)
}

// Command returns the executable and arguments for a composer invocation.
func (c Composer) Command(verb string, packages []string, dev bool) (string, []string) {
	var (
		name string
		args []string
	)

	if c.Binary == "" || c.Binary == GlobalComposer {
		name = "composer"
	} else {
		name = c.PHP
		if name == "" {
			name = "php"
		}
		args = append(args, c.Binary)
	}

	args = append(args, verb)
	if dev {
		args = append(args, "--dev")
	}
	args = append(args, packages...)
	return name, args
}

func (c Composer) manage(ctx context.Context, verb string, packages []string, dev bool) error {
	name, args := c.Command(verb, packages, dev)

	log := logging.FromContext(ctx)
	log.Info().
		Ctx(ctx).
		Str("component", "pkgmgr").
		Str("operation", "composer_"+verb).
		Strs("packages", packages).
		Bool("dev", dev).
		Msg("managing composer packages")

	if err := c.Runner.Run(ctx, c.Dir, name, args...); err != nil {
		return fmt.Errorf("composer %s %v: %w", verb, packages, err)
	}
	return nil
}
