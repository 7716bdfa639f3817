package pkgmgr

import (
	"context"
	"fmt"
)

// Artisan runs `php artisan` commands in the host application.
type Artisan struct {
	Runner Runner
	Dir    string
	PHP    string
}

// Call runs `php artisan command args...`.
func (a Artisan) Call(ctx context.Context, command string, args ...string) error {
	php := a.PHP
	if php == "" {
		php = "php"
	}

	full := append([]string{"artisan", command}, args...)
	if err := a.Runner.Run(ctx, a.Dir, php, full...); err != nil {
		return fmt.Errorf("artisan %s: %w", command, err)
	}
	return nil
}
