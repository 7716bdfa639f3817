// Package database resets and seeds the host database after installation.
package database

import (
	"context"
	"fmt"

	"github.com/rshade/cmskit/internal/logging"
	"github.com/rshade/cmskit/internal/pkgmgr"
)

// MigrateFreshCommand drops every table and re-runs all migrations.
const MigrateFreshCommand = "migrate:fresh"

// DefaultSeeder seeds the CMS roles, users and posts.
const DefaultSeeder = "CmsSeeder"

// Migrator runs the destructive fresh migration with the CMS seeder.
type Migrator struct {
	Artisan pkgmgr.Artisan
	Seeder  string
}

// Args returns the artisan arguments passed after the command name.
func (m Migrator) Args() []string {
	seeder := m.Seeder
	if seeder == "" {
		seeder = DefaultSeeder
	}
	return []string{"--seed", "--seeder=" + seeder}
}

// MigrateFreshSeed runs `php artisan migrate:fresh --seed --seeder=<seeder>`.
// All existing data in the host database is lost.
func (m Migrator) MigrateFreshSeed(ctx context.Context) error {
	args := m.Args()

	log := logging.FromContext(ctx)
	log.Warn().
		Ctx(ctx).
		Str("component", "database").
		Str("operation", "migrate_fresh").
		Strs("args", args).
		Msg("dropping all tables and re-seeding")

	if err := m.Artisan.Call(ctx, MigrateFreshCommand, args...); err != nil {
		return fmt.Errorf("fresh migration: %w", err)
	}
	return nil
}
