// Package dbmigrate runs the bun migrations of every module in dependency order.
package dbmigrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	leaderboardmigrations "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/repositories/migrations"
	rewardmigrations "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories/migrations"
	scoringmigrations "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories/migrations"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
)

// Module is one module's migrator.
type Module struct {
	Name     string
	Migrator *migrate.Migrator
}

// Modules returns the migrators ordered so that every module's tables exist
// before the modules that read them.
func Modules(db *bun.DB) []Module {
	return []Module{
		{Name: "scoring", Migrator: migrate.NewMigrator(db, scoringmigrations.Migrations)},
		{Name: "leaderboard", Migrator: migrate.NewMigrator(db, leaderboardmigrations.Migrations)},
		{Name: "reward", Migrator: migrate.NewMigrator(db, rewardmigrations.Migrations)},
	}
}

// Find returns the migrator of the named module.
func Find(modules []Module, name string) (*migrate.Migrator, bool) {
	for _, m := range modules {
		if m.Name == name {
			return m.Migrator, true
		}
	}
	return nil, false
}

// Up creates the migration tables if needed and applies every pending migration.
func Up(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	modules := Modules(db)
	// All modules share one bun_migrations table.
	if err := modules[0].Migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}
	for _, m := range modules {
		group, err := m.Migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", m.Name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No migrations to run", attr.String("module", m.Name))
		} else {
			logger.InfoContext(ctx, "Ran migrations", attr.String("module", m.Name), attr.Int64("group", group.ID))
		}
	}
	return nil
}
