package main

import (
	"fmt"
	"strings"

	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	"github.com/rays8417/tenjaku-sub001/app/dbmigrate"
)

// withMigrators opens the database and hands the ordered module migrators to fn.
func withMigrators(fn func(c *cli.Context, modules []dbmigrate.Module) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		_, _, db, err := openDB(c)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(c, dbmigrate.Modules(db))
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: withMigrators(func(c *cli.Context, modules []dbmigrate.Module) error {
					for _, m := range modules {
						fmt.Fprintf(c.App.Writer, "Initializing migrations for module: %s\n", m.Name)
						if err := m.Migrator.Init(c.Context); err != nil {
							return fmt.Errorf("init %s migrations: %w", m.Name, err)
						}
					}
					return nil
				}),
			},
			{
				Name:    "up",
				Aliases: []string{"migrate"},
				Usage:   "apply pending migrations",
				Action: withMigrators(func(c *cli.Context, modules []dbmigrate.Module) error {
					for _, m := range modules {
						group, err := m.Migrator.Migrate(c.Context)
						if err != nil {
							return fmt.Errorf("migrate %s: %w", m.Name, err)
						}
						if group.IsZero() {
							fmt.Fprintf(c.App.Writer, "No new migrations to run for module: %s\n", m.Name)
						} else {
							fmt.Fprintf(c.App.Writer, "Migrated module: %s to %s\n", m.Name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group of every module",
				Action: withMigrators(func(c *cli.Context, modules []dbmigrate.Module) error {
					// Dependents first.
					for i := len(modules) - 1; i >= 0; i-- {
						m := modules[i]
						group, err := m.Migrator.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", m.Name, err)
						}
						if group.IsZero() {
							fmt.Fprintf(c.App.Writer, "No groups to roll back for module: %s\n", m.Name)
						} else {
							fmt.Fprintf(c.App.Writer, "Rolled back module: %s to %s\n", m.Name, group)
						}
					}
					return nil
				}),
			},
			{
				Name:      "create_go",
				Usage:     "create a Go migration",
				ArgsUsage: "<module> <name...>",
				Action: withMigrators(func(c *cli.Context, modules []dbmigrate.Module) error {
					migrator, err := pickMigrator(c, modules)
					if err != nil {
						return err
					}
					mf, err := migrator.CreateGoMigration(c.Context, strings.Join(c.Args().Tail(), "_"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Created migration for module %s: %s (%s)\n", c.Args().First(), mf.Name, mf.Path)
					return nil
				}),
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: withMigrators(func(c *cli.Context, modules []dbmigrate.Module) error {
					for _, m := range modules {
						ms, err := m.Migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "Migrations for module: %s\n", m.Name)
						fmt.Fprintf(c.App.Writer, "  %s\n", ms)
						fmt.Fprintf(c.App.Writer, "  Applied: %s\n", ms.Applied())
						fmt.Fprintf(c.App.Writer, "  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				}),
			},
		},
	}
}

func pickMigrator(c *cli.Context, modules []dbmigrate.Module) (*migrate.Migrator, error) {
	name := c.Args().First()
	migrator, ok := dbmigrate.Find(modules, name)
	if !ok {
		return nil, fmt.Errorf("invalid module name: %q", name)
	}
	if c.Args().Len() < 2 {
		return nil, fmt.Errorf("migration name is required")
	}
	return migrator, nil
}
