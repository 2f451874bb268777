// Command tenjaku is the operator tool for the scoring and reward engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"

	"github.com/rays8417/tenjaku-sub001/app"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/config"
)

func main() {
	cliApp := &cli.App{
		Name:  "tenjaku",
		Usage: "fantasy scoring and reward settlement engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			newMigrateCommand(),
			newStatsCommand(),
			newLeaderboardCommand(),
			newRewardsCommand(),
			newGrantsCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// env is what a command needs to reach the database and the services.
type env struct {
	cfg     *config.Config
	obs     *observability.Observability
	db      *bun.DB
	modules *app.Modules
}

func (e *env) Close() error {
	return e.db.Close()
}

func openDB(c *cli.Context) (*config.Config, *observability.Observability, *bun.DB, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	obs, err := observability.Init(config.ToObsConfig(cfg), os.Stderr)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, obs, app.NewDB(cfg.Postgres.DSN), nil
}

// newEnv builds the modules without an event router; commands call services directly.
func newEnv(c *cli.Context) (*env, error) {
	cfg, obs, db, err := openDB(c)
	if err != nil {
		return nil, err
	}
	modules, err := app.NewModules(c.Context, cfg, obs, db, nil, nil)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &env{cfg: cfg, obs: obs, db: db, modules: modules}, nil
}

// withEnv runs fn against a fresh env and prints its result as JSON.
func withEnv(fn func(ctx context.Context, e *env) (any, error)) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := newEnv(c)
		if err != nil {
			return err
		}
		defer e.Close()

		out, err := fn(c.Context, e)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
}
