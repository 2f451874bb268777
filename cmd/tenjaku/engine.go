package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	rewardservice "github.com/rays8417/tenjaku-sub001/app/modules/reward/application"
	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
)

func uuidFlag(c *cli.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.String(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("--%s: %w", name, err)
	}
	return id, nil
}

func newStatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "player stat lines",
		Subcommands: []*cli.Command{
			{
				Name:  "import",
				Usage: "score a CSV or XLSX stat sheet for a tournament",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tournament", Required: true, Usage: "tournament id"},
					&cli.StringFlag{Name: "file", Required: true, Usage: "path to a .csv or .xlsx file"},
				},
				Action: func(c *cli.Context) error {
					tournamentID, err := uuidFlag(c, "tournament")
					if err != nil {
						return err
					}
					path := c.String("file")
					data, err := os.ReadFile(path)
					if err != nil {
						return fmt.Errorf("read %s: %w", path, err)
					}
					return withEnv(func(ctx context.Context, e *env) (any, error) {
						return e.modules.Scoring.ScoringService.ImportStatLines(ctx, tournamentID, filepath.Base(path), data)
					})(c)
				},
			},
		},
	}
}

func newLeaderboardCommand() *cli.Command {
	tournamentFlag := &cli.StringFlag{Name: "tournament", Required: true, Usage: "tournament id"}
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "tournament leaderboards",
		Subcommands: []*cli.Command{
			{
				Name:  "build",
				Usage: "rank participant scores and store the leaderboard",
				Flags: []cli.Flag{tournamentFlag},
				Action: func(c *cli.Context) error {
					tournamentID, err := uuidFlag(c, "tournament")
					if err != nil {
						return err
					}
					return withEnv(func(ctx context.Context, e *env) (any, error) {
						return e.modules.Leaderboard.LeaderboardService.BuildLeaderboard(ctx, tournamentID)
					})(c)
				},
			},
			{
				Name:  "show",
				Usage: "print the stored leaderboard",
				Flags: []cli.Flag{tournamentFlag},
				Action: func(c *cli.Context) error {
					tournamentID, err := uuidFlag(c, "tournament")
					if err != nil {
						return err
					}
					return withEnv(func(ctx context.Context, e *env) (any, error) {
						return e.modules.Leaderboard.LeaderboardService.GetLeaderboard(ctx, tournamentID)
					})(c)
				},
			},
		},
	}
}

func newRewardsCommand() *cli.Command {
	return &cli.Command{
		Name:  "rewards",
		Usage: "reward pools",
		Subcommands: []*cli.Command{
			{
				Name:  "distribute",
				Usage: "run a distribution of a reward pool",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "pool", Required: true, Usage: "reward pool id"},
					&cli.StringFlag{Name: "amount", Usage: "amount to distribute, defaults to the pool total"},
					&cli.StringFlag{Name: "rules", Usage: "JSON file with rules replacing the pool's rules"},
					&cli.BoolFlag{Name: "rerun", Usage: "recompute a pool whose grants are all still pending"},
				},
				Action: func(c *cli.Context) error {
					req, err := distributeRequest(c)
					if err != nil {
						return err
					}
					return withEnv(func(ctx context.Context, e *env) (any, error) {
						return e.modules.Reward.RewardService.Distribute(ctx, req)
					})(c)
				},
			},
		},
	}
}

func distributeRequest(c *cli.Context) (rewardservice.DistributeRequest, error) {
	poolID, err := uuidFlag(c, "pool")
	if err != nil {
		return rewardservice.DistributeRequest{}, err
	}
	req := rewardservice.DistributeRequest{PoolID: poolID, Rerun: c.Bool("rerun")}

	if raw := c.String("amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return req, fmt.Errorf("--amount: %w", err)
		}
		req.TotalRewardAmount = &amount
	}
	if path := c.String("rules"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return req, fmt.Errorf("read %s: %w", path, err)
		}
		var rules []rewarddomain.Rule
		if err := json.Unmarshal(data, &rules); err != nil {
			return req, fmt.Errorf("parse rules %s: %w", path, err)
		}
		req.Rules = rules
	}
	return req, nil
}

func newGrantsCommand() *cli.Command {
	return &cli.Command{
		Name:  "grants",
		Usage: "reward grant settlement",
		Subcommands: []*cli.Command{
			{
				Name:  "advance",
				Usage: "move a grant to PROCESSING, COMPLETED or FAILED",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "grant", Required: true, Usage: "grant id"},
					&cli.StringFlag{Name: "target", Required: true, Usage: "target status"},
					&cli.StringFlag{Name: "external-ref", Usage: "payout reference, e.g. a transaction hash"},
				},
				Action: func(c *cli.Context) error {
					grantID, err := uuidFlag(c, "grant")
					if err != nil {
						return err
					}
					cmd := rewardservice.AdvanceGrantCommand{GrantID: grantID, Target: c.String("target")}
					if c.IsSet("external-ref") {
						ref := c.String("external-ref")
						cmd.ExternalRef = &ref
					}
					return withEnv(func(ctx context.Context, e *env) (any, error) {
						return e.modules.Reward.RewardService.AdvanceGrant(ctx, cmd)
					})(c)
				},
			},
		},
	}
}
