package leaderboardmigrations

import (
	"context"
	"fmt"

	leaderboarddb "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leaderboard_rows table...")

		if _, err := db.NewCreateTable().
			Model((*leaderboarddb.LeaderboardRow)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewRaw(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_leaderboard_rows_tournament_rank ON leaderboard_rows (tournament_id, rank)",
		).Exec(ctx); err != nil {
			return err
		}

		fmt.Println("Leaderboard table created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping leaderboard_rows table...")
		_, err := db.NewDropTable().
			Model((*leaderboarddb.LeaderboardRow)(nil)).
			IfExists().
			Cascade().
			Exec(ctx)
		return err
	})
}
