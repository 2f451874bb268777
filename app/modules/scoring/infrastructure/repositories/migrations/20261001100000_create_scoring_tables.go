package scoringmigrations

import (
	"context"
	"fmt"

	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating scoring tables...")

		models := []any{
			(*scoringdb.Tournament)(nil),
			(*scoringdb.StatLine)(nil),
			(*scoringdb.ParticipantEntry)(nil),
			(*scoringdb.ParticipantScore)(nil),
			(*scoringdb.Holding)(nil),
		}
		for _, m := range models {
			if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		indexes := []string{
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_participant_scores_participant_tournament ON participant_scores (participant_id, tournament_id)",
			"CREATE INDEX IF NOT EXISTS idx_participant_scores_ranking ON participant_scores (tournament_id, total_score DESC, id ASC)",
			"CREATE INDEX IF NOT EXISTS idx_holdings_tournament_player ON holdings (tournament_id, player_key)",
		}
		for _, stmt := range indexes {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Scoring tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping scoring tables...")

		models := []any{
			(*scoringdb.Holding)(nil),
			(*scoringdb.ParticipantScore)(nil),
			(*scoringdb.ParticipantEntry)(nil),
			(*scoringdb.StatLine)(nil),
			(*scoringdb.Tournament)(nil),
		}
		for _, m := range models {
			if _, err := db.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Scoring tables dropped successfully!")
		return nil
	})
}
