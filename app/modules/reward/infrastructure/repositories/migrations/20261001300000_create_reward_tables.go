package rewardmigrations

import (
	"context"
	"fmt"

	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating reward tables...")

		models := []any{
			(*rewarddb.RewardPool)(nil),
			(*rewarddb.RewardGrant)(nil),
			(*rewarddb.ParticipantLedger)(nil),
		}
		for _, m := range models {
			if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		statements := []string{
			"CREATE INDEX IF NOT EXISTS idx_reward_pools_tournament ON reward_pools (tournament_id)",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_reward_grants_pool_run_participant ON reward_grants (reward_pool_id, run_id, participant_id)",
			"CREATE INDEX IF NOT EXISTS idx_reward_grants_participant ON reward_grants (participant_id)",
			"ALTER TABLE reward_grants DROP CONSTRAINT IF EXISTS fk_reward_grants_pool",
			"ALTER TABLE reward_grants ADD CONSTRAINT fk_reward_grants_pool FOREIGN KEY (reward_pool_id) REFERENCES reward_pools (id) ON DELETE CASCADE",
			"ALTER TABLE reward_grants DROP CONSTRAINT IF EXISTS chk_reward_grants_status",
			"ALTER TABLE reward_grants ADD CONSTRAINT chk_reward_grants_status CHECK (status IN ('PENDING', 'PROCESSING', 'COMPLETED', 'FAILED'))",
			"ALTER TABLE reward_pools DROP CONSTRAINT IF EXISTS chk_reward_pools_policy",
			"ALTER TABLE reward_pools ADD CONSTRAINT chk_reward_pools_policy CHECK (policy IN ('RULES', 'PROPORTIONAL'))",
		}
		for _, stmt := range statements {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Reward tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping reward tables...")

		models := []any{
			(*rewarddb.ParticipantLedger)(nil),
			(*rewarddb.RewardGrant)(nil),
			(*rewarddb.RewardPool)(nil),
		}
		for _, m := range models {
			if _, err := db.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Reward tables dropped successfully!")
		return nil
	})
}
