package rewardservice

import (
	"context"

	"github.com/google/uuid"

	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
)

// Service allocates reward pools and settles the resulting grants.
type Service interface {
	CreatePool(ctx context.Context, cmd CreatePoolCommand) (*rewarddb.RewardPool, error)
	GetPool(ctx context.Context, poolID uuid.UUID) (*rewarddb.RewardPool, error)
	Distribute(ctx context.Context, req DistributeRequest) (*DistributionResult, error)
	ListGrants(ctx context.Context, poolID uuid.UUID) ([]rewarddb.RewardGrant, error)

	AdvanceGrant(ctx context.Context, cmd AdvanceGrantCommand) (*rewarddb.RewardGrant, error)
	GetLedger(ctx context.Context, participantID string) (*rewarddb.ParticipantLedger, error)
}
