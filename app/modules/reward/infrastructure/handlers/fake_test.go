package rewardhandlers

import (
	"context"

	"github.com/google/uuid"

	rewardservice "github.com/rays8417/tenjaku-sub001/app/modules/reward/application"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
)

type FakeService struct {
	DistributeFunc   func(ctx context.Context, req rewardservice.DistributeRequest) (*rewardservice.DistributionResult, error)
	AdvanceGrantFunc func(ctx context.Context, cmd rewardservice.AdvanceGrantCommand) (*rewarddb.RewardGrant, error)
}

func (f *FakeService) CreatePool(context.Context, rewardservice.CreatePoolCommand) (*rewarddb.RewardPool, error) {
	return nil, nil
}

func (f *FakeService) GetPool(context.Context, uuid.UUID) (*rewarddb.RewardPool, error) {
	return nil, nil
}

func (f *FakeService) Distribute(ctx context.Context, req rewardservice.DistributeRequest) (*rewardservice.DistributionResult, error) {
	return f.DistributeFunc(ctx, req)
}

func (f *FakeService) ListGrants(context.Context, uuid.UUID) ([]rewarddb.RewardGrant, error) {
	return nil, nil
}

func (f *FakeService) AdvanceGrant(ctx context.Context, cmd rewardservice.AdvanceGrantCommand) (*rewarddb.RewardGrant, error) {
	return f.AdvanceGrantFunc(ctx, cmd)
}

func (f *FakeService) GetLedger(context.Context, string) (*rewarddb.ParticipantLedger, error) {
	return nil, nil
}

var _ rewardservice.Service = (*FakeService)(nil)
