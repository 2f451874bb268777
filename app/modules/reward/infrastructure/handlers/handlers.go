package rewardhandlers

import (
	"context"
	"log/slog"

	"github.com/rays8417/tenjaku-sub001/app/events"
	rewardservice "github.com/rays8417/tenjaku-sub001/app/modules/reward/application"
	"github.com/rays8417/tenjaku-sub001/app/shared/handlerwrapper"
)

// Handlers are the reward event handlers registered on the router.
type Handlers interface {
	HandleDistributionRequested(ctx context.Context, payload *events.RewardDistributionRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleGrantAdvanceRequested(ctx context.Context, payload *events.GrantAdvanceRequestedPayloadV1) ([]handlerwrapper.Result, error)
}

// RewardHandlers handles reward events.
type RewardHandlers struct {
	service rewardservice.Service
	logger  *slog.Logger
}

func NewRewardHandlers(service rewardservice.Service, logger *slog.Logger) Handlers {
	return &RewardHandlers{service: service, logger: logger}
}

func (h *RewardHandlers) HandleDistributionRequested(ctx context.Context, payload *events.RewardDistributionRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	res, err := h.service.Distribute(ctx, rewardservice.DistributeRequest{
		PoolID:            payload.PoolID,
		Rules:             payload.Rules,
		TotalRewardAmount: payload.TotalRewardAmount,
		Rerun:             payload.Rerun,
	})
	if err != nil {
		return events.FailureResults(events.RewardDistributionFailedV1, payload.PoolID.String(), err)
	}

	grants := make([]events.RewardGrantV1, len(res.Grants))
	for i, g := range res.Grants {
		grants[i] = events.RewardGrantV1{
			GrantID:       g.ID,
			ParticipantID: g.ParticipantID,
			Rank:          g.Rank,
			Amount:        g.Amount,
			Percentage:    g.Percentage,
		}
	}
	return []handlerwrapper.Result{{
		Topic: events.RewardDistributedV1,
		Payload: events.RewardDistributedPayloadV1{
			PoolID:            res.Pool.ID,
			RunID:             res.RunID,
			Policy:            string(res.Policy),
			DistributedAmount: res.DistributedAmount,
			Grants:            grants,
		},
	}}, nil
}

func (h *RewardHandlers) HandleGrantAdvanceRequested(ctx context.Context, payload *events.GrantAdvanceRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	grant, err := h.service.AdvanceGrant(ctx, rewardservice.AdvanceGrantCommand{
		GrantID:     payload.GrantID,
		Target:      payload.Target,
		ExternalRef: payload.ExternalRef,
	})
	if err != nil {
		return events.FailureResults(events.GrantAdvanceFailedV1, payload.GrantID.String(), err)
	}
	return []handlerwrapper.Result{{
		Topic: events.GrantAdvancedV1,
		Payload: events.GrantAdvancedPayloadV1{
			GrantID:       grant.ID,
			ParticipantID: grant.ParticipantID,
			Status:        grant.Status,
			Amount:        grant.Amount,
		},
	}}, nil
}
