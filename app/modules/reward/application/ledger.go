package rewardservice

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"github.com/rays8417/tenjaku-sub001/app/shared/operation"
	"github.com/rays8417/tenjaku-sub001/app/shared/txrunner"
)

// AdvanceGrant moves a grant through PENDING -> PROCESSING -> COMPLETED, with
// FAILED reachable from either open state. Entering PROCESSING credits the
// participant's lifetime earnings in the same transaction.
func (s *RewardService) AdvanceGrant(ctx context.Context, cmd AdvanceGrantCommand) (*rewarddb.RewardGrant, error) {
	const op = "reward.AdvanceGrant"
	attrs := []attribute.KeyValue{
		attribute.String("grant_id", cmd.GrantID.String()),
		attribute.String("target", cmd.Target),
	}
	return operation.Run(ctx, s.telemetry(), op, attrs, func(ctx context.Context) (*rewarddb.RewardGrant, error) {
		target, err := rewarddomain.ParseGrantStatus(cmd.Target)
		if err != nil {
			return nil, apperr.Validationf(op, "%v", err)
		}
		if cmd.ExternalRef != nil && strings.TrimSpace(*cmd.ExternalRef) == "" {
			return nil, apperr.Validationf(op, "external_ref must not be blank")
		}

		return txrunner.InTx(ctx, s.db, op, func(ctx context.Context, tx bun.IDB) (*rewarddb.RewardGrant, error) {
			grant, err := s.repo.GetGrantForUpdate(ctx, tx, cmd.GrantID)
			if err != nil {
				if errors.Is(err, rewarddb.ErrNotFound) {
					return nil, apperr.NotFoundf(op, "grant %s not found", cmd.GrantID)
				}
				return nil, apperr.Transaction(op, err)
			}

			from := rewarddomain.GrantStatus(grant.Status)
			if err := rewarddomain.CheckTransition(from, target); err != nil {
				if errors.Is(err, rewarddomain.ErrNotPending) {
					return nil, apperr.Preconditionf(op, "reward is not pending")
				}
				return nil, apperr.Statef(op, "%v", err)
			}

			grant.Status = string(target)
			if cmd.ExternalRef != nil {
				grant.ExternalRef = cmd.ExternalRef
			}
			if err := s.repo.UpdateGrantStatus(ctx, tx, grant); err != nil {
				return nil, apperr.Transaction(op, err)
			}
			if rewarddomain.CreditsEarnings(from, target) {
				if err := s.repo.IncrementLifetimeEarnings(ctx, tx, grant.ParticipantID, grant.Amount); err != nil {
					return nil, apperr.Transaction(op, err)
				}
			}

			s.logger.InfoContext(ctx, "Grant advanced",
				attr.UUID("grant_id", grant.ID),
				attr.String("participant_id", grant.ParticipantID),
				attr.String("from", string(from)),
				attr.String("to", grant.Status),
				attr.Decimal("amount", grant.Amount),
			)
			return grant, nil
		})
	})
}

// GetLedger returns the participant's lifetime earnings. Participants that
// never had a grant enter PROCESSING have no ledger.
func (s *RewardService) GetLedger(ctx context.Context, participantID string) (*rewarddb.ParticipantLedger, error) {
	const op = "reward.GetLedger"
	attrs := []attribute.KeyValue{attribute.String("participant_id", participantID)}
	return operation.Run(ctx, s.telemetry(), op, attrs, func(ctx context.Context) (*rewarddb.ParticipantLedger, error) {
		if strings.TrimSpace(participantID) == "" {
			return nil, apperr.Validationf(op, "participant id is required")
		}
		ledger, err := s.repo.GetLedger(ctx, s.reader(), participantID)
		if err != nil {
			if errors.Is(err, rewarddb.ErrNotFound) {
				return nil, apperr.NotFoundf(op, "no ledger for participant %s", participantID)
			}
			return nil, apperr.Transaction(op, err)
		}
		return ledger, nil
	})
}
