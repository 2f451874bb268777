package rewardservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"github.com/rays8417/tenjaku-sub001/app/shared/operation"
	"github.com/rays8417/tenjaku-sub001/app/shared/txrunner"
)

// RewardService implements Service.
type RewardService struct {
	repo    rewarddb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewRewardService creates a new RewardService.
func NewRewardService(
	repo rewarddb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RewardService {
	return &RewardService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

var _ Service = (*RewardService)(nil)

func (s *RewardService) telemetry() operation.Telemetry {
	return operation.Telemetry{Logger: s.logger, Metrics: s.metrics, Tracer: s.tracer}
}

func (s *RewardService) reader() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}

func poolAttrs(id uuid.UUID) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String("pool_id", id.String())}
}

func (s *RewardService) loadPool(ctx context.Context, db bun.IDB, op string, id uuid.UUID) (*rewarddb.RewardPool, error) {
	pool, err := s.repo.GetPool(ctx, db, id)
	if err != nil {
		if errors.Is(err, rewarddb.ErrNotFound) {
			return nil, apperr.NotFoundf(op, "reward pool %s not found", id)
		}
		return nil, apperr.Transaction(op, err)
	}
	return pool, nil
}

// CreatePool validates and stores a new reward pool for an existing tournament.
func (s *RewardService) CreatePool(ctx context.Context, cmd CreatePoolCommand) (*rewarddb.RewardPool, error) {
	const op = "reward.CreatePool"
	attrs := []attribute.KeyValue{attribute.String("tournament_id", cmd.TournamentID.String())}
	return operation.Run(ctx, s.telemetry(), op, attrs, func(ctx context.Context) (*rewarddb.RewardPool, error) {
		if cmd.TournamentID == uuid.Nil {
			return nil, apperr.Validationf(op, "tournament_id is required")
		}
		if strings.TrimSpace(cmd.Name) == "" {
			return nil, apperr.Validationf(op, "pool name is required")
		}
		if err := rewarddomain.ValidateAmount(cmd.TotalAmount); err != nil {
			return nil, apperr.Validationf(op, "total_amount: %v", err)
		}
		policy, err := rewarddomain.ParseDistributionPolicy(cmd.Policy)
		if err != nil {
			return nil, apperr.Validationf(op, "%v", err)
		}
		switch {
		case policy == rewarddomain.PolicyProportional && len(cmd.Rules) > 0:
			return nil, apperr.Validationf(op, "rules only apply to the %s policy", rewarddomain.PolicyRules)
		case len(cmd.Rules) > 0:
			if err := rewarddomain.ValidateRules(cmd.Rules); err != nil {
				return nil, apperr.Validationf(op, "%v", err)
			}
		}

		id := cmd.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		return txrunner.InTx(ctx, s.db, op, func(ctx context.Context, tx bun.IDB) (*rewarddb.RewardPool, error) {
			exists, err := s.repo.TournamentExists(ctx, tx, cmd.TournamentID)
			if err != nil {
				return nil, apperr.Transaction(op, err)
			}
			if !exists {
				return nil, apperr.NotFoundf(op, "tournament %s not found", cmd.TournamentID)
			}
			if _, err := s.repo.GetPool(ctx, tx, id); err == nil {
				return nil, apperr.Conflictf(op, "reward pool %s already exists", id)
			} else if !errors.Is(err, rewarddb.ErrNotFound) {
				return nil, apperr.Transaction(op, err)
			}

			pool := &rewarddb.RewardPool{
				ID:           id,
				TournamentID: cmd.TournamentID,
				Name:         cmd.Name,
				TotalAmount:  cmd.TotalAmount,
				Policy:       string(policy),
				Rules:        cmd.Rules,
			}
			if err := s.repo.CreatePool(ctx, tx, pool); err != nil {
				return nil, apperr.Transaction(op, err)
			}
			s.logger.InfoContext(ctx, "Reward pool created",
				attr.UUID("pool_id", pool.ID),
				attr.UUID("tournament_id", pool.TournamentID),
				attr.String("policy", pool.Policy),
				attr.Decimal("total_amount", pool.TotalAmount),
			)
			return pool, nil
		})
	})
}

func (s *RewardService) GetPool(ctx context.Context, poolID uuid.UUID) (*rewarddb.RewardPool, error) {
	const op = "reward.GetPool"
	return operation.Run(ctx, s.telemetry(), op, poolAttrs(poolID), func(ctx context.Context) (*rewarddb.RewardPool, error) {
		return s.loadPool(ctx, s.reader(), op, poolID)
	})
}

// ListGrants returns every grant of the pool across runs.
func (s *RewardService) ListGrants(ctx context.Context, poolID uuid.UUID) ([]rewarddb.RewardGrant, error) {
	const op = "reward.ListGrants"
	return operation.Run(ctx, s.telemetry(), op, poolAttrs(poolID), func(ctx context.Context) ([]rewarddb.RewardGrant, error) {
		if _, err := s.loadPool(ctx, s.reader(), op, poolID); err != nil {
			return nil, err
		}
		grants, err := s.repo.ListGrants(ctx, s.reader(), poolID)
		if err != nil {
			return nil, apperr.Transaction(op, err)
		}
		return grants, nil
	})
}
