package scoringservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/rays8417/tenjaku-sub001/app/modules/scoring/application/parsers"
	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"github.com/rays8417/tenjaku-sub001/app/shared/operation"
	"github.com/rays8417/tenjaku-sub001/app/shared/txrunner"
)

// ScoringService implements Service.
type ScoringService struct {
	repo          scoringdb.Repository
	parsers       parsers.ParserFactory
	logger        *slog.Logger
	metrics       observability.OperationMetrics
	tracer        trace.Tracer
	db            *bun.DB
	defaultPolicy string
}

// NewScoringService creates a ScoringService. defaultPolicy names the scoring
// policy used by tournaments registered without one.
func NewScoringService(
	repo scoringdb.Repository,
	parserFactory parsers.ParserFactory,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	defaultPolicy string,
) *ScoringService {
	if defaultPolicy == "" {
		defaultPolicy = scoringdomain.DefaultPolicy
	}
	return &ScoringService{
		repo:          repo,
		parsers:       parserFactory,
		logger:        logger,
		metrics:       metrics,
		tracer:        tracer,
		db:            db,
		defaultPolicy: defaultPolicy,
	}
}

var _ Service = (*ScoringService)(nil)

func (s *ScoringService) telemetry() operation.Telemetry {
	return operation.Telemetry{Logger: s.logger, Metrics: s.metrics, Tracer: s.tracer}
}

func tournamentAttrs(id uuid.UUID) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String("tournament_id", id.String())}
}

// resolvePolicy looks up a policy and surfaces the legacy economy calculation
// every time it is used.
func (s *ScoringService) resolvePolicy(ctx context.Context, op, name string) (scoringdomain.ScoringPolicy, error) {
	policy, err := scoringdomain.LookupPolicy(name)
	if err != nil {
		return scoringdomain.ScoringPolicy{}, apperr.Validationf(op, "%v", err)
	}
	if policy.LegacyEconomy() {
		s.logger.WarnContext(ctx, "Scoring policy computes economy from runs scored instead of runs conceded",
			attr.String("policy", policy.Name),
			attr.ExtractCorrelationID(ctx),
		)
	}
	return policy, nil
}

// loadTournament maps a missing tournament onto a NotFound failure.
func (s *ScoringService) loadTournament(ctx context.Context, db bun.IDB, op string, id uuid.UUID) (*scoringdb.Tournament, error) {
	t, err := s.repo.GetTournament(ctx, db, id)
	if err != nil {
		if errors.Is(err, scoringdb.ErrNotFound) {
			return nil, apperr.NotFoundf(op, "tournament %s not found", id)
		}
		return nil, apperr.Transaction(op, err)
	}
	return t, nil
}

// RegisterTournament creates the tournament record stat lines and entries hang off.
func (s *ScoringService) RegisterTournament(ctx context.Context, cmd RegisterTournamentCommand) (*scoringdb.Tournament, error) {
	const op = "scoring.RegisterTournament"
	return operation.Run(ctx, s.telemetry(), op, tournamentAttrs(cmd.ID), func(ctx context.Context) (*scoringdb.Tournament, error) {
		if cmd.Name == "" {
			return nil, apperr.Validationf(op, "tournament name is required")
		}
		policyName := cmd.ScoringPolicy
		if policyName == "" {
			policyName = s.defaultPolicy
		}
		policy, err := s.resolvePolicy(ctx, op, policyName)
		if err != nil {
			return nil, err
		}
		id := cmd.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		return txrunner.InTx(ctx, s.db, op, func(ctx context.Context, tx bun.IDB) (*scoringdb.Tournament, error) {
			if _, err := s.repo.GetTournament(ctx, tx, id); err == nil {
				return nil, apperr.Conflictf(op, "tournament %s already exists", id)
			} else if !errors.Is(err, scoringdb.ErrNotFound) {
				return nil, apperr.Transaction(op, err)
			}
			t := &scoringdb.Tournament{ID: id, Name: cmd.Name, ScoringPolicy: policy.Name}
			if err := s.repo.CreateTournament(ctx, tx, t); err != nil {
				return nil, apperr.Transaction(op, err)
			}
			return t, nil
		})
	})
}

// reader returns the handle for reads outside a transaction. A nil *bun.DB must
// not leak into the interface as a typed nil.
func (s *ScoringService) reader() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}
