// Package pglock wraps Postgres transaction-scoped advisory locks.
package pglock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TournamentKey is the lock key shared by every writer of a tournament's scores
// and leaderboard.
func TournamentKey(tournamentID uuid.UUID) string {
	return "tournament:" + tournamentID.String()
}

// RewardPoolKey serializes distribution runs of one pool.
func RewardPoolKey(poolID uuid.UUID) string {
	return "reward_pool:" + poolID.String()
}

// Acquire blocks until the advisory lock for key is held by the current
// transaction. The lock is released on commit or rollback.
func Acquire(ctx context.Context, db bun.IDB, key string) error {
	if _, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx); err != nil {
		return fmt.Errorf("pglock.Acquire %s: %w", key, err)
	}
	return nil
}

// TryAcquire attempts the lock without waiting.
func TryAcquire(ctx context.Context, db bun.IDB, key string) (bool, error) {
	var acquired bool
	if err := db.NewRaw("SELECT pg_try_advisory_xact_lock(hashtext(?))", key).Scan(ctx, &acquired); err != nil {
		return false, fmt.Errorf("pglock.TryAcquire %s: %w", key, err)
	}
	return acquired, nil
}
