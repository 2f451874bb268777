package testutils

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

// engineTables lists every application table; migration bookkeeping is kept.
var engineTables = []string{
	"reward_grants",
	"reward_pools",
	"participant_ledgers",
	"leaderboard_rows",
	"holdings",
	"participant_scores",
	"participant_entries",
	"stat_lines",
	"tournaments",
}

// CleanupDatabase truncates every application table.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(engineTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	return nil
}

// CountRows returns the number of rows in table matching where.
func CountRows(ctx context.Context, db bun.IDB, table, where string, args ...any) (int, error) {
	q := db.NewSelect().Table(table)
	if where != "" {
		q = q.Where(where, args...)
	}
	return q.Count(ctx)
}
