package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/rays8417/tenjaku-sub001/app"
	"github.com/rays8417/tenjaku-sub001/app/dbmigrate"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/config"
	"github.com/rays8417/tenjaku-sub001/integration_tests/containers"
)

// TestEnvironment holds the resources shared by integration tests.
type TestEnvironment struct {
	Ctx         context.Context
	Cancel      context.CancelFunc
	PgContainer *postgres.PostgresContainer
	DB          *bun.DB
	Config      *config.Config
	Obs         *observability.Observability
}

var (
	globalEnv     *TestEnvironment
	globalEnvErr  error
	globalEnvOnce sync.Once
)

// GetOrCreateTestEnv returns the package-wide environment, starting Postgres and
// running every migration on first use.
func GetOrCreateTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("integration tests need docker; skipped with -short")
	}
	globalEnvOnce.Do(func() {
		globalEnv, globalEnvErr = newTestEnvironment()
	})
	if globalEnvErr != nil {
		t.Fatalf("Failed to set up test environment: %v", globalEnvErr)
	}
	return globalEnv
}

func newTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pgContainer, connStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	db := bun.NewDB(sqlDB, pgdialect.New())

	obs := observability.NewNoop()
	if err := dbmigrate.Up(ctx, db, obs.Logger); err != nil {
		_ = db.Close()
		_ = pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cfg := &config.Config{}
	cfg.Postgres.DSN = connStr

	return &TestEnvironment{
		Ctx:         ctx,
		Cancel:      cancel,
		PgContainer: pgContainer,
		DB:          db,
		Config:      cfg,
		Obs:         obs,
	}, nil
}

// Modules builds the engine modules against the test database without an event router.
func (env *TestEnvironment) Modules(t *testing.T) *app.Modules {
	t.Helper()
	modules, err := app.NewModules(env.Ctx, env.Config, env.Obs, env.DB, nil, nil)
	if err != nil {
		t.Fatalf("Failed to build modules: %v", err)
	}
	return modules
}

// Shutdown terminates the shared environment if one was started.
func Shutdown() {
	if globalEnv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := globalEnv.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
	if err := globalEnv.PgContainer.Terminate(ctx); err != nil {
		log.Printf("Error terminating postgres container: %v", err)
	}
	globalEnv.Cancel()
}
