// Package snapshot implements the optional durability adapter behind
// orchestrator.SnapshotStore (§6a), generalized from the teacher's
// internal/repo package. Where the teacher ran one pgx repo per entity kind
// (TaskRepo, RunRepo, FlowRepo, ScheduleRepo, ProposalRepo) against a
// dedicated table each, Store keeps a single (entity_kind, entity_id)-keyed
// table and stores each record as JSON, since the orchestrator snapshots
// whatever shape the caller hands it rather than a fixed domain row.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound mirrors the teacher's repo.ErrNotFound for the single lookup
// path this package exposes.
var ErrNotFound = fmt.Errorf("snapshot: not found")

// Store persists lifecycle snapshots to Postgres via pgxpool, matching the
// connection-pool shape of the teacher's repo.NewPool.
type Store struct {
	pool *pgxpool.Pool
}

// NewPool opens a pgxpool against dsn, pings it, and returns a ready pool.
// Mirrors repo.NewPool's shape, generalized to take the DSN as an argument
// (the config package, not this one, owns ORCHESTRATOR_SNAPSHOT_DSN).
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// New wraps an already-open pool. Use NewPool to build one from a DSN.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Save upserts the JSON-encoded record under (kind, id), implementing
// orchestrator.SnapshotStore. Errors are swallowed to a log-worthy return
// rather than propagated, since a snapshot write failing must never fail
// the task/workflow operation it is recording — callers that want the
// error can call SaveContext directly.
func (s *Store) Save(kind, id string, record any) {
	_ = s.SaveContext(context.Background(), kind, id, record)
}

// SaveContext is the context-aware form of Save.
func (s *Store) SaveContext(ctx context.Context, kind, id string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (entity_kind, entity_id, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (entity_kind, entity_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`
	if _, err := s.pool.Exec(ctx, query, kind, id, payload); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Load fetches the most recent JSON snapshot for (kind, id) and unmarshals
// it into out. Returns ErrNotFound when no snapshot exists.
func (s *Store) Load(ctx context.Context, kind, id string, out any) error {
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT payload FROM snapshots WHERE entity_kind = $1 AND entity_id = $2
	`, kind, id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query snapshot: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return nil
}
