// Package history archives received snapshots to PostgreSQL for
// offline analytics. The visualizer never reads the archive back;
// layout stays derived from the live snapshot alone.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dd0wney/cantopo/pkg/feed"
)

// Store handles snapshot persistence using PostgreSQL
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a PostgreSQL-backed snapshot archive
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Archive writes are bursty (one batch per refresh), so a small
	// pool is plenty.
	config.MaxConns = 4
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &Store{pool: pool}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS device_snapshots (
			snapshot_id UUID NOT NULL,
			taken_at    TIMESTAMPTZ NOT NULL,
			protocol    TEXT NOT NULL,
			device_id   TEXT NOT NULL,
			name        TEXT NOT NULL,
			device_type TEXT NOT NULL,
			state       TEXT NOT NULL,
			safety      TEXT NOT NULL DEFAULT '',
			telemetry   DOUBLE PRECISION,
			PRIMARY KEY (snapshot_id, protocol, device_id)
		);
		CREATE INDEX IF NOT EXISTS idx_device_snapshots_taken_at
			ON device_snapshots (taken_at);
	`)
	return err
}

// Archive writes one row per device in the snapshot. Re-archiving the
// same snapshot is a no-op thanks to the primary key.
func (s *Store) Archive(ctx context.Context, snap feed.Snapshot) error {
	rows := ArchiveRows(snap)
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO device_snapshots
				(snapshot_id, taken_at, protocol, device_id, name, device_type, state, safety, telemetry)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT DO NOTHING`,
			r.SnapshotID, r.TakenAt, r.Protocol, r.DeviceID, r.Name, r.DeviceType, r.State, r.Safety, r.Telemetry)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("archive snapshot %s: %w", snap.ID, err)
		}
	}
	return nil
}

// Close closes the database connection pool
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Row is one archived device observation.
type Row struct {
	SnapshotID string
	TakenAt    time.Time
	Protocol   string
	DeviceID   string
	Name       string
	DeviceType string
	State      string
	Safety     string
	Telemetry  *float64
}

// ArchiveRows flattens a snapshot to its archive rows. Split out so
// row construction is testable without a database.
func ArchiveRows(snap feed.Snapshot) []Row {
	rows := make([]Row, 0, len(snap.Devices))
	for _, d := range snap.Devices {
		rows = append(rows, Row{
			SnapshotID: snap.ID.String(),
			TakenAt:    snap.TakenAt,
			Protocol:   string(d.Protocol),
			DeviceID:   d.ID,
			Name:       d.Name,
			DeviceType: d.Type,
			State:      d.State,
			Safety:     string(d.Safety),
			Telemetry:  d.Telemetry,
		})
	}
	return rows
}
