// Package persistence provides the optional durable export of the audit log.
package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lvc-ssi/simgate/internal/domain"
)

const createAccessLogTable = `
	CREATE TABLE IF NOT EXISTS access_log (
		id          UUID PRIMARY KEY,
		proof_id    TEXT NOT NULL,
		resource_id TEXT NOT NULL,
		action      TEXT NOT NULL,
		granted     BOOLEAN NOT NULL,
		reason      TEXT NOT NULL,
		timestamp   TIMESTAMPTZ NOT NULL
	)`

// AuditRepository exports access log entries to Postgres. Rows are only ever
// inserted; there is no update or delete path.
type AuditRepository struct {
	db *pgxpool.Pool
}

// Connect opens a pgx pool for the given DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// NewAuditRepository creates the repository and its table if needed.
func NewAuditRepository(ctx context.Context, db *pgxpool.Pool) (*AuditRepository, error) {
	if _, err := db.Exec(ctx, createAccessLogTable); err != nil {
		return nil, fmt.Errorf("failed to ensure access_log table: %w", err)
	}
	return &AuditRepository{db: db}, nil
}

func (r *AuditRepository) CreateAccessLogEntry(ctx context.Context, entry *domain.AccessLogEntry) error {
	query := `INSERT INTO access_log (id, proof_id, resource_id, action, granted, reason, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.ProofID, string(entry.ResourceID), entry.Action, entry.Granted, entry.Reason, entry.Timestamp)
	return err
}

func (r *AuditRepository) AccessHistory(ctx context.Context, resourceID domain.ResourceID, limit int) ([]*domain.AccessLogEntry, error) {
	query := `SELECT id, proof_id, resource_id, action, granted, reason, timestamp FROM access_log WHERE resource_id = $1 ORDER BY timestamp DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, string(resourceID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.AccessLogEntry
	for rows.Next() {
		var entry domain.AccessLogEntry
		var resource string
		if err := rows.Scan(&entry.ID, &entry.ProofID, &resource, &entry.Action, &entry.Granted, &entry.Reason, &entry.Timestamp); err != nil {
			return nil, err
		}
		entry.ResourceID = domain.ResourceID(resource)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
