package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in an insert-only table. Duplicate
// inserts are ignored so replays stay idempotent.
//
// Expected schema:
//
//	CREATE TABLE audit_events (
//	    id          UUID PRIMARY KEY,
//	    timestamp   TIMESTAMPTZ NOT NULL,
//	    request_id  TEXT,
//	    actor       TEXT,
//	    target      TEXT NOT NULL,
//	    operation   TEXT NOT NULL,
//	    request     TEXT,
//	    response    TEXT,
//	    error       TEXT,
//	    error_kind  TEXT,
//	    latency_ms  BIGINT NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	query := `
		INSERT INTO audit_events (
			id, timestamp, request_id, actor, target, operation,
			request, response, error, error_kind, latency_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.Timestamp,
		event.RequestID,
		event.Actor,
		event.Target,
		event.Operation,
		event.Request,
		event.Response,
		event.Error,
		event.ErrorKind,
		event.LatencyMS,
	)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListRecent returns the N most recent events.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, timestamp, request_id, actor, target, operation,
			   request, response, error, error_kind, latency_ms
		FROM audit_events
		ORDER BY timestamp DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		err := rows.Scan(
			&event.ID,
			&event.Timestamp,
			&event.RequestID,
			&event.Actor,
			&event.Target,
			&event.Operation,
			&event.Request,
			&event.Response,
			&event.Error,
			&event.ErrorKind,
			&event.LatencyMS,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
