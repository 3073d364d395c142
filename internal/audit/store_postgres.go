package audit

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresStore persists audit events in an append-only table. Used when a
// deployment needs the trail to outlive the process.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres connects to Postgres and verifies the connection.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS audit_events (
    id         UUID PRIMARY KEY,
    ts         TIMESTAMPTZ NOT NULL,
    actor      VARCHAR(64) NOT NULL,
    subject    VARCHAR(64) NOT NULL,
    action     VARCHAR(64) NOT NULL,
    amount     BIGINT NOT NULL DEFAULT 0,
    request_id VARCHAR(64) NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS audit_events_actor_ts ON audit_events (actor, ts);
`

// EnsureSchema creates the events table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schemaSQL)
	return err
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_events (id, ts, actor, subject, action, amount, request_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, event.Timestamp, event.Actor, event.Subject, event.Action,
		int64(event.Amount), event.RequestID,
	)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByActor(ctx context.Context, actor string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ts, actor, subject, action, amount, request_id
		 FROM audit_events WHERE actor = $1 ORDER BY ts`,
		actor,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var amount int64
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Actor, &e.Subject, &e.Action, &amount, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Amount = uint64(amount)
		events = append(events, e)
	}
	return events, rows.Err()
}
