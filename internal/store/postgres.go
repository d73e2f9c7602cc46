package store

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/event-rsvp-bot/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresLog is the durable EventLog, used when DB_URL is configured.
type PostgresLog struct {
	pool *pgxpool.Pool
}

// NewPostgresLog creates a connection pool and fails fast if DB is unreachable.
func NewPostgresLog(dbURL string) (*PostgresLog, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresLog{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresLog) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresLog) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresLog) Close() {
	p.pool.Close()
}

// Append inserts one entry. The bigserial seq column fixes insertion order and
// created_at is taken from the database clock at insert time.
func (p *PostgresLog) Append(ctx context.Context, e models.LogEntry) error {
	if e.RecipientID == "" {
		return errors.New("recipient required")
	}
	stampID(&e)

	_, err := p.pool.Exec(ctx, `
		INSERT INTO event_log(id, direction, display_name, recipient_id, content, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,clock_timestamp())
	`, e.ID, string(e.Direction), e.DisplayName, e.RecipientID, e.Content, e.Status)
	return err
}

// Recent returns the newest n entries in insertion order.
func (p *PostgresLog) Recent(ctx context.Context, n int) ([]models.LogEntry, error) {
	if n <= 0 {
		return []models.LogEntry{}, nil
	}

	rows, err := p.pool.Query(ctx, `
		SELECT id, direction, display_name, recipient_id, content, status, created_at
		FROM (
			SELECT * FROM event_log ORDER BY seq DESC LIMIT $1
		) newest
		ORDER BY seq ASC
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.LogEntry, 0, n)
	for rows.Next() {
		var e models.LogEntry
		var dir string
		if err := rows.Scan(&e.ID, &dir, &e.DisplayName, &e.RecipientID, &e.Content, &e.Status, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Direction = models.Direction(dir)
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
