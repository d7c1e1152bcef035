// Package pg is the Postgres-backed client for the remote detection store.
//
// The store is append-only: the face-recognition producer inserts one
// row per detection and nothing ever updates or deletes them. Two read
// paths are exposed: Snapshot (bulk, capped, observed-time descending)
// and Subscribe (LISTEN/NOTIFY insert feed). The notify side expects a
// trigger on the detections table along the lines of:
//
//	CREATE FUNCTION notify_detection() RETURNS trigger AS $$
//	BEGIN
//	  PERFORM pg_notify('detections_insert', row_to_json(NEW)::text);
//	  RETURN NEW;
//	END $$ LANGUAGE plpgsql;
//
//	CREATE TRIGGER detections_notify AFTER INSERT ON detections
//	  FOR EACH ROW EXECUTE FUNCTION notify_detection();
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/rollcall/internal/domain/model"
	"github.com/okian/rollcall/pkg/logger"
)

// Default store configuration constants.
const (
	defaultTable   = "detections"
	defaultChannel = "detections_insert"
)

// Client talks to the remote detection store.
type Client struct {
	pool    *pgxpool.Pool
	table   string
	channel string
	log     logger.Logger
}

// Open connects to the store at url with configuration options.
func Open(ctx context.Context, url string, opts ...Option) (*Client, error) {
	c := &Client{
		table:   defaultTable,
		channel: defaultChannel,
		log:     logger.Get().Named("store"),
	}

	for _, opt := range opts {
		opt(c)
	}

	pcfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	c.pool = pool

	return c, nil
}

// Snapshot bulk-reads up to limit events, newest observation first.
// The result order is adopted verbatim by the event set on replace.
func (c *Client) Snapshot(ctx context.Context, limit int) ([]model.Detection, error) {
	query := fmt.Sprintf(
		`SELECT id, name, confidence, is_known, created_at FROM %s ORDER BY created_at DESC LIMIT $1`,
		pgx.Identifier{c.table}.Sanitize(),
	)

	rows, err := c.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	out := make([]model.Detection, 0, limit)
	for rows.Next() {
		var e model.Detection
		if err := rows.Scan(&e.ID, &e.Name, &e.Confidence, &e.Known, &e.ObservedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQuery, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	return out, nil
}

// Insert appends one detection row and returns the store-assigned id.
// This is the producer-side write path, used by the feed simulator.
func (c *Client) Insert(ctx context.Context, name string, confidence float64, known bool) (int64, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (name, confidence, is_known) VALUES ($1, $2, $3) RETURNING id`,
		pgx.Identifier{c.table}.Sanitize(),
	)
	var id int64
	if err := c.pool.QueryRow(ctx, query, name, confidence, known).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return id, nil
}

// Close releases the connection pool.
func (c *Client) Close() {
	if c != nil && c.pool != nil {
		c.pool.Close()
	}
}
