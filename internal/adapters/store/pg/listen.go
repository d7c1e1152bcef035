// Package pg is the Postgres-backed client for the remote detection store.
package pg

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/rollcall/internal/domain/model"
	"github.com/okian/rollcall/pkg/logger"
	"github.com/okian/rollcall/pkg/metrics"
)

// Reconnect backoff bounds for the notification loop.
const (
	initialRelistenBackoff = time.Second
	maxRelistenBackoff     = 30 * time.Second
)

// Subscription is the opaque handle for one live insert feed.
type Subscription struct {
	id     uuid.UUID
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// ID returns the subscription's identifier.
func (s *Subscription) ID() string {
	return s.id.String()
}

// Close tears the subscription down and waits for the delivery loop to
// exit, so no events are delivered after Close returns. Calling Close
// more than once is a no-op.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed when the delivery loop has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe opens the live insert feed. Each notification on the
// configured channel is decoded and passed to handler, in delivery
// order, from a single goroutine. Connection loss is handled inside the
// loop with backoff; redelivered rows after a reconnect are the event
// set's problem (admission is idempotent by id).
func (c *Client) Subscribe(ctx context.Context, handler func(model.Detection)) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	conn, err := c.listen(subCtx)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &Subscription{
		id:     uuid.New(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go c.deliver(subCtx, conn, handler, sub.done)

	c.log.Info(ctx, "live stream opened",
		logger.String("channel", c.channel),
		logger.String("subscription", sub.ID()),
	)

	return sub, nil
}

// listen acquires a dedicated connection and issues LISTEN on it.
func (c *Client) listen(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := c.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubscribe, err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{c.channel}.Sanitize()); err != nil {
		conn.Release()
		return nil, fmt.Errorf("%w: %w", ErrSubscribe, err)
	}
	return conn, nil
}

// deliver runs the notification loop until ctx is canceled.
func (c *Client) deliver(ctx context.Context, conn *pgxpool.Conn, handler func(model.Detection), done chan struct{}) {
	defer close(done)
	defer func() {
		if conn != nil {
			conn.Release()
		}
	}()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn(ctx, "notification wait failed; re-listening", logger.Error(err))
			conn.Release()
			conn = c.relisten(ctx)
			if conn == nil {
				return
			}
			continue
		}

		metrics.RecordLiveNotification()

		e, err := decodePayload([]byte(n.Payload))
		if err != nil {
			metrics.RecordLiveDecodeError()
			c.log.Warn(ctx, "dropping undecodable notification", logger.Error(err))
			continue
		}
		handler(e)
	}
}

// relisten re-establishes the LISTEN connection with capped backoff.
// Returns nil once ctx is canceled.
func (c *Client) relisten(ctx context.Context) *pgxpool.Conn {
	backoff := initialRelistenBackoff
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		conn, err := c.listen(ctx)
		if err == nil {
			c.log.Info(ctx, "live stream re-established", logger.String("channel", c.channel))
			return conn
		}
		c.log.Warn(ctx, "re-listen failed; backing off",
			logger.Error(err),
			logger.Any("backoff", backoff),
		)
		if backoff < maxRelistenBackoff {
			backoff *= 2
		}
	}
}
