// Package pg is the Postgres-backed client for the remote detection store.
package pg

import "github.com/okian/rollcall/pkg/logger"

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTable sets the detections table name.
func WithTable(table string) Option {
	return func(c *Client) {
		if table != "" {
			c.table = table
		}
	}
}

// WithChannel sets the NOTIFY channel carrying insert events.
func WithChannel(channel string) Option {
	return func(c *Client) {
		if channel != "" {
			c.channel = channel
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}
