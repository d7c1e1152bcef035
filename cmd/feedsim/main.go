package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/rollcall/internal/adapters/store/pg"
	"github.com/okian/rollcall/internal/feedsim"
	"github.com/okian/rollcall/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumEvents = 100
	defaultInterval  = 2 * time.Second
	defaultCooldown  = 30 * time.Second
)

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("ROLLCALL_DATABASE_URL"), "Postgres connection string of the event store")
		table       = flag.String("table", "detections", "Detections table name")
		numEvents   = flag.Int("events", defaultNumEvents, "Number of detections to insert (0 = run until interrupted)")
		interval    = flag.Duration("interval", defaultInterval, "Delay between detection attempts")
		cooldown    = flag.Duration("cooldown", defaultCooldown, "Per-subject re-detection suppression window")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	if *databaseURL == "" {
		os.Stderr.WriteString("missing -database-url (or ROLLCALL_DATABASE_URL)\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := pg.Open(ctx, *databaseURL, pg.WithTable(*table))
	if err != nil {
		os.Stderr.WriteString("failed to connect to event store: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer store.Close()

	config := &feedsim.Config{
		DatabaseURL: *databaseURL,
		Table:       *table,
		NumEvents:   *numEvents,
		Interval:    *interval,
		Cooldown:    *cooldown,
		Verbose:     *verbose,
	}

	if _, err := feedsim.Run(ctx, config, store); err != nil {
		os.Stderr.WriteString("feed failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
