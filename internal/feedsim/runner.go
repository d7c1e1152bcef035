package feedsim

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/rollcall/pkg/logger"
)

// Inserter writes one detection row to the event store. *pg.Client
// satisfies this.
type Inserter interface {
	Insert(ctx context.Context, name string, confidence float64, known bool) (int64, error)
}

// Run drives the simulator: draw a detection each interval, skip
// subjects inside their cooldown, and insert the rest into the store.
func Run(ctx context.Context, config *Config, store Inserter) (*Stats, error) {
	if store == nil {
		return nil, fmt.Errorf("feedsim: %w", ErrNoStore)
	}

	stats := &Stats{StartTime: time.Now()}
	gen := NewGenerator(config.Cooldown)
	log := logger.Get().Named("feedsim")

	log.Info(ctx, "starting detection feed",
		logger.String("table", config.Table),
		logger.Int("events", config.NumEvents),
		logger.String("interval", config.Interval.String()),
		logger.String("cooldown", config.Cooldown.String()),
	)

	ticker := time.NewTicker(config.Interval)
	defer ticker.Stop()

	for config.NumEvents == 0 || stats.Inserted < config.NumEvents {
		select {
		case <-ctx.Done():
			stats.EndTime = time.Now()
			log.Info(ctx, "feed canceled",
				logger.Int("inserted", stats.Inserted),
				logger.Int("suppressed", stats.Suppressed),
				logger.Int("failed", stats.Failed),
			)
			return stats, nil
		case <-ticker.C:
		}

		stats.Attempted++
		d, ok := gen.Next()
		if !ok {
			stats.Suppressed++
			continue
		}

		id, err := store.Insert(ctx, d.Name, d.Confidence, d.Known)
		if err != nil {
			stats.Failed++
			log.Warn(ctx, "insert failed",
				logger.String("name", d.Name),
				logger.Error(err),
			)
			continue
		}

		stats.Inserted++
		if config.Verbose {
			log.Info(ctx, "detection inserted",
				logger.Int64("id", id),
				logger.String("name", d.Name),
				logger.Float64("confidence", d.Confidence),
				logger.Bool("isKnown", d.Known),
			)
		}
	}

	stats.EndTime = time.Now()
	log.Info(ctx, "feed completed",
		logger.Int("inserted", stats.Inserted),
		logger.Int("suppressed", stats.Suppressed),
		logger.Int("failed", stats.Failed),
	)
	return stats, nil
}
