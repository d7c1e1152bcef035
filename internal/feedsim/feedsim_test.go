package feedsim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/rollcall/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// fakeInserter records inserted detections in memory.
type fakeInserter struct {
	mu   sync.Mutex
	rows []Detection
	err  error
}

func (f *fakeInserter) Insert(_ context.Context, name string, confidence float64, known bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.rows = append(f.rows, Detection{Name: name, Confidence: confidence, Known: known})
	return int64(len(f.rows)), nil
}

func (f *fakeInserter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func TestGenerator(t *testing.T) {
	Convey("Given a generator with no cooldown", t, func() {
		gen := NewGenerator(0)

		Convey("When drawing many detections", func() {
			var known, unknown int
			for i := 0; i < 1000; i++ {
				d, ok := gen.Next()
				So(ok, ShouldBeTrue)

				if d.Known {
					known++
					So(d.Name, ShouldNotEqual, UnknownLabel)
					So(d.Confidence, ShouldBeGreaterThanOrEqualTo, knownConfidenceMin)
					So(d.Confidence, ShouldBeLessThan, knownConfidenceMin+knownConfidenceRange)
				} else {
					unknown++
					So(d.Name, ShouldEqual, UnknownLabel)
					So(d.Confidence, ShouldBeGreaterThanOrEqualTo, unknownConfidenceMin)
					So(d.Confidence, ShouldBeLessThan, unknownConfidenceMin+unknownConfidenceRange)
				}
			}

			Convey("Then both outcomes should occur", func() {
				So(known, ShouldBeGreaterThan, 0)
				So(unknown, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given a generator with a long cooldown", t, func() {
		gen := NewGenerator(time.Hour)

		Convey("When the same subject is drawn twice", func() {
			// Force determinism by pinning the draw through lastSeen
			// bookkeeping: first occurrence of each name passes, any
			// repeat inside the window must be suppressed.
			seen := make(map[string]int)
			passed := 0
			for i := 0; i < 200; i++ {
				d, ok := gen.Next()
				if ok {
					seen[d.Name]++
					passed++
				}
			}

			Convey("Then no subject should pass more than once", func() {
				for name, n := range seen {
					So(n, ShouldEqual, 1)
					So(name, ShouldNotBeBlank)
				}
				So(passed, ShouldBeLessThanOrEqualTo, len(subjects)+1)
			})
		})
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given a simulator over a fake store", t, func() {
		store := &fakeInserter{}
		config := &Config{
			Table:     "detections",
			NumEvents: 5,
			Interval:  time.Millisecond,
			Cooldown:  0,
		}

		Convey("When running to completion", func() {
			stats, err := Run(ctx, config, store)

			Convey("Then the requested number of rows should land", func() {
				So(err, ShouldBeNil)
				So(stats.Inserted, ShouldEqual, 5)
				So(store.count(), ShouldEqual, 5)
				So(stats.Failed, ShouldEqual, 0)
			})
		})

		Convey("When the context is canceled mid-run", func() {
			config.NumEvents = 0 // run until canceled
			cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			stats, err := Run(cctx, config, store)

			Convey("Then it should stop cleanly with partial stats", func() {
				So(err, ShouldBeNil)
				So(stats.Attempted, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When every insert fails", func() {
			store.err = errors.New("connection refused")
			config.NumEvents = 0
			cctx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
			defer cancel()

			stats, err := Run(cctx, config, store)

			Convey("Then failures should be counted, not fatal", func() {
				So(err, ShouldBeNil)
				So(stats.Inserted, ShouldEqual, 0)
				So(stats.Failed, ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given no store", t, func() {
		Convey("Then Run should fail fast", func() {
			_, err := Run(ctx, &Config{Interval: time.Millisecond}, nil)
			So(errors.Is(err, ErrNoStore), ShouldBeTrue)
		})
	})
}
