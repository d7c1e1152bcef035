package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/rollcall/internal/adapters/mq/queue"
	"github.com/okian/rollcall/internal/adapters/mq/worker"
	"github.com/okian/rollcall/internal/adapters/repository"
	"github.com/okian/rollcall/internal/domain/admission"
	"github.com/okian/rollcall/internal/domain/model"
	"github.com/okian/rollcall/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func det(id int64, name string, confidence float64) model.Detection {
	return model.Detection{
		ID:         id,
		Name:       name,
		Confidence: confidence,
		Known:      true,
		ObservedAt: time.Now(),
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestApplier(t *testing.T) {
	ctx := context.Background()

	Convey("Given an applier over a queue, gate and event log", t, func() {
		q := queue.NewInMemoryQueue()
		gate := admission.NewGate()
		log := repository.NewEventLog(ctx)

		var admitted atomic.Int64
		a := worker.NewApplier(q, gate, log,
			worker.WithName("test-applier"),
			worker.WithAdmitHook(func(model.Detection) { admitted.Add(1) }),
		)

		runCtx, cancel := context.WithCancel(ctx)
		go a.Run(runCtx)
		Reset(func() {
			cancel()
		})

		Convey("When valid events are enqueued", func() {
			So(q.Enqueue(ctx, det(1, "Alice", 0.9)), ShouldBeTrue)
			So(q.Enqueue(ctx, det(2, "Bob", 0.8)), ShouldBeTrue)

			Convey("Then they should be admitted newest-first", func() {
				So(waitFor(func() bool { return log.Len(ctx) == 2 }), ShouldBeTrue)
				all := log.All(ctx)
				So(all[0].ID, ShouldEqual, 2)
				So(all[1].ID, ShouldEqual, 1)
				So(admitted.Load(), ShouldEqual, 2)
			})
		})

		Convey("When a duplicate id arrives", func() {
			So(q.Enqueue(ctx, det(1, "Alice", 0.9)), ShouldBeTrue)
			So(q.Enqueue(ctx, det(1, "Alice again", 0.9)), ShouldBeTrue)

			Convey("Then the second admission should be a no-op", func() {
				So(waitFor(func() bool { return admitted.Load() == 1 && q.Len(ctx) == 0 }), ShouldBeTrue)
				So(waitFor(func() bool { return log.Len(ctx) == 1 }), ShouldBeTrue)
				So(log.All(ctx)[0].Name, ShouldEqual, "Alice")
			})
		})

		Convey("When a malformed event arrives", func() {
			So(q.Enqueue(ctx, det(3, "", 0.9)), ShouldBeTrue)    // empty name
			So(q.Enqueue(ctx, det(4, "Carol", 1.5)), ShouldBeTrue) // confidence out of range
			So(q.Enqueue(ctx, det(5, "Dave", 0.7)), ShouldBeTrue)

			Convey("Then only the valid event should land", func() {
				So(waitFor(func() bool { return log.Len(ctx) == 1 }), ShouldBeTrue)
				So(log.All(ctx)[0].ID, ShouldEqual, 5)
				So(admitted.Load(), ShouldEqual, 1)
			})
		})

		Convey("When shutting down", func() {
			err := a.Shutdown(ctx)

			Convey("Then it should stop cleanly", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}
