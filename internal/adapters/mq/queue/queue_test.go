package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/rollcall/internal/adapters/mq/queue"
	"github.com/okian/rollcall/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func det(id int64) model.Detection {
	return model.Detection{
		ID:         id,
		Name:       "Alice",
		Confidence: 0.9,
		Known:      true,
		ObservedAt: time.Now(),
	}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with default capacity", t, func() {
		q := queue.NewInMemoryQueue()

		Convey("Then it should start empty and open", func() {
			So(q.Len(ctx), ShouldEqual, 0)
			So(q.IsClosed(), ShouldBeFalse)
		})

		Convey("When enqueueing and dequeueing", func() {
			So(q.Enqueue(ctx, det(1)), ShouldBeTrue)
			So(q.Enqueue(ctx, det(2)), ShouldBeTrue)
			So(q.Enqueue(ctx, det(3)), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 3)

			out := q.Dequeue(ctx)

			Convey("Then events should come out in FIFO order", func() {
				So((<-out).ID, ShouldEqual, 1)
				So((<-out).ID, ShouldEqual, 2)
				So((<-out).ID, ShouldEqual, 3)
			})
		})

		Convey("When closing the queue", func() {
			So(q.Enqueue(ctx, det(1)), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then it should report closed and refuse new events", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, det(2)), ShouldBeFalse)
			})

			Convey("And the dequeue channel should drain then close", func() {
				out := q.Dequeue(ctx)
				e, ok := <-out
				So(ok, ShouldBeTrue)
				So(e.ID, ShouldEqual, 1)
				_, ok = <-out
				So(ok, ShouldBeFalse)
			})

			Convey("And closing again should be a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})

	Convey("Given a queue with capacity one", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))

		Convey("When enqueueing past capacity", func() {
			So(q.Enqueue(ctx, det(1)), ShouldBeTrue)
			dropped := q.Enqueue(ctx, det(2))

			Convey("Then the overflow event should be dropped, not block", func() {
				So(dropped, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a dequeue bound to a canceled context", t, func() {
		q := queue.NewInMemoryQueue()
		cctx, cancel := context.WithCancel(ctx)
		out := q.Dequeue(cctx)
		q.Enqueue(ctx, det(1))
		cancel()

		Convey("Then the channel should close without hanging", func() {
			deadline := time.After(time.Second)
			for {
				select {
				case _, ok := <-out:
					if !ok {
						return
					}
				case <-deadline:
					t.Fatal("dequeue channel did not close after cancel")
				}
			}
		})
	})
}
