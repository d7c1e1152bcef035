package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/rollcall/internal/adapters/repository"
	"github.com/okian/rollcall/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func det(id int64, name string) model.Detection {
	return model.Detection{
		ID:         id,
		Name:       name,
		Confidence: 0.8,
		Known:      true,
		ObservedAt: time.Now(),
	}
}

func TestEventLog(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty event log", t, func() {
		log := repository.NewEventLog(ctx)

		Convey("Then it should start empty", func() {
			So(log.Len(ctx), ShouldEqual, 0)
			So(log.All(ctx), ShouldBeEmpty)
		})

		Convey("When prepending events", func() {
			So(log.Prepend(ctx, det(1, "Alice")), ShouldBeTrue)
			So(log.Prepend(ctx, det(2, "Bob")), ShouldBeTrue)
			So(log.Prepend(ctx, det(3, "Carol")), ShouldBeTrue)

			Convey("Then iteration should be newest-admitted-first", func() {
				all := log.All(ctx)
				So(all, ShouldHaveLength, 3)
				So(all[0].ID, ShouldEqual, 3)
				So(all[1].ID, ShouldEqual, 2)
				So(all[2].ID, ShouldEqual, 1)
			})

			Convey("And a duplicate id should be a no-op", func() {
				So(log.Prepend(ctx, det(2, "Mallory")), ShouldBeFalse)
				So(log.Len(ctx), ShouldEqual, 3)
				So(log.All(ctx)[0].ID, ShouldEqual, 3)
			})

			Convey("And Has should reflect membership", func() {
				So(log.Has(ctx, 2), ShouldBeTrue)
				So(log.Has(ctx, 99), ShouldBeFalse)
			})
		})

		Convey("When replacing the whole set", func() {
			log.Prepend(ctx, det(100, "Old"))
			snapshot := []model.Detection{det(3, "Carol"), det(2, "Bob"), det(1, "Alice")}
			log.ReplaceAll(ctx, snapshot)

			Convey("Then only the snapshot should remain, in its order", func() {
				all := log.All(ctx)
				So(all, ShouldHaveLength, 3)
				So(all[0].ID, ShouldEqual, 3)
				So(all[2].ID, ShouldEqual, 1)
				So(log.Has(ctx, 100), ShouldBeFalse)
			})

			Convey("And later prepends should land in front of it", func() {
				So(log.Prepend(ctx, det(4, "Dave")), ShouldBeTrue)
				So(log.All(ctx)[0].ID, ShouldEqual, 4)
			})
		})

		Convey("When replacing with rows sharing an id", func() {
			log.ReplaceAll(ctx, []model.Detection{det(1, "Alice"), det(1, "Shadow"), det(2, "Bob")})

			Convey("Then the first occurrence should win", func() {
				all := log.All(ctx)
				So(all, ShouldHaveLength, 2)
				So(all[0].Name, ShouldEqual, "Alice")
			})
		})

		Convey("When mutating the returned copy", func() {
			log.Prepend(ctx, det(1, "Alice"))
			all := log.All(ctx)
			all[0].Name = "tampered"

			Convey("Then the log should be unaffected", func() {
				So(log.All(ctx)[0].Name, ShouldEqual, "Alice")
			})
		})
	})

	Convey("Given concurrent readers and one writer", t, func() {
		log := repository.NewEventLog(ctx, repository.WithInitialCapacity(64))

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := int64(1); i <= 200; i++ {
				log.Prepend(ctx, det(i, "Alice"))
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = log.All(ctx)
				_ = log.Len(ctx)
			}
		}()
		wg.Wait()

		Convey("Then all writes should be visible and unique", func() {
			So(log.Len(ctx), ShouldEqual, 200)
			seen := make(map[int64]bool)
			for _, e := range log.All(ctx) {
				So(seen[e.ID], ShouldBeFalse)
				seen[e.ID] = true
			}
		})
	})
}
