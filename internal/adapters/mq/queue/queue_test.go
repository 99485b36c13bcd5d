package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/classpulse/classpulse/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func testRecord(id string) queue.Record {
	return queue.Record{
		RecordID:        id,
		StudentID:       "101",
		CourseName:      "Math",
		AssessmentNo:    1,
		AssessmentScore: 75,
	}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10), queue.WithBufferSize(10))

		Convey("When enqueuing a record", func() {
			ok := q.Enqueue(ctx, testRecord("r1"))

			Convey("Then it is accepted and counted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When dequeuing", func() {
			q.Enqueue(ctx, testRecord("r1"))
			q.Enqueue(ctx, testRecord("r2"))

			dequeueCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			ch := q.Dequeue(dequeueCtx)

			Convey("Then records arrive in order", func() {
				first := <-ch
				second := <-ch
				So(first.RecordID, ShouldEqual, "r1")
				So(second.RecordID, ShouldEqual, "r2")
			})
		})

		Convey("When the queue is full", func() {
			for i := 0; i < 10; i++ {
				So(q.Enqueue(ctx, testRecord(fmt.Sprintf("r%d", i))), ShouldBeTrue)
			}

			Convey("Then further enqueues are rejected", func() {
				So(q.Enqueue(ctx, testRecord("overflow")), ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and rejects records", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, testRecord("late")), ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the dequeue channel drains then closes", func() {
				ch := q.Dequeue(ctx)
				select {
				case _, open := <-ch:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})
	})
}
