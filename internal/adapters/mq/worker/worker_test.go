package worker_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/classpulse/classpulse/internal/adapters/mq/queue"
	"github.com/classpulse/classpulse/internal/adapters/mq/worker"
	"github.com/classpulse/classpulse/internal/domain/model"
	"github.com/classpulse/classpulse/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// captureStore records appended rows for assertions.
type captureStore struct {
	mu   sync.Mutex
	rows []model.AssessmentRecord
	err  error
}

func (s *captureStore) Append(_ context.Context, rec model.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, rec)
	return nil
}

func (s *captureStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func validRecord(id string) worker.Record {
	return worker.Record{
		RecordID:        id,
		StudentID:       "101",
		CourseName:      "Math",
		AssessmentNo:    1,
		AssessmentScore: 82,
		AttendanceRate:  95,
	}
}

func waitForRows(store *captureStore, want int) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if store.count() >= want {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestIngestWorker(t *testing.T) {
	Convey("Given a worker over a queue and store", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(100), queue.WithBufferSize(100))
		store := &captureStore{}
		w := worker.NewIngestWorker(q, store, worker.WithName("test-worker"))
		go w.Run(ctx)

		Convey("When a valid record is enqueued", func() {
			So(q.Enqueue(ctx, validRecord("r1")), ShouldBeTrue)

			Convey("Then it lands in the store", func() {
				So(waitForRows(store, 1), ShouldBeTrue)
				So(store.rows[0].RecordID, ShouldEqual, "r1")
			})
		})

		Convey("When a record is missing its student id", func() {
			bad := validRecord("r2")
			bad.StudentID = "  "
			So(q.Enqueue(ctx, bad), ShouldBeTrue)
			So(q.Enqueue(ctx, validRecord("r3")), ShouldBeTrue)

			Convey("Then it is dropped while later records still flow", func() {
				So(waitForRows(store, 1), ShouldBeTrue)
				So(store.rows[0].RecordID, ShouldEqual, "r3")
			})
		})

		Convey("When a record has a non-positive assessment number", func() {
			bad := validRecord("r4")
			bad.AssessmentNo = 0
			So(q.Enqueue(ctx, bad), ShouldBeTrue)
			So(q.Enqueue(ctx, validRecord("r5")), ShouldBeTrue)

			Convey("Then only the valid record is stored", func() {
				So(waitForRows(store, 1), ShouldBeTrue)
				So(store.count(), ShouldEqual, 1)
			})
		})

		Convey("When the worker is shut down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()

			Convey("Then shutdown completes in time", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(1000), queue.WithBufferSize(1000))
		store := &captureStore{}
		pool := worker.NewPool(4, q, store)
		pool.Start(ctx)

		Convey("When many records are enqueued", func() {
			const total = 200
			for i := 0; i < total; i++ {
				rec := validRecord(fmt.Sprintf("r%d", i))
				rec.StudentID = fmt.Sprintf("s%d", i%10)
				So(q.Enqueue(ctx, rec), ShouldBeTrue)
			}

			Convey("Then every record is ingested", func() {
				So(waitForRows(store, total), ShouldBeTrue)
				So(store.count(), ShouldEqual, total)
			})
		})

		Convey("When the pool shuts down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			Convey("Then the queue is closed and workers drain", func() {
				So(pool.Shutdown(shutdownCtx), ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
			})
		})
	})
}
