package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/classpulse/classpulse/internal/adapters/repository"
	"github.com/classpulse/classpulse/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(student, course string, no int, score float64) model.AssessmentRecord {
	return model.AssessmentRecord{
		StudentID:       student,
		StudentName:     "Student " + student,
		ClassLevel:      "C7",
		CourseName:      course,
		AssessmentNo:    no,
		AssessmentScore: score,
	}
}

func TestShardStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	Convey("Given a shard store", t, func() {
		store := repository.NewShardStore(ctx, repository.WithShardCount(4))
		defer func() { _ = store.Close() }()

		Convey("When appending records for several students", func() {
			So(store.Append(ctx, rec("101", "Math", 1, 80)), ShouldBeNil)
			So(store.Append(ctx, rec("101", "Math", 2, 85)), ShouldBeNil)
			So(store.Append(ctx, rec("102", "Science", 1, 60)), ShouldBeNil)

			Convey("Then counts reflect the dataset", func() {
				So(store.StudentCount(ctx), ShouldEqual, 2)
				So(store.RecordCount(ctx), ShouldEqual, 3)
			})

			Convey("Then a student's record set comes back complete", func() {
				set, err := store.RecordSet(ctx, "101")
				So(err, ShouldBeNil)
				So(set, ShouldHaveLength, 2)
				So(set.StudentID(), ShouldEqual, "101")
			})

			Convey("Then the record set is a defensive copy", func() {
				set, err := store.RecordSet(ctx, "101")
				So(err, ShouldBeNil)
				set[0].AssessmentScore = -1

				again, err := store.RecordSet(ctx, "101")
				So(err, ShouldBeNil)
				So(again[0].AssessmentScore, ShouldEqual, 80)
			})

			Convey("Then student ids are sorted", func() {
				So(store.StudentIDs(ctx), ShouldResemble, []string{"101", "102"})
			})

			Convey("Then a snapshot contains every row", func() {
				So(store.Snapshot(ctx), ShouldHaveLength, 3)
			})
		})

		Convey("When looking up an unknown student", func() {
			_, err := store.RecordSet(ctx, "missing")

			Convey("Then it reports ErrStudentNotFound", func() {
				So(errors.Is(err, repository.ErrStudentNotFound), ShouldBeTrue)
			})
		})

		Convey("When appending concurrently across students", func() {
			const students = 20
			const rowsPerStudent = 50

			var wg sync.WaitGroup
			for i := 0; i < students; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					sid := fmt.Sprintf("s-%d", id)
					for j := 0; j < rowsPerStudent; j++ {
						_ = store.Append(ctx, rec(sid, "Math", j+1, 70))
					}
				}(i)
			}
			wg.Wait()

			Convey("Then no rows are lost", func() {
				So(store.StudentCount(ctx), ShouldEqual, students)
				So(store.RecordCount(ctx), ShouldEqual, students*rowsPerStudent)
			})
		})
	})

	Convey("Given a store with a single shard", t, func() {
		store := repository.NewShardStore(ctx, repository.WithShardCount(1))
		defer func() { _ = store.Close() }()

		Convey("When appending records", func() {
			So(store.Append(ctx, rec("7", "Art", 1, 91)), ShouldBeNil)

			Convey("Then lookups still work", func() {
				set, err := store.RecordSet(ctx, "7")
				So(err, ShouldBeNil)
				So(set, ShouldHaveLength, 1)
			})
		})
	})
}

func BenchmarkShardStore_Append(b *testing.B) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := repository.NewShardStore(ctx)
	defer func() { _ = store.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Append(ctx, rec(fmt.Sprintf("s-%d", i%1000), "Math", i%8, 75))
	}
}
