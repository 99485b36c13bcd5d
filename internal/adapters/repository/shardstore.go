package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/classpulse/classpulse/internal/domain/model"
	"github.com/classpulse/classpulse/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Records are partitioned by a hash of the student id so one student's
// rows always live in one shard. Appends take a single shard lock;
// whole-dataset reads take each shard lock in turn.

// Default shard store configuration constants.
const (
	defaultShardCount           = 8
	defaultMetricstickInterval  = 10 * time.Second
	recordSliceInitialCapacity  = 8
	studentSliceInitialCapacity = 64
)

// shard holds the record sets of one partition of students.
type shard struct {
	mu      sync.RWMutex
	records map[string]model.StudentRecordSet
	rows    int
}

// ShardStore implements Store over a fixed set of shards.
type ShardStore struct {
	shards              []*shard
	shardCount          int
	metricsTickInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewShardStore constructs a shard store with configuration options.
func NewShardStore(ctx context.Context, opts ...Option) *ShardStore {
	s := &ShardStore{
		shardCount:          defaultShardCount,
		metricsTickInterval: defaultMetricstickInterval,
		stopChan:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.shards = make([]*shard, s.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{records: make(map[string]model.StudentRecordSet, studentSliceInitialCapacity)}
	}

	metrics.UpdateRepositoryShardCount(s.shardCount)
	s.startMetricsUpdater(ctx)

	return s
}

// startMetricsUpdater publishes shard gauges at the configured interval.
func (s *ShardStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsTickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.publishShardMetrics()
			}
		}
	}()
}

func (s *ShardStore) publishShardMetrics() {
	total := 0
	for i, sh := range s.shards {
		sh.mu.RLock()
		rows := sh.rows
		sh.mu.RUnlock()
		total += rows
		metrics.UpdateRepositoryRecordsPerShard(strconv.Itoa(i), rows)
	}
	metrics.UpdateRepositoryRecordsTotal(total)
}

// Close stops the background metrics updater.
func (s *ShardStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

// shardFor maps a student id to its shard.
func (s *ShardStore) shardFor(studentID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(studentID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Append implements Store.Append.
func (s *ShardStore) Append(_ context.Context, rec model.AssessmentRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(rec.StudentID)
	sh.mu.Lock()
	set, ok := sh.records[rec.StudentID]
	if !ok {
		set = make(model.StudentRecordSet, 0, recordSliceInitialCapacity)
	}
	sh.records[rec.StudentID] = append(set, rec)
	sh.rows++
	sh.mu.Unlock()

	return nil
}

// RecordSet implements Store.RecordSet. The returned slice is a copy; the
// caller may not mutate stored rows through it.
func (s *ShardStore) RecordSet(_ context.Context, studentID string) (model.StudentRecordSet, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(studentID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	set, ok := sh.records[studentID]
	if !ok {
		return nil, ErrStudentNotFound
	}

	out := make(model.StudentRecordSet, len(set))
	copy(out, set)
	return out, nil
}

// StudentIDs implements Store.StudentIDs.
func (s *ShardStore) StudentIDs(_ context.Context) []string {
	ids := make([]string, 0, studentSliceInitialCapacity)
	for _, sh := range s.shards {
		sh.mu.RLock()
		for id := range sh.records {
			ids = append(ids, id)
		}
		sh.mu.RUnlock()
	}
	sort.Strings(ids)
	return ids
}

// Snapshot implements Store.Snapshot.
func (s *ShardStore) Snapshot(_ context.Context) []model.AssessmentRecord {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	var out []model.AssessmentRecord
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, set := range sh.records {
			out = append(out, set...)
		}
		sh.mu.RUnlock()
	}
	return out
}

// StudentCount implements Store.StudentCount.
func (s *ShardStore) StudentCount(_ context.Context) int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.records)
		sh.mu.RUnlock()
	}
	return n
}

// RecordCount implements Store.RecordCount.
func (s *ShardStore) RecordCount(_ context.Context) int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += sh.rows
		sh.mu.RUnlock()
	}
	return n
}
