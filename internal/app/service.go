// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/classpulse/classpulse/internal/adapters/ingest"
	recordqueue "github.com/classpulse/classpulse/internal/adapters/mq/queue"
	workerpool "github.com/classpulse/classpulse/internal/adapters/mq/worker"
	repository "github.com/classpulse/classpulse/internal/adapters/repository"
	"github.com/classpulse/classpulse/internal/domain/dedupe"
	"github.com/classpulse/classpulse/internal/domain/model"
	"github.com/classpulse/classpulse/internal/domain/spi"
	"github.com/classpulse/classpulse/internal/domain/types"
	"github.com/classpulse/classpulse/pkg/logger"
	"github.com/classpulse/classpulse/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 100_000
	defaultDedupeSize = 500_000
	defaultShardCount = 8
)

// Service implements the API dependencies for the SPI system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	queue      recordqueue.Queue
	workerPool *workerpool.Pool
	calc       *spi.Calculator

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int
	calcOpts    []spi.Option

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of ingestion worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the record queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of shards in the record store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCalculatorOptions configures the SPI calculator. The same options
// also seed per-request passing-score overrides.
func WithCalculatorOptions(opts ...spi.Option) Option {
	return func(s *Service) {
		s.calcOpts = opts
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		shardCount:  defaultShardCount,
		stopCh:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting SPI service...")

	s.store = repository.NewShardStore(ctx, repository.WithShardCount(s.shardCount))
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = recordqueue.NewInMemoryQueue(
		recordqueue.WithCapacity(s.queueSize),
		recordqueue.WithBufferSize(s.queueSize),
	)
	s.calc = spi.New(s.calcOpts...)

	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "SPI service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("shardCount", s.shardCount),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping SPI service...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "SPI service stopped")
}

// LoadDataset reads a CSV dataset from disk and appends every record to
// the store synchronously. Used at bootstrap, before the HTTP listener
// accepts traffic. Record ids are registered with the deduper so the same
// rows re-posted over HTTP are acknowledged as duplicates.
func (s *Service) LoadDataset(ctx context.Context, path string) (int, error) {
	records, err := ingest.LoadFile(ctx, path)
	if err != nil {
		return 0, err
	}

	for i := range records {
		if err := s.store.Append(ctx, records[i]); err != nil {
			return i, err
		}
		s.deduper.SeenAndRecord(ctx, records[i].RecordID)
	}

	s.logger.Info(ctx, "dataset loaded",
		logger.String("path", path),
		logger.Int("records", len(records)),
		logger.Int("students", s.store.StudentCount(ctx)),
	)

	return len(records), nil
}

// SeenAndRecord atomically checks whether a record id was seen and records
// it if not. Returns true if the record was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordRecordDuplicate()
	}
	return seen
}

// Unrecord removes a record id from the seen list, allowing a retry after
// a failed enqueue.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a record for asynchronous ingestion. Returns false when
// the queue is full or closed.
func (s *Service) Enqueue(ctx context.Context, rec model.AssessmentRecord) bool {
	ok := s.queue.Enqueue(ctx, rec)
	if !ok {
		s.logger.Warn(ctx, "record rejected by queue",
			logger.String("recordID", rec.RecordID),
			logger.String("studentID", rec.StudentID),
		)
	}
	return ok
}

// StudentSPI computes the full per-student payload: SPI result with
// breakdown, descriptive attributes, per-course averages, insights and
// recommendations. passingOverride, when non-nil, replaces the configured
// passing score for this computation only.
func (s *Service) StudentSPI(ctx context.Context, studentID string, passingOverride *float64) (types.StudentSPIDetail, error) {
	start := time.Now()

	records, err := s.store.RecordSet(ctx, studentID)
	if err != nil {
		return types.StudentSPIDetail{}, err
	}

	agg, err := spi.NewAggregate(records)
	if err != nil {
		metrics.RecordSPIError()
		return types.StudentSPIDetail{}, err
	}

	calc := s.calc
	if passingOverride != nil {
		opts := append([]spi.Option{}, s.calcOpts...)
		opts = append(opts, spi.WithPassingScore(*passingOverride))
		calc = spi.New(opts...)
	}

	res := calc.ComputeAggregate(ctx, agg)
	metrics.RecordSPIComputation()
	metrics.RecordSPILatency(float64(time.Since(start).Milliseconds()))

	courseAverages := courseAverages(agg, calc.PassingScore())

	return types.StudentSPIDetail{
		Result:          res,
		StudentName:     agg.StudentName,
		ClassLevel:      agg.ClassLevel,
		StudentGender:   agg.StudentGender,
		AvgScore:        agg.MeanScore(),
		AvgAttendance:   agg.MeanAttendance(),
		AvgEngagement:   res.Breakdown.NormalizedEngagement,
		PassingCourses:  len(courseAverages) - res.Breakdown.FailedCourseCount,
		TotalCourses:    len(courseAverages),
		CourseAverages:  courseAverages,
		Insights:        calc.Insights(agg, res),
		Recommendations: spi.Recommendations(res.Status),
	}, nil
}

func courseAverages(agg *spi.Aggregate, passingScore float64) []types.CourseAverage {
	means := agg.CourseMeans()
	out := make([]types.CourseAverage, 0, len(means))
	for course, mean := range means {
		out = append(out, types.CourseAverage{
			CourseName:   course,
			AverageScore: mean,
			Passing:      mean >= passingScore,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseName < out[j].CourseName })
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"shardCount":  s.shardCount,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalStudents := s.store.StudentCount(ctx)
		totalRecords := s.store.RecordCount(ctx)

		stats["queueLength"] = queueLen
		stats["totalStudents"] = totalStudents
		stats["totalRecords"] = totalRecords

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalStudents(totalStudents)
		metrics.UpdateTotalRecords(totalRecords)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// byStudentID orders summaries by numeric student id when both parse as
// integers, falling back to lexicographic order.
func byStudentID(rows []types.StudentSummary) func(i, j int) bool {
	return func(i, j int) bool {
		a, errA := strconv.Atoi(rows[i].StudentID)
		b, errB := strconv.Atoi(rows[j].StudentID)
		if errA == nil && errB == nil {
			return a < b
		}
		return rows[i].StudentID < rows[j].StudentID
	}
}
