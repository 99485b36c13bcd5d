package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			refreshIntervalOpt := WithRefreshInterval(5 * time.Second)

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(refreshIntervalOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithRefreshInterval(10*time.Second),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording ingestion metrics", func() {
			Convey("Then it should record ingested records", func() {
				So(func() {
					RecordRecordIngested()
					RecordRecordIngested()
					RecordRecordIngested()
				}, ShouldNotPanic)
			})

			Convey("And it should record duplicate records", func() {
				So(func() {
					RecordRecordDuplicate()
					RecordRecordDuplicate()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording SPI metrics", func() {
			Convey("Then it should record computations and latency", func() {
				So(func() {
					RecordSPIComputation()
					RecordSPILatency(0.5)
					RecordSPILatency(2.0)
					RecordSPIError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording cohort metrics", func() {
			Convey("Then it should update the gauges", func() {
				So(func() {
					UpdateTotalStudents(480)
					UpdateTotalRecords(12000)
					UpdateAtRiskStudents(35)
					UpdateStudentsByStatus("EXCELLENT", 120)
					UpdateStudentsByStatus("CRITICAL", 10)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record HTTP requests", func() {
				So(func() {
					RecordHTTPRequest("/healthz", "GET", "200")
					RecordHTTPRequest("/records", "POST", "202")
					RecordHTTPRequest("/cohort/summary", "GET", "200")
				}, ShouldNotPanic)
			})

			Convey("And it should record HTTP request duration", func() {
				So(func() {
					RecordHTTPRequestDuration("/healthz", "GET", "200", 5.0)
					RecordHTTPRequestDuration("/records", "POST", "202", 10.0)
					RecordHTTPRequestDuration("/cohort/summary", "GET", "200", 15.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording repository metrics", func() {
			Convey("Then it should update shard gauges and latencies", func() {
				So(func() {
					UpdateRepositoryShardCount(16)
					UpdateRepositoryRecordsTotal(12000)
					UpdateRepositoryRecordsPerShard("0", 750)
					RecordRepositoryUpdateLatency(0.2)
					RecordRepositoryQueryLatency(0.1)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording queue metrics", func() {
			Convey("Then it should update queue gauges and counters", func() {
				So(func() {
					UpdateQueueSize(100)
					UpdateQueueCapacity(1000)
					UpdateQueueUtilization(0.1)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordQueueProcessingLatency(1.5)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording worker metrics", func() {
			Convey("Then it should update worker gauges and counters", func() {
				So(func() {
					UpdateWorkerCount(8)
					UpdateWorkerActiveCount(8)
					RecordWorkerProcessingLatency(2.5)
					RecordWorkerError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording error metrics", func() {
			Convey("Then it should record labeled errors", func() {
				So(func() {
					RecordErrorByComponent("queue", "enqueue_closed")
					RecordErrorByType("validation_error", "warning")
					RecordErrorByEndpoint("/records", "POST", "client_error")
					RecordErrorLatency("worker", "append_failed", 3.0)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should update system gauges", func() {
				So(func() {
					UpdateSystemMemoryUsage(64 << 20)
					UpdateSystemGoroutineCount(42)
					RecordSystemGCPauseTime(0.7)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global metrics registry", t, func() {
		Convey("When fetching it", func() {
			registry := GetRegistry()

			Convey("Then it should be the shared custom registry", func() {
				So(registry, ShouldNotBeNil)
				So(registry, ShouldEqual, customRegistry)
			})
		})
	})
}
