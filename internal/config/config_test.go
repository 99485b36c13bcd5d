package config_test

import (
	"runtime"
	"testing"

	"github.com/classpulse/classpulse/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
		})

		convey.Convey("Then the scoring defaults match the published model", func() {
			convey.So(cfg.PassingScore, convey.ShouldEqual, 60)
			convey.So(cfg.AcademicWeight, convey.ShouldEqual, 0.60)
			convey.So(cfg.AttendanceWeight, convey.ShouldEqual, 0.25)
			convey.So(cfg.EngagementWeight, convey.ShouldEqual, 0.15)
			convey.So(cfg.EngagementCeiling, convey.ShouldEqual, 30)
			convey.So(cfg.SingleFailPenalty, convey.ShouldEqual, 5)
			convey.So(cfg.MultiFailPenalty, convey.ShouldEqual, 10)
			convey.So(cfg.TrendPenalty, convey.ShouldEqual, 5)
			convey.So(cfg.TrendDropThreshold, convey.ShouldEqual, -10)
			convey.So(cfg.ExcellentThreshold, convey.ShouldEqual, 80)
			convey.So(cfg.SatisfactoryThreshold, convey.ShouldEqual, 65)
			convey.So(cfg.AtRiskThreshold, convey.ShouldEqual, 50)
		})
	})
}
