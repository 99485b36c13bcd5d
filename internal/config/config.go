// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatasetPath optionally points at a CSV dataset loaded on startup.
	DatasetPath string `koanf:"dataset_path"`

	// QueueSize bounds the in-memory record queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the record store.
	ShardCount int `koanf:"shard_count"`

	// PassingScore is the per-course mean below which a course counts as failed.
	PassingScore float64 `koanf:"passing_score"`

	// Component weights for the composite index.
	AcademicWeight   float64 `koanf:"academic_weight"`
	AttendanceWeight float64 `koanf:"attendance_weight"`
	EngagementWeight float64 `koanf:"engagement_weight"`

	// EngagementCeiling is the raised-hand mean that maps to full engagement.
	EngagementCeiling float64 `koanf:"engagement_ceiling"`

	// Penalty points deducted from the base index.
	SingleFailPenalty float64 `koanf:"single_fail_penalty"`
	MultiFailPenalty  float64 `koanf:"multi_fail_penalty"`
	TrendPenalty      float64 `koanf:"trend_penalty"`

	// TrendDropThreshold is the first-to-last score change below which the
	// trend penalty applies. Negative by convention.
	TrendDropThreshold float64 `koanf:"trend_drop_threshold"`

	// Status classification cutoffs, strictly descending.
	ExcellentThreshold    float64 `koanf:"excellent_threshold"`
	SatisfactoryThreshold float64 `koanf:"satisfactory_threshold"`
	AtRiskThreshold       float64 `koanf:"at_risk_threshold"`
}

// New creates a Config with defaults.
func New() *Config {
	c := &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		DatasetPath:           "",
		QueueSize:             100_000,
		WorkerCount:           runtime.NumCPU() * 2,
		DedupeSize:            500_000,
		ShardCount:            8,
		PassingScore:          60,
		AcademicWeight:        0.60,
		AttendanceWeight:      0.25,
		EngagementWeight:      0.15,
		EngagementCeiling:     30,
		SingleFailPenalty:     5,
		MultiFailPenalty:      10,
		TrendPenalty:          5,
		TrendDropThreshold:    -10,
		ExcellentThreshold:    80,
		SatisfactoryThreshold: 65,
		AtRiskThreshold:       50,
	}
	return c
}
