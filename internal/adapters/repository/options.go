// Package repository defines the assessment dataset store interface and
// errors.
package repository

import "time"

// Option applies a configuration option to the ShardStore.
type Option func(*ShardStore)

// WithShardCount sets the number of shards the dataset is partitioned
// into. Must be set before records are appended; values < 1 are ignored.
func WithShardCount(count int) Option {
	return func(s *ShardStore) {
		if count >= 1 {
			s.shardCount = count
		}
	}
}

// WithMetricsTickInterval sets the interval for background shard-gauge
// updates.
func WithMetricsTickInterval(interval time.Duration) Option {
	return func(s *ShardStore) {
		if interval > 0 {
			s.metricsTickInterval = interval
		}
	}
}
