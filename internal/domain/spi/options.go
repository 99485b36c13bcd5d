package spi

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithWeights sets the base-component weights. The caller is responsible
// for keeping the sum at 1.0; values <= 0 are ignored.
func WithWeights(w Weights) Option {
	return func(c *Calculator) {
		if w.Academic > 0 {
			c.weights.Academic = w.Academic
		}
		if w.Attendance > 0 {
			c.weights.Attendance = w.Attendance
		}
		if w.Engagement > 0 {
			c.weights.Engagement = w.Engagement
		}
	}
}

// WithEngagementCeiling sets the raised-hand mean treated as full
// engagement; means at or above it normalize to 100.
func WithEngagementCeiling(ceiling float64) Option {
	return func(c *Calculator) {
		if ceiling > 0 {
			c.engagementCeiling = ceiling
		}
	}
}

// WithPassingScore sets the per-course passing threshold. Any real value
// is accepted so thresholds can be experimented with.
func WithPassingScore(score float64) Option {
	return func(c *Calculator) {
		c.passingScore = score
	}
}

// WithPenalties sets the discrete penalty magnitudes; negative values are
// ignored.
func WithPenalties(p Penalties) Option {
	return func(c *Calculator) {
		if p.SingleFailure >= 0 {
			c.penalties.SingleFailure = p.SingleFailure
		}
		if p.MultiFailure >= 0 {
			c.penalties.MultiFailure = p.MultiFailure
		}
		if p.Trend >= 0 {
			c.penalties.Trend = p.Trend
		}
	}
}

// WithTrendDropThreshold sets the signed score change below which the
// trend penalty applies (default -10).
func WithTrendDropThreshold(threshold float64) Option {
	return func(c *Calculator) {
		c.trendDropThreshold = threshold
	}
}

// WithThresholds sets the classification cut points. Values must be
// strictly descending to define valid bands; invalid sets are ignored.
func WithThresholds(t Thresholds) Option {
	return func(c *Calculator) {
		if t.Excellent > t.Satisfactory && t.Satisfactory > t.AtRisk {
			c.thresholds = t
		}
	}
}
