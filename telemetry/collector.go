package telemetry

import "log/slog"

// Collector accumulates steering events and samples within tick windows and
// produces WindowStats. The host records into it from its per-tick loop; it
// holds no references into the world.
type Collector struct {
	windowTicks     int64
	windowStartTick int64

	fleeEngagements int
	activeHunts     int
	taskCompletions int

	forces         []float64
	neighborCounts []float64
	spreadSum      float64
	spreadSamples  int
}

// NewCollector creates a collector with the given window length in ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int64(windowTicks)}
}

// RecordFleeEngagement records an evasion behavior entering its engaged state.
func (c *Collector) RecordFleeEngagement() {
	c.fleeEngagements++
}

// RecordHunt records a predator holding a pursuit target this tick.
func (c *Collector) RecordHunt() {
	c.activeHunts++
}

// RecordTaskCompletion records a task reaching the end of its acting phase.
func (c *Collector) RecordTaskCompletion() {
	c.taskCompletions++
}

// SampleForce records the magnitude of one agent's blended force.
func (c *Collector) SampleForce(mag float64) {
	c.forces = append(c.forces, mag)
}

// SampleNeighbors records the size of one agent's neighbor list.
func (c *Collector) SampleNeighbors(n int) {
	c.neighborCounts = append(c.neighborCounts, float64(n))
}

// SampleSpread records one agent's distance to its flock center.
func (c *Collector) SampleSpread(d float64) {
	c.spreadSum += d
	c.spreadSamples++
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush(tick int64) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush produces the window's stats and resets counters for the next
// window. Population counts are supplied by the host at flush time.
func (c *Collector) Flush(tick int64, agents, predators int) WindowStats {
	stats := WindowStats{
		WindowEndTick:   tick,
		AgentCount:      agents,
		PredatorCount:   predators,
		FleeEngagements: c.fleeEngagements,
		ActiveHunts:     c.activeHunts,
		TaskCompletions: c.taskCompletions,
	}
	stats.summarize(c.forces, c.neighborCounts)
	if c.spreadSamples > 0 {
		stats.SpreadMean = c.spreadSum / float64(c.spreadSamples)
	}

	c.windowStartTick = tick
	c.fleeEngagements = 0
	c.activeHunts = 0
	c.taskCompletions = 0
	c.forces = c.forces[:0]
	c.neighborCounts = c.neighborCounts[:0]
	c.spreadSum = 0
	c.spreadSamples = 0

	return stats
}

// LogWindow writes a one-line summary of a window via slog.
func LogWindow(s WindowStats) {
	slog.Info("steering window",
		"tick", s.WindowEndTick,
		"agents", s.AgentCount,
		"flees", s.FleeEngagements,
		"hunts", s.ActiveHunts,
		"force_mean", s.ForceMean,
		"spread", s.SpreadMean,
	)
}
