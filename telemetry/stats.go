// Package telemetry aggregates steering activity into time windows and
// exports them as CSV for offline analysis.
package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated steering statistics for one tick window.
type WindowStats struct {
	WindowEndTick int64 `csv:"window_end"`

	// Population at window end
	AgentCount    int `csv:"agents"`
	PredatorCount int `csv:"predators"`

	// Steering activity during the window
	FleeEngagements int `csv:"flee_engagements"`
	ActiveHunts     int `csv:"active_hunts"`
	TaskCompletions int `csv:"task_completions"`

	// Force magnitudes sampled over the window
	ForceMean float64 `csv:"force_mean"`
	ForceP90  float64 `csv:"force_p90"`
	ForceMax  float64 `csv:"force_max"`

	// Neighbor list sizes sampled over the window
	NeighborsMean float64 `csv:"neighbors_mean"`
	NeighborsStd  float64 `csv:"neighbors_std"`

	// Flock compactness: mean distance from agents to their flock center
	SpreadMean float64 `csv:"spread_mean"`
}

// summarize fills the force and neighbor aggregates from raw samples.
func (w *WindowStats) summarize(forces, neighborCounts []float64) {
	if len(forces) > 0 {
		w.ForceMean = stat.Mean(forces, nil)
		sorted := append([]float64(nil), forces...)
		sort.Float64s(sorted)
		w.ForceP90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
		w.ForceMax = sorted[len(sorted)-1]
	}
	if len(neighborCounts) > 0 {
		w.NeighborsMean = stat.Mean(neighborCounts, nil)
		w.NeighborsStd = stat.StdDev(neighborCounts, nil)
	}
}
