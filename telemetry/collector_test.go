package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/fauna/config"
)

func TestCollectorWindowBoundaries(t *testing.T) {
	c := NewCollector(100)

	if c.ShouldFlush(50) {
		t.Error("window should not flush mid-way")
	}
	if !c.ShouldFlush(100) {
		t.Error("window should flush at its boundary")
	}

	c.Flush(100, 10, 2)
	if c.ShouldFlush(150) {
		t.Error("flush should start a new window")
	}
	if !c.ShouldFlush(200) {
		t.Error("second window should flush at tick 200")
	}
}

func TestCollectorAggregates(t *testing.T) {
	c := NewCollector(100)

	c.RecordFleeEngagement()
	c.RecordFleeEngagement()
	c.RecordHunt()
	c.RecordTaskCompletion()

	for _, f := range []float64{0.1, 0.2, 0.3, 0.4} {
		c.SampleForce(f)
	}
	c.SampleNeighbors(4)
	c.SampleNeighbors(6)
	c.SampleSpread(2)
	c.SampleSpread(4)

	stats := c.Flush(100, 30, 3)

	if stats.WindowEndTick != 100 || stats.AgentCount != 30 || stats.PredatorCount != 3 {
		t.Errorf("window identity wrong: %+v", stats)
	}
	if stats.FleeEngagements != 2 || stats.ActiveHunts != 1 || stats.TaskCompletions != 1 {
		t.Errorf("event counts wrong: %+v", stats)
	}
	if math.Abs(stats.ForceMean-0.25) > 1e-9 {
		t.Errorf("ForceMean = %v, want 0.25", stats.ForceMean)
	}
	if math.Abs(stats.ForceMax-0.4) > 1e-9 {
		t.Errorf("ForceMax = %v, want 0.4", stats.ForceMax)
	}
	if math.Abs(stats.NeighborsMean-5) > 1e-9 {
		t.Errorf("NeighborsMean = %v, want 5", stats.NeighborsMean)
	}
	if math.Abs(stats.SpreadMean-3) > 1e-9 {
		t.Errorf("SpreadMean = %v, want 3", stats.SpreadMean)
	}
}

func TestCollectorResetsAfterFlush(t *testing.T) {
	c := NewCollector(100)
	c.RecordFleeEngagement()
	c.SampleForce(1)
	c.SampleSpread(5)
	c.Flush(100, 1, 0)

	stats := c.Flush(200, 1, 0)
	if stats.FleeEngagements != 0 || stats.ForceMean != 0 || stats.SpreadMean != 0 {
		t.Errorf("counters survived a flush: %+v", stats)
	}
}

func TestCollectorEmptyWindow(t *testing.T) {
	c := NewCollector(100)
	stats := c.Flush(100, 0, 0)
	// No samples: aggregates stay zero rather than NaN.
	if stats.ForceMean != 0 || stats.NeighborsMean != 0 || stats.SpreadMean != 0 {
		t.Errorf("empty window should aggregate to zero: %+v", stats)
	}
}

func TestOutputManagerWritesCSVHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := om.WriteWindow(WindowStats{WindowEndTick: 100, AgentCount: 5}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteWindow(WindowStats{WindowEndTick: 200, AgentCount: 5}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "steering.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records, got %d lines:\n%s", len(lines), data)
	}
	if !strings.Contains(lines[0], "window_end") {
		t.Errorf("missing header line, got %q", lines[0])
	}
	if strings.Contains(lines[2], "window_end") {
		t.Error("header repeated for second record")
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatal(err)
	}
	if om != nil {
		t.Fatal("empty dir should disable output")
	}
	// All writes on the nil manager are no-ops.
	if err := om.WriteWindow(WindowStats{}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(&config.Config{}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutputManagerWritesConfigSnapshot(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot not written: %v", err)
	}
}
