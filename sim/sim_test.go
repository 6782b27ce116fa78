package sim

import (
	"testing"

	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Population.Animals = 12
	cfg.Population.Predators = 2
	cfg.Population.Seed = 7
	cfg.Telemetry.WindowTicks = 50
	return cfg
}

func TestRunProducesWindows(t *testing.T) {
	cfg := testConfig(t)
	s, err := New(cfg, cfg.Flocking)
	if err != nil {
		t.Fatal(err)
	}

	var windows []telemetry.WindowStats
	err = s.Run(200, func(stats telemetry.WindowStats) error {
		windows = append(windows, stats)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if s.Tick() != 200 {
		t.Errorf("Tick = %d, want 200", s.Tick())
	}
	if len(windows) != 4 {
		t.Fatalf("expected 4 windows over 200 ticks at window 50, got %d", len(windows))
	}
	for _, w := range windows {
		if w.AgentCount != 12 || w.PredatorCount != 2 {
			t.Errorf("window population %d/%d, want 12/2", w.AgentCount, w.PredatorCount)
		}
	}
}

func TestStepKeepsAgentsInBounds(t *testing.T) {
	cfg := testConfig(t)
	s, err := New(cfg, cfg.Flocking)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		s.Step()
	}

	for _, a := range s.agents {
		pos, ok := s.world.Position(a.entity)
		if !ok {
			t.Fatal("agent vanished during stepping")
		}
		if pos.X < 0 || pos.X > cfg.World.SizeX ||
			pos.Y < 0 || pos.Y > cfg.World.SizeY ||
			pos.Z < 0 || pos.Z > cfg.World.SizeZ {
			t.Fatalf("agent escaped world bounds: %v", pos)
		}

		vel := s.world.Velocity(a.entity)
		caps, _ := s.world.Capabilities(a.entity)
		if vel.Mag() > caps.MaxSpeed+1e-9 {
			t.Fatalf("agent velocity %v exceeds its cap %v", vel.Mag(), caps.MaxSpeed)
		}
	}
}

func TestDeterministicForSeed(t *testing.T) {
	cfg := testConfig(t)

	run := func() []float64 {
		s, err := New(cfg, cfg.Flocking)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 50; i++ {
			s.Step()
		}
		out := make([]float64, 0, len(s.agents))
		for _, a := range s.agents {
			pos, _ := s.world.Position(a.entity)
			out = append(out, pos.X, pos.Y, pos.Z)
		}
		return out
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at coordinate %d: %v vs %v", i, a[i], b[i])
		}
	}
}
