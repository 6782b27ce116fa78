package steering

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/components"
	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/vec"
	"github.com/pthm-cable/fauna/world"
)

// Test fixture: a mid-sized world with positions placed around its center
// so spatial queries never touch the bounds.

func newTestWorld() *world.World {
	return world.New(vec.Zero, vec.New(200, 40, 200), 10, world.NewEnvironment(4))
}

func spawnGrazer(w *world.World, pos vec.V) ecs.Entity {
	return w.SpawnAnimal(pos,
		components.Animal{Species: 1, MoveSpeed: 1},
		components.Body{Height: 1, Width: 0.5},
		components.Health{Value: 10, Max: 10},
		components.Capabilities{MaxSpeed: 1, MaxForce: 0.1},
	)
}

func spawnHunter(w *world.World, pos vec.V) ecs.Entity {
	return w.SpawnAnimal(pos,
		components.Animal{Species: 2, Profile: components.ThreatPursuit, MoveSpeed: 1.4},
		components.Body{Height: 1.2, Width: 0.8},
		components.Health{Value: 20, Max: 20},
		components.Capabilities{MaxSpeed: 1.4, MaxForce: 0.1},
	)
}

// ctxFor rebuilds the grid and snapshots the agent. Call again after moving
// entities; contexts are per-tick and never refreshed in place.
func ctxFor(t *testing.T, w *world.World, agent ecs.Entity, tick int64) *Context {
	t.Helper()
	w.RebuildGrid()
	ctx, ok := NewContext(w, agent, tick)
	if !ok {
		t.Fatal("agent vanished while building context")
	}
	return ctx
}

func testFlockCfg() config.FlockingConfig {
	return config.FlockingConfig{
		SeparationWeight:  1,
		AlignmentWeight:   1,
		CohesionWeight:    1,
		NoiseWeight:       0,
		DesiredSeparation: 3,
		AlignmentRadius:   8,
		CohesionRadius:    10,
		PerceptionRadius:  10,
		PerceptionAngle:   2 * math.Pi,
		NeighborCount:     6,
		MaxSpeed:          1,
		MaxForce:          0.1,
	}
}

func testAvoidCfg() config.AvoidanceConfig {
	return config.AvoidanceConfig{
		BaseFID:           10,
		ScanRadius:        30,
		RefugeDistance:    5,
		RefugeFactor:      0.7,
		NoRefugeFactor:    1.3,
		FastThreshold:     1.0,
		ThreatSpeedFactor: 1.2,
		JuvenileFactor:    1.5,
		InjuredFactor:     1.3,
		DilutionFactor:    0.8,
		DilutionGroupSize: 3,
		GroupRadius:       10,
		MaxSpeedFactor:    1.5,
	}
}

func testPredationCfg() config.PredationConfig {
	return config.PredationConfig{
		MaxDistance:      10,
		MinEngageDist:    2,
		HysteresisFactor: 1.5,
		SizeWeight:       0.5,
		PackRadius:       5,
		MinSizeRatio:     0.1,
		MaxSizeRatio:     1.5,
	}
}

func testEvasionCfg() config.EvasionConfig {
	return config.EvasionConfig{
		DetectionRange: 10,
		SafetyDistance: 18,
		ZigzagPeriod:   10,
		ZigzagStrength: 0.5,
	}
}
