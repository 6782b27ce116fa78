package world

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/components"
	"github.com/pthm-cable/fauna/vec"
)

func newWorld() *World {
	return New(vec.Zero, vec.New(200, 40, 200), 10, NewEnvironment(4))
}

func spawn(w *World, pos vec.V, species components.SpeciesID) ecs.Entity {
	return w.SpawnAnimal(pos,
		components.Animal{Species: species, MoveSpeed: 1},
		components.Body{Height: 1, Width: 0.5},
		components.Health{Value: 10, Max: 10},
		components.Capabilities{MaxSpeed: 1, MaxForce: 0.1},
	)
}

func TestQueryRadiusFindsNearbyEntities(t *testing.T) {
	w := newWorld()
	center := vec.New(100, 10, 100)
	agent := spawn(w, center, 1)
	near := spawn(w, center.Add(vec.New(3, 0, 0)), 1)
	spawn(w, center.Add(vec.New(50, 0, 0)), 1)

	w.RebuildGrid()
	got := w.QueryRadius(nil, center, 10, agent)

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate in radius, got %d", len(got))
	}
	if got[0].E != near {
		t.Error("wrong candidate returned")
	}
	if got[0].DistSq != 9 {
		t.Errorf("DistSq = %v, want 9", got[0].DistSq)
	}
}

func TestQueryExcludesSelf(t *testing.T) {
	w := newWorld()
	center := vec.New(100, 10, 100)
	agent := spawn(w, center, 1)

	w.RebuildGrid()
	if got := w.QueryRadius(nil, center, 10, agent); len(got) != 0 {
		t.Errorf("query should exclude the querying entity, got %d candidates", len(got))
	}
}

func TestQuerySkipsRemovedEntities(t *testing.T) {
	w := newWorld()
	center := vec.New(100, 10, 100)
	agent := spawn(w, center, 1)
	gone := spawn(w, center.Add(vec.New(2, 0, 0)), 1)

	w.RebuildGrid()
	// Removed after the grid snapshot: the stale entry must be skipped.
	w.Remove(gone)

	if got := w.QueryRadius(nil, center, 10, agent); len(got) != 0 {
		t.Errorf("query returned a removed entity, got %d candidates", len(got))
	}
}

func TestQueryRadiusRefinesBoxCorners(t *testing.T) {
	w := newWorld()
	center := vec.New(100, 10, 100)
	agent := spawn(w, center, 1)
	// Inside the bounding box of half-extent 10, outside the sphere.
	spawn(w, center.Add(vec.New(9, 9, 9)), 1)

	w.RebuildGrid()
	if got := w.QueryRadius(nil, center, 10, agent); len(got) != 0 {
		t.Errorf("corner entity beyond the radius should be refined away, got %d", len(got))
	}
}

func TestAliveRequiresPositiveHealth(t *testing.T) {
	w := newWorld()
	pos := vec.New(100, 10, 100)

	living := spawn(w, pos, 1)
	dead := w.SpawnAnimal(pos.Add(vec.New(1, 0, 0)),
		components.Animal{Species: 1},
		components.Body{Height: 1, Width: 0.5},
		components.Health{Value: 0, Max: 10},
		components.Capabilities{MaxSpeed: 1, MaxForce: 0.1},
	)
	removed := spawn(w, pos.Add(vec.New(2, 0, 0)), 1)
	w.Remove(removed)

	if !w.Alive(living) {
		t.Error("healthy entity should be alive")
	}
	if w.Alive(dead) {
		t.Error("zero-health entity should not be alive")
	}
	if w.Alive(removed) {
		t.Error("removed entity should not be alive")
	}
}

func TestConspecificsWithin(t *testing.T) {
	w := newWorld()
	center := vec.New(100, 10, 100)
	agent := spawn(w, center, 1)

	spawn(w, center.Add(vec.New(2, 0, 0)), 1)
	spawn(w, center.Add(vec.New(3, 0, 0)), 1)
	spawn(w, center.Add(vec.New(4, 0, 0)), 2)  // other species
	spawn(w, center.Add(vec.New(30, 0, 0)), 1) // out of range

	w.RebuildGrid()
	if got := w.ConspecificsWithin(center, 10, 1, agent); got != 2 {
		t.Errorf("ConspecificsWithin = %d, want 2", got)
	}
}

func TestAccessorsAfterRemoval(t *testing.T) {
	w := newWorld()
	e := spawn(w, vec.New(100, 10, 100), 1)
	w.Remove(e)

	if _, ok := w.Position(e); ok {
		t.Error("Position should fail for a removed entity")
	}
	if _, ok := w.Animal(e); ok {
		t.Error("Animal should fail for a removed entity")
	}
	if !w.Velocity(e).IsZero() {
		t.Error("Velocity should be zero for a removed entity")
	}
	// Writes to removed entities are silently dropped.
	w.SetPosition(e, vec.New(1, 2, 3))
	w.SetVelocity(e, vec.New(1, 2, 3))
}

func TestEnvironmentRefugePredicates(t *testing.T) {
	env := NewEnvironment(4)
	p := vec.New(50, 0, 50)

	if env.HasRefugeNear(p, 10) {
		t.Fatal("empty environment should have no refuge")
	}

	env.SetCover(p)
	if !env.HasOverheadCover(p) {
		t.Error("cover not found in its own cell")
	}
	if !env.HasRefugeNear(p, 10) {
		t.Error("overhead cover should count as refuge")
	}

	env2 := NewEnvironment(4)
	env2.SetWater(p.Add(vec.New(6, 0, 0)))
	if !env2.WaterWithin(p, 10) {
		t.Error("water within radius not found")
	}
	if env2.WaterWithin(p, 2) {
		t.Error("water beyond radius should not be found")
	}
	if !env2.HasRefugeNear(p, 10) {
		t.Error("nearby water should count as refuge")
	}
}

func TestNilEnvironmentIsRefugeless(t *testing.T) {
	var env *Environment
	if env.HasRefugeNear(vec.New(1, 2, 3), 10) {
		t.Error("nil environment should report no refuge")
	}
	if env.HasOverheadCover(vec.Zero) || env.WaterWithin(vec.Zero, 5) {
		t.Error("nil environment predicates should be false")
	}
}
