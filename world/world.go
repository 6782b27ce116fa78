package world

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/components"
	"github.com/pthm-cable/fauna/vec"
)

// World wraps the host entity store and exposes the narrow surface the
// steering engine consumes: bounded spatial queries, per-entity kinematic
// accessors, and environment predicates. All methods are synchronous and
// bounded; none of them block.
type World struct {
	ecs *ecs.World
	env *Environment

	grid *SpatialGrid

	animalMapper *ecs.Map6[
		components.Position,
		components.Velocity,
		components.Body,
		components.Health,
		components.Animal,
		components.Capabilities,
	]
	playerMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Health,
		components.Player,
	]
	posFilter *ecs.Filter1[components.Position]

	posMap    *ecs.Map1[components.Position]
	velMap    *ecs.Map1[components.Velocity]
	bodyMap   *ecs.Map1[components.Body]
	healthMap *ecs.Map1[components.Health]
	animalMap *ecs.Map1[components.Animal]
	playerMap *ecs.Map1[components.Player]
	capsMap   *ecs.Map1[components.Capabilities]
}

// New creates a world covering the box [min, min+size] with the given
// spatial grid cell size. env may be nil (no refuges anywhere).
func New(min, size vec.V, gridCellSize float64, env *Environment) *World {
	w := ecs.NewWorld()

	return &World{
		ecs:  w,
		env:  env,
		grid: NewSpatialGrid(min, size, gridCellSize),
		animalMapper: ecs.NewMap6[
			components.Position,
			components.Velocity,
			components.Body,
			components.Health,
			components.Animal,
			components.Capabilities,
		](w),
		playerMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Health,
			components.Player,
		](w),
		posFilter: ecs.NewFilter1[components.Position](w),
		posMap:    ecs.NewMap1[components.Position](w),
		velMap:    ecs.NewMap1[components.Velocity](w),
		bodyMap:   ecs.NewMap1[components.Body](w),
		healthMap: ecs.NewMap1[components.Health](w),
		animalMap: ecs.NewMap1[components.Animal](w),
		playerMap: ecs.NewMap1[components.Player](w),
		capsMap:   ecs.NewMap1[components.Capabilities](w),
	}
}

// SpawnAnimal creates an animal entity.
func (w *World) SpawnAnimal(pos vec.V, animal components.Animal, body components.Body, health components.Health, caps components.Capabilities) ecs.Entity {
	p := components.Position{Pos: pos}
	v := components.Velocity{}
	return w.animalMapper.NewEntity(&p, &v, &body, &health, &animal, &caps)
}

// SpawnPlayer creates a player entity.
func (w *World) SpawnPlayer(pos vec.V, body components.Body, health components.Health, player components.Player) ecs.Entity {
	p := components.Position{Pos: pos}
	v := components.Velocity{}
	return w.playerMapper.NewEntity(&p, &v, &body, &health, &player)
}

// Remove despawns an entity. Safe to call on already-removed entities.
func (w *World) Remove(e ecs.Entity) {
	if w.ecs.Alive(e) {
		w.ecs.RemoveEntity(e)
	}
}

// RebuildGrid refreshes the spatial grid from current positions.
// The host calls this once per tick before running steering.
func (w *World) RebuildGrid() {
	w.grid.Clear()
	query := w.posFilter.Query()
	for query.Next() {
		pos := query.Get()
		w.grid.Insert(query.Entity(), pos.Pos)
	}
}

// QueryBox returns entities within the axis-aligned box of the given
// half-extent around center, excluding the given entity. This is the coarse
// filter; callers refine by exact distance and field of view.
func (w *World) QueryBox(dst []Candidate, center vec.V, half float64, exclude ecs.Entity) []Candidate {
	return w.grid.QueryBoxInto(dst, center, half, exclude, w.posMap)
}

// QueryRadius returns entities within exact Euclidean radius of center.
func (w *World) QueryRadius(dst []Candidate, center vec.V, radius float64, exclude ecs.Entity) []Candidate {
	return w.grid.QueryRadiusInto(dst, center, radius, exclude, w.posMap)
}

// Alive reports whether e exists and has positive health.
func (w *World) Alive(e ecs.Entity) bool {
	if !w.ecs.Alive(e) {
		return false
	}
	h := w.healthMap.Get(e)
	return h != nil && h.Alive()
}

// Position returns e's position, or false if e has vanished.
func (w *World) Position(e ecs.Entity) (vec.V, bool) {
	if !w.ecs.Alive(e) {
		return vec.Zero, false
	}
	p := w.posMap.Get(e)
	if p == nil {
		return vec.Zero, false
	}
	return p.Pos, true
}

// Velocity returns e's velocity, or the zero vector if unavailable.
func (w *World) Velocity(e ecs.Entity) vec.V {
	if !w.ecs.Alive(e) {
		return vec.Zero
	}
	v := w.velMap.Get(e)
	if v == nil {
		return vec.Zero
	}
	return v.Vel
}

// SetVelocity writes e's velocity. Used by the host after integration.
func (w *World) SetVelocity(e ecs.Entity, vel vec.V) {
	if !w.ecs.Alive(e) {
		return
	}
	if v := w.velMap.Get(e); v != nil {
		v.Vel = vel
	}
}

// SetPosition writes e's position. Used by the host after integration.
func (w *World) SetPosition(e ecs.Entity, pos vec.V) {
	if !w.ecs.Alive(e) {
		return
	}
	if p := w.posMap.Get(e); p != nil {
		p.Pos = pos
	}
}

// Body returns e's body dimensions.
func (w *World) Body(e ecs.Entity) (components.Body, bool) {
	if !w.ecs.Alive(e) {
		return components.Body{}, false
	}
	b := w.bodyMap.Get(e)
	if b == nil {
		return components.Body{}, false
	}
	return *b, true
}

// Health returns e's health.
func (w *World) Health(e ecs.Entity) (components.Health, bool) {
	if !w.ecs.Alive(e) {
		return components.Health{}, false
	}
	h := w.healthMap.Get(e)
	if h == nil {
		return components.Health{}, false
	}
	return *h, true
}

// Animal returns e's animal data, or false for non-animals.
func (w *World) Animal(e ecs.Entity) (components.Animal, bool) {
	if !w.ecs.Alive(e) {
		return components.Animal{}, false
	}
	a := w.animalMap.Get(e)
	if a == nil {
		return components.Animal{}, false
	}
	return *a, true
}

// Player returns e's player data, or false for non-players.
func (w *World) Player(e ecs.Entity) (components.Player, bool) {
	if !w.ecs.Alive(e) {
		return components.Player{}, false
	}
	p := w.playerMap.Get(e)
	if p == nil {
		return components.Player{}, false
	}
	return *p, true
}

// Capabilities returns e's kinematic caps.
func (w *World) Capabilities(e ecs.Entity) (components.Capabilities, bool) {
	if !w.ecs.Alive(e) {
		return components.Capabilities{}, false
	}
	c := w.capsMap.Get(e)
	if c == nil {
		return components.Capabilities{}, false
	}
	return *c, true
}

// ConspecificsWithin counts living animals of the given species within
// radius of pos, excluding the given entity.
func (w *World) ConspecificsWithin(pos vec.V, radius float64, species components.SpeciesID, exclude ecs.Entity) int {
	count := 0
	for _, c := range w.QueryRadius(nil, pos, radius, exclude) {
		a, ok := w.Animal(c.E)
		if !ok || a.Species != species {
			continue
		}
		if !w.Alive(c.E) {
			continue
		}
		count++
	}
	return count
}

// Env returns the environment, which may be nil.
func (w *World) Env() *Environment {
	return w.env
}

// ECS exposes the underlying store for hosts that need direct access.
func (w *World) ECS() *ecs.World {
	return w.ecs
}
