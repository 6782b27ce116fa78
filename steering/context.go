// Package steering computes per-tick motion and decision forces for
// simulated animals: flocking, pursuit, flight-initiation-distance
// avoidance, and reactive evasion, blended into one bounded force.
package steering

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/vec"
	"github.com/pthm-cable/fauna/world"
)

// Neighbor is one entry of the topological neighbor list, with kinematics
// captured at selection time.
type Neighbor struct {
	E    ecs.Entity
	Pos  vec.V
	Vel  vec.V
	Dist float64
}

// Context is a per-tick snapshot of one agent's kinematic state. The host
// constructs a fresh Context each tick; it is never persisted. The neighbor
// list is computed lazily by whichever behavior first needs it and shared by
// the rest of that tick, so a flock member pays for one spatial query per
// tick regardless of how many behaviors consume neighbors.
type Context struct {
	Agent ecs.Entity
	World *world.World
	Tick  int64

	Pos      vec.V
	Vel      vec.V
	MaxSpeed float64
	MaxForce float64

	neighbors    []Neighbor
	hasNeighbors bool
}

// NewContext builds a context for the given agent from current world state.
// Returns false if the agent has vanished.
func NewContext(w *world.World, agent ecs.Entity, tick int64) (*Context, bool) {
	pos, ok := w.Position(agent)
	if !ok {
		return nil, false
	}
	caps, ok := w.Capabilities(agent)
	if !ok {
		return nil, false
	}
	return &Context{
		Agent:    agent,
		World:    w,
		Tick:     tick,
		Pos:      pos,
		Vel:      w.Velocity(agent),
		MaxSpeed: caps.MaxSpeed,
		MaxForce: caps.MaxForce,
	}, true
}

// Neighbors returns the tick's cached topological neighbor list, computing
// it with the given selector on first use. The first selector to run wins
// for the tick; flock behaviors share one selector so this is transparent.
func (c *Context) Neighbors(sel *NeighborSelector) []Neighbor {
	if !c.hasNeighbors {
		c.neighbors = sel.Select(c)
		c.hasNeighbors = true
	}
	return c.neighbors
}

// NominalSpeed returns the agent's movement-speed attribute, falling back to
// the context speed cap for agents without one.
func (c *Context) NominalSpeed() float64 {
	if a, ok := c.World.Animal(c.Agent); ok && a.MoveSpeed > 0 {
		return a.MoveSpeed
	}
	return c.MaxSpeed
}
