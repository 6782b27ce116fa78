// Package components defines ECS components for simulated animals.
package components

import "github.com/pthm-cable/fauna/vec"

// SpeciesID identifies an animal species. Agents with equal SpeciesID are
// conspecifics for flocking, dilution, and group-defense checks.
type SpeciesID uint16

// ThreatProfile describes how a predator archetype projects threat over
// distance. Ambush predators ramp sharply as distance shrinks; pursuit
// predators sustain high threat across a wider band.
type ThreatProfile uint8

const (
	ThreatNone ThreatProfile = iota
	ThreatAmbush
	ThreatPursuit
)

// Position is an entity's world position.
type Position struct {
	Pos vec.V
}

// Velocity is an entity's velocity.
type Velocity struct {
	Vel vec.V
}

// Body holds physical dimensions. Height is the bounding height used for
// prey size-ratio eligibility.
type Body struct {
	Height float64
	Width  float64
}

// Health tracks hit points. An entity with Value <= 0 is dead; steering
// treats dead entities as nonexistent, never as errors.
type Health struct {
	Value float64
	Max   float64
}

// Alive reports whether the entity is alive.
func (h Health) Alive() bool {
	return h.Value > 0
}

// Injured reports whether health is below half of max, which biases both
// prey scoring and flight decisions.
func (h Health) Injured() bool {
	return h.Max > 0 && h.Value < h.Max*0.5
}

// Animal holds species and life-stage state read by the steering engine.
type Animal struct {
	Species    SpeciesID
	Profile    ThreatProfile // how this animal threatens others, ThreatNone for harmless
	Juvenile   bool
	Aggressive bool
	MoveSpeed  float64 // nominal movement-speed attribute
}

// Player marks a player-controlled entity. Non-crouching players are
// classified as threats by avoidance.
type Player struct {
	Crouching bool
}

// Capabilities holds the per-agent kinematic caps consumed by steering.
type Capabilities struct {
	MaxSpeed float64
	MaxForce float64
}
