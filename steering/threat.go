package steering

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/components"
	"github.com/pthm-cable/fauna/world"
)

// classifyThreat decides whether an entity is a threat to prey and with
// which archetype curve. Threats are known predator archetypes, players not
// crouching, and aggressive animals. Dead entities threaten nothing.
func classifyThreat(w *world.World, e ecs.Entity) (components.ThreatProfile, bool) {
	if !w.Alive(e) {
		return components.ThreatNone, false
	}
	if p, ok := w.Player(e); ok {
		if p.Crouching {
			return components.ThreatNone, false
		}
		return components.ThreatPursuit, true
	}
	if a, ok := w.Animal(e); ok {
		if a.Profile != components.ThreatNone {
			return a.Profile, true
		}
		if a.Aggressive {
			return components.ThreatPursuit, true
		}
	}
	return components.ThreatNone, false
}

// threatLevel maps a threat's archetype and current distance to a [0,1]
// intensity. Ambush predators are nearly ignorable at range and ramp
// sharply as distance shrinks; pursuit predators sustain high threat across
// the whole band because distance buys little safety from a chaser.
func threatLevel(profile components.ThreatProfile, dist, fid float64) float64 {
	if fid <= 0 {
		return 0
	}
	closeness := 1 - dist/fid
	if closeness < 0 {
		closeness = 0
	} else if closeness > 1 {
		closeness = 1
	}
	switch profile {
	case components.ThreatAmbush:
		return closeness * closeness
	case components.ThreatPursuit:
		return 0.6 + 0.4*closeness
	default:
		return 0
	}
}
