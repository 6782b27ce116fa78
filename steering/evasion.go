package steering

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/vec"
)

// up is the world vertical, used to build the zigzag's perpendicular.
var up = vec.New(0, 1, 0)

// Evasion is the reactive flee: engage when the nearest threat enters the
// detection range, and stay engaged until it falls beyond the larger safety
// distance. The hysteresis band prevents flicker when the distance hovers
// around the trigger. While fleeing, a perpendicular zigzag component flips
// sign on a fixed tick interval, approximating evasive maneuvering in prey
// escape behavior. The zigzag is deterministic, not random.
//
// Evasion owns per-agent state and must not be shared across agents.
type Evasion struct {
	Base
	cfg config.EvasionConfig

	engaged bool
	threat  ecs.Entity
}

// NewEvasion creates an evasion behavior with the given weight.
func NewEvasion(cfg config.EvasionConfig, weight float64) *Evasion {
	return &Evasion{
		Base: Base{W: weight, Enabled: true},
		cfg:  cfg,
	}
}

// Engaged reports whether the agent is currently fleeing.
func (ev *Evasion) Engaged() bool {
	return ev.engaged
}

// Calculate returns the flee force, or zero while disengaged.
func (ev *Evasion) Calculate(ctx *Context) vec.V {
	threat, dist, found := ev.nearestThreat(ctx)

	switch {
	case !found:
		ev.engaged = false
	case !ev.engaged && dist < ev.cfg.DetectionRange:
		ev.engaged = true
		ev.threat = threat
	case ev.engaged && dist > ev.cfg.SafetyDistance:
		ev.engaged = false
	case ev.engaged:
		ev.threat = threat
	}

	if !ev.engaged {
		return vec.Zero
	}

	pos, ok := ctx.World.Position(ev.threat)
	if !ok {
		ev.engaged = false
		return vec.Zero
	}

	away := ctx.Pos.Sub(pos).Normalize()
	if away.IsZero() {
		return vec.Zero
	}

	dir := away.Add(ev.perpendicular(away).Scale(ev.zigzagSign(ctx.Tick) * ev.cfg.ZigzagStrength))
	return steerToward(ctx, dir, ctx.MaxSpeed, ctx.MaxForce)
}

// nearestThreat scans out to the safety distance so an engaged agent keeps
// tracking a threat that has drifted past detection range.
func (ev *Evasion) nearestThreat(ctx *Context) (ecs.Entity, float64, bool) {
	var nearest ecs.Entity
	nearestDist := math.Inf(1)
	found := false

	for _, c := range ctx.World.QueryRadius(nil, ctx.Pos, ev.cfg.SafetyDistance, ctx.Agent) {
		if _, isThreat := classifyThreat(ctx.World, c.E); !isThreat {
			continue
		}
		d := math.Sqrt(c.DistSq)
		if d < nearestDist {
			nearest = c.E
			nearestDist = d
			found = true
		}
	}

	return nearest, nearestDist, found
}

// perpendicular returns a unit vector orthogonal to the flee direction in
// the horizontal plane, falling back to the X axis for vertical flee paths.
func (ev *Evasion) perpendicular(away vec.V) vec.V {
	p := away.Cross(up).Normalize()
	if p.IsZero() {
		return vec.New(1, 0, 0)
	}
	return p
}

func (ev *Evasion) zigzagSign(tick int64) float64 {
	period := int64(ev.cfg.ZigzagPeriod)
	if period <= 0 {
		period = 1
	}
	if (tick/period)%2 == 0 {
		return 1
	}
	return -1
}
