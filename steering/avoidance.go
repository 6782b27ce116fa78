package steering

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/vec"
)

// Avoidance implements the Flight Initiation Distance model from economic
// escape theory: for each nearby threat the agent computes a personalized
// distance at which fleeing becomes cheaper than staying, and flees only
// when a threat is inside that distance. Refuge availability, threat speed,
// the agent's condition, and group dilution all shift the decision point.
type Avoidance struct {
	Base
	cfg config.AvoidanceConfig
}

// NewAvoidance creates an avoidance behavior with the given weight.
func NewAvoidance(cfg config.AvoidanceConfig, weight float64) *Avoidance {
	return &Avoidance{
		Base: Base{W: weight, Enabled: true},
		cfg:  cfg,
	}
}

// Calculate sums away-vectors from every threat inside its personalized
// FID, weighted by urgency and archetype threat level, then steers at a
// threat-adjusted speed. Zero force when no threat is close enough.
func (av *Avoidance) Calculate(ctx *Context) vec.V {
	baseline := av.personalBaseFID(ctx)

	sum := vec.Zero
	maxUrgency := 0.0

	for _, c := range ctx.World.QueryRadius(nil, ctx.Pos, av.cfg.ScanRadius, ctx.Agent) {
		profile, isThreat := classifyThreat(ctx.World, c.E)
		if !isThreat {
			continue
		}

		fid := baseline * av.threatSpeedFactor(ctx, c.E)
		dist := ctx.Pos.Dist(c.Pos)
		if dist >= fid {
			continue
		}

		urgency := (fid - dist) / fid * threatLevel(profile, dist, fid)
		if urgency <= 0 {
			continue
		}

		away := ctx.Pos.Sub(c.Pos).Normalize()
		if away.IsZero() {
			continue
		}
		sum = sum.Add(away.Scale(urgency))
		if urgency > maxUrgency {
			maxUrgency = urgency
		}
	}

	if sum.IsZero() {
		return vec.Zero
	}

	nominal := ctx.NominalSpeed()
	desired := nominal * (1 + maxUrgency*(av.cfg.MaxSpeedFactor-1))
	if ceiling := nominal * av.cfg.MaxSpeedFactor; desired > ceiling {
		desired = ceiling
	}

	return steerToward(ctx, sum, desired, ctx.MaxForce)
}

// personalBaseFID computes the threat-independent part of the agent's
// flight initiation distance: base FID scaled by refuge availability,
// condition, and group dilution.
func (av *Avoidance) personalBaseFID(ctx *Context) float64 {
	fid := av.cfg.BaseFID

	if ctx.World.Env().HasRefugeNear(ctx.Pos, av.cfg.RefugeDistance) {
		fid *= av.cfg.RefugeFactor
	} else {
		fid *= av.cfg.NoRefugeFactor
	}

	if animal, ok := ctx.World.Animal(ctx.Agent); ok {
		if animal.Juvenile {
			fid *= av.cfg.JuvenileFactor
		}
		if health, ok := ctx.World.Health(ctx.Agent); ok && health.Injured() {
			fid *= av.cfg.InjuredFactor
		}
		group := ctx.World.ConspecificsWithin(ctx.Pos, av.cfg.GroupRadius, animal.Species, ctx.Agent)
		if group > av.cfg.DilutionGroupSize {
			fid *= av.cfg.DilutionFactor
		}
	}

	return fid
}

// threatSpeedFactor widens the flight distance for fast-moving threats.
func (av *Avoidance) threatSpeedFactor(ctx *Context, threat ecs.Entity) float64 {
	if ctx.World.Velocity(threat).Mag() > av.cfg.FastThreshold {
		return av.cfg.ThreatSpeedFactor
	}
	return 1
}
