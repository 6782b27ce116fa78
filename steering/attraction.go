package steering

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/vec"
)

// Attraction steers a predator toward its selected prey. The current target
// is retained with hysteresis: once pursuit starts, the target is kept while
// it stays alive and within HysteresisFactor times the detection range, even
// if a nominally better candidate appears. Re-targeting every tick makes the
// blended force oscillate; a committed chase does not.
//
// Attraction owns per-agent state and must not be shared across agents.
type Attraction struct {
	Base
	cfg      config.PredationConfig
	selector *PreySelector

	target    ecs.Entity
	hasTarget bool
}

// NewAttraction creates a pursuit behavior with the given weight.
func NewAttraction(cfg config.PredationConfig, weight float64) *Attraction {
	return &Attraction{
		Base:     Base{W: weight, Enabled: true},
		cfg:      cfg,
		selector: NewPreySelector(cfg),
	}
}

// Target returns the current pursuit target, if any. Hosts use this to
// trigger the attack once the predator is within engagement range.
func (a *Attraction) Target() (ecs.Entity, bool) {
	return a.target, a.hasTarget
}

// Calculate returns the pursuit force toward the retained or newly selected
// prey. No force is produced inside the minimum engagement distance (close
// enough to attack) or when no eligible prey exists.
func (a *Attraction) Calculate(ctx *Context) vec.V {
	keepRange := a.cfg.MaxDistance * a.cfg.HysteresisFactor

	if a.hasTarget && !a.targetStillValid(ctx, keepRange) {
		a.hasTarget = false
	}
	if !a.hasTarget {
		if t, ok := a.selector.SelectPrey(ctx); ok {
			a.target = t
			a.hasTarget = true
		}
	}
	if !a.hasTarget {
		return vec.Zero
	}

	pos, ok := ctx.World.Position(a.target)
	if !ok {
		a.hasTarget = false
		return vec.Zero
	}

	dist := ctx.Pos.Dist(pos)
	if dist < a.cfg.MinEngageDist || dist > keepRange {
		return vec.Zero
	}

	return steerToward(ctx, pos.Sub(ctx.Pos), ctx.MaxSpeed, ctx.MaxForce)
}

func (a *Attraction) targetStillValid(ctx *Context, keepRange float64) bool {
	if !ctx.World.Alive(a.target) {
		return false
	}
	pos, ok := ctx.World.Position(a.target)
	if !ok {
		return false
	}
	return ctx.Pos.Dist(pos) <= keepRange
}
