package steering

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/config"
)

// PreyCandidate pairs a target with its capture-cost score during one
// selection call. Lower cost is better.
type PreyCandidate struct {
	E    ecs.Entity
	Cost float64
}

// PreySelector scores prey by estimated capture cost, trading off distance,
// relative size, speed, condition, and group defense (optimal foraging).
// Prefer close, slow, injured, solitary, juvenile prey; penalize prey
// defended by a nearby group.
type PreySelector struct {
	cfg config.PredationConfig
}

// NewPreySelector creates a selector with the given parameters.
func NewPreySelector(cfg config.PredationConfig) *PreySelector {
	return &PreySelector{cfg: cfg}
}

// SelectPrey returns the minimum-cost eligible prey within range, or false
// if none exists. When several candidates share the minimum cost the first
// one encountered wins; iteration order over a concurrent world snapshot is
// not deterministic, and that is accepted.
func (s *PreySelector) SelectPrey(ctx *Context) (ecs.Entity, bool) {
	best, ok := s.selectScored(ctx)
	return best.E, ok
}

// selectScored is SelectPrey exposing the winning score.
func (s *PreySelector) selectScored(ctx *Context) (PreyCandidate, bool) {
	predBody, ok := ctx.World.Body(ctx.Agent)
	if !ok || predBody.Height <= 0 {
		return PreyCandidate{}, false
	}

	best := PreyCandidate{Cost: math.Inf(1)}
	found := false

	for _, c := range ctx.World.QueryRadius(nil, ctx.Pos, s.cfg.MaxDistance, ctx.Agent) {
		cost, eligible := s.score(ctx, c.E, predBody.Height, math.Sqrt(c.DistSq))
		if !eligible {
			continue
		}
		if cost < best.Cost {
			best = PreyCandidate{E: c.E, Cost: cost}
			found = true
		}
	}

	return best, found
}

// score computes the capture cost of one candidate, or eligible=false when
// the candidate is dead, not an animal, or outside the size window.
func (s *PreySelector) score(ctx *Context, e ecs.Entity, predHeight, dist float64) (cost float64, eligible bool) {
	if !ctx.World.Alive(e) {
		return 0, false
	}
	animal, ok := ctx.World.Animal(e)
	if !ok {
		return 0, false
	}
	body, ok := ctx.World.Body(e)
	if !ok {
		return 0, false
	}

	sizeRatio := body.Height / predHeight
	if sizeRatio < s.cfg.MinSizeRatio || sizeRatio > s.cfg.MaxSizeRatio {
		return 0, false
	}

	pos, ok := ctx.World.Position(e)
	if !ok {
		return 0, false
	}

	cost = dist
	cost += sizeRatio * s.cfg.SizeWeight * 10
	cost += animal.MoveSpeed * 5

	if health, ok := ctx.World.Health(e); ok && health.Injured() {
		cost -= 5
	}
	if animal.Juvenile {
		cost -= 3
	}

	// Dilution-effect cost: prey in a group is riskier per attempt.
	defenders := ctx.World.ConspecificsWithin(pos, s.cfg.PackRadius, animal.Species, e)
	cost += float64(defenders) * 2

	return cost, true
}
