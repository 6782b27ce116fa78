package tasks

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/fauna/components"
	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/steering"
	"github.com/pthm-cable/fauna/vec"
)

// NewForage builds a foraging task: find the nearest living entity of the
// food species within range, walk to it, graze for the act duration, and
// remember the spot. Known good patches are revisited when no food is in
// sight.
func NewForage(cfg config.TasksConfig, foodSpecies components.SpeciesID, searchRadius float64, mem *SiteMemory, weight float64) (*Task, error) {
	return New(Params{
		Find: func(ctx *steering.Context) (Target, bool) {
			best := Target{}
			bestSq := math.Inf(1)
			found := false
			for _, c := range ctx.World.QueryRadius(nil, ctx.Pos, searchRadius, ctx.Agent) {
				a, ok := ctx.World.Animal(c.E)
				if !ok || a.Species != foodSpecies || !ctx.World.Alive(c.E) {
					continue
				}
				if c.DistSq < bestSq {
					best = EntityTarget(c.E, c.Pos)
					bestSq = c.DistSq
					found = true
				}
			}
			if found {
				return best, true
			}
			// Nothing in sight: fall back to a remembered patch.
			if mem != nil {
				if site, ok := mem.Nearest(ctx.Pos); ok {
					return PosTarget(site), true
				}
			}
			return Target{}, false
		},
		OnComplete: func(ctx *steering.Context, t Target) {
			if mem != nil {
				mem.Remember(t.Pos)
			}
		},
		ArriveRadius:   cfg.ArriveRadius,
		ActDuration:    cfg.ActDuration,
		RescanInterval: cfg.RescanInterval,
		CooldownTicks:  cfg.CooldownTicks,
		Quota:          cfg.DailyQuota,
	}, weight)
}

// NewDig builds a digging task: pick a remembered dig site when one exists,
// otherwise probe a random spot near the agent. Completed digs are
// remembered as good sites.
func NewDig(cfg config.TasksConfig, probeRadius float64, mem *SiteMemory, rng *rand.Rand, weight float64) (*Task, error) {
	return New(Params{
		Find: func(ctx *steering.Context) (Target, bool) {
			if mem != nil && rng.Float64() < 0.5 {
				if site, ok := mem.Nearest(ctx.Pos); ok {
					return PosTarget(site), true
				}
			}
			angle := rng.Float64() * 2 * math.Pi
			dist := probeRadius * (0.3 + 0.7*rng.Float64())
			probe := ctx.Pos.Add(vec.New(math.Cos(angle)*dist, 0, math.Sin(angle)*dist))
			return PosTarget(probe), true
		},
		OnComplete: func(ctx *steering.Context, t Target) {
			if mem != nil {
				mem.Remember(t.Pos)
			}
		},
		ArriveRadius:   cfg.ArriveRadius,
		ActDuration:    cfg.ActDuration,
		RescanInterval: cfg.RescanInterval,
		CooldownTicks:  cfg.CooldownTicks,
		Quota:          cfg.DailyQuota,
	}, weight)
}

// NewNestReturn builds a homing task: approach the fixed nest position and
// settle there for the act duration. No quota; the nest never invalidates.
func NewNestReturn(cfg config.TasksConfig, nest vec.V, weight float64) (*Task, error) {
	return New(Params{
		Find: func(_ *steering.Context) (Target, bool) {
			return PosTarget(nest), true
		},
		ArriveRadius:   cfg.ArriveRadius,
		ActDuration:    cfg.ActDuration,
		RescanInterval: cfg.RescanInterval,
	}, weight)
}

// NewSniff builds a sniffing task: wander to a nearby random point and
// spend the act duration investigating it. OnFound is called for each
// finished sniff so the owner can react to whatever was scented.
func NewSniff(cfg config.TasksConfig, sniffRadius float64, rng *rand.Rand, onFound func(vec.V), weight float64) (*Task, error) {
	return New(Params{
		Find: func(ctx *steering.Context) (Target, bool) {
			angle := rng.Float64() * 2 * math.Pi
			dist := sniffRadius * rng.Float64()
			p := ctx.Pos.Add(vec.New(math.Cos(angle)*dist, 0, math.Sin(angle)*dist))
			return PosTarget(p), true
		},
		OnComplete: func(_ *steering.Context, t Target) {
			if onFound != nil {
				onFound(t.Pos)
			}
		},
		ArriveRadius:   cfg.ArriveRadius,
		ActDuration:    cfg.ActDuration,
		RescanInterval: cfg.RescanInterval,
		CooldownTicks:  cfg.CooldownTicks,
		Quota:          cfg.DailyQuota,
	}, weight)
}
