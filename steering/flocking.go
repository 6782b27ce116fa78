package steering

import (
	"math/rand"

	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/vec"
)

// Separation steers away from neighbors closer than the desired separation
// distance, weighting each repulsion by inverse distance so very close
// neighbors dominate. Collision avoidance must stay responsive even in
// dense flocks, which is why Flocking clamps it separately from the
// controller's global cap.
type Separation struct {
	Base
	cfg config.FlockingConfig
	sel *NeighborSelector
}

// NewSeparation creates a separation behavior with the given sub-weight.
func NewSeparation(cfg config.FlockingConfig, sel *NeighborSelector) *Separation {
	return &Separation{
		Base: Base{W: cfg.SeparationWeight, Enabled: true},
		cfg:  cfg,
		sel:  sel,
	}
}

// Calculate returns the raw separation force.
func (s *Separation) Calculate(ctx *Context) vec.V {
	sum := vec.Zero
	count := 0
	for _, n := range ctx.Neighbors(s.sel) {
		if n.Dist >= s.cfg.DesiredSeparation || n.Dist < vec.Epsilon {
			continue
		}
		// Unit away-vector scaled by 1/d: the closest neighbors dominate.
		away := ctx.Pos.Sub(n.Pos).Normalize().Div(n.Dist)
		sum = sum.Add(away)
		count++
	}
	if count == 0 {
		return vec.Zero
	}
	avg := sum.Div(float64(count))
	return steerToward(ctx, avg, ctx.MaxSpeed, ctx.MaxForce)
}

// Alignment steers toward the averaged heading of neighbors within its
// radius.
type Alignment struct {
	Base
	cfg config.FlockingConfig
	sel *NeighborSelector
}

// NewAlignment creates an alignment behavior with the given sub-weight.
func NewAlignment(cfg config.FlockingConfig, sel *NeighborSelector) *Alignment {
	return &Alignment{
		Base: Base{W: cfg.AlignmentWeight, Enabled: true},
		cfg:  cfg,
		sel:  sel,
	}
}

// Calculate returns the raw alignment force.
func (a *Alignment) Calculate(ctx *Context) vec.V {
	sum := vec.Zero
	count := 0
	for _, n := range ctx.Neighbors(a.sel) {
		if n.Dist > a.cfg.AlignmentRadius {
			continue
		}
		sum = sum.Add(n.Vel)
		count++
	}
	if count == 0 {
		return vec.Zero
	}
	avg := sum.Div(float64(count))
	return steerToward(ctx, avg, ctx.MaxSpeed, ctx.MaxForce)
}

// Cohesion steers toward the center of mass of neighbors within its radius.
type Cohesion struct {
	Base
	cfg config.FlockingConfig
	sel *NeighborSelector
}

// NewCohesion creates a cohesion behavior with the given sub-weight.
func NewCohesion(cfg config.FlockingConfig, sel *NeighborSelector) *Cohesion {
	return &Cohesion{
		Base: Base{W: cfg.CohesionWeight, Enabled: true},
		cfg:  cfg,
		sel:  sel,
	}
}

// Calculate returns the raw cohesion force.
func (c *Cohesion) Calculate(ctx *Context) vec.V {
	sum := vec.Zero
	count := 0
	for _, n := range ctx.Neighbors(c.sel) {
		if n.Dist > c.cfg.CohesionRadius {
			continue
		}
		sum = sum.Add(n.Pos)
		count++
	}
	if count == 0 {
		return vec.Zero
	}
	center := sum.Div(float64(count))
	return steerToward(ctx, center.Sub(ctx.Pos), ctx.MaxSpeed, ctx.MaxForce)
}

// Noise produces a per-axis uniform random perturbation in [-1,1] so flocks
// are never perfectly synchronized. The raw force is unscaled; the caller's
// weight is the only magnitude control.
type Noise struct {
	Base
	rng *rand.Rand
}

// NewNoise creates a noise behavior with its own randomness source. Each
// agent gets its own rng so concurrent per-agent computation never shares
// mutable state.
func NewNoise(weight float64, rng *rand.Rand) *Noise {
	return &Noise{
		Base: Base{W: weight, Enabled: true},
		rng:  rng,
	}
}

// Calculate returns a uniform random vector with components in [-1,1].
func (n *Noise) Calculate(_ *Context) vec.V {
	return vec.New(
		n.rng.Float64()*2-1,
		n.rng.Float64()*2-1,
		n.rng.Float64()*2-1,
	)
}

// Flocking composes separation, alignment, cohesion, and noise with a fixed
// formula: with no neighbors in range the result is the noise term alone;
// otherwise each sub-force is independently clamped and weighted before
// summing. The fixed order keeps collision avoidance from being crowded out
// by a single global clamp.
type Flocking struct {
	Base
	cfg      config.FlockingConfig
	selector NeighborSelector

	sep   *Separation
	align *Alignment
	coh   *Cohesion
	noise *Noise
}

// NewFlocking validates the parameter bundle and builds the composite.
// Invalid configuration is a programming mistake and fails here, loudly.
func NewFlocking(cfg config.FlockingConfig, rng *rand.Rand) (*Flocking, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &Flocking{
		Base: Base{W: 1, Enabled: true},
		cfg:  cfg,
		selector: NeighborSelector{
			Radius: cfg.PerceptionRadius,
			Angle:  cfg.PerceptionAngle,
			Count:  cfg.NeighborCount,
		},
	}
	f.sep = NewSeparation(cfg, &f.selector)
	f.align = NewAlignment(cfg, &f.selector)
	f.coh = NewCohesion(cfg, &f.selector)
	f.noise = NewNoise(cfg.NoiseWeight, rng)
	return f, nil
}

// Calculate returns the combined flocking force.
func (f *Flocking) Calculate(ctx *Context) vec.V {
	neighbors := ctx.Neighbors(&f.selector)
	noise := Weighted(f.noise, ctx)
	if len(neighbors) == 0 {
		return noise
	}

	// Each sub-force arrives pre-clamped to the force cap by the Reynolds
	// formula, so no single term can starve the others after weighting.
	sep := f.sep.Calculate(ctx).Scale(f.cfg.SeparationWeight)
	align := f.align.Calculate(ctx).Scale(f.cfg.AlignmentWeight)
	coh := f.coh.Calculate(ctx).Scale(f.cfg.CohesionWeight)

	return sep.Add(align).Add(coh).Add(noise)
}
