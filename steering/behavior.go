package steering

import "github.com/pthm-cable/fauna/vec"

// Behavior is the contract every force-producing strategy implements.
// Calculate returns the raw, unweighted force; weighting is applied exactly
// once, by Weighted or by a composite's fixed formula. Implementations must
// return the zero vector when they have nothing to contribute, never an
// error, so that blending is always well-defined.
type Behavior interface {
	Calculate(ctx *Context) vec.V
	Weight() float64
	IsActive() bool
}

// Base carries the weight and enabled flag shared by all behaviors.
// Weights may be zero or negative for experimentation.
type Base struct {
	W       float64
	Enabled bool
}

// Weight returns the behavior's blend weight.
func (b *Base) Weight() float64 { return b.W }

// IsActive reports whether the controller should include the behavior.
func (b *Base) IsActive() bool { return b.Enabled }

// Weighted returns weight x Calculate(ctx). Callers must use either this or
// Calculate, never both, so the weight is applied exactly once.
func Weighted(b Behavior, ctx *Context) vec.V {
	return b.Calculate(ctx).Scale(b.Weight())
}

// Controller blends any set of behaviors by weighted sum, then truncates
// the total to the context's force cap. The rescale preserves direction; it
// is deliberately applied to the sum rather than per behavior, though
// behaviors may self-clamp to their own budget before contributing.
type Controller struct {
	behaviors []Behavior
}

// NewController creates a controller over the given behaviors.
func NewController(behaviors ...Behavior) *Controller {
	return &Controller{behaviors: behaviors}
}

// Add appends a behavior.
func (c *Controller) Add(b Behavior) {
	c.behaviors = append(c.behaviors, b)
}

// Calculate blends all active behaviors into one bounded steering force.
func (c *Controller) Calculate(ctx *Context) vec.V {
	total := vec.Zero
	for _, b := range c.behaviors {
		if !b.IsActive() {
			continue
		}
		total = total.Add(Weighted(b, ctx))
	}
	return total.Limit(ctx.MaxForce)
}

// steerToward is the Reynolds steering formula: desired velocity at target
// speed in the given direction, minus current velocity, clamped to the
// force cap. A zero direction yields zero force.
func steerToward(ctx *Context, dir vec.V, speed, maxForce float64) vec.V {
	d := dir.Normalize()
	if d.IsZero() {
		return vec.Zero
	}
	return d.Scale(speed).Sub(ctx.Vel).Limit(maxForce)
}

// Seek returns a bounded steering force toward a world position, used by
// task behaviors while approaching their target.
func Seek(ctx *Context, target vec.V) vec.V {
	return steerToward(ctx, target.Sub(ctx.Pos), ctx.MaxSpeed, ctx.MaxForce)
}
