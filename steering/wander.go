package steering

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/fauna/vec"
)

// Wander produces a smooth coherent-noise drift so idle animals meander
// instead of standing still or jittering. Sampling the same noise field at
// the agent's position gives nearby agents loosely correlated drift, which
// reads as currents of movement rather than independent twitching.
type Wander struct {
	Base
	noise     opensimplex.Noise
	scale     float64 // spatial frequency of the drift field
	timeScale float64 // how fast the field evolves per tick
}

// NewWander creates a wander behavior seeded deterministically.
func NewWander(weight float64, seed int64) *Wander {
	return &Wander{
		Base:      Base{W: weight, Enabled: true},
		noise:     opensimplex.New(seed),
		scale:     0.01,
		timeScale: 0.002,
	}
}

// Calculate samples the drift field at the agent's position. Two offset
// samples give a heading angle and a magnitude in [0,1].
func (w *Wander) Calculate(ctx *Context) vec.V {
	t := float64(ctx.Tick) * w.timeScale
	a := w.noise.Eval3(ctx.Pos.X*w.scale, ctx.Pos.Z*w.scale, t)
	m := w.noise.Eval3(ctx.Pos.X*w.scale+100, ctx.Pos.Z*w.scale+100, t)

	angle := a * math.Pi * 2
	mag := (m + 1) * 0.5

	return vec.New(math.Cos(angle)*mag, 0, math.Sin(angle)*mag)
}
