package steering

import (
	"math"
	"testing"

	"github.com/pthm-cable/fauna/vec"
)

// stubBehavior returns a fixed force, for controller blending tests.
type stubBehavior struct {
	Base
	force vec.V
}

func (s *stubBehavior) Calculate(_ *Context) vec.V { return s.force }

func TestWeightedScalesCalculateOnce(t *testing.T) {
	w := newTestWorld()
	agent := spawnGrazer(w, vec.New(100, 10, 100))
	ctx := ctxFor(t, w, agent, 0)

	b := &stubBehavior{Base: Base{W: 2.5, Enabled: true}, force: vec.New(1, -2, 3)}
	got := Weighted(b, ctx)
	want := vec.New(2.5, -5, 7.5)

	if got.Dist(want) > vec.Epsilon {
		t.Errorf("Weighted = %v, want %v", got, want)
	}
}

func TestControllerClampsTotalToForceCap(t *testing.T) {
	w := newTestWorld()
	agent := spawnGrazer(w, vec.New(100, 10, 100)) // MaxForce 0.1
	ctx := ctxFor(t, w, agent, 0)

	c := NewController(
		&stubBehavior{Base: Base{W: 1, Enabled: true}, force: vec.New(5, 0, 0)},
		&stubBehavior{Base: Base{W: 1, Enabled: true}, force: vec.New(0, 5, 0)},
	)
	got := c.Calculate(ctx)

	if got.Mag() > ctx.MaxForce+vec.Epsilon {
		t.Errorf("controller output %v exceeds force cap %v", got.Mag(), ctx.MaxForce)
	}
	// Direction of the sum survives the clamp.
	want := vec.New(1, 1, 0).Normalize()
	if got.Normalize().Dist(want) > 1e-9 {
		t.Errorf("clamp changed direction: %v, want %v", got.Normalize(), want)
	}
}

func TestControllerSkipsInactiveBehaviors(t *testing.T) {
	w := newTestWorld()
	agent := spawnGrazer(w, vec.New(100, 10, 100))
	ctx := ctxFor(t, w, agent, 0)

	c := NewController(
		&stubBehavior{Base: Base{W: 1, Enabled: false}, force: vec.New(5, 5, 5)},
	)
	if got := c.Calculate(ctx); !got.IsZero() {
		t.Errorf("inactive behavior contributed force %v", got)
	}
}

func TestSeekPointsAtTarget(t *testing.T) {
	w := newTestWorld()
	pos := vec.New(100, 10, 100)
	agent := spawnGrazer(w, pos)
	ctx := ctxFor(t, w, agent, 0)

	target := pos.Add(vec.New(0, 0, 7))
	got := Seek(ctx, target)

	if got.IsZero() {
		t.Fatal("expected non-zero seek force")
	}
	angle := got.AngleTo(vec.New(0, 0, 1))
	if angle > 1e-9 {
		t.Errorf("seek force off target by %v rad", angle)
	}
	if got.Mag() > ctx.MaxForce+vec.Epsilon {
		t.Errorf("seek force %v exceeds cap %v", got.Mag(), ctx.MaxForce)
	}
}

func TestSteerTowardZeroDirection(t *testing.T) {
	w := newTestWorld()
	agent := spawnGrazer(w, vec.New(100, 10, 100))
	ctx := ctxFor(t, w, agent, 0)

	if got := steerToward(ctx, vec.Zero, 1, math.Inf(1)); !got.IsZero() {
		t.Errorf("zero direction produced force %v", got)
	}
}
