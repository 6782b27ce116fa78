// Package tasks provides the search-approach-act state machine shared by
// concrete animal task behaviors (foraging, digging, nest return,
// sniffing). The template turns a continuous steering force into discrete
// task completion; it is implemented once and parametrized rather than
// re-derived per task.
package tasks

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/steering"
	"github.com/pthm-cable/fauna/vec"
)

// State is the task's phase.
type State uint8

const (
	// Searching means no target; the finder re-scans periodically.
	Searching State = iota
	// Approaching means steering toward a found target.
	Approaching
	// Acting means stationary at the target, ticking the action timer.
	Acting
	// Cooldown means the completion quota was hit; the task rests.
	Cooldown
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case Approaching:
		return "approaching"
	case Acting:
		return "acting"
	case Cooldown:
		return "cooldown"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Target is what a task moves toward: either an entity (tracked while it
// lives) or a fixed position.
type Target struct {
	Entity    ecs.Entity
	HasEntity bool
	Pos       vec.V
}

// EntityTarget makes a target that tracks an entity.
func EntityTarget(e ecs.Entity, pos vec.V) Target {
	return Target{Entity: e, HasEntity: true, Pos: pos}
}

// PosTarget makes a fixed positional target.
func PosTarget(p vec.V) Target {
	return Target{Pos: p}
}

// Params configures one task instance.
type Params struct {
	// Find locates the next target. Required.
	Find func(ctx *steering.Context) (Target, bool)
	// Valid optionally adds task-specific target validity beyond entity
	// liveness, checked every tick.
	Valid func(ctx *steering.Context, t Target) bool
	// OnComplete performs the task's effect when the action timer elapses.
	OnComplete func(ctx *steering.Context, t Target)

	ArriveRadius   float64
	ActDuration    int // ticks spent acting
	RescanInterval int // ticks between finder calls while searching
	CooldownTicks  int // rest length after the quota is hit
	Quota          int // completions before cooldown; 0 disables the limit
}

func (p *Params) validate() error {
	if p.Find == nil {
		return fmt.Errorf("tasks: Find is required")
	}
	if p.ArriveRadius <= 0 {
		return fmt.Errorf("tasks: ArriveRadius must be positive, got %g", p.ArriveRadius)
	}
	if p.ActDuration <= 0 {
		return fmt.Errorf("tasks: ActDuration must be positive, got %d", p.ActDuration)
	}
	if p.RescanInterval <= 0 {
		return fmt.Errorf("tasks: RescanInterval must be positive, got %d", p.RescanInterval)
	}
	return nil
}

// Task runs the state machine for one agent. It implements
// steering.Behavior: Calculate advances the machine one step and returns
// the approach force, or zero in every other state.
//
// A Task owns per-agent state and must not be shared across agents.
type Task struct {
	steering.Base
	params Params

	state       State
	target      Target
	actTimer    int
	coolTimer   int
	completions int
	lastScan    int64
	scanned     bool
}

// New validates params and creates a task in the searching state.
func New(params Params, weight float64) (*Task, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Task{
		Base:   steering.Base{W: weight, Enabled: true},
		params: params,
		state:  Searching,
	}, nil
}

// State returns the current phase.
func (t *Task) State() State {
	return t.state
}

// Completions returns how many times the task finished since the last
// cooldown reset.
func (t *Task) Completions() int {
	return t.completions
}

// Calculate advances the state machine one tick and returns the steering
// force for this tick. Target loss, target invalidation, or agent death
// force an immediate, silent return to searching.
func (t *Task) Calculate(ctx *steering.Context) vec.V {
	if !ctx.World.Alive(ctx.Agent) {
		t.reset()
		return vec.Zero
	}

	switch t.state {
	case Cooldown:
		t.coolTimer--
		if t.coolTimer <= 0 {
			t.completions = 0
			t.state = Searching
		}
		return vec.Zero

	case Searching:
		if t.scanned && ctx.Tick-t.lastScan < int64(t.params.RescanInterval) {
			return vec.Zero
		}
		t.lastScan = ctx.Tick
		t.scanned = true
		target, ok := t.params.Find(ctx)
		if !ok {
			return vec.Zero
		}
		t.target = target
		t.state = Approaching
		fallthrough

	case Approaching:
		pos, ok := t.targetPos(ctx)
		if !ok {
			t.reset()
			return vec.Zero
		}
		if ctx.Pos.Dist(pos) <= t.params.ArriveRadius {
			t.state = Acting
			t.actTimer = t.params.ActDuration
			return vec.Zero
		}
		return steering.Seek(ctx, pos)

	case Acting:
		if _, ok := t.targetPos(ctx); !ok {
			t.reset()
			return vec.Zero
		}
		t.actTimer--
		if t.actTimer > 0 {
			return vec.Zero
		}
		if t.params.OnComplete != nil {
			t.params.OnComplete(ctx, t.target)
		}
		t.completions++
		if t.params.Quota > 0 && t.completions >= t.params.Quota {
			t.state = Cooldown
			t.coolTimer = t.params.CooldownTicks
		} else {
			t.reset()
		}
		return vec.Zero
	}

	return vec.Zero
}

// targetPos resolves the target's current position and validity.
func (t *Task) targetPos(ctx *steering.Context) (vec.V, bool) {
	if t.params.Valid != nil && !t.params.Valid(ctx, t.target) {
		return vec.Zero, false
	}
	if !t.target.HasEntity {
		return t.target.Pos, true
	}
	if !ctx.World.Alive(t.target.Entity) {
		return vec.Zero, false
	}
	return ctx.World.Position(t.target.Entity)
}

// reset returns to searching, forgetting the current target. The next
// Calculate re-scans immediately.
func (t *Task) reset() {
	t.state = Searching
	t.target = Target{}
	t.scanned = false
}
