// Package sim is the headless reference host: it owns the world, spawns a
// scenario population, and runs the per-tick loop that feeds contexts to
// the steering engine and integrates the returned forces. Everything here
// is host-side glue; the engine itself lives in the steering and tasks
// packages.
package sim

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fauna/components"
	"github.com/pthm-cable/fauna/config"
	"github.com/pthm-cable/fauna/steering"
	"github.com/pthm-cable/fauna/tasks"
	"github.com/pthm-cable/fauna/telemetry"
	"github.com/pthm-cable/fauna/vec"
	"github.com/pthm-cable/fauna/world"
)

// Species used by the built-in scenario.
const (
	SpeciesGrazer components.SpeciesID = 1
	SpeciesHunter components.SpeciesID = 2
)

// agent bundles the per-agent behavior state. Each agent owns its own
// instances; nothing here is shared across agents.
type agent struct {
	entity     ecs.Entity
	controller *steering.Controller
	flocking   *steering.Flocking
	evasion    *steering.Evasion
	attraction *steering.Attraction
	dig        *tasks.Task

	wasEngaged bool
}

// Sim holds the scenario state.
type Sim struct {
	cfg    *config.Config
	rng    *rand.Rand
	world  *world.World
	agents []*agent

	collector *telemetry.Collector
	tick      int64

	numGrazers int
	numHunters int
}

// New builds a scenario from config: a grazer flock with flight behaviors
// and a handful of hunters, in a world with scattered water and cover.
func New(cfg *config.Config, flock config.FlockingConfig) (*Sim, error) {
	rng := rand.New(rand.NewSource(cfg.Population.Seed))

	env := world.NewEnvironment(cfg.World.EnvCellSize)
	size := vec.New(cfg.World.SizeX, cfg.World.SizeY, cfg.World.SizeZ)
	w := world.New(vec.Zero, size, cfg.World.GridCellSize, env)

	// Scatter refuges so the FID refuge factor has something to find.
	for i := 0; i < 24; i++ {
		p := vec.New(rng.Float64()*size.X, 0, rng.Float64()*size.Z)
		if i%2 == 0 {
			env.SetWater(p)
		} else {
			env.SetCover(p)
		}
	}

	s := &Sim{
		cfg:       cfg,
		rng:       rng,
		world:     w,
		collector: telemetry.NewCollector(cfg.Telemetry.WindowTicks),
	}

	for i := 0; i < cfg.Population.Animals; i++ {
		if err := s.spawnGrazer(flock); err != nil {
			return nil, err
		}
	}
	for i := 0; i < cfg.Population.Predators; i++ {
		s.spawnHunter()
	}

	return s, nil
}

func (s *Sim) randomPos() vec.V {
	return vec.New(
		s.rng.Float64()*s.cfg.World.SizeX,
		s.cfg.World.SizeY/2,
		s.rng.Float64()*s.cfg.World.SizeZ,
	)
}

func (s *Sim) spawnGrazer(flock config.FlockingConfig) error {
	e := s.world.SpawnAnimal(
		s.randomPos(),
		components.Animal{
			Species:   SpeciesGrazer,
			Juvenile:  s.rng.Float64() < 0.2,
			MoveSpeed: flock.MaxSpeed,
		},
		components.Body{Height: 1.0, Width: 0.6},
		components.Health{Value: 10, Max: 10},
		components.Capabilities{MaxSpeed: flock.MaxSpeed, MaxForce: flock.MaxForce},
	)

	flocking, err := steering.NewFlocking(flock, rand.New(rand.NewSource(s.rng.Int63())))
	if err != nil {
		return err
	}
	evasion := steering.NewEvasion(s.cfg.Evasion, 2.0)
	avoidance := steering.NewAvoidance(s.cfg.Avoidance, 1.5)
	wander := steering.NewWander(0.02, s.rng.Int63())
	dig, err := s.newDigTask()
	if err != nil {
		return err
	}

	a := &agent{
		entity:     e,
		flocking:   flocking,
		evasion:    evasion,
		dig:        dig,
		controller: steering.NewController(flocking, avoidance, evasion, dig, wander),
	}
	s.agents = append(s.agents, a)
	s.numGrazers++
	return nil
}

func (s *Sim) spawnHunter() {
	e := s.world.SpawnAnimal(
		s.randomPos(),
		components.Animal{
			Species:   SpeciesHunter,
			Profile:   components.ThreatPursuit,
			MoveSpeed: 1.4,
		},
		components.Body{Height: 1.2, Width: 0.8},
		components.Health{Value: 20, Max: 20},
		components.Capabilities{MaxSpeed: 1.4, MaxForce: 0.1},
	)

	attraction := steering.NewAttraction(s.cfg.Predation, 1.0)
	wander := steering.NewWander(0.3, s.rng.Int63())

	a := &agent{
		entity:     e,
		attraction: attraction,
		controller: steering.NewController(attraction, wander),
	}
	s.agents = append(s.agents, a)
	s.numHunters++
}

// Step runs one tick: grid rebuild, per-agent steering, integration, and
// telemetry sampling.
func (s *Sim) Step() {
	s.world.RebuildGrid()

	for _, a := range s.agents {
		ctx, ok := steering.NewContext(s.world, a.entity, s.tick)
		if !ok {
			continue
		}

		force := a.controller.Calculate(ctx)

		// Host-side integration: force into velocity, velocity into
		// position, clamped to the agent's own speed cap.
		vel := ctx.Vel.Add(force).Limit(ctx.MaxSpeed)
		pos := s.clampToBounds(ctx.Pos.Add(vel))
		s.world.SetVelocity(a.entity, vel)
		s.world.SetPosition(a.entity, pos)

		s.sample(a, ctx, force)
	}

	s.tick++
}

func (s *Sim) sample(a *agent, ctx *steering.Context, force vec.V) {
	s.collector.SampleForce(force.Mag())

	if a.flocking != nil {
		neighbors := ctx.Neighbors(nil) // already cached by flocking this tick
		s.collector.SampleNeighbors(len(neighbors))
		if len(neighbors) > 0 {
			center := ctx.Pos
			for _, n := range neighbors {
				center = center.Add(n.Pos)
			}
			center = center.Div(float64(len(neighbors) + 1))
			s.collector.SampleSpread(ctx.Pos.Dist(center))
		}
	}

	if a.evasion != nil {
		engaged := a.evasion.Engaged()
		if engaged && !a.wasEngaged {
			s.collector.RecordFleeEngagement()
		}
		a.wasEngaged = engaged
	}

	if a.attraction != nil {
		if _, hunting := a.attraction.Target(); hunting {
			s.collector.RecordHunt()
		}
	}
}

// newDigTask builds the grazers' probe-and-dig task. Completions feed the
// telemetry counter and the agent's site memory.
func (s *Sim) newDigTask() (*tasks.Task, error) {
	cfg := s.cfg.Tasks
	mem := tasks.NewSiteMemory(cfg.MemorySize)
	rng := rand.New(rand.NewSource(s.rng.Int63()))

	return tasks.New(tasks.Params{
		Find: func(ctx *steering.Context) (tasks.Target, bool) {
			if rng.Float64() < 0.5 {
				if site, ok := mem.Nearest(ctx.Pos); ok {
					return tasks.PosTarget(site), true
				}
			}
			angle := rng.Float64() * 2 * math.Pi
			dist := 8 * (0.3 + 0.7*rng.Float64())
			probe := ctx.Pos.Add(vec.New(math.Cos(angle)*dist, 0, math.Sin(angle)*dist))
			return tasks.PosTarget(probe), true
		},
		OnComplete: func(_ *steering.Context, t tasks.Target) {
			mem.Remember(t.Pos)
			s.collector.RecordTaskCompletion()
		},
		ArriveRadius:   cfg.ArriveRadius,
		ActDuration:    cfg.ActDuration,
		RescanInterval: cfg.RescanInterval,
		CooldownTicks:  cfg.CooldownTicks,
		Quota:          cfg.DailyQuota,
	}, 0.4)
}

func (s *Sim) clampToBounds(p vec.V) vec.V {
	clamp := func(v, max float64) float64 {
		if v < 0 {
			return 0
		}
		if v > max {
			return max
		}
		return v
	}
	return vec.New(
		clamp(p.X, s.cfg.World.SizeX),
		clamp(p.Y, s.cfg.World.SizeY),
		clamp(p.Z, s.cfg.World.SizeZ),
	)
}

// Run executes n ticks, flushing telemetry windows through emit. emit may
// be nil to discard windows.
func (s *Sim) Run(n int, emit func(telemetry.WindowStats) error) error {
	for i := 0; i < n; i++ {
		s.Step()
		if s.collector.ShouldFlush(s.tick) {
			stats := s.collector.Flush(s.tick, s.numGrazers, s.numHunters)
			if emit != nil {
				if err := emit(stats); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Tick returns the current tick count.
func (s *Sim) Tick() int64 {
	return s.tick
}

// MeanSpread returns the mean distance from each grazer to the centroid of
// its topological neighborhood, a flock-compactness metric used by tuning.
func (s *Sim) MeanSpread() float64 {
	s.world.RebuildGrid()

	total := 0.0
	samples := 0
	for _, a := range s.agents {
		if a.flocking == nil {
			continue
		}
		ctx, ok := steering.NewContext(s.world, a.entity, s.tick)
		if !ok {
			continue
		}
		_ = a.flocking.Calculate(ctx)
		neighbors := ctx.Neighbors(nil)
		if len(neighbors) == 0 {
			continue
		}
		center := ctx.Pos
		for _, n := range neighbors {
			center = center.Add(n.Pos)
		}
		center = center.Div(float64(len(neighbors) + 1))
		total += ctx.Pos.Dist(center)
		samples++
	}
	if samples == 0 {
		return 0
	}
	return total / float64(samples)
}
