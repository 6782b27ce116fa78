// Package config provides configuration loading and access for the engine.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	World      WorldConfig               `yaml:"world"`
	Flocking   FlockingConfig            `yaml:"flocking"`
	Presets    map[string]FlockingConfig `yaml:"flocking_presets"`
	Predation  PredationConfig           `yaml:"predation"`
	Avoidance  AvoidanceConfig           `yaml:"avoidance"`
	Evasion    EvasionConfig             `yaml:"evasion"`
	Tasks      TasksConfig               `yaml:"tasks"`
	Population PopulationConfig          `yaml:"population"`
	Telemetry  TelemetryConfig           `yaml:"telemetry"`
}

// WorldConfig holds world bounds and spatial index parameters.
type WorldConfig struct {
	SizeX        float64 `yaml:"size_x"`
	SizeY        float64 `yaml:"size_y"`
	SizeZ        float64 `yaml:"size_z"`
	GridCellSize float64 `yaml:"grid_cell_size"`
	EnvCellSize  float64 `yaml:"env_cell_size"`
}

// FlockingConfig is an immutable-after-construction parameter bundle for the
// flocking subsystem. Weights must be non-negative and the speed/force caps
// strictly positive; Validate rejects anything else at construction time.
type FlockingConfig struct {
	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	NoiseWeight      float64 `yaml:"noise_weight"`

	DesiredSeparation float64 `yaml:"desired_separation"` // separation kicks in below this distance
	AlignmentRadius   float64 `yaml:"alignment_radius"`
	CohesionRadius    float64 `yaml:"cohesion_radius"`

	PerceptionRadius float64 `yaml:"perception_radius"` // neighbor search radius R
	PerceptionAngle  float64 `yaml:"perception_angle"`  // field of view in radians
	NeighborCount    int     `yaml:"neighbor_count"`    // topological cap N (animal flocks track 5-7)

	MaxSpeed float64 `yaml:"max_speed"`
	MaxForce float64 `yaml:"max_force"`
}

// Validate rejects parameter bundles that indicate a programming or config
// mistake: negative weights, non-positive caps, or a degenerate perception
// volume.
func (f *FlockingConfig) Validate() error {
	for name, w := range map[string]float64{
		"separation_weight": f.SeparationWeight,
		"alignment_weight":  f.AlignmentWeight,
		"cohesion_weight":   f.CohesionWeight,
		"noise_weight":      f.NoiseWeight,
	} {
		if w < 0 {
			return fmt.Errorf("flocking: %s must be non-negative, got %g", name, w)
		}
	}
	if f.MaxSpeed <= 0 {
		return fmt.Errorf("flocking: max_speed must be positive, got %g", f.MaxSpeed)
	}
	if f.MaxForce <= 0 {
		return fmt.Errorf("flocking: max_force must be positive, got %g", f.MaxForce)
	}
	if f.PerceptionRadius <= 0 {
		return fmt.Errorf("flocking: perception_radius must be positive, got %g", f.PerceptionRadius)
	}
	if f.PerceptionAngle <= 0 || f.PerceptionAngle > 2*math.Pi {
		return fmt.Errorf("flocking: perception_angle must be in (0, 2pi], got %g", f.PerceptionAngle)
	}
	if f.NeighborCount <= 0 {
		return fmt.Errorf("flocking: neighbor_count must be positive, got %d", f.NeighborCount)
	}
	return nil
}

// PredationConfig holds prey selection and pursuit parameters.
type PredationConfig struct {
	MaxDistance      float64 `yaml:"max_distance"`       // detection range for prey scanning
	MinEngageDist    float64 `yaml:"min_engage_dist"`    // below this the predator attacks instead of steering
	HysteresisFactor float64 `yaml:"hysteresis_factor"`  // keep current target up to this multiple of MaxDistance
	SizeWeight       float64 `yaml:"size_weight"`        // scales the size-ratio cost term
	PackRadius       float64 `yaml:"pack_radius"`        // radius for counting prey defenders (dilution cost)
	MinSizeRatio     float64 `yaml:"min_size_ratio"`     // prey height floor relative to predator height
	MaxSizeRatio     float64 `yaml:"max_size_ratio"`     // prey height ceiling relative to predator height
}

// AvoidanceConfig holds the Flight Initiation Distance model parameters.
type AvoidanceConfig struct {
	BaseFID           float64 `yaml:"base_fid"`
	ScanRadius        float64 `yaml:"scan_radius"`         // threat scan range
	RefugeDistance    float64 `yaml:"refuge_distance"`     // refuge must be within this to count
	RefugeFactor      float64 `yaml:"refuge_factor"`       // FID multiplier with refuge nearby
	NoRefugeFactor    float64 `yaml:"no_refuge_factor"`    // FID multiplier without refuge
	FastThreshold     float64 `yaml:"fast_threshold"`      // threat speed above this is "fast"
	ThreatSpeedFactor float64 `yaml:"threat_speed_factor"` // FID multiplier for fast threats
	JuvenileFactor    float64 `yaml:"juvenile_factor"`
	InjuredFactor     float64 `yaml:"injured_factor"`
	DilutionFactor    float64 `yaml:"dilution_factor"`    // FID multiplier in a large enough group
	DilutionGroupSize int     `yaml:"dilution_group_size"` // conspecifics required for dilution
	GroupRadius       float64 `yaml:"group_radius"`        // radius for counting conspecifics
	MaxSpeedFactor    float64 `yaml:"max_speed_factor"`    // flee speed cap as multiple of nominal speed
}

// EvasionConfig holds reactive-flee parameters.
type EvasionConfig struct {
	DetectionRange float64 `yaml:"detection_range"` // engage when nearest threat is closer than this
	SafetyDistance float64 `yaml:"safety_distance"` // disengage only beyond this
	ZigzagPeriod   int     `yaml:"zigzag_period"`   // ticks between zigzag sign flips
	ZigzagStrength float64 `yaml:"zigzag_strength"` // perpendicular component scale
}

// TasksConfig holds defaults for search-approach-act task behaviors.
type TasksConfig struct {
	RescanInterval int     `yaml:"rescan_interval"` // ticks between target re-scans while searching
	ArriveRadius   float64 `yaml:"arrive_radius"`
	ActDuration    int     `yaml:"act_duration"` // ticks spent acting at the target
	CooldownTicks  int     `yaml:"cooldown_ticks"`
	DailyQuota     int     `yaml:"daily_quota"` // completions before cooldown, 0 = unlimited
	MemorySize     int     `yaml:"memory_size"` // remembered good sites per task
}

// PopulationConfig holds scenario population parameters for the headless host.
type PopulationConfig struct {
	Animals   int   `yaml:"animals"`
	Predators int   `yaml:"predators"`
	Seed      int64 `yaml:"seed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. Invalid configuration
// fails here, loudly, rather than surfacing as runtime behavior.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the full configuration, including every named preset.
func (c *Config) Validate() error {
	if err := c.Flocking.Validate(); err != nil {
		return err
	}
	for name, preset := range c.Presets {
		p := preset
		if err := p.Validate(); err != nil {
			return fmt.Errorf("preset %q: %w", name, err)
		}
	}
	if c.World.GridCellSize <= 0 {
		return fmt.Errorf("world: grid_cell_size must be positive, got %g", c.World.GridCellSize)
	}
	return nil
}

// Preset returns the named flocking preset.
func (c *Config) Preset(name string) (FlockingConfig, error) {
	p, ok := c.Presets[name]
	if !ok {
		return FlockingConfig{}, fmt.Errorf("unknown flocking preset %q", name)
	}
	return p, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
