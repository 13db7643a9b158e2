// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// A loaded Config is passed explicitly into the simulation context;
// there is no package-level instance.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Population PopulationConfig `yaml:"population"`
	Agent      AgentConfig      `yaml:"agent"`
	Herbivore  RoleConfig       `yaml:"herbivore"`
	Carnivore  RoleConfig       `yaml:"carnivore"`
	Scavenger  RoleConfig       `yaml:"scavenger"`
	Behavior   BehaviorConfig   `yaml:"behavior"`
	Trap       TrapConfig       `yaml:"trap"`
	Fungal     FungalConfig     `yaml:"fungal"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Seed       int64            `yaml:"seed"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions in world units.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig holds timestep and spatial grid parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`             // Nominal seconds per tick
	MaxDT        float64 `yaml:"max_dt"`         // Ticks with larger dt are clamped to this
	GridCellSize float64 `yaml:"grid_cell_size"` // Spatial grid cell size in world units
}

// PopulationConfig holds arena capacity and seeding parameters.
type PopulationConfig struct {
	Capacity            int     `yaml:"capacity"` // Hard arena slot count; spawns decline beyond this
	Initial             int     `yaml:"initial"`
	HerbivoreFraction   float64 `yaml:"herbivore_fraction"`
	ScavengerFraction   float64 `yaml:"scavenger_fraction"`
	SpawnRateMultiplier float64 `yaml:"spawn_rate_multiplier"` // Host throttle on reproduction probability
	Ceiling             int     `yaml:"ceiling"`               // Soft live-population cap (0 = capacity)
}

// AgentConfig holds shared agent movement parameters.
type AgentConfig struct {
	InitialEnergy float64 `yaml:"initial_energy"`
	MaxSpeed      float64 `yaml:"max_speed"`
	MaxForce      float64 `yaml:"max_force"`
}

// RoleConfig holds per-role energy and perception parameters.
type RoleConfig struct {
	Metabolism         float64 `yaml:"metabolism"` // Energy drain per second
	MaxEnergy          float64 `yaml:"max_energy"` // Feeding credits clamp here
	VisionRadius       float64 `yaml:"vision_radius"`
	ReproduceThreshold float64 `yaml:"reproduce_threshold"` // Energy above this may reproduce
	ReproduceCooldown  float64 `yaml:"reproduce_cooldown"`  // Seconds between reproductions
}

// BehaviorConfig holds flocking and interaction parameters.
type BehaviorConfig struct {
	SeparationRadius float64 `yaml:"separation_radius"`
	SeparationWeight float64 `yaml:"separation_weight"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	FleeRadius       float64 `yaml:"flee_radius"`     // Larger than vision; predators inside trigger flee
	FleeWeight       float64 `yaml:"flee_weight"`
	CaptureRadius    float64 `yaml:"capture_radius"`  // Carnivore contact distance for a kill
	FeedingCredit    float64 `yaml:"feeding_credit"`  // Energy credited to a carnivore per kill
	ScavengeRadius   float64 `yaml:"scavenge_radius"` // Scavenger contact distance for node consumption
	ScavengeCredit   float64 `yaml:"scavenge_credit"` // Energy credited per consumed fungal node
	GrazeRate        float64 `yaml:"graze_rate"`      // Herbivore ambient energy intake per second
}

// TrapConfig holds the chakravyu hazard region parameters.
type TrapConfig struct {
	Enabled      bool    `yaml:"enabled"`
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	Radius       float64 `yaml:"radius"`
	Pull         float64 `yaml:"pull"`          // Inward acceleration applied inside the region
	DwellTimeout int     `yaml:"dwell_timeout"` // Ticks inside before forced despawn
}

// FungalConfig holds fungal network growth parameters.
type FungalConfig struct {
	MaxNodes      int     `yaml:"max_nodes"`
	InitialHealth float64 `yaml:"initial_health"`
	DecayRate     float64 `yaml:"decay_rate"`     // Health lost per second
	ConnectRadius float64 `yaml:"connect_radius"` // New nodes link to existing nodes within this
	MaxEdges      int     `yaml:"max_edges"`      // Edge cap per new node, nearest-first
	SeedChance    float64 `yaml:"seed_chance"`    // Per-tick chance a foraging herbivore seeds a node
	VisualScale   float64 `yaml:"visual_scale"`   // Visual radius per unit health
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Stats flush window in simulation seconds
	WindowTicks int     `yaml:"window_ticks"` // Ring buffer length for per-tick birth/death rates
	PerfWindow  int     `yaml:"perf_window"`  // Perf collector rolling window in ticks
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32     float32 // Physics.DT as float32
	MaxDT32  float32 // Physics.MaxDT as float32
	WorldW32 float32
	WorldH32 float32
	Ceiling  int // Effective live-population cap
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
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

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.MaxDT32 = float32(c.Physics.MaxDT)
	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)

	ceiling := c.Population.Ceiling
	if ceiling <= 0 || ceiling > c.Population.Capacity {
		ceiling = c.Population.Capacity
	}
	c.Derived.Ceiling = ceiling
}

// Role returns the RoleConfig for the given role index
// (0 = herbivore, 1 = carnivore, 2 = scavenger).
func (c *Config) Role(idx int) *RoleConfig {
	switch idx {
	case 0:
		return &c.Herbivore
	case 1:
		return &c.Carnivore
	default:
		return &c.Scavenger
	}
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
