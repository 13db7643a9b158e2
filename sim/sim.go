// Package sim implements the simulation context: agent lifecycle,
// behavior, energy model, fungal growth, and the per-tick pipeline.
package sim

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mycelia/components"
	"github.com/pthm-cable/mycelia/config"
	"github.com/pthm-cable/mycelia/systems"
	"github.com/pthm-cable/mycelia/telemetry"
)

// Options holds runtime knobs supplied by the host, separate from the
// config file.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
}

// Simulation owns all mutable simulation state. There is exactly one
// writer: the host calls Step, which runs the pipeline to completion
// before returning. No package-level state exists.
type Simulation struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	world *ecs.World

	agentMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Energy,
		components.Agent,
	]
	agentFilter *ecs.Filter4[
		components.Position,
		components.Velocity,
		components.Energy,
		components.Agent,
	]

	// Individual component mappers for lookups by entity
	posMap    *ecs.Map1[components.Position]
	velMap    *ecs.Map1[components.Velocity]
	energyMap *ecs.Map1[components.Energy]
	agentMap  *ecs.Map1[components.Agent]

	grid   *systems.SpatialGrid
	fungal *systems.FungalNetwork

	// Per-role parameters precomputed as float32 for the hot path
	roles [components.NumRoles]roleParams

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool

	tick          int32
	nextID        uint32
	aliveCount    int
	maxGeneration int32
	roleCounts    [components.NumRoles]int

	// Scratch buffers reused across ticks to avoid steady-state allocation
	queryBuf []systems.Neighbor
	mateBuf  []systems.Flockmate
	deathBuf []pendingDeath
	birthBuf []pendingBirth
}

// roleParams mirrors config.RoleConfig as float32 values.
type roleParams struct {
	Metabolism         float32
	MaxEnergy          float32
	VisionRadius       float32
	ReproduceThreshold float32
	ReproduceCooldown  float32
}

type pendingDeath struct {
	entity ecs.Entity
	role   components.Role
	cause  telemetry.DeathCause
	x, y   float32
}

type pendingBirth struct {
	parent ecs.Entity
	role   components.Role
	x, y   float32
	gen    int32
}

// New creates a simulation from the given config and options and seeds
// the initial population.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Seed
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}
	if output != nil {
		slog.Info("output enabled", "dir", output.Dir())
	}

	s := &Simulation{
		output:   output,
		logStats: opts.LogStats,
	}
	s.init(cfg, seed, statsWindow)

	return s, nil
}

// init builds all simulation state from scratch. Used by New and Reset.
func (s *Simulation) init(cfg *config.Config, seed int64, statsWindow float64) {
	world := ecs.NewWorld()

	s.cfg = cfg
	s.seed = seed
	s.rng = rand.New(rand.NewSource(seed))
	s.world = world

	s.agentMapper = ecs.NewMap4[
		components.Position,
		components.Velocity,
		components.Energy,
		components.Agent,
	](world)
	s.agentFilter = ecs.NewFilter4[
		components.Position,
		components.Velocity,
		components.Energy,
		components.Agent,
	](world)

	s.posMap = ecs.NewMap1[components.Position](world)
	s.velMap = ecs.NewMap1[components.Velocity](world)
	s.energyMap = ecs.NewMap1[components.Energy](world)
	s.agentMap = ecs.NewMap1[components.Agent](world)

	s.grid = systems.NewSpatialGrid(
		cfg.Derived.WorldW32,
		cfg.Derived.WorldH32,
		float32(cfg.Physics.GridCellSize),
	)

	s.fungal = systems.NewFungalNetwork(systems.FungalParams{
		MaxNodes:      cfg.Fungal.MaxNodes,
		InitialHealth: float32(cfg.Fungal.InitialHealth),
		DecayRate:     float32(cfg.Fungal.DecayRate),
		ConnectRadius: float32(cfg.Fungal.ConnectRadius),
		MaxEdges:      cfg.Fungal.MaxEdges,
		WorldW:        cfg.Derived.WorldW32,
		WorldH:        cfg.Derived.WorldH32,
	})

	for i := 0; i < components.NumRoles; i++ {
		rc := cfg.Role(i)
		s.roles[i] = roleParams{
			Metabolism:         float32(rc.Metabolism),
			MaxEnergy:          float32(rc.MaxEnergy),
			VisionRadius:       float32(rc.VisionRadius),
			ReproduceThreshold: float32(rc.ReproduceThreshold),
			ReproduceCooldown:  float32(rc.ReproduceCooldown),
		}
	}

	s.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT32, cfg.Telemetry.WindowTicks)
	s.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)

	s.tick = 0
	s.nextID = 0
	s.aliveCount = 0
	s.maxGeneration = 0
	s.roleCounts = [components.NumRoles]int{}

	s.queryBuf = s.queryBuf[:0]
	s.mateBuf = s.mateBuf[:0]
	s.deathBuf = s.deathBuf[:0]
	s.birthBuf = s.birthBuf[:0]

	s.seedPopulation()
}

// Reset reinitializes the simulation wholesale with a new config and
// seed. Partial resets are not supported; everything is rebuilt.
func (s *Simulation) Reset(cfg *config.Config, seed int64) {
	statsWindow := cfg.Telemetry.StatsWindow
	s.init(cfg, seed, statsWindow)
}

// Close releases output resources.
func (s *Simulation) Close() error {
	return s.output.Close()
}

// TickCount returns the number of completed ticks.
func (s *Simulation) TickCount() int32 {
	return s.tick
}

// Seed returns the RNG seed this run started from.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// AliveCount returns the current live population.
func (s *Simulation) AliveCount() int {
	return s.aliveCount
}

// RoleCounts returns the live population broken down by role.
func (s *Simulation) RoleCounts() [components.NumRoles]int {
	return s.roleCounts
}

// FungalNodeCount returns the number of live fungal nodes.
func (s *Simulation) FungalNodeCount() int {
	return s.fungal.Len()
}
