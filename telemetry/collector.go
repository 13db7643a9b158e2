package telemetry

import "github.com/pthm-cable/mycelia/components"

// DeathCause classifies why an agent was despawned.
type DeathCause uint8

const (
	DeathStarvation DeathCause = iota
	DeathPredation
	DeathTrap
)

// Collector accumulates birth/death events within time windows and
// produces WindowStats. It also keeps fixed-length ring buffers of
// per-tick births and deaths for short-horizon rate estimates; an
// empty ring reports zero rates rather than failing.
type Collector struct {
	windowDurationTicks int32

	windowStartTick int32

	// Event counters for current window
	births      [components.NumRoles]int
	deaths      [components.NumRoles]int
	deathCauses [3]int

	// Per-tick rings for rate estimates. dtRing holds the dt actually
	// stepped each tick, so rates stay correct under variable dt.
	birthRing  []int
	deathRing  []int
	dtRing     []float32
	ringIdx    int
	ringCount  int
	tickBirths int
	tickDeaths int

	simTime float64 // Total simulation seconds actually stepped
}

// NewCollector creates a stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: nominal seconds per tick (sets the flush cadence in ticks)
// ringTicks: length of the per-tick birth/death rings
func NewCollector(windowDurationSec float64, dt float32, ringTicks int) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	if ringTicks < 1 {
		ringTicks = 1
	}

	return &Collector{
		windowDurationTicks: ticksPerWindow,
		birthRing:           make([]int, ringTicks),
		deathRing:           make([]int, ringTicks),
		dtRing:              make([]float32, ringTicks),
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(role components.Role) {
	c.births[role]++
	c.tickBirths++
}

// RecordDeath records a death event with its cause.
func (c *Collector) RecordDeath(role components.Role, cause DeathCause) {
	c.deaths[role]++
	c.deathCauses[cause]++
	c.tickDeaths++
}

// EndTick pushes the current tick's event counts into the rings and
// accrues the dt that was actually stepped. Call exactly once per
// simulation tick, after all events are recorded.
func (c *Collector) EndTick(dt float32) {
	c.birthRing[c.ringIdx] = c.tickBirths
	c.deathRing[c.ringIdx] = c.tickDeaths
	c.dtRing[c.ringIdx] = dt
	c.ringIdx = (c.ringIdx + 1) % len(c.birthRing)
	if c.ringCount < len(c.birthRing) {
		c.ringCount++
	}
	c.tickBirths = 0
	c.tickDeaths = 0
	c.simTime += float64(dt)
}

// WindowBirths returns total births recorded in the current window.
func (c *Collector) WindowBirths() int {
	total := 0
	for _, b := range c.births {
		total += b
	}
	return total
}

// WindowDeaths returns total deaths recorded in the current window.
func (c *Collector) WindowDeaths() int {
	total := 0
	for _, d := range c.deaths {
		total += d
	}
	return total
}

// rates returns births and deaths per simulation second over the ring.
// The span is the sum of the dt values actually stepped, not the
// nominal tick length.
func (c *Collector) rates() (birthRate, deathRate float64) {
	if c.ringCount == 0 {
		return 0, 0
	}
	var births, deaths int
	var span float64
	for i := 0; i < c.ringCount; i++ {
		births += c.birthRing[i]
		deaths += c.deathRing[i]
		span += float64(c.dtRing[i])
	}
	if span <= 0 {
		return 0, 0
	}
	return float64(births) / span, float64(deaths) / span
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the current population census, sampled energy
// values, the highest generation seen, and the fungal node count.
func (c *Collector) Flush(
	currentTick int32,
	roleCounts [components.NumRoles]int,
	energies []float64,
	maxGeneration int32,
	fungalNodes int,
) WindowStats {
	mean, p10, p50, p90 := ComputeEnergyStats(energies)
	birthRate, deathRate := c.rates()

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      c.simTime,

		Population: roleCounts[0] + roleCounts[1] + roleCounts[2],
		Herbivores: roleCounts[components.RoleHerbivore],
		Carnivores: roleCounts[components.RoleCarnivore],
		Scavengers: roleCounts[components.RoleScavenger],

		Births:           c.WindowBirths(),
		Deaths:           c.WindowDeaths(),
		StarvationDeaths: c.deathCauses[DeathStarvation],
		PredationDeaths:  c.deathCauses[DeathPredation],
		TrapDeaths:       c.deathCauses[DeathTrap],

		BirthRate: birthRate,
		DeathRate: deathRate,

		EnergyMean: mean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		Diversity:     RoleDiversity(roleCounts),
		MaxGeneration: maxGeneration,

		FungalNodes: fungalNodes,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = [components.NumRoles]int{}
	c.deaths = [components.NumRoles]int{}
	c.deathCauses = [3]int{}

	return stats
}
