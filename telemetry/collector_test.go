package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/mycelia/components"
)

func TestCollectorWindowCounters(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0, 600)

	c.RecordBirth(components.RoleHerbivore)
	c.RecordBirth(components.RoleHerbivore)
	c.RecordBirth(components.RoleScavenger)
	c.RecordDeath(components.RoleCarnivore, DeathStarvation)
	c.RecordDeath(components.RoleHerbivore, DeathPredation)
	c.EndTick(1.0 / 60.0)

	if got := c.WindowBirths(); got != 3 {
		t.Errorf("WindowBirths = %d, want 3", got)
	}
	if got := c.WindowDeaths(); got != 2 {
		t.Errorf("WindowDeaths = %d, want 2", got)
	}
}

func TestCollectorShouldFlush(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0, 600)

	if c.ShouldFlush(30) {
		t.Error("ShouldFlush(30) = true before window elapsed")
	}
	if !c.ShouldFlush(60) {
		t.Error("ShouldFlush(60) = false at window boundary")
	}
}

func TestCollectorFlushResetsCounters(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0, 600)

	c.RecordBirth(components.RoleHerbivore)
	c.RecordDeath(components.RoleHerbivore, DeathTrap)
	c.EndTick(1.0 / 60.0)

	counts := [components.NumRoles]int{10, 5, 5}
	stats := c.Flush(60, counts, []float64{100, 120}, 3, 7)

	if stats.Births != 1 || stats.Deaths != 1 {
		t.Errorf("stats births/deaths = %d/%d, want 1/1", stats.Births, stats.Deaths)
	}
	if stats.TrapDeaths != 1 {
		t.Errorf("TrapDeaths = %d, want 1", stats.TrapDeaths)
	}
	if stats.Population != 20 {
		t.Errorf("Population = %d, want 20", stats.Population)
	}
	if stats.MaxGeneration != 3 {
		t.Errorf("MaxGeneration = %d, want 3", stats.MaxGeneration)
	}
	if stats.FungalNodes != 7 {
		t.Errorf("FungalNodes = %d, want 7", stats.FungalNodes)
	}

	// Counters reset, window advances.
	if c.WindowBirths() != 0 || c.WindowDeaths() != 0 {
		t.Error("counters not reset after flush")
	}
	if c.ShouldFlush(60) {
		t.Error("ShouldFlush immediately after flush")
	}
}

func TestCollectorEmptyWindowIsBaseline(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0, 600)

	stats := c.Flush(60, [components.NumRoles]int{}, nil, 0, 0)

	if stats.Births != 0 || stats.Deaths != 0 {
		t.Errorf("empty window births/deaths = %d/%d, want 0/0", stats.Births, stats.Deaths)
	}
	if stats.BirthRate != 0 || stats.DeathRate != 0 {
		t.Errorf("empty ring rates = %f/%f, want 0/0", stats.BirthRate, stats.DeathRate)
	}
	if stats.EnergyMean != 0 {
		t.Errorf("EnergyMean = %f, want 0", stats.EnergyMean)
	}
}

func TestCollectorRates(t *testing.T) {
	dt := float32(1.0 / 60.0)
	c := NewCollector(10.0, dt, 600)

	// One birth per tick for 60 ticks = 60 births per second.
	for i := 0; i < 60; i++ {
		c.RecordBirth(components.RoleHerbivore)
		c.EndTick(dt)
	}

	birthRate, deathRate := c.rates()
	if math.Abs(birthRate-60) > 1e-3 {
		t.Errorf("birthRate = %f, want 60", birthRate)
	}
	if deathRate != 0 {
		t.Errorf("deathRate = %f, want 0", deathRate)
	}
}

func TestCollectorRatesUnderVariableDT(t *testing.T) {
	c := NewCollector(10.0, 1.0/60.0, 600)

	// Ten ticks stepped at 0.1 s each: 10 births over 1 s of sim time.
	// The span comes from the stepped dt, not the nominal tick length.
	for i := 0; i < 10; i++ {
		c.RecordBirth(components.RoleHerbivore)
		c.EndTick(0.1)
	}

	birthRate, _ := c.rates()
	if math.Abs(birthRate-10) > 1e-3 {
		t.Errorf("birthRate = %f, want 10", birthRate)
	}
}

func TestCollectorSimTimeAccumulatesSteppedDT(t *testing.T) {
	c := NewCollector(1.0, 1.0/60.0, 600)

	for i := 0; i < 5; i++ {
		c.EndTick(0.05)
	}
	for i := 0; i < 5; i++ {
		c.EndTick(0.1)
	}

	stats := c.Flush(10, [components.NumRoles]int{}, nil, 0, 0)
	if math.Abs(stats.SimTimeSec-0.75) > 1e-6 {
		t.Errorf("SimTimeSec = %f, want 0.75", stats.SimTimeSec)
	}
}
