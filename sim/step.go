package sim

import (
	"github.com/pthm-cable/mycelia/telemetry"
)

// Step advances the simulation by one tick. dt is clamped to the
// configured maximum so frame hitches cannot destabilize integration;
// non-positive dt is ignored. The pipeline is a strict sequence and
// runs to completion before returning.
func (s *Simulation) Step(dt float32) {
	if dt <= 0 {
		return
	}
	if dt > s.cfg.Derived.MaxDT32 {
		dt = s.cfg.Derived.MaxDT32
	}

	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseSpatialGrid)
	s.rebuildGrid()

	s.perf.StartPhase(telemetry.PhaseBehavior)
	s.updateBehavior(dt)

	s.perf.StartPhase(telemetry.PhaseInteractions)
	s.updateInteractions()

	s.perf.StartPhase(telemetry.PhaseEnergy)
	s.updateEnergy(dt)

	s.perf.StartPhase(telemetry.PhaseCleanup)
	s.cleanupDead()
	s.applyBirths()

	s.perf.StartPhase(telemetry.PhaseFungal)
	s.fungal.Decay(dt)

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.sampleTelemetry(dt)

	s.perf.EndTick()
	s.tick++
}

// rebuildGrid clears the spatial index and re-inserts all alive agents.
func (s *Simulation) rebuildGrid() {
	s.grid.Clear()

	query := s.agentFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, _, energy, _ := query.Get()

		if energy.Alive {
			s.grid.Insert(entity, pos.X, pos.Y)
		}
	}
}
