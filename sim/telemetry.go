package sim

import "log/slog"

// sampleTelemetry closes out the tick's event counters and flushes a
// stats window when due. Sampling reads simulation state but never
// mutates it.
func (s *Simulation) sampleTelemetry(dt float32) {
	s.collector.EndTick(dt)

	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	energies := s.sampleEnergies()
	stats := s.collector.Flush(s.tick, s.roleCounts, energies, s.maxGeneration, s.fungal.Len())
	perfStats := s.perf.Stats()

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// sampleEnergies collects energy values of alive agents for percentile
// calculation.
func (s *Simulation) sampleEnergies() []float64 {
	energies := make([]float64, 0, s.aliveCount)

	query := s.agentFilter.Query()
	for query.Next() {
		_, _, energy, _ := query.Get()
		if energy.Alive {
			energies = append(energies, float64(energy.Value))
		}
	}

	return energies
}
