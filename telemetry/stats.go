// Package telemetry provides read-only rolling statistics over the
// simulation. Nothing here mutates simulation state.
package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/mycelia/components"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	Population int `csv:"population"`
	Herbivores int `csv:"herbivores"`
	Carnivores int `csv:"carnivores"`
	Scavengers int `csv:"scavengers"`

	// Events during window
	Births           int `csv:"births"`
	Deaths           int `csv:"deaths"`
	StarvationDeaths int `csv:"deaths_starvation"`
	PredationDeaths  int `csv:"deaths_predation"`
	TrapDeaths       int `csv:"deaths_trap"`

	// Per-second rates over the recent tick ring
	BirthRate float64 `csv:"birth_rate"`
	DeathRate float64 `csv:"death_rate"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Diversity and lineage
	Diversity     float64 `csv:"diversity"`
	MaxGeneration int32   `csv:"max_generation"`

	// Fungal network
	FungalNodes int `csv:"fungal_nodes"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// RoleDiversity computes the normalized Shannon entropy of the role
// distribution, in [0, 1]. Tiny populations report full diversity so
// the metric does not flap while the ecosystem is seeding.
func RoleDiversity(counts [components.NumRoles]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total < 10 {
		return 1.0
	}

	p := make([]float64, 0, components.NumRoles)
	for _, c := range counts {
		if c > 0 {
			p = append(p, float64(c)/float64(total))
		}
	}

	h := stat.Entropy(p)
	d := h / math.Log(components.NumRoles)
	if d < 0 {
		return 0
	}
	if d > 1 {
		return 1
	}
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Int("scavengers", s.Scavengers),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("deaths_starvation", s.StarvationDeaths),
		slog.Int("deaths_predation", s.PredationDeaths),
		slog.Int("deaths_trap", s.TrapDeaths),
		slog.Float64("birth_rate", s.BirthRate),
		slog.Float64("death_rate", s.DeathRate),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("diversity", s.Diversity),
		slog.Int("max_generation", int(s.MaxGeneration)),
		slog.Int("fungal_nodes", s.FungalNodes),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"herbivores", s.Herbivores,
		"carnivores", s.Carnivores,
		"scavengers", s.Scavengers,
		"births", s.Births,
		"deaths", s.Deaths,
		"deaths_starvation", s.StarvationDeaths,
		"deaths_predation", s.PredationDeaths,
		"deaths_trap", s.TrapDeaths,
		"birth_rate", s.BirthRate,
		"death_rate", s.DeathRate,
		"energy_mean", s.EnergyMean,
		"energy_p10", s.EnergyP10,
		"energy_p50", s.EnergyP50,
		"energy_p90", s.EnergyP90,
		"diversity", s.Diversity,
		"max_generation", s.MaxGeneration,
		"fungal_nodes", s.FungalNodes,
	)
}
