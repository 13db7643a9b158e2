package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/mycelia/config"
	"github.com/pthm-cable/mycelia/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, -1 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per loop iteration")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed < 0 {
		rngSeed = time.Now().UnixNano()
	}

	s, err := sim.New(cfg, sim.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	slog.Info("starting simulation",
		"seed", s.Seed(),
		"population", s.AliveCount(),
		"max_ticks", *maxTicks,
		"steps_per_update", *stepsPerUpdate,
	)

	dt := cfg.Derived.DT32
	for {
		for i := 0; i < *stepsPerUpdate; i++ {
			s.Step(dt)
		}

		if *maxTicks > 0 && int(s.TickCount()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", s.TickCount(), "population", s.AliveCount())
			return
		}

		if s.AliveCount() == 0 {
			slog.Info("population extinct", "tick", s.TickCount())
			return
		}
	}
}
