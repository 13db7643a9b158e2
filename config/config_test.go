package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.World.Width <= 0 || cfg.World.Height <= 0 {
		t.Errorf("world dimensions = %dx%d, want positive", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Physics.DT <= 0 {
		t.Errorf("dt = %f, want positive", cfg.Physics.DT)
	}
	if cfg.Physics.MaxDT < cfg.Physics.DT {
		t.Errorf("max_dt %f < dt %f", cfg.Physics.MaxDT, cfg.Physics.DT)
	}
	if cfg.Population.Capacity <= 0 {
		t.Errorf("capacity = %d, want positive", cfg.Population.Capacity)
	}
	if cfg.Population.Initial > cfg.Population.Capacity {
		t.Errorf("initial %d exceeds capacity %d", cfg.Population.Initial, cfg.Population.Capacity)
	}

	frac := cfg.Population.HerbivoreFraction + cfg.Population.ScavengerFraction
	if frac <= 0 || frac > 1 {
		t.Errorf("role fractions sum = %f, want (0, 1]", frac)
	}
}

func TestLoadComputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Derived.DT32 != float32(cfg.Physics.DT) {
		t.Errorf("DT32 = %f, want %f", cfg.Derived.DT32, float32(cfg.Physics.DT))
	}
	if cfg.Derived.WorldW32 != float32(cfg.World.Width) {
		t.Errorf("WorldW32 = %f, want %d", cfg.Derived.WorldW32, cfg.World.Width)
	}
	if cfg.Derived.Ceiling != cfg.Population.Capacity {
		t.Errorf("Ceiling = %d, want capacity %d (defaults leave ceiling unset)",
			cfg.Derived.Ceiling, cfg.Population.Capacity)
	}
}

func TestCeilingClampedToCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		ceiling  int
		want     int
	}{
		{"unset falls back to capacity", 1024, 0, 1024},
		{"below capacity kept", 1024, 500, 500},
		{"above capacity clamped", 1024, 5000, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Population.Capacity = tt.capacity
			cfg.Population.Ceiling = tt.ceiling
			cfg.computeDerived()

			if cfg.Derived.Ceiling != tt.want {
				t.Errorf("Ceiling = %d, want %d", cfg.Derived.Ceiling, tt.want)
			}
		})
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	override := []byte("world:\n  width: 640\npopulation:\n  capacity: 64\nseed: 7\n")
	if err := os.WriteFile(path, override, 0644); err != nil {
		t.Fatalf("writing override: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.World.Width != 640 {
		t.Errorf("width = %d, want 640", cfg.World.Width)
	}
	if cfg.Population.Capacity != 64 {
		t.Errorf("capacity = %d, want 64", cfg.Population.Capacity)
	}
	if cfg.Seed != 7 {
		t.Errorf("seed = %d, want 7", cfg.Seed)
	}

	// Fields absent from the override keep their defaults.
	defaults, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	if cfg.World.Height != defaults.World.Height {
		t.Errorf("height = %d, want default %d", cfg.World.Height, defaults.World.Height)
	}
	if cfg.Herbivore.Metabolism != defaults.Herbivore.Metabolism {
		t.Errorf("herbivore metabolism = %f, want default %f",
			cfg.Herbivore.Metabolism, defaults.Herbivore.Metabolism)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load with missing file should return an error")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if loaded.World.Width != cfg.World.Width || loaded.Seed != cfg.Seed {
		t.Error("written config does not round-trip")
	}
}
