package sim

import (
	"github.com/pthm-cable/mycelia/components"
	"github.com/pthm-cable/mycelia/telemetry"
)

// updateEnergy applies metabolism, herbivore grazing, starvation, and
// reproduction checks. Energy is clamped at zero, never negative;
// agents at zero are queued for despawn, not removed mid-iteration.
func (s *Simulation) updateEnergy(dt float32) {
	cfg := s.cfg
	grazeRate := float32(cfg.Behavior.GrazeRate)
	seedChance := float32(cfg.Fungal.SeedChance)
	multiplier := cfg.Population.SpawnRateMultiplier

	query := s.agentFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, _, energy, agent := query.Get()

		if !energy.Alive {
			continue
		}

		rc := s.roleCfg(agent.Role)

		energy.Age++
		if agent.ReproCooldown > 0 {
			agent.ReproCooldown -= dt
			if agent.ReproCooldown < 0 {
				agent.ReproCooldown = 0
			}
		}

		// Herbivores graze ambient biomass while not fleeing, and
		// sustained foraging occasionally seeds the fungal network.
		if agent.Role == components.RoleHerbivore && agent.State != components.StateFlee {
			energy.Value = clampEnergy(energy.Value+grazeRate*dt, rc.MaxEnergy)
			if s.rng.Float32() < seedChance {
				s.fungal.Spawn(pos.X, pos.Y, s.tick)
			}
		}

		energy.Value -= rc.Metabolism * dt
		if energy.Value <= 0 {
			energy.Value = 0
			s.queueDeath(entity, agent, energy, pos, telemetry.DeathStarvation)
			continue
		}

		// Reproduction: over threshold, off cooldown, and past the
		// host's spawn rate throttle. The actual spawn happens after
		// the pass; it declines silently at capacity.
		if energy.Value >= rc.ReproduceThreshold && agent.ReproCooldown <= 0 {
			if multiplier >= 1 || s.rng.Float64() < multiplier {
				s.birthBuf = append(s.birthBuf, pendingBirth{
					parent: entity,
					role:   agent.Role,
					x:      pos.X,
					y:      pos.Y,
					gen:    agent.Generation + 1,
				})
			}
		}
	}
}
