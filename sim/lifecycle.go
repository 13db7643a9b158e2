package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mycelia/components"
	"github.com/pthm-cable/mycelia/systems"
	"github.com/pthm-cable/mycelia/telemetry"
)

// seedPopulation creates the starting agents with the configured role
// mix: herbivores first, then scavengers, carnivores take the rest.
func (s *Simulation) seedPopulation() {
	cfg := s.cfg

	for i := 0; i < cfg.Population.Initial; i++ {
		x := s.rng.Float32() * cfg.Derived.WorldW32
		y := s.rng.Float32() * cfg.Derived.WorldH32

		role := components.RoleCarnivore
		roll := s.rng.Float64()
		if roll < cfg.Population.HerbivoreFraction {
			role = components.RoleHerbivore
		} else if roll < cfg.Population.HerbivoreFraction+cfg.Population.ScavengerFraction {
			role = components.RoleScavenger
		}

		s.spawnAgent(role, x, y, float32(cfg.Agent.InitialEnergy), 0)
	}
}

// spawnAgent creates a new agent. It declines, returning a zero entity
// and false, when the live population has reached the configured
// ceiling; capacity exhaustion is expected under spawn pressure, not
// an error.
func (s *Simulation) spawnAgent(role components.Role, x, y, energy float32, generation int32) (ecs.Entity, bool) {
	if s.aliveCount >= s.cfg.Derived.Ceiling {
		return ecs.Entity{}, false
	}

	id := s.nextID
	s.nextID++

	pos := components.Position{X: x, Y: y}
	vel := components.Velocity{
		X: (s.rng.Float32()*2 - 1) * float32(s.cfg.Agent.MaxSpeed) * 0.25,
		Y: (s.rng.Float32()*2 - 1) * float32(s.cfg.Agent.MaxSpeed) * 0.25,
	}
	en := components.Energy{Value: energy, Age: 0, Alive: true}
	agent := components.Agent{
		ID:         id,
		Role:       role,
		State:      components.StateWander,
		Generation: generation,
	}

	entity := s.agentMapper.NewEntity(&pos, &vel, &en, &agent)

	s.aliveCount++
	s.roleCounts[role]++
	if generation > s.maxGeneration {
		s.maxGeneration = generation
	}

	return entity, true
}

// despawn removes an agent. Safe on stale handles: the entity's
// generation is checked by the world, so despawning an already-removed
// agent is a no-op.
func (s *Simulation) despawn(entity ecs.Entity, role components.Role) {
	if !s.world.Alive(entity) {
		return
	}

	s.agentMapper.Remove(entity)
	s.aliveCount--
	s.roleCounts[role]--
}

// queueDeath marks an agent dead and schedules its despawn for the
// cleanup phase. Deaths are never applied mid-iteration.
func (s *Simulation) queueDeath(entity ecs.Entity, agent *components.Agent, energy *components.Energy, pos *components.Position, cause telemetry.DeathCause) {
	if !energy.Alive {
		return
	}
	energy.Alive = false
	s.deathBuf = append(s.deathBuf, pendingDeath{
		entity: entity,
		role:   agent.Role,
		cause:  cause,
		x:      pos.X,
		y:      pos.Y,
	})
}

// cleanupDead applies all queued deaths: despawn, telemetry, and
// fungal seeding at the death position.
func (s *Simulation) cleanupDead() {
	for i := range s.deathBuf {
		d := &s.deathBuf[i]
		s.despawn(d.entity, d.role)
		s.collector.RecordDeath(d.role, d.cause)
		s.fungal.Spawn(d.x, d.y, s.tick)
	}
	s.deathBuf = s.deathBuf[:0]
}

// applyBirths spawns queued offspring. The parent pays the energy
// split only when the spawn succeeds, so a declined spawn leaves the
// parent untouched.
func (s *Simulation) applyBirths() {
	cfg := s.cfg

	for i := range s.birthBuf {
		b := &s.birthBuf[i]

		parentEnergy := s.energyMap.Get(b.parent)
		parentAgent := s.agentMap.Get(b.parent)
		if parentEnergy == nil || parentAgent == nil || !parentEnergy.Alive {
			continue
		}

		// Offspring appears near the parent with a small seeded jitter.
		offset := float32(cfg.Behavior.SeparationRadius)
		x := systems.Mod(b.x+(s.rng.Float32()*2-1)*offset, cfg.Derived.WorldW32)
		y := systems.Mod(b.y+(s.rng.Float32()*2-1)*offset, cfg.Derived.WorldH32)

		childEnergy := parentEnergy.Value / 2

		if _, ok := s.spawnAgent(b.role, x, y, childEnergy, b.gen); !ok {
			continue
		}

		parentEnergy.Value -= childEnergy
		parentAgent.ReproCooldown = s.roleCfg(b.role).ReproduceCooldown
		s.collector.RecordBirth(b.role)
	}
	s.birthBuf = s.birthBuf[:0]
}

// roleCfg returns the config block for a role.
func (s *Simulation) roleCfg(role components.Role) *roleParams {
	return &s.roles[role]
}
