package sim

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mycelia/components"
	"github.com/pthm-cable/mycelia/systems"
	"github.com/pthm-cable/mycelia/telemetry"
)

// updateBehavior runs the per-agent decision and motion pass: neighbor
// gathering, state selection, steering forces, the trap hazard, and
// integration with toroidal wrap.
func (s *Simulation) updateBehavior(dt float32) {
	cfg := s.cfg
	maxSpeed := float32(cfg.Agent.MaxSpeed)
	maxForce := float32(cfg.Agent.MaxForce)
	fleeRadius := float32(cfg.Behavior.FleeRadius)
	fleeWeight := float32(cfg.Behavior.FleeWeight)
	scavengeSeek := float32(cfg.Behavior.CohesionWeight) * maxForce

	params := systems.FlockParams{
		SeparationRadius: float32(cfg.Behavior.SeparationRadius),
		SeparationWeight: float32(cfg.Behavior.SeparationWeight),
		CohesionWeight:   float32(cfg.Behavior.CohesionWeight),
		AlignmentWeight:  float32(cfg.Behavior.AlignmentWeight),
		MaxForce:         maxForce,
	}

	query := s.agentFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, vel, energy, agent := query.Get()

		if !energy.Alive {
			continue
		}

		// Trap hazard first: dwell accounting can kill regardless of
		// anything else this tick.
		if cfg.Trap.Enabled && s.applyTrap(entity, pos, vel, energy, agent, dt) {
			continue
		}

		// Herbivores watch a larger radius than they flock over so
		// predators are seen before they are neighbors.
		searchRadius := s.roleCfg(agent.Role).VisionRadius
		if agent.Role == components.RoleHerbivore && fleeRadius > searchRadius {
			searchRadius = fleeRadius
		}

		s.queryBuf = s.grid.QueryRadiusInto(s.queryBuf[:0], pos.X, pos.Y, searchRadius, entity, s.posMap)
		s.mateBuf = s.collectFlockmates(s.mateBuf[:0], s.queryBuf)

		var fx, fy float32

		switch agent.Role {
		case components.RoleHerbivore:
			threat := s.nearestThreat(s.mateBuf, fleeRadius)
			if threat >= 0 {
				// Nearest threat dominates every other force this tick.
				agent.State = components.StateFlee
				fx, fy = systems.FleeForce(&s.mateBuf[threat], fleeRadius, fleeWeight)
				fx, fy = systems.ClampMagnitude(fx, fy, maxForce)
			} else {
				agent.State = components.StateWander
				fx, fy = systems.FlockingForce(s.visionMates(s.mateBuf, agent.Role), agent.Role, params)
			}

		case components.RoleCarnivore:
			target := systems.NearestOfRole(s.mateBuf, components.RoleHerbivore)
			if target >= 0 {
				agent.State = components.StateHunt
				p := params
				p.CohesionWeight = 0
				fx, fy = systems.FlockingForce(s.mateBuf, agent.Role, p)
				sx, sy := systems.SeekForce(s.mateBuf[target].DX, s.mateBuf[target].DY, maxForce)
				fx, fy = systems.ClampMagnitude(fx+sx, fy+sy, maxForce)
			} else {
				agent.State = components.StateWander
				fx, fy = systems.FlockingForce(s.mateBuf, agent.Role, params)
			}

		case components.RoleScavenger:
			vision := s.roleCfg(agent.Role).VisionRadius
			if _, nx, ny, ok := s.fungal.Nearest(pos.X, pos.Y, vision); ok {
				agent.State = components.StateScavenge
				dx, dy := systems.ToroidalDelta(pos.X, pos.Y, nx, ny, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
				p := params
				p.CohesionWeight = 0
				p.AlignmentWeight = 0
				fx, fy = systems.FlockingForce(s.mateBuf, agent.Role, p)
				sx, sy := systems.SeekForce(dx, dy, scavengeSeek)
				fx, fy = systems.ClampMagnitude(fx+sx, fy+sy, maxForce)
			} else {
				agent.State = components.StateWander
				fx, fy = systems.FlockingForce(s.mateBuf, agent.Role, params)
			}
		}

		// Integrate: force acts as acceleration, speed is clamped, and
		// positions wrap on the torus. Every input is clamped, so the
		// result stays finite.
		vel.X += fx * dt
		vel.Y += fy * dt
		vel.X, vel.Y = systems.ClampMagnitude(vel.X, vel.Y, maxSpeed)

		pos.X = systems.Mod(pos.X+vel.X*dt, cfg.Derived.WorldW32)
		pos.Y = systems.Mod(pos.Y+vel.Y*dt, cfg.Derived.WorldH32)
	}
}

// applyTrap handles the chakravyu region: inward pull while inside, a
// dwell timer that resets to zero outside, and a forced despawn on the
// timeout tick regardless of energy. Returns true when the agent died.
func (s *Simulation) applyTrap(entity ecs.Entity, pos *components.Position, vel *components.Velocity, energy *components.Energy, agent *components.Agent, dt float32) bool {
	cfg := s.cfg

	dx, dy := systems.ToroidalDelta(pos.X, pos.Y,
		float32(cfg.Trap.X), float32(cfg.Trap.Y),
		cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	distSq := dx*dx + dy*dy
	radius := float32(cfg.Trap.Radius)

	if distSq > radius*radius {
		agent.TrapDwell = 0
		return false
	}

	agent.TrapDwell++
	if agent.TrapDwell >= int32(cfg.Trap.DwellTimeout) {
		s.queueDeath(entity, agent, energy, pos, telemetry.DeathTrap)
		return true
	}

	// Inward pull toward the trap center
	dist := float32(math.Sqrt(float64(distSq)))
	if dist > 0 {
		pull := float32(cfg.Trap.Pull)
		vel.X += dx / dist * pull * dt
		vel.Y += dy / dist * pull * dt
	}

	return false
}

// collectFlockmates copies neighbor roles and velocities into the
// flockmate buffer so the force kernel reads a stable view.
func (s *Simulation) collectFlockmates(dst []systems.Flockmate, neighbors []systems.Neighbor) []systems.Flockmate {
	for i := range neighbors {
		n := &neighbors[i]
		na := s.agentMap.Get(n.E)
		nv := s.velMap.Get(n.E)
		ne := s.energyMap.Get(n.E)
		if na == nil || nv == nil || ne == nil || !ne.Alive {
			continue
		}
		dst = append(dst, systems.Flockmate{
			ID:     na.ID,
			Role:   na.Role,
			DX:     n.DX,
			DY:     n.DY,
			DistSq: n.DistSq,
			VX:     nv.X,
			VY:     nv.Y,
		})
	}
	return dst
}

// nearestThreat returns the index of the closest carnivore within the
// flee radius, or -1. Ties break on the lower agent ID.
func (s *Simulation) nearestThreat(mates []systems.Flockmate, fleeRadius float32) int {
	fleeSq := fleeRadius * fleeRadius
	best := -1
	for i := range mates {
		if mates[i].Role != components.RoleCarnivore || mates[i].DistSq > fleeSq {
			continue
		}
		if best < 0 ||
			mates[i].DistSq < mates[best].DistSq ||
			(mates[i].DistSq == mates[best].DistSq && mates[i].ID < mates[best].ID) {
			best = i
		}
	}
	return best
}

// visionMates filters the flockmate buffer down to the role's vision
// radius when the search radius was widened for threat detection.
func (s *Simulation) visionMates(mates []systems.Flockmate, role components.Role) []systems.Flockmate {
	vision := s.roleCfg(role).VisionRadius
	visionSq := vision * vision
	out := mates[:0]
	for i := range mates {
		if mates[i].DistSq <= visionSq {
			out = append(out, mates[i])
		}
	}
	return out
}
