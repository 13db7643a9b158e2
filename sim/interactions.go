package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mycelia/components"
	"github.com/pthm-cable/mycelia/systems"
	"github.com/pthm-cable/mycelia/telemetry"
)

// updateInteractions resolves contact events: carnivore captures and
// scavenger consumption of fungal nodes. Prey deaths are queued, never
// applied mid-iteration.
func (s *Simulation) updateInteractions() {
	cfg := s.cfg
	captureRadius := float32(cfg.Behavior.CaptureRadius)
	feedingCredit := float32(cfg.Behavior.FeedingCredit)
	scavengeRadius := float32(cfg.Behavior.ScavengeRadius)
	scavengeCredit := float32(cfg.Behavior.ScavengeCredit)

	query := s.agentFilter.Query()
	for query.Next() {
		entity := query.Entity()
		pos, _, energy, agent := query.Get()

		if !energy.Alive {
			continue
		}

		switch agent.Role {
		case components.RoleCarnivore:
			s.queryBuf = s.grid.QueryRadiusInto(s.queryBuf[:0], pos.X, pos.Y, captureRadius, entity, s.posMap)

			prey, found := s.nearestPrey(s.queryBuf)
			if !found {
				continue
			}

			preyEnergy := s.energyMap.Get(prey)
			preyAgent := s.agentMap.Get(prey)
			preyPos := s.posMap.Get(prey)
			if preyEnergy == nil || !preyEnergy.Alive {
				continue
			}

			s.queueDeath(prey, preyAgent, preyEnergy, preyPos, telemetry.DeathPredation)
			energy.Value = clampEnergy(energy.Value+feedingCredit, s.roleCfg(agent.Role).MaxEnergy)

		case components.RoleScavenger:
			id, _, _, ok := s.fungal.Nearest(pos.X, pos.Y, scavengeRadius)
			if !ok {
				continue
			}
			if s.fungal.Consume(id) {
				energy.Value = clampEnergy(energy.Value+scavengeCredit, s.roleCfg(agent.Role).MaxEnergy)
			}
		}
	}
}

// nearestPrey returns the closest alive herbivore among the neighbors,
// ties broken by the lower agent ID.
func (s *Simulation) nearestPrey(neighbors []systems.Neighbor) (ecs.Entity, bool) {
	var best ecs.Entity
	var bestSq float32
	bestID := uint32(0)
	found := false

	for i := range neighbors {
		n := &neighbors[i]
		na := s.agentMap.Get(n.E)
		ne := s.energyMap.Get(n.E)
		if na == nil || ne == nil || !ne.Alive || na.Role != components.RoleHerbivore {
			continue
		}
		if !found || n.DistSq < bestSq || (n.DistSq == bestSq && na.ID < bestID) {
			best = n.E
			bestSq = n.DistSq
			bestID = na.ID
			found = true
		}
	}

	return best, found
}

// clampEnergy caps a feeding credit at the role maximum.
func clampEnergy(v, maxEnergy float32) float32 {
	if v > maxEnergy {
		return maxEnergy
	}
	return v
}
