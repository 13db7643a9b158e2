package sim

import (
	"github.com/pthm-cable/mycelia/components"
	"github.com/pthm-cable/mycelia/telemetry"
)

// AgentView is the read-only per-agent slice of a snapshot.
type AgentView struct {
	ID         uint32
	Role       components.Role
	State      components.State
	X, Y       float32
	VX, VY     float32
	Energy     float32
	Age        int32
	Generation int32
}

// FungalNodeView is the read-only per-node slice of a snapshot.
type FungalNodeView struct {
	ID           uint32
	X, Y         float32
	Health       float32
	VisualRadius float32
	Edges        []uint32
}

// TelemetryView summarizes the current census.
type TelemetryView struct {
	Tick          int32
	Population    int
	RoleCounts    [components.NumRoles]int
	MaxGeneration int32
	Diversity     float64
	FungalNodes   int
}

// SnapshotView is a consistent, render-ready view of the simulation.
// Dead arena slots are excluded; nothing in the view aliases internal
// state.
type SnapshotView struct {
	Tick        int32
	Agents      []AgentView
	FungalNodes []FungalNodeView
	Telemetry   TelemetryView
}

// Snapshot builds a read-only view of the current state. It allocates
// fresh slices so the host can hold the view across ticks.
func (s *Simulation) Snapshot() SnapshotView {
	agents := make([]AgentView, 0, s.aliveCount)

	query := s.agentFilter.Query()
	for query.Next() {
		pos, vel, energy, agent := query.Get()
		if !energy.Alive {
			continue
		}
		agents = append(agents, AgentView{
			ID:         agent.ID,
			Role:       agent.Role,
			State:      agent.State,
			X:          pos.X,
			Y:          pos.Y,
			VX:         vel.X,
			VY:         vel.Y,
			Energy:     energy.Value,
			Age:        energy.Age,
			Generation: agent.Generation,
		})
	}

	scale := float32(s.cfg.Fungal.VisualScale)
	srcNodes := s.fungal.Nodes()
	nodes := make([]FungalNodeView, 0, len(srcNodes))
	for i := range srcNodes {
		n := &srcNodes[i]
		edges := make([]uint32, len(n.Edges))
		copy(edges, n.Edges)
		nodes = append(nodes, FungalNodeView{
			ID:           n.ID,
			X:            n.X,
			Y:            n.Y,
			Health:       n.Health,
			VisualRadius: n.VisualRadius(scale),
			Edges:        edges,
		})
	}

	return SnapshotView{
		Tick:        s.tick,
		Agents:      agents,
		FungalNodes: nodes,
		Telemetry: TelemetryView{
			Tick:          s.tick,
			Population:    s.aliveCount,
			RoleCounts:    s.roleCounts,
			MaxGeneration: s.maxGeneration,
			Diversity:     telemetry.RoleDiversity(s.roleCounts),
			FungalNodes:   s.fungal.Len(),
		},
	}
}
