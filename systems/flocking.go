package systems

import (
	"math"

	"github.com/pthm-cable/mycelia/components"
)

// Flockmate is a neighbor view consumed by the force kernel. It holds
// copied state only, so the kernel never touches the ECS while the
// caller is iterating it.
type Flockmate struct {
	ID     uint32
	Role   components.Role
	DX, DY float32 // Toroidal delta from the agent to the mate
	DistSq float32
	VX, VY float32
}

// FlockParams holds the force weights and radii for one agent.
type FlockParams struct {
	SeparationRadius float32
	SeparationWeight float32
	CohesionWeight   float32
	AlignmentWeight  float32
	MaxForce         float32
}

// FlockingForce computes the classic three-part steering force:
// separation from anything closer than SeparationRadius, cohesion
// toward the centroid of same-role mates, and alignment with their
// mean velocity. The sum is clamped to MaxForce.
func FlockingForce(mates []Flockmate, self components.Role, p FlockParams) (fx, fy float32) {
	var sepX, sepY float32
	var cohX, cohY float32
	var aliX, aliY float32
	var kin int

	sepRadSq := p.SeparationRadius * p.SeparationRadius

	for i := range mates {
		m := &mates[i]

		// Separation applies to every neighbor, weighted by inverse distance.
		if m.DistSq < sepRadSq && m.DistSq > 0 {
			dist := float32(math.Sqrt(float64(m.DistSq)))
			push := p.SeparationRadius / dist
			sepX -= m.DX / dist * push
			sepY -= m.DY / dist * push
		}

		// Cohesion and alignment only follow the same role.
		if m.Role != self {
			continue
		}
		cohX += m.DX
		cohY += m.DY
		aliX += m.VX
		aliY += m.VY
		kin++
	}

	fx = sepX * p.SeparationWeight
	fy = sepY * p.SeparationWeight

	if kin > 0 {
		inv := 1 / float32(kin)
		fx += cohX * inv * p.CohesionWeight
		fy += cohY * inv * p.CohesionWeight
		fx += aliX * inv * p.AlignmentWeight
		fy += aliY * inv * p.AlignmentWeight
	}

	return ClampMagnitude(fx, fy, p.MaxForce)
}

// NearestOfRole returns the index of the closest mate with the given
// role, or -1 if none is present. Distance ties break on the lower
// agent ID so pursuit targets are deterministic.
func NearestOfRole(mates []Flockmate, role components.Role) int {
	best := -1
	for i := range mates {
		if mates[i].Role != role {
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

// SeekForce steers toward the target delta at the given weight.
func SeekForce(dx, dy, weight float32) (fx, fy float32) {
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist == 0 {
		return 0, 0
	}
	return dx / dist * weight, dy / dist * weight
}

// FleeForce pushes directly away from a threat, scaled by the inverse
// of its distance relative to fleeRadius so closer threats dominate.
func FleeForce(threat *Flockmate, fleeRadius, weight float32) (fx, fy float32) {
	dist := float32(math.Sqrt(float64(threat.DistSq)))
	if dist == 0 {
		return 0, 0
	}
	scale := weight * fleeRadius / dist
	return -threat.DX / dist * scale, -threat.DY / dist * scale
}
