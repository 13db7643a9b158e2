// Package components defines ECS components for the simulation.
package components

// Role is the behavioral category of an agent. The set is closed;
// behavior code switches exhaustively over these values.
type Role uint8

const (
	RoleHerbivore Role = iota
	RoleCarnivore
	RoleScavenger
)

// NumRoles is the number of distinct roles.
const NumRoles = 3

// String returns the role name for logging and CSV output.
func (r Role) String() string {
	switch r {
	case RoleHerbivore:
		return "herbivore"
	case RoleCarnivore:
		return "carnivore"
	case RoleScavenger:
		return "scavenger"
	}
	return "unknown"
}

// State is the current behavior state of an agent.
// Roles never change after spawn; states change every tick.
type State uint8

const (
	StateWander State = iota
	StateHunt
	StateFlee
	StateScavenge
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateWander:
		return "wander"
	case StateHunt:
		return "hunt"
	case StateFlee:
		return "flee"
	case StateScavenge:
		return "scavenge"
	}
	return "unknown"
}

// Position represents an agent's world position.
type Position struct {
	X, Y float32
}

// Velocity represents an agent's velocity.
type Velocity struct {
	X, Y float32
}

// Energy holds an agent's energy and lifecycle flags.
// Value is clamped to [0, role max]; Alive flips false when it hits zero
// and the agent is despawned at the end of the tick.
type Energy struct {
	Value float32
	Age   int32 // Ticks since spawn
	Alive bool
}

// Agent holds identity and behavior bookkeeping.
type Agent struct {
	ID            uint32 // Stable id, unique across the run
	Role          Role
	State         State
	Generation    int32   // Parent generation + 1; 0 for seeded agents
	TrapDwell     int32   // Consecutive ticks spent inside the trap region
	ReproCooldown float32 // Seconds until reproduction is allowed again
}
