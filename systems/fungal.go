package systems

// FungalNode is one node of the growth graph. Nodes hold copied
// positions only; they never reference agents.
type FungalNode struct {
	ID        uint32
	X, Y      float32
	Health    float32 // Never negative; zero means pruned this tick
	Edges     []uint32
	SpawnTick int32
}

// VisualRadius derives a draw radius from health at the given scale.
// The result is clamped at zero so decayed health can never produce a
// negative geometry.
func (n *FungalNode) VisualRadius(scale float32) float32 {
	r := n.Health * scale
	if r < 0 {
		return 0
	}
	return r
}

// FungalParams holds growth graph tuning.
type FungalParams struct {
	MaxNodes      int
	InitialHealth float32
	DecayRate     float32 // Health lost per second
	ConnectRadius float32
	MaxEdges      int
	WorldW        float32
	WorldH        float32
}

// FungalNetwork is a bounded, decaying graph seeded by death and
// foraging events. Nodes are stored densely in insertion order so
// iteration and queries are deterministic.
type FungalNetwork struct {
	params FungalParams

	nodes  []FungalNode
	index  map[uint32]int // id -> slice position
	nextID uint32
}

// NewFungalNetwork creates an empty network with the given parameters.
func NewFungalNetwork(params FungalParams) *FungalNetwork {
	return &FungalNetwork{
		params: params,
		nodes:  make([]FungalNode, 0, params.MaxNodes),
		index:  make(map[uint32]int, params.MaxNodes),
	}
}

// Len returns the number of live nodes.
func (f *FungalNetwork) Len() int {
	return len(f.nodes)
}

// Spawn creates a node at (x, y) and links it to its nearest existing
// neighbors within the connect radius, up to MaxEdges edges. Returns
// false without growing when the network is at capacity.
func (f *FungalNetwork) Spawn(x, y float32, tick int32) (uint32, bool) {
	if len(f.nodes) >= f.params.MaxNodes {
		return 0, false
	}

	id := f.nextID
	f.nextID++

	node := FungalNode{
		ID:        id,
		X:         x,
		Y:         y,
		Health:    f.params.InitialHealth,
		SpawnTick: tick,
	}

	// Link to the nearest nodes inside the connect radius, closest first.
	connectSq := f.params.ConnectRadius * f.params.ConnectRadius
	type candidate struct {
		idx    int
		distSq float32
	}
	var near []candidate
	for i := range f.nodes {
		dx, dy := ToroidalDelta(x, y, f.nodes[i].X, f.nodes[i].Y, f.params.WorldW, f.params.WorldH)
		distSq := dx*dx + dy*dy
		if distSq <= connectSq {
			near = append(near, candidate{idx: i, distSq: distSq})
		}
	}
	for len(near) > 0 && len(node.Edges) < f.params.MaxEdges {
		best := 0
		for i := 1; i < len(near); i++ {
			if near[i].distSq < near[best].distSq {
				best = i
			}
		}
		other := &f.nodes[near[best].idx]
		node.Edges = append(node.Edges, other.ID)
		other.Edges = append(other.Edges, id)
		near[best] = near[len(near)-1]
		near = near[:len(near)-1]
	}

	f.index[id] = len(f.nodes)
	f.nodes = append(f.nodes, node)

	return id, true
}

// Decay reduces every node's health by rate*dt, clamping at zero, then
// prunes dead nodes together with their incident edges. A node never
// survives a tick with health at or below zero.
func (f *FungalNetwork) Decay(dt float32) int {
	loss := f.params.DecayRate * dt

	dead := false
	for i := range f.nodes {
		f.nodes[i].Health -= loss
		if f.nodes[i].Health <= 0 {
			f.nodes[i].Health = 0
			dead = true
		}
	}
	if !dead {
		return 0
	}

	// Stable in-place filter keeps insertion order for determinism.
	removed := 0
	kept := f.nodes[:0]
	for i := range f.nodes {
		if f.nodes[i].Health > 0 {
			kept = append(kept, f.nodes[i])
		} else {
			delete(f.index, f.nodes[i].ID)
			removed++
		}
	}
	f.nodes = kept

	f.reindex()
	f.pruneEdges()

	return removed
}

// Nearest returns the id and position of the closest node within
// radius of (x, y). Ties break on the lower node id.
func (f *FungalNetwork) Nearest(x, y, radius float32) (id uint32, nx, ny float32, ok bool) {
	radiusSq := radius * radius
	best := -1
	var bestSq float32

	for i := range f.nodes {
		dx, dy := ToroidalDelta(x, y, f.nodes[i].X, f.nodes[i].Y, f.params.WorldW, f.params.WorldH)
		distSq := dx*dx + dy*dy
		if distSq > radiusSq {
			continue
		}
		if best < 0 || distSq < bestSq ||
			(distSq == bestSq && f.nodes[i].ID < f.nodes[best].ID) {
			best = i
			bestSq = distSq
		}
	}

	if best < 0 {
		return 0, 0, 0, false
	}
	return f.nodes[best].ID, f.nodes[best].X, f.nodes[best].Y, true
}

// Consume removes a node and its incident edges. Unknown ids are a
// no-op, so a stale id held by a scavenger is safe.
func (f *FungalNetwork) Consume(id uint32) bool {
	pos, ok := f.index[id]
	if !ok {
		return false
	}

	f.nodes = append(f.nodes[:pos], f.nodes[pos+1:]...)
	delete(f.index, id)

	f.reindex()
	f.pruneEdges()

	return true
}

// Get returns the node with the given id, or nil if it does not exist.
func (f *FungalNetwork) Get(id uint32) *FungalNode {
	pos, ok := f.index[id]
	if !ok {
		return nil
	}
	return &f.nodes[pos]
}

// Nodes returns a copy of all live nodes for read-only consumers.
func (f *FungalNetwork) Nodes() []FungalNode {
	out := make([]FungalNode, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// reindex rebuilds the id -> position map after node removal.
func (f *FungalNetwork) reindex() {
	for i := range f.nodes {
		f.index[f.nodes[i].ID] = i
	}
}

// pruneEdges drops edges that point at removed nodes.
func (f *FungalNetwork) pruneEdges() {
	for i := range f.nodes {
		edges := f.nodes[i].Edges[:0]
		for _, id := range f.nodes[i].Edges {
			if _, ok := f.index[id]; ok {
				edges = append(edges, id)
			}
		}
		f.nodes[i].Edges = edges
	}
}
