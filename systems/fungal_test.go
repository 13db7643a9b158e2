package systems

import "testing"

func testFungalParams() FungalParams {
	return FungalParams{
		MaxNodes:      10,
		InitialHealth: 1.0,
		DecayRate:     0.5,
		ConnectRadius: 15,
		MaxEdges:      2,
		WorldW:        400,
		WorldH:        300,
	}
}

func TestFungalSpawnDeclinesAtCapacity(t *testing.T) {
	f := NewFungalNetwork(testFungalParams())

	for i := 0; i < 10; i++ {
		if _, ok := f.Spawn(float32(i*30), 50, 0); !ok {
			t.Fatalf("spawn %d declined below capacity", i)
		}
	}

	if _, ok := f.Spawn(200, 200, 0); ok {
		t.Error("spawn succeeded at capacity")
	}
	if f.Len() != 10 {
		t.Errorf("Len() = %d, want 10", f.Len())
	}
}

func TestFungalHealthNeverNegative(t *testing.T) {
	f := NewFungalNetwork(testFungalParams())
	id, _ := f.Spawn(100, 100, 0)

	// Decay far past zero health in one step.
	f.Decay(100)

	if f.Get(id) != nil {
		t.Error("dead node not pruned")
	}
	for _, n := range f.Nodes() {
		if n.Health < 0 {
			t.Errorf("node %d health = %f, want >= 0", n.ID, n.Health)
		}
	}
}

func TestVisualRadiusNeverNegative(t *testing.T) {
	tests := []struct {
		name   string
		health float32
		want   float32
	}{
		{"positive health", 0.5, 3},
		{"zero health", 0, 0},
		{"negative health clamps", -0.3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := FungalNode{Health: tt.health}
			got := n.VisualRadius(6)
			if got != tt.want {
				t.Errorf("VisualRadius = %f, want %f", got, tt.want)
			}
			if got < 0 {
				t.Errorf("VisualRadius = %f, must never be negative", got)
			}
		})
	}
}

func TestFungalDecayPrunesEdges(t *testing.T) {
	p := testFungalParams()
	p.DecayRate = 0
	f := NewFungalNetwork(p)

	a, _ := f.Spawn(100, 100, 0)
	b, _ := f.Spawn(105, 100, 0)

	na := f.Get(a)
	if len(na.Edges) != 1 || na.Edges[0] != b {
		t.Fatalf("node a edges = %v, want [%d]", na.Edges, b)
	}

	// Kill b only, then confirm a's edge to it is gone.
	f.Get(b).Health = 0
	f.Decay(0.001)

	if f.Get(b) != nil {
		t.Fatal("node b survived zero health")
	}
	if got := f.Get(a); len(got.Edges) != 0 {
		t.Errorf("node a edges = %v, want none after prune", got.Edges)
	}
}

func TestFungalEdgesNearestFirstCapped(t *testing.T) {
	p := testFungalParams()
	p.MaxEdges = 2
	f := NewFungalNetwork(p)

	far, _ := f.Spawn(110, 100, 0)  // 10 away from the new node
	near, _ := f.Spawn(103, 100, 0) // 3 away
	mid, _ := f.Spawn(106, 100, 0)  // 6 away

	id, _ := f.Spawn(100, 100, 0)
	n := f.Get(id)

	if len(n.Edges) != 2 {
		t.Fatalf("edges = %v, want 2", n.Edges)
	}
	has := map[uint32]bool{n.Edges[0]: true, n.Edges[1]: true}
	if !has[near] || !has[mid] {
		t.Errorf("edges = %v, want nearest two %d and %d", n.Edges, near, mid)
	}
	if has[far] {
		t.Errorf("edges = %v, include farthest node %d", n.Edges, far)
	}
}

func TestFungalConsume(t *testing.T) {
	p := testFungalParams()
	p.DecayRate = 0
	f := NewFungalNetwork(p)

	a, _ := f.Spawn(100, 100, 0)
	b, _ := f.Spawn(105, 100, 0)

	if !f.Consume(a) {
		t.Fatal("Consume(a) failed")
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d, want 1", f.Len())
	}
	if got := f.Get(b); len(got.Edges) != 0 {
		t.Errorf("node b edges = %v, want none after consume", got.Edges)
	}

	// Stale id is a safe no-op.
	if f.Consume(a) {
		t.Error("Consume on stale id reported success")
	}
	if f.Len() != 1 {
		t.Errorf("Len() = %d after stale consume, want 1", f.Len())
	}
}

func TestFungalNearest(t *testing.T) {
	p := testFungalParams()
	f := NewFungalNetwork(p)

	f.Spawn(100, 100, 0)
	b, _ := f.Spawn(130, 100, 0)

	id, x, _, ok := f.Nearest(125, 100, 50)
	if !ok {
		t.Fatal("Nearest found nothing")
	}
	if id != b {
		t.Errorf("Nearest = %d at x=%f, want %d", id, x, b)
	}

	if _, _, _, ok := f.Nearest(300, 250, 10); ok {
		t.Error("Nearest found a node outside radius")
	}
}
