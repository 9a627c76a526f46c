package graph

// Topology is a read-only {nodes, edges} view of a graph for rendering and
// inspection. It has no effect on scheduling.
type Topology struct {
	Nodes []TopologyNode
	Edges []Edge
	Root  NodeID
}

// TopologyNode describes one node in a Topology snapshot.
type TopologyNode struct {
	ID     NodeID
	Name   string
	Status Status
}

// Edge represents a dependency: To depends on From.
type Edge struct {
	From NodeID
	To   NodeID
}

// Export snapshots the graph's structure and current statuses.
func (g *Graph) Export() Topology {
	t := Topology{
		Nodes: make([]TopologyNode, 0, len(g.nodes)),
		Root:  g.root,
	}
	for _, n := range g.nodes {
		t.Nodes = append(t.Nodes, TopologyNode{ID: n.ID, Name: n.Name, Status: n.Status})
		for _, dep := range n.Dependencies() {
			t.Edges = append(t.Edges, Edge{From: dep, To: n.ID})
		}
	}
	return t
}
