package gfa

import (
	"fmt"
	"sort"

	"github.com/fawaz-dabbaghieh/extgfa/gfaerr"
)

// Graph is the fully-resident in-memory bidirected graph built by
// reading a whole GFA file (L1). It also satisfies the traverse package's
// GraphView interface, so the same BFS and superbubble code can run
// against a Graph or against a pagedgraph.PagedGraph — the
// demand-paged-correctness property both are checked against.
type Graph struct {
	Nodes map[string]*Node
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// Len is the number of resident nodes.
func (g *Graph) Len() int { return len(g.Nodes) }

// NodeCount reports the graph's total node count, used by traverse.BFS
// to clamp an oversize neighborhood request per §4.5. Only a fully
// resident graph can answer this; a demand-paged view does not
// implement it, since it never knows |V| without loading everything.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// Contains reports whether id names a node in the graph.
func (g *Graph) Contains(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// Get returns the node named id, or gfaerr.ErrUnknownNode.
func (g *Graph) Get(id string) (*Node, error) {
	n, ok := g.Nodes[id]
	if !ok {
		return nil, unknownNodeErr(id)
	}
	return n, nil
}

// Neighbors returns the concatenation of start- and end-side peer ids.
func (g *Graph) Neighbors(id string) ([]string, error) {
	n, err := g.Get(id)
	if err != nil {
		return nil, err
	}
	return n.Neighbors(), nil
}

// ChildRef is a (node id, side) pair, the unit Children returns.
type ChildRef struct {
	ID   string
	Side Side
}

// Children returns the (other-id, other-side) pairs of the endpoint
// set on the given side of node id.
func (g *Graph) Children(id string, side Side) ([]ChildRef, error) {
	n, err := g.Get(id)
	if err != nil {
		return nil, err
	}
	out := make([]ChildRef, 0, len(n.Endpoints(side)))
	for ep := range n.Endpoints(side) {
		out = append(out, ChildRef{ID: ep.Other, Side: ep.OtherSide})
	}
	return out, nil
}

// RemoveNode deletes a node and every endpoint referencing it on its
// neighbors, mirroring Graph.remove_node in the original implementation.
func (g *Graph) RemoveNode(id string) error {
	n, err := g.Get(id)
	if err != nil {
		return err
	}
	for ep := range n.Start {
		removeReciprocal(g, id, Start, ep)
	}
	for ep := range n.End {
		removeReciprocal(g, id, End, ep)
	}
	delete(g.Nodes, id)
	return nil
}

func removeReciprocal(g *Graph, selfID string, selfSide Side, ep Endpoint) {
	peer, ok := g.Nodes[ep.Other]
	if !ok {
		return
	}
	reciprocal := Endpoint{Other: selfID, OtherSide: selfSide, Overlap: ep.Overlap}
	delete(peer.Endpoints(ep.OtherSide), reciprocal)
}

// RemoveLonelyNodes deletes every node with no neighbors at all.
func (g *Graph) RemoveLonelyNodes() {
	var lonely []string
	for id, n := range g.Nodes {
		if len(n.Start) == 0 && len(n.End) == 0 {
			lonely = append(lonely, id)
		}
	}
	for _, id := range lonely {
		_ = g.RemoveNode(id)
	}
}

// SortedIDs returns every node id in sorted order, used wherever a
// deterministic iteration over the node set is required (writing,
// partitioning).
func (g *Graph) SortedIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func unknownNodeErr(id string) error {
	return fmt.Errorf("%w: %s", gfaerr.ErrUnknownNode, id)
}
