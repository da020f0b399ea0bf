// Package partition assigns every node of an in-memory graph to a
// chunk: a community-detection pass per connected component, followed
// by split and merge passes that drive every chunk into a size band.
package partition

import "sort"

// Adjacency is the undirected node-adjacency view the partitioner
// operates against, built once from a *gfa.Graph and reused across the
// split loop's induced subgraphs without touching the graph package
// directly — the strategies below only need neighbor sets, never edge
// endpoints or tags.
type Adjacency struct {
	neighbors map[string]map[string]struct{}
}

// NewAdjacency builds an adjacency view from an explicit node id set
// and a function returning each node's neighbor ids (self-loops and
// neighbors outside the id set are dropped, since induced subgraphs
// built during the split loop must only reference their own nodes).
func NewAdjacency(ids []string, neighborsOf func(id string) []string) *Adjacency {
	in := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		in[id] = struct{}{}
	}
	a := &Adjacency{neighbors: make(map[string]map[string]struct{}, len(ids))}
	for _, id := range ids {
		set := make(map[string]struct{})
		for _, n := range neighborsOf(id) {
			if n == id {
				continue
			}
			if _, ok := in[n]; !ok {
				continue
			}
			set[n] = struct{}{}
		}
		a.neighbors[id] = set
	}
	return a
}

// Nodes returns every node id in the view, sorted for deterministic
// iteration order.
func (a *Adjacency) Nodes() []string {
	ids := make([]string, 0, len(a.neighbors))
	for id := range a.neighbors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len is the number of nodes in the view.
func (a *Adjacency) Len() int { return len(a.neighbors) }

// Neighbors returns the sorted neighbor ids of id within this view.
func (a *Adjacency) Neighbors(id string) []string {
	set := a.neighbors[id]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Degree is the neighbor count of id within this view.
func (a *Adjacency) Degree(id string) int { return len(a.neighbors[id]) }

// Induced returns the subgraph view restricted to ids.
func (a *Adjacency) Induced(ids []string) *Adjacency {
	return NewAdjacency(ids, func(id string) []string { return a.Neighbors(id) })
}

// ConnectedComponents partitions the whole view into its connected
// components via plain BFS over Neighbors, the Go equivalent of
// networkx.components.connected_components used throughout the
// original partitioning passes.
func (a *Adjacency) ConnectedComponents() [][]string {
	seen := make(map[string]bool, a.Len())
	var comps [][]string
	for _, start := range a.Nodes() {
		if seen[start] {
			continue
		}
		queue := []string{start}
		seen[start] = true
		var comp []string
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			comp = append(comp, id)
			for _, n := range a.Neighbors(id) {
				if !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
		sort.Strings(comp)
		comps = append(comps, comp)
	}
	return comps
}
