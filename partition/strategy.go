package partition

import "sort"

// Strategy is the single capability the partitioner driver needs: given
// an undirected graph view, return a list of disjoint node-id groups
// whose union is every node in the view. A bisection-style strategy
// need not preserve connectivity within a group — the driver refines
// each group into connected components itself.
//
// All three concrete strategies below are deterministic: given the
// same Adjacency they always return the same grouping, so a partition
// run is reproducible.
type Strategy interface {
	Partition(a *Adjacency) [][]string
}

// KernighanLin bisects the view into two roughly balanced halves by
// iterative vertex-pair swapping, an exchange heuristic that does not
// promise connected output — the driver always runs connected-component
// refinement on its result, matching the commented-out caveat in the
// original implementation's kl_algorithm_partitioning.py.
type KernighanLin struct {
	// MaxPasses bounds the number of improvement passes; the classic
	// algorithm runs until no swap improves the cut, which this caps
	// to guarantee termination on pathological inputs.
	MaxPasses int
}

// NewKernighanLin returns a KernighanLin strategy with a sane default
// pass budget.
func NewKernighanLin() *KernighanLin { return &KernighanLin{MaxPasses: 25} }

func (k *KernighanLin) Partition(a *Adjacency) [][]string {
	nodes := a.Nodes()
	if len(nodes) < 2 {
		return [][]string{nodes}
	}

	maxPasses := k.MaxPasses
	if maxPasses <= 0 {
		maxPasses = 25
	}

	// Deterministic initial bisection: sorted order split down the
	// middle, seeded the same way every call on the same input, so
	// the whole strategy is reproducible without an RNG.
	mid := len(nodes) / 2
	left := append([]string(nil), nodes[:mid]...)
	right := append([]string(nil), nodes[mid:]...)
	inLeft := make(map[string]bool, len(left))
	for _, id := range left {
		inLeft[id] = true
	}

	gain := func(id string) int {
		own, other := 0, 0
		for _, n := range a.Neighbors(id) {
			if inLeft[n] == inLeft[id] {
				own++
			} else {
				other++
			}
		}
		return other - own
	}

	for pass := 0; pass < maxPasses; pass++ {
		bestGain := 0
		var bestA, bestB string
		for _, u := range left {
			for _, v := range right {
				g := gain(u) + gain(v)
				// Swapping adjacent nodes double-counts the edge
				// between them; correct for it.
				for _, n := range a.Neighbors(u) {
					if n == v {
						g -= 2
					}
				}
				if g > bestGain {
					bestGain, bestA, bestB = g, u, v
				}
			}
		}
		if bestGain <= 0 {
			break
		}
		inLeft[bestA] = false
		inLeft[bestB] = true
		left, right = swapMembers(left, right, bestA, bestB)
	}

	sort.Strings(left)
	sort.Strings(right)
	return [][]string{left, right}
}

func swapMembers(left, right []string, a, b string) ([]string, []string) {
	newLeft := make([]string, 0, len(left))
	for _, id := range left {
		if id == a {
			continue
		}
		newLeft = append(newLeft, id)
	}
	newLeft = append(newLeft, b)

	newRight := make([]string, 0, len(right))
	for _, id := range right {
		if id == b {
			continue
		}
		newRight = append(newRight, id)
	}
	newRight = append(newRight, a)
	return newLeft, newRight
}

// GreedyModularity agglomerates singleton communities pairwise,
// merging the pair with the highest modularity gain at each step,
// until no merge improves modularity — the same greedy agglomerative
// scheme networkx.community.greedy_modularity_communities implements.
type GreedyModularity struct{}

func (GreedyModularity) Partition(a *Adjacency) [][]string {
	nodes := a.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	m := 0.0
	for _, id := range nodes {
		m += float64(a.Degree(id))
	}
	m /= 2
	if m == 0 {
		// No edges at all: every node is its own community.
		out := make([][]string, len(nodes))
		for i, id := range nodes {
			out[i] = []string{id}
		}
		return out
	}

	degree := make(map[string]int, len(nodes))
	community := make(map[string]int, len(nodes))
	members := make(map[int][]string, len(nodes))
	for i, id := range nodes {
		degree[id] = a.Degree(id)
		community[id] = i
		members[i] = []string{id}
	}

	edgeWeight := func(c1, c2 int) float64 {
		w := 0.0
		for _, u := range members[c1] {
			for _, n := range a.Neighbors(u) {
				if community[n] == c2 {
					w++
				}
			}
		}
		return w
	}
	commDegree := func(c int) float64 {
		d := 0
		for _, u := range members[c] {
			d += degree[u]
		}
		return float64(d)
	}

	for {
		// Candidate pairs are communities connected by at least one
		// edge; scan them in a fixed (sorted) order for determinism.
		ids := make([]int, 0, len(members))
		for c := range members {
			ids = append(ids, c)
		}
		sort.Ints(ids)

		bestGain := 0.0
		bestI, bestJ := -1, -1
		for _, ci := range ids {
			for _, cj := range ids {
				if cj <= ci {
					continue
				}
				e := edgeWeight(ci, cj)
				if e == 0 {
					continue
				}
				gain := e/m - (commDegree(ci)*commDegree(cj))/(2*m*m)
				if gain > bestGain {
					bestGain, bestI, bestJ = gain, ci, cj
				}
			}
		}
		if bestI < 0 {
			break
		}
		members[bestI] = append(members[bestI], members[bestJ]...)
		for _, u := range members[bestJ] {
			community[u] = bestI
		}
		delete(members, bestJ)
	}

	ids := make([]int, 0, len(members))
	for c := range members {
		ids = append(ids, c)
	}
	sort.Ints(ids)
	out := make([][]string, 0, len(ids))
	for _, c := range ids {
		group := append([]string(nil), members[c]...)
		sort.Strings(group)
		out = append(out, group)
	}
	return out
}

// Louvain runs one pass of the Louvain modularity-optimization
// heuristic: each node starts in its own community and repeatedly
// moves to the neighboring community that yields the largest
// modularity gain, iterating to a local fixed point. Unlike the full
// multi-level algorithm, this module only runs the first level (no
// community-graph contraction and re-optimization), which is
// sufficient for the driver's purposes since its own split/merge
// passes already handle size correction.
type Louvain struct {
	MaxIterations int
}

func NewLouvain() *Louvain { return &Louvain{MaxIterations: 50} }

func (l *Louvain) Partition(a *Adjacency) [][]string {
	nodes := a.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	m := 0.0
	degree := make(map[string]int, len(nodes))
	for _, id := range nodes {
		degree[id] = a.Degree(id)
		m += float64(degree[id])
	}
	m /= 2
	if m == 0 {
		out := make([][]string, len(nodes))
		for i, id := range nodes {
			out[i] = []string{id}
		}
		return out
	}

	community := make(map[string]string, len(nodes))
	commDegree := make(map[string]float64, len(nodes))
	for _, id := range nodes {
		community[id] = id
		commDegree[id] = float64(degree[id])
	}

	maxIter := l.MaxIterations
	if maxIter <= 0 {
		maxIter = 50
	}

	for iter := 0; iter < maxIter; iter++ {
		moved := false
		for _, u := range nodes {
			cu := community[u]
			neighborWeight := make(map[string]float64)
			for _, v := range a.Neighbors(u) {
				neighborWeight[community[v]]++
			}

			commDegree[cu] -= float64(degree[u])
			bestC := cu
			bestGain := neighborWeight[cu] - commDegree[cu]*float64(degree[u])/(2*m)

			for c, w := range neighborWeight {
				if c == cu {
					continue
				}
				gain := w - commDegree[c]*float64(degree[u])/(2*m)
				if gain > bestGain || (gain == bestGain && c < bestC) {
					bestGain, bestC = gain, c
				}
			}
			commDegree[bestC] += float64(degree[u])

			if bestC != cu {
				community[u] = bestC
				moved = true
			}
		}
		if !moved {
			break
		}
	}

	groups := make(map[string][]string)
	for _, id := range nodes {
		c := community[id]
		groups[c] = append(groups[c], id)
	}

	keys := make([]string, 0, len(groups))
	for c := range groups {
		keys = append(keys, c)
	}
	sort.Strings(keys)
	out := make([][]string, 0, len(keys))
	for _, c := range keys {
		group := groups[c]
		sort.Strings(group)
		out = append(out, group)
	}
	return out
}
