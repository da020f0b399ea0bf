// Package traverse implements bounded BFS neighborhood expansion and
// superbubble detection purely against a small query interface, so the
// same algorithm runs identically whether the underlying graph is
// fully resident or demand-paged.
package traverse

import "github.com/fawaz-dabbaghieh/extgfa/gfa"

// GraphView is the query surface both *gfa.Graph and
// *pagedgraph.PagedGraph satisfy. Implementations may page chunks in
// as a side effect of Get/Neighbors/Children; they must never evict a
// node that is in the middle of being dereferenced by a caller.
type GraphView interface {
	Contains(id string) bool
	Get(id string) (*gfa.Node, error)
	Neighbors(id string) ([]string, error)
	Children(id string, side gfa.Side) ([]gfa.ChildRef, error)
}

// BFS runs a bounded breadth-first expansion over the undirected
// neighbor relation starting at start, stopping once either the
// visited set reaches size nodes or the frontier is exhausted, so the
// result holds min(size, reachable) nodes. A view that reports its
// total node count (NodeCount) has size capped at that count; a
// demand-paged view does not report one, so size is used as given.
func BFS(g GraphView, start string, size int) (map[string]struct{}, error) {
	if !g.Contains(start) {
		if _, err := g.Get(start); err != nil {
			return nil, err
		}
	}

	// A demand-paged view has no fixed |V| to clamp against; only a
	// fully-resident graph (which implements NodeCount) gets the
	// clamp to |V|.
	if sized, ok := g.(interface{ NodeCount() int }); ok {
		if n := sized.NodeCount(); size >= n {
			size = n
		}
	}

	neighbors, err := g.Neighbors(start)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return map[string]struct{}{start: {}}, nil
	}

	visited := map[string]struct{}{start: {}}
	queued := map[string]struct{}{start: {}}
	queue := []string{start}

	for len(queue) > 0 && len(visited) < size {
		cur := queue[0]
		queue = queue[1:]

		ns, err := g.Neighbors(cur)
		if err != nil {
			return nil, err
		}
		for _, n := range ns {
			if len(visited) >= size {
				break
			}
			if _, ok := visited[n]; ok {
				continue
			}
			visited[n] = struct{}{}
			if _, ok := queued[n]; !ok {
				queued[n] = struct{}{}
				queue = append(queue, n)
			}
		}
	}
	return visited, nil
}

// BubbleFilter restricts Superbubble to simple (exactly two interior
// nodes) or super (more than two) bubbles.
type BubbleFilter int

const (
	// AnyBubble accepts both simple and super bubbles.
	AnyBubble BubbleFilter = iota
	// SimpleOnly accepts only bubbles with exactly two interior nodes.
	SimpleOnly
	// SuperOnly accepts only bubbles with more than two interior nodes.
	SuperOnly
)

// Bubble is one superbubble: a source, a sink, and the interior node
// ids between them (order-insensitive).
type Bubble struct {
	Source string
	Sink   string
	Inside []string
}

type seenEntry struct {
	id  string
	dir gfa.Side
}

// Superbubble finds at most one superbubble whose source is (s, d),
// implementing the frontier algorithm of §4.6: seed the source,
// repeatedly pop a frontier vertex whose parents are all visited,
// and terminate when exactly one candidate sink remains with no other
// unresolved frontier entries. Returns (nil, nil) if s is not a
// source, a tip is hit, or a cycle runs back through s.
func Superbubble(g GraphView, s string, d gfa.Side, filter BubbleFilter) (*Bubble, error) {
	seen := map[seenEntry]struct{}{{s, d}: {}}
	visited := map[string]struct{}{}
	var inside []string
	frontier := []seenEntry{{s, d}}

	for len(frontier) > 0 {
		v := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		visited[v.id] = struct{}{}
		inside = append(inside, v.id)
		delete(seen, v)

		children, err := g.Children(v.id, v.dir)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, nil
		}

		cycled := false
		for _, u := range children {
			enterSide := u.Side
			exitSide := enterSide.Opposite()

			parents, err := g.Children(u.ID, enterSide)
			if err != nil {
				return nil, err
			}

			if u.ID == s {
				cycled = true
				break
			}

			seen[seenEntry{u.ID, exitSide}] = struct{}{}

			allVisited := true
			for _, p := range parents {
				if _, ok := visited[p.ID]; !ok {
					allVisited = false
					break
				}
			}
			if allVisited {
				frontier = append(frontier, seenEntry{u.ID, exitSide})
			}
		}
		if cycled {
			frontier = nil
			break
		}

		if len(frontier) == 1 && len(seen) == 1 {
			t := frontier[0]
			if len(inside) == 1 {
				return nil, nil
			}
			inside = removeID(inside, s)

			b := &Bubble{Source: s, Sink: t.id, Inside: inside}
			switch filter {
			case SimpleOnly:
				if len(b.Inside) == 2 {
					return b, nil
				}
			case SuperOnly:
				if len(b.Inside) > 2 {
					return b, nil
				}
			default:
				return b, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
