package partition

import (
	"errors"
	"sort"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/fawaz-dabbaghieh/extgfa/gfaerr"
)

// chain builds a linear chain of n nodes "0".."n-1", each adjacent to
// its immediate predecessor and successor.
func chain(n int) (ids []string, neighbors func(string) []string) {
	adj := make(map[string][]string, n)
	for i := 0; i < n; i++ {
		id := itoa(i)
		ids = append(ids, id)
		var ns []string
		if i > 0 {
			ns = append(ns, itoa(i-1))
		}
		if i < n-1 {
			ns = append(ns, itoa(i+1))
		}
		adj[id] = ns
	}
	return ids, func(id string) []string { return adj[id] }
}

func itoa(i int) string {
	digits := "0123456789"
	if i < 10 {
		return string(digits[i])
	}
	return itoa(i/10) + string(digits[i%10])
}

func flatten(groups [][]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	sort.Strings(out)
	return out
}

func TestRunSmallComponentShortcut(t *testing.T) {
	// hi = |V|/upper, so a component can only be smaller than hi when
	// the graph has more than one: a 4-node chain plus one isolated
	// node gives |V| = 5 and, with upper = 1, hi = 5.
	ids, neighbors := chain(4)
	ids = append(ids, "isolated")
	groups, err := Run(ids, neighbors, NewKernighanLin(), Config{Upper: 1, Lower: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected the small chain and the isolated node to stay one chunk each, got %d groups", len(groups))
	}
	if got := groups[0]; len(got) != 4 {
		t.Fatalf("expected the 4-node chain as one chunk, got %v", got)
	}
}

func TestRunCoversEveryNode(t *testing.T) {
	ids, neighbors := chain(40)
	groups, err := Run(ids, neighbors, NewKernighanLin(), Config{Upper: 4, Lower: 8})
	if err != nil {
		t.Fatal(err)
	}
	got := flatten(groups)
	if len(got) != 40 {
		t.Fatalf("expected all 40 nodes covered exactly once, got %d\ngroups:\n%s", len(got), spew.Sdump(groups))
	}
	want := append([]string(nil), ids...)
	sort.Strings(want)
	for i, id := range got {
		if id != want[i] {
			t.Fatalf("node set mismatch at %d: %v\ngroups:\n%s", i, got, spew.Sdump(groups))
		}
	}
}

func TestRunGreedyModularityCoversEveryNode(t *testing.T) {
	ids, neighbors := chain(30)
	groups, err := Run(ids, neighbors, GreedyModularity{}, Config{Upper: 5, Lower: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(flatten(groups)) != 30 {
		t.Fatalf("expected all 30 nodes covered, got %d", len(flatten(groups)))
	}
}

func TestRunLouvainCoversEveryNode(t *testing.T) {
	ids, neighbors := chain(30)
	groups, err := Run(ids, neighbors, NewLouvain(), Config{Upper: 5, Lower: 10})
	if err != nil {
		t.Fatal(err)
	}
	if len(flatten(groups)) != 30 {
		t.Fatalf("expected all 30 nodes covered, got %d", len(flatten(groups)))
	}
}

func TestRunIsDeterministic(t *testing.T) {
	ids, neighbors := chain(50)
	g1, err := Run(ids, neighbors, NewKernighanLin(), Config{Upper: 6, Lower: 12})
	if err != nil {
		t.Fatal(err)
	}
	g2, err := Run(ids, neighbors, NewKernighanLin(), Config{Upper: 6, Lower: 12})
	if err != nil {
		t.Fatal(err)
	}
	if len(g1) != len(g2) {
		t.Fatalf("expected the same number of groups across runs, got %d vs %d", len(g1), len(g2))
	}
	for i := range g1 {
		sort.Strings(g1[i])
		sort.Strings(g2[i])
		if len(g1[i]) != len(g2[i]) {
			t.Fatalf("group %d differs in size across runs", i)
		}
	}
}

func TestSplitOversizeReportsStallOnZeroBudget(t *testing.T) {
	ids, neighbors := chain(10)
	adj := NewAdjacency(ids, neighbors)
	_, err := splitOversize(ids, adj, constantStrategy{}, 1, 0)
	if !errors.Is(err, gfaerr.ErrPartitionerStall) {
		t.Fatalf("expected ErrPartitionerStall, got %v", err)
	}
}

// constantStrategy never splits its input, used to exercise the stall
// budget deterministically.
type constantStrategy struct{}

func (constantStrategy) Partition(a *Adjacency) [][]string {
	return [][]string{a.Nodes()}
}

func TestMergeUndersizeLeavesIsolatedChunkAlone(t *testing.T) {
	groups := [][]string{{"a"}, {"b", "c", "d"}}
	adj := NewAdjacency([]string{"a", "b", "c", "d"}, func(id string) []string {
		switch id {
		case "b":
			return []string{"c"}
		case "c":
			return []string{"b", "d"}
		case "d":
			return []string{"c"}
		default:
			return nil
		}
	})
	out := mergeUndersize(groups, adj, 2)
	if len(out) != 2 {
		t.Fatalf("expected the isolated single-node chunk to survive unmerged, got %d groups", len(out))
	}
}

func TestMergeUndersizeMergesIntoHighestTally(t *testing.T) {
	// a is small and only connects to the {b,c} group, not {d,e}.
	groups := [][]string{{"a"}, {"b", "c"}, {"d", "e"}}
	adj := NewAdjacency([]string{"a", "b", "c", "d", "e"}, func(id string) []string {
		switch id {
		case "a":
			return []string{"b", "b"}
		case "b":
			return []string{"a", "c"}
		case "c":
			return []string{"b"}
		case "d":
			return []string{"e"}
		case "e":
			return []string{"d"}
		default:
			return nil
		}
	})
	out := mergeUndersize(groups, adj, 2)
	if len(out) != 2 {
		t.Fatalf("expected a to merge into {b,c}, leaving 2 groups, got %d", len(out))
	}
	found := false
	for _, g := range out {
		ids := append([]string(nil), g...)
		sort.Strings(ids)
		if len(ids) == 3 && ids[0] == "a" && ids[1] == "b" && ids[2] == "c" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a merged group {a,b,c}, got %v", out)
	}
}
