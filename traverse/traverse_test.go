package traverse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fawaz-dabbaghieh/extgfa/gfa"
)

func mustGraph(t *testing.T, body string) *gfa.Graph {
	t.Helper()
	path := filepath.Join(t.TempDir(), "g.gfa")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := gfa.ReadGFA(path)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestBFSLinearChain(t *testing.T) {
	g := mustGraph(t, `S	A	*
S	B	*
S	C	*
S	D	*
L	A	+	B	+	5M
L	B	+	C	+	5M
L	C	+	D	+	5M
`)
	got, err := BFS(g, "A", 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"A", "B", "C", "D"}
	for _, id := range want {
		if _, ok := got[id]; !ok {
			t.Fatalf("expected %s in BFS result, got %v", id, got)
		}
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(got))
	}
}

func TestBFSNoNeighbors(t *testing.T) {
	g := mustGraph(t, "S\tA\t*\n")
	got, err := BFS(g, "A", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the singleton {A}, got %v", got)
	}
}

func simpleBubbleGraph(t *testing.T) *gfa.Graph {
	return mustGraph(t, `S	S	*
S	X	*
S	Y	*
S	T	*
L	S	+	X	+	1M
L	S	+	Y	+	1M
L	X	+	T	+	1M
L	Y	+	T	+	1M
`)
}

func TestSuperbubbleSimple(t *testing.T) {
	g := simpleBubbleGraph(t)
	b, err := Superbubble(g, "S", gfa.End, AnyBubble)
	if err != nil {
		t.Fatal(err)
	}
	if b == nil {
		t.Fatal("expected a bubble")
	}
	if b.Source != "S" || b.Sink != "T" {
		t.Fatalf("unexpected source/sink: %+v", b)
	}
	if len(b.Inside) != 2 {
		t.Fatalf("expected 2 interior nodes, got %v", b.Inside)
	}
}

func TestSuperbubbleMultiNode(t *testing.T) {
	g := mustGraph(t, `S	S	*
S	X	*
S	Y	*
S	Z	*
S	T	*
L	S	+	X	+	1M
L	S	+	Y	+	1M
L	X	+	T	+	1M
L	Y	+	T	+	1M
L	X	+	Z	+	1M
L	Y	+	Z	+	1M
L	Z	+	T	+	1M
`)
	b, err := Superbubble(g, "S", gfa.End, AnyBubble)
	if err != nil {
		t.Fatal(err)
	}
	if b == nil {
		t.Fatal("expected a bubble")
	}
	if b.Source != "S" || b.Sink != "T" {
		t.Fatalf("unexpected source/sink: %+v", b)
	}
	if len(b.Inside) != 3 {
		t.Fatalf("expected 3 interior nodes (X,Y,Z), got %v", b.Inside)
	}
}

func TestSuperbubbleCycleThroughSource(t *testing.T) {
	g := mustGraph(t, `S	S	*
S	X	*
L	S	+	X	+	1M
L	X	+	S	+	1M
`)
	b, err := Superbubble(g, "S", gfa.End, AnyBubble)
	if err != nil {
		t.Fatal(err)
	}
	if b != nil {
		t.Fatalf("expected no bubble for a cycle through the source, got %+v", b)
	}
}

func TestSuperbubbleLinearGraphHasNone(t *testing.T) {
	g := mustGraph(t, `S	A	*
S	B	*
S	C	*
S	D	*
L	A	+	B	+	5M
L	B	+	C	+	5M
L	C	+	D	+	5M
`)
	b, err := Superbubble(g, "A", gfa.End, AnyBubble)
	if err != nil {
		t.Fatal(err)
	}
	if b != nil {
		t.Fatalf("expected no bubble in a purely linear graph, got %+v", b)
	}
}

func TestSuperbubbleFilterSimpleRejectsLarger(t *testing.T) {
	g := mustGraph(t, `S	S	*
S	X	*
S	Y	*
S	Z	*
S	T	*
L	S	+	X	+	1M
L	S	+	Y	+	1M
L	X	+	T	+	1M
L	Y	+	T	+	1M
L	X	+	Z	+	1M
L	Y	+	Z	+	1M
L	Z	+	T	+	1M
`)
	b, err := Superbubble(g, "S", gfa.End, SimpleOnly)
	if err != nil {
		t.Fatal(err)
	}
	if b != nil {
		t.Fatalf("expected the 3-interior bubble to be rejected under SimpleOnly, got %+v", b)
	}
}
