package gfa

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fawaz-dabbaghieh/extgfa/gfaerr"
)

// WriteGFA writes every node of g (in sorted id order, for
// determinism) to path as a whole, non-chunked GFA file. It is the
// round-trip counterpart of ReadGFA used by the round-trip testable
// property in §8: reading the file back must yield the same node and
// edge sets.
func WriteGFA(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return gfaerr.Op("write", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := WriteNodes(w, g, g.SortedIDs()); err != nil {
		return gfaerr.Op("write", path, err)
	}
	if err := w.Flush(); err != nil {
		return gfaerr.Op("write", path, err)
	}
	return nil
}

// WriteNodes writes an S-line (with a mandatory cid:i:<chunk> tag)
// followed by the canonical L-lines for every node named in ids, in
// the given order. It returns the total number of records (S + L
// lines) written, which the chunk store uses as a chunk's
// index.n_records.
//
// Each edge is owned by exactly one of its two incident nodes so that
// writing the whole graph's node set never emits the same L-line
// twice: the owner is whichever side of (id, side) sorts first, a
// total order over (node id, side) pairs. This is the canonical
// (self-id < other-id) emission policy spec.md §4.3 permits as an
// alternative to duplicate emission.
func WriteNodes(w io.Writer, g *Graph, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		node, ok := g.Nodes[id]
		if !ok {
			continue
		}
		if err := writeSLine(w, node); err != nil {
			return n, err
		}
		n++

		lines, err := writeCanonicalLLines(w, node)
		if err != nil {
			return n, err
		}
		n += lines
	}
	return n, nil
}

func writeSLine(w io.Writer, n *Node) error {
	seq := n.Seq
	if seq == "" {
		seq = "*"
	}

	tagNames := make([]string, 0, len(n.Tags))
	for k := range n.Tags {
		if k == "cid" {
			continue
		}
		tagNames = append(tagNames, k)
	}
	sort.Strings(tagNames)

	line := fmt.Sprintf("S\t%s\t%s", n.ID, seq)
	for _, k := range tagNames {
		t := n.Tags[k]
		line += fmt.Sprintf("\t%s:%c:%s", k, t.Type, t.Value)
	}
	line += fmt.Sprintf("\tcid:i:%d", n.ChunkID)
	_, err := fmt.Fprintln(w, line)
	return err
}

// writeCanonicalLLines writes one L-line per endpoint of n that n owns
// under the (id, side) total order, reconstructing oa/ob as the
// inverse of the §4.1 orientation table: oa encodes n's own side
// ('-' for start, '+' for end), ob encodes the peer's side ('-' for
// end, '+' for start).
func writeCanonicalLLines(w io.Writer, n *Node) (int, error) {
	count := 0
	for ep := range n.Start {
		if !owns(n.ID, Start, ep.Other, ep.OtherSide) {
			continue
		}
		if err := writeLLine(w, n.ID, Start, ep); err != nil {
			return count, err
		}
		count++
	}
	for ep := range n.End {
		if !owns(n.ID, End, ep.Other, ep.OtherSide) {
			continue
		}
		if err := writeLLine(w, n.ID, End, ep); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func writeLLine(w io.Writer, selfID string, selfSide Side, ep Endpoint) error {
	oa := "+"
	if selfSide == Start {
		oa = "-"
	}
	ob := "+"
	if ep.OtherSide == End {
		ob = "-"
	}
	_, err := fmt.Fprintf(w, "L\t%s\t%s\t%s\t%s\t%dM\n", selfID, oa, ep.Other, ob, ep.Overlap)
	return err
}

// owns reports whether the (id, side) pair identifying the emitting
// endpoint sorts before the (otherID, otherSide) pair identifying its
// peer, breaking ties on side so a cross-side self-loop (same id,
// opposite sides) is still emitted exactly once. A same-side self-loop
// (same id, same side) collapses to a single endpoint in that side's
// set (applyEdges stores only one copy), so there is no duplicate to
// break a tie against: it must always be owned, or it is never
// written at all.
func owns(id string, side Side, otherID string, otherSide Side) bool {
	if id != otherID {
		return id < otherID
	}
	if side == otherSide {
		return true
	}
	return side < otherSide
}
