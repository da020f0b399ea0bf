package gfa

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fawaz-dabbaghieh/extgfa/gfaerr"
	"github.com/fawaz-dabbaghieh/extgfa/xlog"
)

// pendingEdge is a deferred L-line, materialized into endpoints only
// after every S-line has been read, matching the two-pass approach of
// the Python reader this is grounded on (Graph.read_gfa).
type pendingEdge struct {
	a, b      string
	fromStart bool
	toEnd     bool
	overlap   int
}

// ReadGFA streams S and L records from path into a new in-memory Graph.
func ReadGFA(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gfaerr.Op("read", path, gfaerr.ErrFileNotFound)
		}
		return nil, gfaerr.Op("read", path, err)
	}
	defer f.Close()

	g := NewGraph()
	edges, err := readRecords(f, g)
	if err != nil {
		return nil, gfaerr.Op("read", path, err)
	}
	applyEdges(g, edges, true)
	return g, nil
}

// ReadGFAChunk reads exactly nRecords S/L lines starting at byte offset
// off in the file at path, adding to an existing (possibly non-empty)
// graph. This is the primitive the demand-paged graph uses to load one
// chunk (§4.4's LoadChunk).
func ReadGFAChunk(path string, g *Graph, off int64, nRecords int) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return gfaerr.Op("load-chunk", path, gfaerr.ErrFileNotFound)
		}
		return gfaerr.Op("load-chunk", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return gfaerr.Op("load-chunk", path, err)
	}

	r := bufio.NewReader(f)
	var edges []pendingEdge
	for i := 0; i < nRecords; i++ {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				break
			}
			return gfaerr.Op("load-chunk", path, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if err2 := parseLine(line, g, &edges); err2 != nil {
			return err2
		}
	}
	applyEdges(g, edges, false)
	return nil
}

func readRecords(r io.Reader, g *Graph) ([]pendingEdge, error) {
	var edges []pendingEdge
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if err := parseLine(line, g, &edges); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}

func parseLine(line string, g *Graph, edges *[]pendingEdge) error {
	if line == "" {
		return nil
	}
	switch line[0] {
	case 'S':
		return parseSLine(line, g)
	case 'L':
		e, err := parseLLine(line)
		if err != nil {
			xlog.Warn("skipping malformed L line", "line", line, "err", err)
			return nil
		}
		*edges = append(*edges, e)
	}
	return nil
}

func parseSLine(line string, g *Graph) error {
	f := strings.Split(line, "\t")
	if len(f) < 3 {
		xlog.Warn("skipping malformed S line", "line", line)
		return nil
	}
	id := f[1]
	n := NewNode(id)
	n.Seq = f[2]

	for _, tok := range f[3:] {
		parts := strings.SplitN(tok, ":", 3)
		if len(parts) != 3 || len(parts[1]) != 1 {
			xlog.Warn("skipping malformed tag", "tag", tok, "node", id)
			continue
		}
		n.Tags[parts[0]] = Tag{Type: parts[1][0], Value: parts[2]}
	}
	if cid, ok := n.Tags["cid"]; ok {
		v, err := strconv.Atoi(cid.Value)
		if err == nil {
			n.ChunkID = v
		}
	}
	g.Nodes[id] = n
	return nil
}

func parseLLine(line string) (pendingEdge, error) {
	f := strings.Split(strings.TrimSpace(line), "\t")
	if len(f) < 6 {
		f = strings.Fields(line)
	}
	if len(f) < 6 {
		return pendingEdge{}, fmt.Errorf("%w: expected 6 fields, got %d", gfaerr.ErrMalformedRecord, len(f))
	}

	cigar := f[5]
	if !strings.HasSuffix(cigar, "M") {
		return pendingEdge{}, fmt.Errorf("%w: CIGAR %q is not a single M operator", gfaerr.ErrMalformedRecord, cigar)
	}
	overlap, err := strconv.Atoi(strings.TrimSuffix(cigar, "M"))
	if err != nil {
		return pendingEdge{}, fmt.Errorf("%w: bad overlap in %q", gfaerr.ErrMalformedRecord, cigar)
	}

	return pendingEdge{
		a:         f[1],
		fromStart: f[2] == "-",
		b:         f[3],
		toEnd:     f[4] == "-",
		overlap:   overlap,
	}, nil
}

// applyEdges materializes the deferred edge list into endpoint sets,
// per the orientation table in §4.1.
//
// In strict mode (a whole-file read, §4.1) an edge referencing a node
// absent from the whole graph is skipped with a warning. In non-strict
// mode (loading one chunk of a demand-paged graph, §4.4) a peer that is
// merely not yet resident is not an error: the endpoint is stored on
// whichever incident node is present, and no stub is created for the
// absent one. A later load of the peer's chunk recreates it with the
// reciprocal endpoint, which is why edge symmetry in the paged graph
// only holds between simultaneously resident nodes.
func applyEdges(g *Graph, edges []pendingEdge, strict bool) {
	for _, e := range edges {
		an, aok := g.Nodes[e.a]
		bn, bok := g.Nodes[e.b]
		if strict && (!aok || !bok) {
			missing := e.a
			if aok {
				missing = e.b
			}
			xlog.Warn("skipping edge: unknown node", "node", missing)
			continue
		}

		switch {
		case e.fromStart && e.toEnd:
			if aok {
				an.AddEndpoint(Start, Endpoint{Other: e.b, OtherSide: End, Overlap: e.overlap})
			}
			if bok {
				bn.AddEndpoint(End, Endpoint{Other: e.a, OtherSide: Start, Overlap: e.overlap})
			}
		case e.fromStart && !e.toEnd:
			if aok {
				an.AddEndpoint(Start, Endpoint{Other: e.b, OtherSide: Start, Overlap: e.overlap})
			}
			if bok {
				bn.AddEndpoint(Start, Endpoint{Other: e.a, OtherSide: Start, Overlap: e.overlap})
			}
		case !e.fromStart && !e.toEnd:
			if aok {
				an.AddEndpoint(End, Endpoint{Other: e.b, OtherSide: Start, Overlap: e.overlap})
			}
			if bok {
				bn.AddEndpoint(Start, Endpoint{Other: e.a, OtherSide: End, Overlap: e.overlap})
			}
		default: // !fromStart && toEnd
			if aok {
				an.AddEndpoint(End, Endpoint{Other: e.b, OtherSide: End, Overlap: e.overlap})
			}
			if bok {
				bn.AddEndpoint(End, Endpoint{Other: e.a, OtherSide: End, Overlap: e.overlap})
			}
		}
	}
}
