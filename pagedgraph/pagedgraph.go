// Package pagedgraph serves node, neighbor and child queries over a
// chunked GFA graph that is too large to hold resident in full,
// loading chunks on demand and evicting them first-in-first-out once
// a residency limit is exceeded.
package pagedgraph

import (
	"fmt"

	"github.com/fawaz-dabbaghieh/extgfa/chunkstore"
	"github.com/fawaz-dabbaghieh/extgfa/gfa"
	"github.com/fawaz-dabbaghieh/extgfa/gfaerr"
	"github.com/fawaz-dabbaghieh/extgfa/traverse"
	"github.com/fawaz-dabbaghieh/extgfa/xlog"
)

// DefaultResidencyLimit is the soft cap on simultaneously resident
// chunks used when no Option overrides it.
const DefaultResidencyLimit = 10

// PagedGraph is a demand-paged view over a chunked GFA's three
// artifacts (the GFA itself, its byte-offset index, and its
// node->chunk map). It satisfies the same query surface as *gfa.Graph
// (see traverse.GraphView), so BFS and superbubble detection run
// identically against either.
type PagedGraph struct {
	base  string
	gfaPath string

	index      *chunkstore.IndexStore
	nodeChunks *chunkstore.NodeChunkDB

	nodes          map[string]*gfa.Node
	residencyQueue []int
	resident       map[int]bool
	residencyLimit int
	nodeChunkMode  chunkstore.NodeChunkMode
}

// Option configures Open.
type Option func(*PagedGraph)

// WithResidencyLimit overrides DefaultResidencyLimit.
func WithResidencyLimit(n int) Option {
	return func(pg *PagedGraph) { pg.residencyLimit = n }
}

// WithNodeChunkMode selects how the node->chunk map's bolt handle is
// held, per §5's two compliant modes.
func WithNodeChunkMode(mode chunkstore.NodeChunkMode) Option {
	return func(pg *PagedGraph) { pg.nodeChunkMode = mode }
}

// Open opens the chunked graph rooted at base (base+".gfa",
// base+".index", base+".db" must all exist).
func Open(base string, opts ...Option) (*PagedGraph, error) {
	pg := &PagedGraph{
		base:           base,
		gfaPath:        base + ".gfa",
		nodes:          make(map[string]*gfa.Node),
		resident:       make(map[int]bool),
		residencyLimit: DefaultResidencyLimit,
		nodeChunkMode:  chunkstore.PerLookup,
	}
	for _, opt := range opts {
		opt(pg)
	}

	idx, err := chunkstore.OpenIndex(base + ".index")
	if err != nil {
		return nil, err
	}
	pg.index = idx

	db, err := chunkstore.OpenNodeChunkDB(base+".db", pg.nodeChunkMode)
	if err != nil {
		idx.Close()
		return nil, err
	}
	pg.nodeChunks = db

	return pg, nil
}

// Close releases the sidecar bolt handles.
func (pg *PagedGraph) Close() error {
	var err error
	if pg.index != nil {
		err = pg.index.Close()
	}
	if pg.nodeChunks != nil {
		if e := pg.nodeChunks.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Len is the number of currently resident nodes.
func (pg *PagedGraph) Len() int { return len(pg.nodes) }

// Contains reports whether id is resident, without paging it in.
func (pg *PagedGraph) Contains(id string) bool {
	_, ok := pg.nodes[id]
	return ok
}

// Get returns the node named id, loading its chunk first if needed.
func (pg *PagedGraph) Get(id string) (*gfa.Node, error) {
	if n, ok := pg.nodes[id]; ok {
		return n, nil
	}
	if err := pg.pageIn(id); err != nil {
		return nil, err
	}
	n, ok := pg.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", gfaerr.ErrCorruption, id)
	}
	return n, nil
}

// Neighbors returns the concatenation of start- and end-side peer ids
// of id, paging in id's own chunk if needed. Peers in other chunks are
// returned as ids only and are not themselves paged in.
func (pg *PagedGraph) Neighbors(id string) ([]string, error) {
	n, err := pg.Get(id)
	if err != nil {
		return nil, err
	}
	return n.Neighbors(), nil
}

// Children returns the (other-id, other-side) pairs attached to id's
// given side, ensuring every referenced target node is resident before
// returning so traversal code can safely dereference them.
func (pg *PagedGraph) Children(id string, side gfa.Side) ([]gfa.ChildRef, error) {
	n, err := pg.Get(id)
	if err != nil {
		return nil, err
	}

	out := make([]gfa.ChildRef, 0, len(n.Endpoints(side)))
	for ep := range n.Endpoints(side) {
		if !pg.Contains(ep.Other) {
			if err := pg.pageIn(ep.Other); err != nil {
				return nil, err
			}
		}
		out = append(out, gfa.ChildRef{ID: ep.Other, Side: ep.OtherSide})
	}
	return out, nil
}

// Bfs runs a bounded breadth-first neighborhood expansion starting
// from start, paging in chunks transparently as the frontier grows.
// It delegates to traverse.BFS, the same algorithm run against a
// fully-resident *gfa.Graph, so the demand-paged and in-memory views
// agree by construction.
func (pg *PagedGraph) Bfs(start string, size int) (map[string]struct{}, error) {
	if !pg.Contains(start) {
		if err := pg.pageIn(start); err != nil {
			return nil, err
		}
	}
	return traverse.BFS(pg, start, size)
}

// UnloadChunk removes every resident node whose chunk id is c and
// drops c from the residency queue.
func (pg *PagedGraph) UnloadChunk(c int) {
	for id, n := range pg.nodes {
		if n.ChunkID == c {
			delete(pg.nodes, id)
		}
	}
	delete(pg.resident, c)
	for i, q := range pg.residencyQueue {
		if q == c {
			pg.residencyQueue = append(pg.residencyQueue[:i], pg.residencyQueue[i+1:]...)
			break
		}
	}
}

// Clear removes every resident node and empties the residency queue.
func (pg *PagedGraph) Clear() {
	pg.nodes = make(map[string]*gfa.Node)
	pg.residencyQueue = nil
	pg.resident = make(map[int]bool)
}

// LoadChunk evicts chunks (oldest load order first) until the
// residency queue has room, then reads chunk c's records from the
// chunked GFA and adds them to the resident table.
func (pg *PagedGraph) LoadChunk(c int) error {
	if pg.resident[c] {
		return nil
	}

	for len(pg.residencyQueue) >= pg.residencyLimit {
		old := pg.residencyQueue[0]
		pg.residencyQueue = pg.residencyQueue[1:]
		xlog.Debug("evicting chunk", "chunk", old)
		pg.UnloadChunk(old)
	}

	offset, records, ok, err := pg.index.Lookup(c)
	if err != nil {
		return gfaerr.Op("load-chunk", pg.gfaPath, err)
	}
	if !ok {
		return fmt.Errorf("%w: chunk %d has no index entry", gfaerr.ErrCorruption, c)
	}

	g := &gfa.Graph{Nodes: pg.nodes}
	if err := gfa.ReadGFAChunk(pg.gfaPath, g, offset, records); err != nil {
		return err
	}

	pg.resident[c] = true
	pg.residencyQueue = append(pg.residencyQueue, c)
	xlog.Debug("loaded chunk", "chunk", c, "resident_chunks", len(pg.residencyQueue))
	return nil
}

// pageIn resolves id's chunk from the node->chunk map and loads it.
func (pg *PagedGraph) pageIn(id string) error {
	chunkID, ok, err := pg.nodeChunks.Lookup(id)
	if err != nil {
		return gfaerr.Op("lookup-node", pg.base, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", gfaerr.ErrUnknownNode, id)
	}
	return pg.LoadChunk(chunkID)
}
