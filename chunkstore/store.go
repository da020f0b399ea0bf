package chunkstore

import (
	"errors"
	"os"

	"github.com/boltdb/bolt"

	"github.com/fawaz-dabbaghieh/extgfa/gfaerr"
)

// IndexStore is a read handle onto a chunked.index file: point lookups
// of chunk id -> (byte offset, record count). It is small enough to
// keep open for the life of a demand-paged graph.
type IndexStore struct {
	db *bolt.DB
}

// OpenIndex opens path as a chunked.index bolt file. bolt.Open creates
// a missing file rather than erroring, so the file's existence is
// checked explicitly first: a chunked graph opened without its index
// sidecar is ErrMissingSidecar, not an empty, freshly-created index.
func OpenIndex(path string) (*IndexStore, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, gfaerr.Op("open-index", path, gfaerr.ErrMissingSidecar)
		}
		return nil, gfaerr.Op("open-index", path, err)
	}
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, gfaerr.Op("open-index", path, gfaerr.ErrMissingSidecar)
		}
		return nil, gfaerr.Op("open-index", path, err)
	}
	return &IndexStore{db: db}, nil
}

// Close releases the underlying bolt handle.
func (s *IndexStore) Close() error { return s.db.Close() }

// Lookup returns the byte offset and record count recorded for
// chunkID. ok is false if the chunk id is absent, which the caller
// should treat as corruption: every chunk id a node claims must have
// an index entry.
func (s *IndexStore) Lookup(chunkID int) (offset int64, records int, ok bool, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(indexBucket)
		if b == nil {
			return nil
		}
		v := b.Get(u64tob(uint64(chunkID)))
		if v == nil || len(v) != 16 {
			return nil
		}
		offset = int64(btou64(v[0:8]))
		records = int(btou64(v[8:16]))
		ok = true
		return nil
	})
	return offset, records, ok, err
}

// NodeChunkMode selects how NodeChunkDB holds its bolt handle.
type NodeChunkMode int

const (
	// PerLookup opens, reads one key and closes the db file for every
	// Lookup call, keeping the node->chunk map's memory out of the
	// demand-paged graph's resident set at the cost of per-call open
	// overhead.
	PerLookup NodeChunkMode = iota
	// HeldOpen opens the db file once and keeps it open for the life
	// of the NodeChunkDB, trading that memory for lookup throughput.
	HeldOpen
)

// NodeChunkDB is a read handle onto a chunked.db file: point lookups
// of node id -> chunk id, in either of the two resource-holding modes
// §5 permits.
type NodeChunkDB struct {
	path string
	mode NodeChunkMode
	held *bolt.DB
}

// OpenNodeChunkDB opens path in the given mode. As with OpenIndex, the
// file's existence is checked explicitly first since bolt.Open would
// otherwise silently create an empty db.
func OpenNodeChunkDB(path string, mode NodeChunkMode) (*NodeChunkDB, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, gfaerr.Op("open-db", path, gfaerr.ErrMissingSidecar)
		}
		return nil, gfaerr.Op("open-db", path, err)
	}

	d := &NodeChunkDB{path: path, mode: mode}
	if mode == HeldOpen {
		db, err := bolt.Open(path, 0o644, nil)
		if err != nil {
			return nil, gfaerr.Op("open-db", path, err)
		}
		d.held = db
	}
	return d, nil
}

// Close releases the held bolt handle, if any.
func (d *NodeChunkDB) Close() error {
	if d.held != nil {
		return d.held.Close()
	}
	return nil
}

// Lookup returns the chunk id for nodeID. ok is false if the node is
// absent from the map entirely.
func (d *NodeChunkDB) Lookup(nodeID string) (chunkID int, ok bool, err error) {
	read := func(tx *bolt.Tx) error {
		b := tx.Bucket(nodeChunkBucket)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(nodeID))
		if v == nil {
			return nil
		}
		chunkID = int(btou64(v))
		ok = true
		return nil
	}

	if d.mode == HeldOpen {
		err = d.held.View(read)
		return chunkID, ok, err
	}

	db, err := bolt.Open(d.path, 0o644, nil)
	if err != nil {
		return 0, false, gfaerr.Op("lookup-chunk", d.path, err)
	}
	defer db.Close()
	err = db.View(read)
	return chunkID, ok, err
}
