// Package chunkstore rewrites an in-memory graph into a chunk-contiguous
// GFA file plus two boltdb sidecars — a chunk id to (offset, record
// count) index and a node id to chunk id map — the on-disk layout the
// demand-paged graph reads.
package chunkstore

import (
	"encoding/binary"
	"os"
	"sort"

	"github.com/boltdb/bolt"

	"github.com/fawaz-dabbaghieh/extgfa/gfa"
	"github.com/fawaz-dabbaghieh/extgfa/gfaerr"
	"github.com/fawaz-dabbaghieh/extgfa/xlog"
)

// indexBucket holds chunk_id(big-endian uint64) -> offset(uint64) ++
// n_records(uint64), 16 bytes per value.
var indexBucket = []byte("index")

// nodeChunkBucket holds node_id(string) -> chunk_id(big-endian uint64).
var nodeChunkBucket = []byte("nodechunk")

// u64tob converts v into a big-endian 8-byte key, the sequential-write
// friendly encoding bolt's own documentation recommends and the
// teacher's filesystem packages use throughout for bucket keys.
func u64tob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btou64(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}

// Paths bundles the four on-disk artifacts a chunked write produces.
type Paths struct {
	GFA   string
	Index string
	DB    string
	CSV   string
}

// ForBase derives the standard <base>.gfa/.index/.db/.csv file set.
func ForBase(base string) Paths {
	return Paths{
		GFA:   base + ".gfa",
		Index: base + ".index",
		DB:    base + ".db",
		CSV:   base + ".csv",
	}
}

// csvPalette is the fixed color cycle the visualization CSV assigns to
// chunks, in the order chunk indices are first seen.
var csvPalette = []string{"black", "blue", "green", "red", "yellow", "cyan", "magenta", "purple"}

// Write reassigns each node's chunk id from its position in groups
// (group i gets chunk id i+1), then emits the chunked GFA, the index,
// the node->chunk db, and the visualization CSV at the paths derived
// from base.
func Write(g *gfa.Graph, groups [][]string, base string) error {
	paths := ForBase(base)

	for gi, group := range groups {
		cid := gi + 1
		for _, id := range group {
			n, err := g.Get(id)
			if err != nil {
				return gfaerr.Op("write-chunks", base, err)
			}
			n.ChunkID = cid
		}
	}

	offsets, err := writeGFA(g, groups, paths.GFA)
	if err != nil {
		return err
	}
	if err := writeIndex(offsets, paths.Index); err != nil {
		return err
	}
	if err := writeNodeChunkDB(groups, paths.DB); err != nil {
		return err
	}
	if err := writeCSV(groups, paths.CSV); err != nil {
		return err
	}
	xlog.Info("wrote chunked graph", "chunks", len(groups), "base", base)
	return nil
}

type chunkOffset struct {
	offset  int64
	records int
}

// writeGFA emits chunks in index order, each chunk's records
// contiguous, and returns the byte offset and record count of each.
func writeGFA(g *gfa.Graph, groups [][]string, path string) ([]chunkOffset, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, gfaerr.Op("write-chunks", path, err)
	}
	defer f.Close()

	offsets := make([]chunkOffset, len(groups))
	var pos int64
	for gi, group := range groups {
		ids := append([]string(nil), group...)
		sort.Strings(ids)

		n, err := gfa.WriteNodes(f, g, ids)
		if err != nil {
			return nil, gfaerr.Op("write-chunks", path, err)
		}
		size, err := currentSize(f)
		if err != nil {
			return nil, gfaerr.Op("write-chunks", path, err)
		}
		offsets[gi] = chunkOffset{offset: pos, records: n}
		pos = size
	}
	return offsets, nil
}

func currentSize(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func writeIndex(offsets []chunkOffset, path string) error {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return gfaerr.Op("write-index", path, err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(indexBucket)
		if err != nil {
			return err
		}
		for i, off := range offsets {
			cid := uint64(i + 1)
			val := make([]byte, 16)
			binary.BigEndian.PutUint64(val[0:8], uint64(off.offset))
			binary.BigEndian.PutUint64(val[8:16], uint64(off.records))
			if err := b.Put(u64tob(cid), val); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeNodeChunkDB(groups [][]string, path string) error {
	db, err := bolt.Open(path, 0o644, nil)
	if err != nil {
		return gfaerr.Op("write-db", path, err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(nodeChunkBucket)
		if err != nil {
			return err
		}
		for gi, group := range groups {
			cid := uint64(gi + 1)
			for _, id := range group {
				if err := b.Put([]byte(id), u64tob(cid)); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func writeCSV(groups [][]string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return gfaerr.Op("write-csv", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString("Name,Colour\n"); err != nil {
		return err
	}
	for gi, group := range groups {
		color := csvPalette[gi%len(csvPalette)]
		ids := append([]string(nil), group...)
		sort.Strings(ids)
		for _, id := range ids {
			if _, err := f.WriteString(id + "," + color + "\n"); err != nil {
				return gfaerr.Op("write-csv", path, err)
			}
		}
	}
	return nil
}
