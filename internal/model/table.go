package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// EdgeTable is the append-only accumulating table filled by one crawl.
// Records are never removed or rewritten; its length is the only growth
// signal the crawl loop looks at.
//
// EdgeTable is not safe for concurrent use. A crawl has exactly one writer.
type EdgeTable struct {
	edges []Edge
}

// NewEdgeTable returns an empty table with room for capacity edges.
func NewEdgeTable(capacity int) *EdgeTable {
	if capacity < 0 {
		capacity = 0
	}
	return &EdgeTable{edges: make([]Edge, 0, capacity)}
}

// Append adds e at the end of the table.
func (t *EdgeTable) Append(e Edge) {
	t.edges = append(t.edges, e)
}

// Len returns the number of edges in the table.
func (t *EdgeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.edges)
}

// At returns the edge at position i.
func (t *EdgeTable) At(i int) Edge {
	return t.edges[i]
}

// Edges returns a copy of the edges in insertion order.
func (t *EdgeTable) Edges() []Edge {
	if t == nil {
		return nil
	}
	out := make([]Edge, len(t.edges))
	copy(out, t.edges)
	return out
}

// Digest returns the hex SHA3-256 digest of the table contents.
// Two tables with the same edges in the same order have the same digest,
// which lets stored runs of one video be compared without loading them.
func (t *EdgeTable) Digest() string {
	h := sha3.New256()
	if t != nil {
		for _, e := range t.edges {
			for _, field := range e.Record() {
				// Length-prefix each field so that field boundaries are unambiguous.
				_, _ = h.Write([]byte{byte(len(field) >> 24), byte(len(field) >> 16), byte(len(field) >> 8), byte(len(field))})
				_, _ = h.Write([]byte(field))
			}
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
