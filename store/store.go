// Package store provides SQLite-backed snapshot storage for family
// trees. Each snapshot is an immutable, checksummed capture of a tree's
// node-link document under a caller-chosen name.
package store

import "kintree/graph"

// Snapshot describes one stored capture of a family tree.
type Snapshot struct {
	ID          string // uuid
	Name        string
	Fingerprint string // hex BLAKE3 of the canonical node-link document
	Persons     int
	Relations   int
	CreatedAt   int64 // unix milliseconds
}

// SnapshotStore is the persistence boundary the aggregate's host wires
// in when it wants versioned storage beyond single-file save/load.
type SnapshotStore interface {
	// SaveSnapshot captures g under name and returns its metadata.
	SaveSnapshot(name string, g *graph.Graph) (*Snapshot, error)

	// LoadSnapshot reconstructs the graph stored under the snapshot ID.
	LoadSnapshot(id string) (*graph.Graph, error)

	// LoadLatest reconstructs the most recent snapshot under name.
	LoadLatest(name string) (*graph.Graph, error)

	// ListSnapshots returns all snapshot metadata, newest first.
	ListSnapshots() ([]*Snapshot, error)

	// DeleteSnapshot removes a snapshot by ID.
	DeleteSnapshot(id string) error
}
