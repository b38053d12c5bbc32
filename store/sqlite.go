package store

import (
	"bytes"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"kintree/cas"
	"kintree/graph"
	"kintree/nodelink"
)

//go:embed schema.sql
var schemaSQL string

//go:embed pragmas.sql
var pragmasSQL string

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
)

// DB wraps a SQLite connection for snapshot storage.
type DB struct {
	conn *sql.DB
	mu   sync.RWMutex
	path string
}

var _ SnapshotStore = (*DB)(nil)

// OpenDir opens or creates a snapshot database inside dir.
func OpenDir(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}
	return Open(filepath.Join(dir, "kintree.db"))
}

// Open opens a database at the given path, applying pragmas and schema.
func Open(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	db := &DB{conn: conn, path: dbPath}

	for _, pragma := range strings.Split(pragmasSQL, "\n") {
		pragma = strings.TrimSpace(pragma)
		if pragma == "" || strings.HasPrefix(pragma, "--") {
			continue
		}
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// SaveSnapshot captures g under name: the node-link document is stored
// with a BLAKE3 checksum of its bytes and a canonical fingerprint of
// its content.
func (db *DB) SaveSnapshot(name string, g *graph.Graph) (*Snapshot, error) {
	doc := nodelink.FromGraph(g)
	data, err := nodelink.Encode(doc)
	if err != nil {
		return nil, err
	}
	fingerprint, err := cas.Fingerprint(doc)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting document: %w", err)
	}

	snap := &Snapshot{
		ID:          uuid.NewString(),
		Name:        name,
		Fingerprint: cas.BytesToHex(fingerprint),
		Persons:     len(doc.Nodes),
		Relations:   len(doc.Links),
		CreatedAt:   cas.NowMs(),
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	_, err = db.conn.Exec(
		`INSERT INTO snapshots (id, name, ts, fingerprint, checksum, persons, relations, doc)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Name, snap.CreatedAt, fingerprint, cas.Blake3Hash(data),
		snap.Persons, snap.Relations, data,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting snapshot: %w", err)
	}
	return snap, nil
}

// LoadSnapshot reconstructs the graph stored under a snapshot ID,
// verifying the stored checksum first.
func (db *DB) LoadSnapshot(id string) (*graph.Graph, error) {
	db.mu.RLock()
	row := db.conn.QueryRow(`SELECT checksum, doc FROM snapshots WHERE id = ?`, id)
	db.mu.RUnlock()
	return db.scanGraph(row)
}

// LoadLatest reconstructs the most recent snapshot stored under name.
func (db *DB) LoadLatest(name string) (*graph.Graph, error) {
	db.mu.RLock()
	row := db.conn.QueryRow(
		`SELECT checksum, doc FROM snapshots WHERE name = ? ORDER BY ts DESC, rowid DESC LIMIT 1`, name)
	db.mu.RUnlock()
	return db.scanGraph(row)
}

func (db *DB) scanGraph(row *sql.Row) (*graph.Graph, error) {
	var checksum, data []byte
	err := row.Scan(&checksum, &data)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	if !bytes.Equal(cas.Blake3Hash(data), checksum) {
		return nil, ErrChecksumMismatch
	}

	doc, err := nodelink.Decode(data)
	if err != nil {
		return nil, err
	}
	return doc.Graph()
}

// ListSnapshots returns all snapshot metadata, newest first.
func (db *DB) ListSnapshots() ([]*Snapshot, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(
		`SELECT id, name, ts, fingerprint, persons, relations FROM snapshots ORDER BY ts DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []*Snapshot
	for rows.Next() {
		var s Snapshot
		var fingerprint []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &fingerprint, &s.Persons, &s.Relations); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		s.Fingerprint = cas.BytesToHex(fingerprint)
		snaps = append(snaps, &s)
	}
	return snaps, rows.Err()
}

// DeleteSnapshot removes a snapshot by ID.
func (db *DB) DeleteSnapshot(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	result, err := db.conn.Exec(`DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if n == 0 {
		return ErrSnapshotNotFound
	}
	return nil
}
