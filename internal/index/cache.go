// Package index caches parsed document metadata between runs.
//
// The cache is keyed by content hash, so it is a pure read-through
// optimization: a hit returns exactly what parsing the same bytes would
// have produced, and a stale or missing database only costs time.
package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/rook/internal/parser"
	"github.com/aidanlsb/rook/internal/sqlutil"
)

// StateDirName is the vault-local directory holding rook's own files.
const StateDirName = ".rook"

// CurrentCacheVersion is bumped whenever the cached metadata shape changes.
// Old rows are dropped wholesale on a version mismatch.
const CurrentCacheVersion = 1

// Cache is the SQLite-backed metadata cache. It satisfies
// vault.MetadataCache.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database under <vault>/.rook/cache.db.
func Open(vaultPath string) (*Cache, error) {
	stateDir := filepath.Join(vaultPath, StateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", StateDirName, err)
	}

	dbPath := filepath.Join(stateDir, "cache.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	c := &Cache{db: db}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// OpenInMemory opens an in-memory cache (for testing).
func OpenInMemory() (*Cache, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}

	c := &Cache{db: db}
	if err := c.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) initialize() error {
	schema := `
		-- WAL lets a concurrent reader coexist with the writer
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS metadata (
			hash TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
	`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	var version string
	err := c.db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read cache version: %w", err)
	}
	if version != fmt.Sprintf("%d", CurrentCacheVersion) {
		if _, err := c.db.Exec(`DELETE FROM metadata`); err != nil {
			return fmt.Errorf("failed to clear outdated cache: %w", err)
		}
		if _, err := c.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
			fmt.Sprintf("%d", CurrentCacheVersion)); err != nil {
			return fmt.Errorf("failed to set cache version: %w", err)
		}
	}
	return nil
}

// Get returns the cached metadata for a content hash.
func (c *Cache) Get(hash string) (*parser.Metadata, bool) {
	var payload string
	err := c.db.QueryRow(`SELECT payload FROM metadata WHERE hash = ?`, hash).Scan(&payload)
	if err != nil {
		return nil, false
	}

	var meta parser.Metadata
	if err := json.Unmarshal([]byte(payload), &meta); err != nil {
		// A corrupt row is as good as a miss; drop it.
		_, _ = c.db.Exec(`DELETE FROM metadata WHERE hash = ?`, hash)
		return nil, false
	}
	return &meta, true
}

// Put stores metadata under a content hash. Failures are swallowed: the
// cache never makes a run fail.
func (c *Cache) Put(hash string, meta *parser.Metadata) {
	payload, err := json.Marshal(meta)
	if err != nil {
		return
	}
	_, _ = c.db.Exec(
		`INSERT OR REPLACE INTO metadata (hash, payload, created_at) VALUES (?, ?, ?)`,
		hash, string(payload), time.Now().Unix(),
	)
}

// Prune deletes rows whose hash is not in live. Edited documents leave
// their old hashes behind; pruning after a scan keeps the database from
// growing without bound. Returns the number of rows removed.
func (c *Cache) Prune(live []string) (int, error) {
	keep := make(map[string]struct{}, len(live))
	for _, h := range live {
		keep[h] = struct{}{}
	}

	rows, err := c.db.Query(`SELECT hash FROM metadata`)
	if err != nil {
		return 0, err
	}
	hashes, err := sqlutil.ScanRows(rows, func(r *sql.Rows) (string, error) {
		var h string
		err := r.Scan(&h)
		return h, err
	})
	if err != nil {
		return 0, err
	}

	var stale []string
	for _, h := range hashes {
		if _, ok := keep[h]; !ok {
			stale = append(stale, h)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, chunk := range sqlutil.Chunk(stale, 500) {
		placeholders, args := sqlutil.InClauseArgs(chunk)
		if _, err := tx.Exec(`DELETE FROM metadata WHERE hash IN (`+placeholders+`)`, args...); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(stale), nil
}

// Entries returns the number of cached rows.
func (c *Cache) Entries() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM metadata`).Scan(&n)
	return n, err
}
