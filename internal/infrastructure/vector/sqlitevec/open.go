package sqlitevec

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sanjeev2004/Document-based-Q-A-using-RAG-project/internal/core/domain"
)

// schemaVersion is the newest migration this build understands. A stored
// version above it means the directory was written by something else and the
// file cannot be trusted.
const schemaVersion = 1

var migrations = map[int]string{
	1: `
CREATE TABLE IF NOT EXISTS chunks (
	id TEXT PRIMARY KEY,
	source_name TEXT NOT NULL,
	page_number INTEGER NOT NULL,
	chunk_index INTEGER NOT NULL,
	file_path TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	embedding BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source_name);
`,
}

// openDatabase is indirected so corruption handling can be exercised in tests.
var openDatabase = openDB

// Open opens (or creates) the per-corpus store directory. When the open hits
// a recognized corruption class and allowRepair is set, the directory is
// moved aside with a _corrupt_<timestamp> suffix, a fresh store is created,
// and the open is retried exactly once. The quarantined copy stays on disk
// for forensic inspection.
func Open(dir string, allowRepair bool) (*Store, error) {
	store, err := openDatabase(dir)
	if err == nil {
		return store, nil
	}
	if !isCorruptionError(err) {
		return nil, err
	}
	if !allowRepair {
		return nil, domain.WrapError(domain.ErrStoreCorrupt, "open vector store", err)
	}

	backupDir, repairErr := quarantine(dir)
	if repairErr != nil {
		return nil, domain.WrapError(domain.ErrStoreCorrupt, "quarantine vector store", errors.Join(err, repairErr))
	}
	slog.Warn("vector_store_repaired", "dir", dir, "quarantined", backupDir, "error", err)

	store, reopenErr := openDatabase(dir)
	if reopenErr != nil {
		return nil, domain.WrapError(domain.ErrStoreCorrupt, "reopen vector store after repair", reopenErr)
	}
	return store, nil
}

func openDB(dir string) (*Store, error) {
	if dir == "" {
		dir = "./data/chunk_store"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db, dir: dir}
	if err := store.probe(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// probe forces the lazy sqlite open and runs a quick integrity check so
// corruption surfaces here instead of on the first query.
func (s *Store) probe() error {
	var result string
	if err := s.db.QueryRow(`PRAGMA quick_check`).Scan(&result); err != nil {
		return fmt.Errorf("integrity probe: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity probe: %w: %s", errIntegrity, result)
	}
	return nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)
`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var current int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if current > schemaVersion {
		return fmt.Errorf("schema version %d: %w: supported range is 0..%d", current, errSchemaRange, schemaVersion)
	}

	for version := current + 1; version <= schemaVersion; version++ {
		if _, err := s.db.Exec(migrations[version]); err != nil {
			return fmt.Errorf("apply migration %d: %w", version, err)
		}
		if _, err := s.db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %d: %w", version, err)
		}
	}
	return nil
}

var (
	errIntegrity   = errors.New("integrity check failed")
	errSchemaRange = errors.New("schema version out of supported range")
)

// isCorruptionError recognizes the error classes repair is allowed to handle.
// Anything else propagates untouched.
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errIntegrity) || errors.Is(err, errSchemaRange) {
		return true
	}
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "file is not a database") ||
		strings.Contains(text, "database disk image is malformed") ||
		strings.Contains(text, "malformed database schema")
}

func quarantine(dir string) (string, error) {
	backupDir := fmt.Sprintf("%s_corrupt_%s", dir, time.Now().Format("20060102_150405"))
	if _, err := os.Stat(dir); err == nil {
		if err := os.Rename(dir, backupDir); err != nil {
			return "", fmt.Errorf("move corrupt store aside: %w", err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("recreate store dir: %w", err)
	}
	return backupDir, nil
}
