package internal

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB is the item inventory: one row per extracted PEM item.
type DB struct {
	*sqlx.DB
}

// NewDB creates and initializes a new in-memory inventory database.
// All operations run in-memory; use SaveToDisk/LoadFromDisk to persist
// or restore data.
func NewDB() (*DB, error) {
	// Pin to a single connection — each :memory: connection is a separate
	// database, so connection pooling must be disabled. PRAGMAs are set via
	// the DSN so they apply automatically to reconnections.
	dsn := "file::memory:?_pragma=temp_store(2)&_pragma=journal_mode(off)&_pragma=synchronous(off)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	dbObj := &DB{DB: db}

	if err := dbObj.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	slog.Debug("inventory database initialized")

	return dbObj, nil
}

func (db *DB) initSchema() error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			source_path text NOT NULL,
			item_index  integer NOT NULL,
			label       text NOT NULL,
			kind        text NOT NULL,
			size        integer NOT NULL,
			sha256      text NOT NULL,
			der         blob NOT NULL,
			metadata    text,
			PRIMARY KEY(source_path, item_index)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating items table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_items_sha256 ON items (sha256);
	`)
	if err != nil {
		return fmt.Errorf("creating sha256 index on items table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_items_kind ON items (kind);
	`)
	if err != nil {
		return fmt.Errorf("creating kind index on items table: %w", err)
	}
	return nil
}

// SaveToDisk writes the in-memory database to a file at the given path.
// Uses VACUUM INTO which produces a clean, compact copy in a single operation.
func (db *DB) SaveToDisk(path string) error {
	_, err := db.Exec("VACUUM INTO ?", path)
	if err != nil {
		return fmt.Errorf("saving database to %s: %w", path, err)
	}
	slog.Info("database saved to disk", "path", path)
	return nil
}

// LoadFromDisk loads items from an on-disk database into the in-memory
// database. The file is read once and then detached.
func (db *DB) LoadFromDisk(path string) error {
	_, err := db.Exec("ATTACH DATABASE ? AS diskdb", path)
	if err != nil {
		return fmt.Errorf("attaching database %s: %w", path, err)
	}
	defer func() {
		if _, err := db.Exec("DETACH DATABASE diskdb"); err != nil {
			slog.Warn("detaching database", "path", path, "error", err)
		}
	}()

	_, err = db.Exec("INSERT OR IGNORE INTO items SELECT * FROM diskdb.items")
	if err != nil {
		return fmt.Errorf("loading items from %s: %w", path, err)
	}

	slog.Info("database loaded from disk", "path", path)
	return nil
}

// InsertItem inserts a new item record, ignoring duplicates (same source
// path and index).
func (db *DB) InsertItem(item ItemRecord) error {
	_, err := db.NamedExec(`
		INSERT OR IGNORE INTO items (source_path, item_index, label, kind, size, sha256, der, metadata)
		VALUES (:source_path, :item_index, :label, :kind, :size, :sha256, :der, :metadata)
	`, item)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}
	return nil
}

// GetAllItems returns all item records, ordered by source path and index.
func (db *DB) GetAllItems() ([]ItemRecord, error) {
	var items []ItemRecord
	err := db.Select(&items, "SELECT * FROM items ORDER BY source_path, item_index")
	if err != nil {
		return nil, fmt.Errorf("getting all items: %w", err)
	}
	return items, nil
}

// GetItemsByKind returns all item records of the given kind, ordered by
// source path and index.
func (db *DB) GetItemsByKind(kind string) ([]ItemRecord, error) {
	var items []ItemRecord
	err := db.Select(&items, "SELECT * FROM items WHERE kind = ? ORDER BY source_path, item_index", kind)
	if err != nil {
		return nil, fmt.Errorf("getting items by kind: %w", err)
	}
	return items, nil
}

// GetItemBySHA256 returns the first item record with the given payload
// hash, or nil if none exists.
func (db *DB) GetItemBySHA256(sum string) (*ItemRecord, error) {
	var item ItemRecord
	err := db.Get(&item, "SELECT * FROM items WHERE sha256 = ? LIMIT 1", sum)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting item by sha256: %w", err)
	}
	return &item, nil
}

// ScanSummary holds aggregate counts from a scan operation.
type ScanSummary struct {
	Certificates int `json:"certificates"`
	PrivateKeys  int `json:"private_keys"`
	CRLs         int `json:"crls"`
	CSRs         int `json:"csrs"`
	PublicKeys   int `json:"public_keys"`
	Unique       int `json:"unique_payloads"`
}

// Total returns the number of cataloged items across all kinds.
func (s *ScanSummary) Total() int {
	return s.Certificates + s.PrivateKeys + s.CRLs + s.CSRs + s.PublicKeys
}

// GetScanSummary queries the database for aggregate counts.
func (db *DB) GetScanSummary() (*ScanSummary, error) {
	s := &ScanSummary{}

	if err := db.Get(&s.Certificates, "SELECT COUNT(*) FROM items WHERE kind = 'certificate'"); err != nil {
		return nil, fmt.Errorf("counting certificates: %w", err)
	}
	if err := db.Get(&s.PrivateKeys, "SELECT COUNT(*) FROM items WHERE kind IN ('rsa-key', 'pkcs8-key', 'ec-key')"); err != nil {
		return nil, fmt.Errorf("counting private keys: %w", err)
	}
	if err := db.Get(&s.CRLs, "SELECT COUNT(*) FROM items WHERE kind = 'crl'"); err != nil {
		return nil, fmt.Errorf("counting CRLs: %w", err)
	}
	if err := db.Get(&s.CSRs, "SELECT COUNT(*) FROM items WHERE kind = 'csr'"); err != nil {
		return nil, fmt.Errorf("counting CSRs: %w", err)
	}
	if err := db.Get(&s.PublicKeys, "SELECT COUNT(*) FROM items WHERE kind = 'public-key'"); err != nil {
		return nil, fmt.Errorf("counting public keys: %w", err)
	}
	if err := db.Get(&s.Unique, "SELECT COUNT(DISTINCT sha256) FROM items"); err != nil {
		return nil, fmt.Errorf("counting unique payloads: %w", err)
	}

	return s, nil
}

// DumpDB logs all items in the database at debug level.
func (db *DB) DumpDB() error {
	slog.Debug("dumping items")

	rows, err := db.Queryx("SELECT * FROM items ORDER BY source_path, item_index")
	if err != nil {
		return fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var item ItemRecord
		if err := rows.StructScan(&item); err != nil {
			return fmt.Errorf("scanning item: %w", err)
		}
		slog.Debug("item record",
			"source", item.SourcePath,
			"index", item.ItemIndex,
			"label", item.Label,
			"kind", item.Kind,
			"size", item.Size,
			"sha256", item.SHA256)
		count++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating items: %w", err)
	}
	slog.Debug("total items", "count", count)

	return nil
}
