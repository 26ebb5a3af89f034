package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

type dialect struct {
	driver string
	create string
	upsert string
}

var sqliteDialect = dialect{
	driver: "sqlite",
	create: `CREATE TABLE IF NOT EXISTS distance_cache (
		cache_key TEXT PRIMARY KEY,
		distance REAL NOT NULL
	)`,
	upsert: `INSERT OR REPLACE INTO distance_cache (cache_key, distance) VALUES (?, ?)`,
}

var postgresDialect = dialect{
	driver: "pgx",
	create: `CREATE TABLE IF NOT EXISTS distance_cache (
		cache_key TEXT PRIMARY KEY,
		distance DOUBLE PRECISION NOT NULL
	)`,
	upsert: `INSERT INTO distance_cache (cache_key, distance) VALUES ($1, $2)
		ON CONFLICT (cache_key) DO UPDATE SET distance = excluded.distance`,
}

// SQLStore keeps the cache in a distance_cache table
type SQLStore struct {
	memo
	db      *sql.DB
	dialect dialect
}

// OpenSQLite opens (creating if needed) a SQLite cache database
func OpenSQLite(ctx context.Context, dbPath string) (*SQLStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(sqliteDialect.driver, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases alive across calls
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	return newSQLStore(ctx, db, sqliteDialect)
}

// OpenPostgres connects to a Postgres cache database through pgx
func OpenPostgres(ctx context.Context, databaseURL string) (*SQLStore, error) {
	db, err := sql.Open(postgresDialect.driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify postgres connection: %w", err)
	}

	return newSQLStore(ctx, db, postgresDialect)
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, d.create); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create distance_cache table: %w", err)
	}
	return &SQLStore{memo: newMemo(), db: db, dialect: d}, nil
}

// Load reads every cached entry. Query failures yield an empty cache.
func (s *SQLStore) Load(ctx context.Context) error {
	entries, err := s.readAll(ctx)
	if err != nil {
		log.Printf("[WARN] Failed to read distance cache table, starting empty: %v", err)
		entries = make(map[string]float64)
	}
	s.replace(entries)
	log.Printf("[CACHE] Loaded distance cache: %d entries", len(entries))
	return nil
}

func (s *SQLStore) readAll(ctx context.Context) (map[string]float64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT cache_key, distance FROM distance_cache`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distance cache: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]float64)
	for rows.Next() {
		var key string
		var distance float64
		if err := rows.Scan(&key, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan distance cache row: %w", err)
		}
		entries[key] = distance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate distance cache: %w", err)
	}
	return entries, nil
}

// Save upserts the entries added since Load in one transaction
func (s *SQLStore) Save(ctx context.Context) error {
	keys, values := s.pending()
	if len(keys) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.dialect.upsert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, key := range keys {
		if _, err := stmt.ExecContext(ctx, key, values[i]); err != nil {
			return fmt.Errorf("failed to insert cache entry %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.markClean(keys)
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	if s.dialect.driver == sqliteDialect.driver {
		s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	}
	return s.db.Close()
}
