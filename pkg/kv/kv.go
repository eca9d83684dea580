// Package kv is the key/value namespace shared by every process that can
// reach the container. It is backed by a small SQLite database.
package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver with database/sql
)

// DefaultFileName is the database file inside the shared container.
const DefaultFileName = "shared.db"

// Store reads and writes values under a fixed namespace.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// DB is a Store backed by SQLite.
type DB struct {
	db        *sql.DB
	namespace string
}

// Open opens (or creates) the database at path scoped to namespace.
func Open(path, namespace string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("kv.Open: %w", err)
	}

	sqldb, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("kv.Open: %w", err)
	}

	_, err = sqldb.Exec(`CREATE TABLE IF NOT EXISTS kv (
		namespace TEXT NOT NULL,
		key       TEXT NOT NULL,
		value     TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	)`)
	if err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("kv.Open createSchema: %w", err)
	}

	return &DB{db: sqldb, namespace: namespace}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks that the database is reachable.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// Get returns the value for key, or ok=false when unset.
func (d *DB) Get(key string) (string, bool, error) {
	var v string
	err := d.db.QueryRow(
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, d.namespace, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv.Get %s: %w", key, err)
	}
	return v, true, nil
}

// Set stores value under key, replacing any previous value.
func (d *DB) Set(key, value string) error {
	_, err := d.db.Exec(
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value`,
		d.namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("kv.Set %s: %w", key, err)
	}
	return nil
}

// SetMany stores all pairs in one transaction so readers never see a partial set.
func (d *DB) SetMany(pairs map[string]string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("kv.SetMany: %w", err)
	}
	for k, v := range pairs {
		_, err := tx.Exec(
			`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
			 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value`,
			d.namespace, k, v,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("kv.SetMany %s: %w", k, err)
		}
	}
	return tx.Commit()
}

// Delete removes keys. Missing keys are ignored.
func (d *DB) Delete(keys ...string) error {
	for _, k := range keys {
		if _, err := d.db.Exec(`DELETE FROM kv WHERE namespace = ? AND key = ?`, d.namespace, k); err != nil {
			return fmt.Errorf("kv.Delete %s: %w", k, err)
		}
	}
	return nil
}
