package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// Open connects to the database at dbPath, creating it with the full schema
// when it does not exist yet
func Open(dbPath string) (*DB, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		if err := Initialize(dbPath); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer keeps sqlite from reporting "database is locked" to ourselves
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	db := &DB{conn: conn}

	// Run any pending migrations
	if err := db.RunMigrations(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetItem returns the item stored under key, or nil if there is none
func (db *DB) GetItem(key string) (*Item, error) {
	query := `SELECT key, value, updated_at FROM items WHERE key = ?`

	var item Item
	err := db.conn.QueryRow(query, key).Scan(&item.Key, &item.Value, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading item %q: %w", key, err)
	}

	return &item, nil
}

// SetItem inserts or overwrites the value stored under key
func (db *DB) SetItem(key, value string) error {
	query := `
		INSERT INTO items (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
		    value = excluded.value,
		    updated_at = CURRENT_TIMESTAMP
	`
	if _, err := db.conn.Exec(query, key, value); err != nil {
		return fmt.Errorf("writing item %q: %w", key, err)
	}
	return nil
}

// RemoveItem deletes the item stored under key
func (db *DB) RemoveItem(key string) error {
	if _, err := db.conn.Exec(`DELETE FROM items WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing item %q: %w", key, err)
	}
	return nil
}
