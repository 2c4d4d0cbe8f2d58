package db

import (
	"fmt"
	"log"
)

// RunMigrations applies any pending database migrations
func (db *DB) RunMigrations() error {
	// A database file created by hand or by an older build may lack the table
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS items (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("ensuring items table: %w", err)
	}

	// Run timestamp columns migration
	if err := db.runTimestampMigration(); err != nil {
		return err
	}

	return nil
}

func (db *DB) runTimestampMigration() error {
	// Check if timestamp columns exist
	var count int
	err := db.conn.QueryRow(`
		SELECT COUNT(*)
		FROM pragma_table_info('items')
		WHERE name IN ('created_at', 'updated_at')
	`).Scan(&count)

	if err != nil {
		return fmt.Errorf("checking for timestamp columns: %w", err)
	}

	if count >= 2 {
		return nil
	}

	log.Println("[db] running migration: adding item timestamp columns")

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	// sqlite refuses non-constant defaults in ALTER TABLE, so backfill instead
	_, err = tx.Exec(`ALTER TABLE items ADD COLUMN created_at DATETIME`)
	if err != nil && err.Error() != "duplicate column name: created_at" {
		return fmt.Errorf("adding created_at column: %w", err)
	}

	_, err = tx.Exec(`ALTER TABLE items ADD COLUMN updated_at DATETIME`)
	if err != nil && err.Error() != "duplicate column name: updated_at" {
		return fmt.Errorf("adding updated_at column: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE items
		SET created_at = COALESCE(created_at, CURRENT_TIMESTAMP),
		    updated_at = COALESCE(updated_at, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("backfilling timestamps: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration: %w", err)
	}

	log.Println("[db] migration completed successfully")
	return nil
}
