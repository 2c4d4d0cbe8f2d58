package storage

import "github.com/pdxmph/tasklist-tui/internal/db"

// SQLiteBackend stores keys in the items table of a local sqlite database
type SQLiteBackend struct {
	db *db.DB
}

// NewSQLiteBackend opens the database at path, creating it when missing
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteBackend{db: database}, nil
}

// Name returns the backend identifier
func (s *SQLiteBackend) Name() string {
	return "sqlite"
}

// Get returns the stored value for key
func (s *SQLiteBackend) Get(key string) (string, bool, error) {
	item, err := s.db.GetItem(key)
	if err != nil {
		return "", false, err
	}
	if item == nil {
		return "", false, nil
	}
	return item.Value, true, nil
}

// Set stores value under key
func (s *SQLiteBackend) Set(key, value string) error {
	return s.db.SetItem(key, value)
}

// Remove deletes key
func (s *SQLiteBackend) Remove(key string) error {
	return s.db.RemoveItem(key)
}

// Close closes the database connection
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

// Register the sqlite backend
func init() {
	Register("sqlite", func(path string) (Backend, error) { return NewSQLiteBackend(path) })
}
