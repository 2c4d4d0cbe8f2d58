package storage

import "errors"

// ErrClosed is returned by a backend used after Close
var ErrClosed = errors.New("storage backend is closed")

// Backend is a string key-value store holding the serialized task list.
// It satisfies tasks.Storage.
type Backend interface {
	// Name returns the backend identifier (e.g., "sqlite", "file")
	Name() string

	// Get returns the value for key; ok is false when the key was never set
	Get(key string) (value string, ok bool, err error)

	// Set overwrites the value for key
	Set(key, value string) error

	// Remove deletes key; removing a missing key is not an error
	Remove(key string) error

	// Close releases any underlying resources
	Close() error
}

// BackendFactory opens a backend rooted at path. Backends that keep nothing
// on disk ignore path.
type BackendFactory func(path string) (Backend, error)
