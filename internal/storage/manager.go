package storage

import (
	"fmt"
	"log"
)

// backendPreference is tried in order when no backend is named. sqlite needs
// cgo, so a binary built without it falls through to the JSON file.
var backendPreference = []string{"sqlite", "file"}

// Open opens the named backend at path. If name is empty the preferred
// backends are tried in order and the first that opens is used.
func Open(name, path string) (Backend, error) {
	if name != "" {
		backend, err := CreateBackend(name, path)
		if err != nil {
			return nil, fmt.Errorf("opening %s backend: %w", name, err)
		}
		return backend, nil
	}

	var lastErr error
	for _, candidate := range backendPreference {
		backend, err := CreateBackend(candidate, pathFor(candidate, path))
		if err != nil {
			log.Printf("[storage] %s backend unavailable: %v", candidate, err)
			lastErr = err
			continue
		}
		return backend, nil
	}

	return nil, fmt.Errorf("no storage backend could be opened: %w", lastErr)
}

// pathFor swaps the extension of a database path for the file backend
func pathFor(backend, path string) string {
	if backend != "file" || path == "" {
		return path
	}
	return replaceExt(path, ".json")
}
