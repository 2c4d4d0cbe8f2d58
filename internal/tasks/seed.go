package tasks

import (
	_ "embed"
	"fmt"
)

//go:embed seed.json
var seedJSON string

// SeedTasks returns the bundled starter list. Records in the bundle carry no
// priority, so every task gets the given one.
func SeedTasks(priority Priority) ([]Task, error) {
	list, err := Decode("seed", seedJSON)
	if err != nil {
		return nil, fmt.Errorf("loading seed data: %w", err)
	}
	for i := range list {
		if list[i].Priority == "" {
			list[i].Priority = priority
		}
	}
	return list, nil
}
