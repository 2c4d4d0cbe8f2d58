package db

import "time"

// Item is one key-value pair in the items table
type Item struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
