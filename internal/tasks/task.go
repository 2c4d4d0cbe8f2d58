package tasks

import (
	"fmt"
	"strings"
	"time"
)

// DueDateLayout is the calendar date format used for Task.DueDate
const DueDateLayout = "2006-01-02"

// Status is the progress state of a task
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every valid status in display order
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Priority is the importance level of a task
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every valid priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Task is a single entry in the task list. The JSON field names match the
// layout of the persisted list.
type Task struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	DueDate     string   `json:"dueDate" yaml:"dueDate"`
	Status      Status   `json:"status" yaml:"status"`
	Priority    Priority `json:"priority" yaml:"priority"`
}

// Due parses the due date. ok is false when the date is empty or malformed.
func (t Task) Due() (time.Time, bool) {
	d, err := time.Parse(DueDateLayout, strings.TrimSpace(t.DueDate))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Draft holds the user supplied fields for a new task. Status and Priority
// are optional; empty values fall back to the store defaults.
type Draft struct {
	Name        string
	Description string
	DueDate     string
	Status      Status
	Priority    Priority
}

// Patch describes a partial edit. Nil fields are left untouched.
type Patch struct {
	Name        *string
	Description *string
	DueDate     *string
	Status      *Status
	Priority    *Priority
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.DueDate == nil &&
		p.Status == nil && p.Priority == nil
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if v == p {
			return true
		}
	}
	return false
}

// ParseStatus matches s case-insensitively against the known statuses.
// "in-progress" and "inprogress" are accepted for "In Progress".
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	if norm == "inprogress" {
		norm = "in progress"
	}
	for _, v := range Statuses {
		if strings.ToLower(string(v)) == norm {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (want Pending, In Progress or Completed)", s)
}

// ParsePriority matches s case-insensitively against the known priorities
func ParsePriority(s string) (Priority, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, v := range Priorities {
		if strings.ToLower(string(v)) == norm {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q (want Low, Medium or High)", s)
}

// Next returns the following priority, wrapping from High to Low
func (p Priority) Next() Priority {
	return p.shift(1)
}

// Prev returns the preceding priority, wrapping from Low to High
func (p Priority) Prev() Priority {
	return p.shift(-1)
}

func (p Priority) shift(delta int) Priority {
	idx := 0
	for i, v := range Priorities {
		if v == p {
			idx = i
			break
		}
	}
	n := len(Priorities)
	return Priorities[((idx+delta)%n+n)%n]
}

// Next returns the following status, wrapping around
func (s Status) Next() Status {
	idx := 0
	for i, v := range Statuses {
		if v == s {
			idx = i
			break
		}
	}
	return Statuses[(idx+1)%len(Statuses)]
}
