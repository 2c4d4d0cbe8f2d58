package tasks

import (
	"sort"
	"strings"
)

// SortOrder is the due date ordering of a derived view
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAsc
	SortDesc
)

func (o SortOrder) String() string {
	switch o {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return "none"
	}
}

// Toggle returns the order the next sort activation applies. The first
// activation sorts ascending.
func (o SortOrder) Toggle() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// ParseSortOrder accepts "asc", "desc" and "" (no sort)
func ParseSortOrder(s string) (SortOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return SortNone, true
	case "asc":
		return SortAsc, true
	case "desc":
		return SortDesc, true
	}
	return SortNone, false
}

// Filter selects tasks by exact priority, exact status and a case-insensitive
// name search. Empty fields match everything.
type Filter struct {
	Priority Priority
	Status   Status
	Search   string
}

// IsZero reports whether the filter matches every task
func (f Filter) IsZero() bool {
	return f.Priority == "" && f.Status == "" && strings.TrimSpace(f.Search) == ""
}

// Match reports whether t passes every active predicate
func (f Filter) Match(t Task) bool {
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(q)) {
		return false
	}
	return true
}

// Apply returns the matching tasks in their original order
func (f Filter) Apply(list []Task) []Task {
	out := make([]Task, 0, len(list))
	for _, t := range list {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDue returns a copy of list ordered by due date. The sort is stable.
// Tasks whose due date does not parse go last regardless of direction.
func SortByDue(list []Task, order SortOrder) []Task {
	out := cloneTasks(list)
	if order == SortNone {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		di, okI := out[i].Due()
		dj, okJ := out[j].Due()
		switch {
		case !okI && !okJ:
			return false
		case !okI:
			return false
		case !okJ:
			return true
		}
		if order == SortDesc {
			return di.After(dj)
		}
		return di.Before(dj)
	})
	return out
}

// View is the filter and ordering applied on top of the stored list
type View struct {
	Filter Filter
	Order  SortOrder
}

// Derive filters then sorts list without touching it
func (v View) Derive(list []Task) []Task {
	return SortByDue(v.Filter.Apply(list), v.Order)
}
