package tasks

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
)

// DefaultKey is the storage key the list lives under
const DefaultKey = "tasks"

// Storage is the key-value persistence port the store writes through.
// Get reports ok=false when the key has never been written.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Options controls how a store initializes and which defaults new tasks get
type Options struct {
	Key             string
	Seed            bool
	DefaultStatus   Status
	DefaultPriority Priority
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Key:             DefaultKey,
		Seed:            true,
		DefaultStatus:   StatusPending,
		DefaultPriority: PriorityMedium,
	}
}

// Store owns the canonical ordered task list and mirrors it to storage after
// every mutation
type Store struct {
	mu        sync.Mutex
	storage   Storage
	opts      Options
	tasks     []Task
	recovered bool
}

// Open loads the list from storage. An absent key is seeded from the bundled
// data when opts.Seed is set. A corrupt value is copied to "<key>.corrupt"
// and replaced by the seed (or empty) list; Recovered then reports true.
func Open(storage Storage, opts Options) (*Store, error) {
	opts = normalizeOptions(opts)
	s := &Store{storage: storage, opts: opts}

	raw, ok, err := storage.Get(opts.Key)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", opts.Key, err)
	}

	if ok && strings.TrimSpace(raw) != "" {
		list, err := Decode(opts.Key, raw)
		if err == nil {
			s.tasks = list
			return s, nil
		}

		var corrupt *CorruptStateError
		if !errors.As(err, &corrupt) {
			return nil, err
		}
		log.Printf("[tasks] %v; starting over", err)
		if err := storage.Set(opts.Key+".corrupt", raw); err != nil {
			return nil, fmt.Errorf("backing up corrupt list: %w", err)
		}
		s.recovered = true
	}

	initial := []Task{}
	if opts.Seed {
		seeded, err := SeedTasks(opts.DefaultPriority)
		if err != nil {
			return nil, err
		}
		initial = seeded
	}
	if err := s.commit(initial); err != nil {
		return nil, err
	}
	return s, nil
}

func normalizeOptions(opts Options) Options {
	def := DefaultOptions()
	if opts.Key == "" {
		opts.Key = def.Key
	}
	if !opts.DefaultStatus.Valid() {
		opts.DefaultStatus = def.DefaultStatus
	}
	if !opts.DefaultPriority.Valid() {
		opts.DefaultPriority = def.DefaultPriority
	}
	return opts
}

// Recovered reports whether Open discarded a corrupt stored list
func (s *Store) Recovered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recovered
}

// Options returns the options the store was opened with
func (s *Store) Options() Options {
	return s.opts
}

// Tasks returns a copy of the list in stored order
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Len returns the number of tasks
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Get returns the task with the given id
func (s *Store) Get(id int) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Task{}, ErrTaskNotFound
	}
	return s.tasks[idx], nil
}

// Add validates the draft and appends a new task with the next free id
func (s *Store) Add(d Draft) (Task, error) {
	name := strings.TrimSpace(d.Name)
	desc := strings.TrimSpace(d.Description)
	due := strings.TrimSpace(d.DueDate)

	if missing := missingFields(name, desc, due); len(missing) > 0 {
		return Task{}, &ValidationError{Fields: missing, Message: "Please enter all fields"}
	}

	status := s.opts.DefaultStatus
	if d.Status != "" {
		if !d.Status.Valid() {
			return Task{}, &ValidationError{Fields: []string{"status"}, Message: fmt.Sprintf("Unknown status %q", d.Status)}
		}
		status = d.Status
	}
	priority := s.opts.DefaultPriority
	if d.Priority != "" {
		if !d.Priority.Valid() {
			return Task{}, &ValidationError{Fields: []string{"priority"}, Message: fmt.Sprintf("Unknown priority %q", d.Priority)}
		}
		priority = d.Priority
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := Task{
		ID:          nextID(s.tasks),
		Name:        name,
		Description: desc,
		DueDate:     due,
		Status:      status,
		Priority:    priority,
	}
	next := append(cloneTasks(s.tasks), task)
	if err := s.commitLocked(next); err != nil {
		return Task{}, err
	}
	return task, nil
}

// Edit merges the patch over the task with the given id. The id itself and
// every nil field are preserved.
func (s *Store) Edit(id int, p Patch) (Task, error) {
	if err := validatePatch(p); err != nil {
		return Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Task{}, ErrTaskNotFound
	}

	next := cloneTasks(s.tasks)
	t := &next[idx]
	if p.Name != nil {
		t.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.DueDate != nil {
		t.DueDate = strings.TrimSpace(*p.DueDate)
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}

	if err := s.commitLocked(next); err != nil {
		return Task{}, err
	}
	return next[idx], nil
}

func validatePatch(p Patch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Fields: []string{"name"}, Message: "Title cannot be empty"}
	}
	if p.Status != nil && !p.Status.Valid() {
		return &ValidationError{Fields: []string{"status"}, Message: fmt.Sprintf("Unknown status %q", *p.Status)}
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return &ValidationError{Fields: []string{"priority"}, Message: fmt.Sprintf("Unknown priority %q", *p.Priority)}
	}
	return nil
}

// SetPriority changes only the priority of a task
func (s *Store) SetPriority(id int, priority Priority) (Task, error) {
	return s.Edit(id, Patch{Priority: &priority})
}

// Delete removes the task with the given id. Callers confirm with the user first.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return ErrTaskNotFound
	}

	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	return s.commitLocked(next)
}

// Clear empties the list and removes the stored key
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Remove(s.opts.Key); err != nil {
		return fmt.Errorf("removing %q: %w", s.opts.Key, err)
	}
	s.tasks = []Task{}
	return nil
}

// SortByDueDate reorders the stored list by due date and persists the new order
func (s *Store) SortByDueDate(order SortOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(SortByDue(s.tasks, order))
}

// Import appends tasks, assigning fresh ids in order. With replace set the
// current list is dropped first. A record missing a required field rejects
// the whole import and nothing is written.
func (s *Store) Import(list []Task, replace bool) ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := []Task{}
	if !replace {
		next = cloneTasks(s.tasks)
	}
	added := make([]Task, 0, len(list))
	for i, t := range list {
		t.Name = strings.TrimSpace(t.Name)
		t.Description = strings.TrimSpace(t.Description)
		t.DueDate = strings.TrimSpace(t.DueDate)
		if missing := missingFields(t.Name, t.Description, t.DueDate); len(missing) > 0 {
			return nil, &ValidationError{
				Fields:  missing,
				Message: fmt.Sprintf("record %d: missing %s", i+1, strings.Join(missing, ", ")),
			}
		}

		t.ID = nextID(next)
		if !t.Status.Valid() {
			t.Status = s.opts.DefaultStatus
		}
		if !t.Priority.Valid() {
			t.Priority = s.opts.DefaultPriority
		}
		next = append(next, t)
		added = append(added, t)
	}
	if err := s.commitLocked(next); err != nil {
		return nil, err
	}
	return added, nil
}

// missingFields names the required fields that are blank
func missingFields(name, desc, due string) []string {
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if desc == "" {
		missing = append(missing, "description")
	}
	if due == "" {
		missing = append(missing, "dueDate")
	}
	return missing
}

func (s *Store) commit(next []Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(next)
}

// commitLocked writes next to storage and only then swaps it in, so the
// in-memory list never runs ahead of what was persisted
func (s *Store) commitLocked(next []Task) error {
	raw, err := Encode(next)
	if err != nil {
		return err
	}
	if err := s.storage.Set(s.opts.Key, raw); err != nil {
		return fmt.Errorf("writing %q: %w", s.opts.Key, err)
	}
	s.tasks = next
	return nil
}

func (s *Store) indexLocked(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func nextID(list []Task) int {
	highest := 0
	for _, t := range list {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}

func cloneTasks(list []Task) []Task {
	out := make([]Task, len(list))
	copy(out, list)
	return out
}
