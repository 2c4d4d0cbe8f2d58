package tasks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Encode serializes the whole list the way it is persisted
func Encode(list []Task) (string, error) {
	if list == nil {
		list = []Task{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encoding tasks: %w", err)
	}
	return string(data), nil
}

// Decode parses a persisted list. A blank value or JSON null decodes to an
// empty list. Anything that is not an array of tasks with unique ids is
// reported as a *CorruptStateError.
func Decode(key, raw string) ([]Task, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return []Task{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	var list []Task
	if err := dec.Decode(&list); err != nil {
		return nil, &CorruptStateError{Key: key, Raw: raw, Reason: err}
	}
	if dec.More() {
		return nil, &CorruptStateError{Key: key, Raw: raw, Reason: fmt.Errorf("trailing data after task list")}
	}
	if err := checkUniqueIDs(list); err != nil {
		return nil, &CorruptStateError{Key: key, Raw: raw, Reason: err}
	}
	if list == nil {
		list = []Task{}
	}
	return list, nil
}

func checkUniqueIDs(list []Task) error {
	seen := make(map[int]bool, len(list))
	for _, t := range list {
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// EncodeYAML renders the list as a YAML sequence
func EncodeYAML(list []Task) ([]byte, error) {
	if list == nil {
		list = []Task{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(list); err != nil {
		return nil, fmt.Errorf("encoding tasks as yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding tasks as yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeYAML parses a YAML sequence of tasks
func DecodeYAML(data []byte) ([]Task, error) {
	var list []Task
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing yaml tasks: %w", err)
	}
	if list == nil {
		list = []Task{}
	}
	return list, nil
}

// EncodeIndented renders the list as pretty-printed JSON for export
func EncodeIndented(list []Task) ([]byte, error) {
	if list == nil {
		list = []Task{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tasks: %w", err)
	}
	return append(data, '\n'), nil
}
