package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and local development.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{docs: map[string]json.RawMessage{}}
}

func (m *Memory) Get(_ context.Context, path string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (m *Memory) Set(_ context.Context, path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[path] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Update(_ context.Context, path string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mergeLocked(path, fields)
}

func (m *Memory) mergeLocked(path string, fields map[string]any) error {
	merged := map[string]any{}
	if existing, ok := m.docs[path]; ok {
		if err := json.Unmarshal(existing, &merged); err != nil {
			return err
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	data, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	m.docs[path] = data
	return nil
}

func (m *Memory) Push(ctx context.Context, path string, value any) (string, error) {
	key := uuid.NewString()
	if err := m.Set(ctx, joinPath(path, key), value); err != nil {
		return "", err
	}
	return key, nil
}

func (m *Memory) Children(_ context.Context, path string) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	children := map[string]json.RawMessage{}
	for p, data := range m.docs {
		if parent, key := splitPath(p); parent == path {
			children[key] = data
		}
	}
	return children, nil
}

func (m *Memory) ChildKeys(_ context.Context, path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix := strings.Trim(path, "/") + "/"
	seen := map[string]bool{}
	var keys []string
	for p := range m.docs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		key, _, _ := strings.Cut(p[len(prefix):], "/")
		if key != "" && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *Memory) Transform(_ context.Context, path string, fn func(current json.RawMessage) (any, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current json.RawMessage
	if data, ok := m.docs[path]; ok {
		current = data
	}
	next, err := fn(current)
	if err != nil {
		return err
	}
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	m.docs[path] = data
	return nil
}
