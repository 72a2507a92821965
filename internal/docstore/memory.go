package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store. It backs tests and lets the engine run
// without a database file.
type Memory struct {
	mu    sync.Mutex
	colls map[string]map[string]Document

	// FailCreates makes the next N creates fail; tests use it to exercise
	// the continue-on-error paths.
	FailCreates int
	FailErr     error
}

func NewMemory() *Memory {
	return &Memory{colls: make(map[string]map[string]Document)}
}

func (m *Memory) coll(name string) map[string]Document {
	c, ok := m.colls[name]
	if !ok {
		c = make(map[string]Document)
		m.colls[name] = c
	}
	return c
}

func (m *Memory) List(_ context.Context, collection string, filters ...Filter) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Document
	for _, d := range m.coll(collection) {
		if matches(d.Data, filters) {
			out = append(out, cloneDoc(d))
		}
	}
	return out, nil
}

func (m *Memory) Create(_ context.Context, collection string, data map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreates > 0 {
		m.FailCreates--
		return "", m.FailErr
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	m.coll(collection)[id] = Document{
		ID:        id,
		Data:      cloneData(data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return id, nil
}

func (m *Memory) CreateBatch(_ context.Context, collection string, docs []map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreates > 0 {
		m.FailCreates--
		return m.FailErr
	}

	now := time.Now().UTC()
	for _, data := range docs {
		id := uuid.NewString()
		m.coll(collection)[id] = Document{
			ID:        id,
			Data:      cloneData(data),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.coll(collection)[id]
	if !ok {
		return ErrNotFound
	}
	applyPatch(d.Data, patch)
	d.UpdatedAt = time.Now().UTC()
	m.colls[collection][id] = d
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.coll(collection)[id]; !ok {
		return ErrNotFound
	}
	delete(m.colls[collection], id)
	return nil
}

func (m *Memory) Close() error { return nil }

func cloneDoc(d Document) Document {
	d.Data = cloneData(d.Data)
	return d
}

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
