package docstore

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Collection names used by the import pipeline.
const (
	CollAnnouncements = "announcements"
	CollContacts      = "contacts"
)

var ErrNotFound = errors.New("docstore: document not found")

// Document is one stored record: a JSON body plus store-assigned identity
// and timestamps.
type Document struct {
	ID        string
	Data      map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter is a single field predicate for List. Field supports dotted paths
// into nested objects ("location.name").
type Filter struct {
	Field string
	Op    string // ==, !=, <, <=, >, >=
	Value any
}

type patchOp int

const (
	patchSet patchOp = iota
	patchClear
)

// PatchValue is one field's fate in an update: Set writes a value, Clear
// deletes the field. A field absent from the Patch is left untouched.
type PatchValue struct {
	op    patchOp
	value any
}

func Set(v any) PatchValue { return PatchValue{op: patchSet, value: v} }
func Clear() PatchValue    { return PatchValue{op: patchClear} }

// Patch is a partial update keyed by field name.
type Patch map[string]PatchValue

// Store is the document-store capability the pipeline consumes. List is
// assumed eventually consistent relative to recent writes.
type Store interface {
	List(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Create(ctx context.Context, collection string, data map[string]any) (string, error)
	// CreateBatch commits all docs or none (batch-level atomicity).
	CreateBatch(ctx context.Context, collection string, docs []map[string]any) error
	Update(ctx context.Context, collection string, id string, patch Patch) error
	Delete(ctx context.Context, collection string, id string) error
	Close() error
}

func applyPatch(data map[string]any, patch Patch) {
	for field, pv := range patch {
		switch pv.op {
		case patchSet:
			data[field] = pv.value
		case patchClear:
			delete(data, field)
		}
	}
}

func lookupField(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = data
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		got, ok := lookupField(data, f.Field)
		if !ok {
			return false
		}
		if !compare(got, f.Op, f.Value) {
			return false
		}
	}
	return true
}

func compare(got any, op string, want any) bool {
	switch op {
	case "", "==":
		return looseEqual(got, want)
	case "!=":
		return !looseEqual(got, want)
	}

	// Ordered comparisons on strings and numbers only.
	if gs, ok := got.(string); ok {
		ws, ok := want.(string)
		if !ok {
			return false
		}
		return ordered(strings.Compare(gs, ws), op)
	}
	gf, gok := toFloat(got)
	wf, wok := toFloat(want)
	if !gok || !wok {
		return false
	}
	switch {
	case gf < wf:
		return ordered(-1, op)
	case gf > wf:
		return ordered(1, op)
	default:
		return ordered(0, op)
	}
}

func ordered(cmp int, op string) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	}
	return false
}

func looseEqual(got, want any) bool {
	if gf, ok := toFloat(got); ok {
		if wf, ok := toFloat(want); ok {
			return gf == wf
		}
	}
	return got == want
}

// toFloat widens JSON and Go numerics so 2 == 2.0 across backends.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
