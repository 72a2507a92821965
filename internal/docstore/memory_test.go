package docstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryCreateAndList(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.Create(ctx, "things", map[string]any{"name": "a", "rank": 2})
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("empty id")
	}

	docs, err := m.List(ctx, "things")
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != id {
		t.Fatalf("docs: %+v", docs)
	}
	if docs[0].CreatedAt.IsZero() || docs[0].UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}
}

func TestMemoryListFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, _ = m.Create(ctx, "things", map[string]any{
		"name": "a", "rank": 2,
		"location": map[string]any{"name": "Salle des Fêtes"},
	})
	_, _ = m.Create(ctx, "things", map[string]any{
		"name": "b", "rank": 5,
		"location": map[string]any{"name": "Église Saint-Jean"},
	})

	tests := []struct {
		name    string
		filters []Filter
		want    int
	}{
		{"eq", []Filter{{Field: "name", Op: "==", Value: "a"}}, 1},
		{"neq", []Filter{{Field: "name", Op: "!=", Value: "a"}}, 1},
		{"gte number", []Filter{{Field: "rank", Op: ">=", Value: 5}}, 1},
		{"lt number", []Filter{{Field: "rank", Op: "<", Value: 5}}, 1},
		// JSON decodes numbers as float64; int filter values must still hit.
		{"widened number", []Filter{{Field: "rank", Op: "==", Value: 2.0}}, 1},
		{"dotted path", []Filter{{Field: "location.name", Op: "==", Value: "Salle des Fêtes"}}, 1},
		{"missing field", []Filter{{Field: "nope", Op: "==", Value: "x"}}, 0},
		{"conjunction", []Filter{
			{Field: "name", Op: "==", Value: "b"},
			{Field: "rank", Op: ">", Value: 2},
		}, 1},
	}
	for _, tt := range tests {
		docs, err := m.List(ctx, "things", tt.filters...)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if len(docs) != tt.want {
			t.Errorf("%s: got %d docs, want %d", tt.name, len(docs), tt.want)
		}
	}
}

func TestMemoryUpdatePatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, _ := m.Create(ctx, "things", map[string]any{
		"name": "a", "rank": 2, "note": "keep me",
	})

	err := m.Update(ctx, "things", id, Patch{
		"rank": Set(9),
		"note": Clear(),
	})
	if err != nil {
		t.Fatal(err)
	}

	docs, _ := m.List(ctx, "things")
	data := docs[0].Data
	if data["rank"] != 9 {
		t.Fatalf("rank: %v", data["rank"])
	}
	if _, ok := data["note"]; ok {
		t.Fatal("cleared field still present")
	}
	// A field absent from the patch is untouched.
	if data["name"] != "a" {
		t.Fatalf("name: %v", data["name"])
	}
}

func TestMemoryUpdateMissing(t *testing.T) {
	m := NewMemory()
	err := m.Update(context.Background(), "things", "nope", Patch{"x": Set(1)})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestMemoryDeleteMissing(t *testing.T) {
	m := NewMemory()
	err := m.Delete(context.Background(), "things", "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestMemoryCreateBatch(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	err := m.CreateBatch(ctx, "things", []map[string]any{
		{"name": "a"}, {"name": "b"}, {"name": "c"},
	})
	if err != nil {
		t.Fatal(err)
	}
	docs, _ := m.List(ctx, "things")
	if len(docs) != 3 {
		t.Fatalf("got %d docs", len(docs))
	}
}

func TestMemoryFailCreates(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.FailCreates = 1
	m.FailErr = errors.New("disk full")

	if _, err := m.Create(ctx, "things", map[string]any{"name": "a"}); err == nil {
		t.Fatal("expected failure")
	}
	if _, err := m.Create(ctx, "things", map[string]any{"name": "b"}); err != nil {
		t.Fatalf("second create: %v", err)
	}
	docs, _ := m.List(ctx, "things")
	if len(docs) != 1 {
		t.Fatalf("got %d docs", len(docs))
	}
}
