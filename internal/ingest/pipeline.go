package ingest

import (
	"context"
	"fmt"

	"bulletin-engine/internal/docstore"
	"bulletin-engine/internal/domain"
	"bulletin-engine/internal/extract"
	"bulletin-engine/internal/metrics"
	"bulletin-engine/internal/normalize"
	"bulletin-engine/internal/reconcile"
)

// Pipeline wires extraction, normalization and classification over a fresh
// corpus snapshot. Committing the resulting buckets is the operator's move,
// never the pipeline's.
type Pipeline struct {
	Store docstore.Store
}

// Preview runs one source text through the pipeline and returns the three
// buckets for review. The corpus is read once, before any comparison.
func (p Pipeline) Preview(ctx context.Context, sourceText string) (reconcile.Buckets, error) {
	raws := extract.Extract(sourceText)

	var candidates []domain.Announcement
	for _, raw := range raws {
		a := normalize.Normalize(raw)
		if a == nil {
			continue
		}
		candidates = append(candidates, *a)
	}

	existing, err := LoadAnnouncements(ctx, p.Store)
	if err != nil {
		return reconcile.Buckets{}, err
	}

	buckets := reconcile.Classify(candidates, existing)
	metrics.Classified.WithLabelValues("to_add").Add(float64(len(buckets.ToAdd)))
	metrics.Classified.WithLabelValues("duplicate").Add(float64(len(buckets.Duplicates)))
	metrics.Classified.WithLabelValues("to_update").Add(float64(len(buckets.ToUpdate)))
	return buckets, nil
}

// LoadAnnouncements reads the full announcement corpus from the store.
func LoadAnnouncements(ctx context.Context, s docstore.Store) ([]domain.Announcement, error) {
	docs, err := s.List(ctx, docstore.CollAnnouncements)
	if err != nil {
		return nil, fmt.Errorf("load announcement corpus: %w", err)
	}
	out := make([]domain.Announcement, 0, len(docs))
	for _, doc := range docs {
		var a domain.Announcement
		if err := docstore.Decode(doc.Data, &a); err != nil {
			return nil, fmt.Errorf("announcement doc %s: %w", doc.ID, err)
		}
		a.ID = doc.ID
		a.CreatedAt = doc.CreatedAt
		a.UpdatedAt = doc.UpdatedAt
		out = append(out, a)
	}
	return out, nil
}
