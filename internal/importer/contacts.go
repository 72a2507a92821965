package importer

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/time/rate"

	"bulletin-engine/internal/docstore"
	"bulletin-engine/internal/domain"
	"bulletin-engine/internal/metrics"
)

const DefaultBatchSize = 500

// ContactResult reports one bulk import run.
type ContactResult struct {
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Errors     int `json:"errors"`
}

// Contacts is the generic bulk importer: create-only, exact-identity
// duplicate detection on the (firstName, lastName) pair, writes grouped
// into size-bounded batches. A failed batch loses only that batch.
type Contacts struct {
	Store     docstore.Store
	BatchSize int
	Limiter   *rate.Limiter
}

func (c Contacts) ImportBatch(ctx context.Context, records []domain.Contact) (ContactResult, error) {
	var res ContactResult

	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	// One corpus read up front; duplicate checks never go back to the store.
	existing, err := c.Store.List(ctx, docstore.CollContacts)
	if err != nil {
		return res, fmt.Errorf("load contact corpus: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, doc := range existing {
		var ct domain.Contact
		if err := docstore.Decode(doc.Data, &ct); err != nil {
			log.Printf("[contacts] corpus doc %s unreadable: %v", doc.ID, err)
			continue
		}
		seen[ct.NameKey()] = true
	}

	var pending []map[string]any
	flush := func() {
		if len(pending) == 0 {
			return
		}
		if c.Limiter != nil {
			_ = c.Limiter.Wait(ctx)
		}
		if err := c.Store.CreateBatch(ctx, docstore.CollContacts, pending); err != nil {
			// Batch-level atomicity: this batch is lost, the next one
			// still runs.
			log.Printf("[contacts] batch of %d failed: %v", len(pending), err)
			res.Errors += len(pending)
			for range pending {
				metrics.ContactOutcomes.WithLabelValues("error").Inc()
			}
		} else {
			res.Created += len(pending)
			for range pending {
				metrics.ContactOutcomes.WithLabelValues("created").Inc()
			}
		}
		pending = pending[:0]
	}

	for _, rec := range records {
		rec.Normalize()
		if rec.FirstName == "" || rec.LastName == "" {
			res.Errors++
			metrics.ContactOutcomes.WithLabelValues("error").Inc()
			continue
		}
		key := rec.NameKey()
		if seen[key] {
			res.Duplicates++
			metrics.ContactOutcomes.WithLabelValues("duplicate").Inc()
			continue
		}
		seen[key] = true

		data, err := docstore.Encode(rec)
		if err != nil {
			res.Errors++
			metrics.ContactOutcomes.WithLabelValues("error").Inc()
			continue
		}
		pending = append(pending, data)
		if len(pending) >= batchSize {
			flush()
		}
	}
	flush()

	return res, nil
}
