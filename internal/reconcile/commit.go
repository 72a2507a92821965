package reconcile

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/time/rate"

	"bulletin-engine/internal/docstore"
	"bulletin-engine/internal/domain"
	"bulletin-engine/internal/metrics"
)

// Tally is what the operator gets back from a commit: counts plus the
// specific titles that failed, so a corrective re-import needs no guesswork.
type Tally struct {
	Added    int      `json:"added"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   int      `json:"errors"`
	Failures []string `json:"failures,omitempty"`
}

// Committer writes classified buckets to the store, one record at a time,
// continuing past individual failures. Writes serialize against the corpus
// snapshot the classifier saw; the commit loop is deliberately sequential.
type Committer struct {
	Store   docstore.Store
	Limiter *rate.Limiter // optional write pacing
}

func (c Committer) Commit(ctx context.Context, b Buckets) Tally {
	var t Tally

	for _, a := range b.ToAdd {
		if err := a.ValidateForCreate(); err != nil {
			t.fail(a.Title, err)
			continue
		}
		data, err := docstore.Encode(a)
		if err != nil {
			t.fail(a.Title, err)
			continue
		}
		c.pace(ctx)
		if _, err := c.Store.Create(ctx, docstore.CollAnnouncements, data); err != nil {
			log.Printf("[commit] create failed title=%q err=%v", a.Title, err)
			t.fail(a.Title, err)
			continue
		}
		t.Added++
		metrics.CommitOutcomes.WithLabelValues("added").Inc()
	}

	for _, p := range b.ToUpdate {
		// Recompute against the matched record: the operator may have
		// edited the candidate since classification.
		changed := ChangedFields(p.Candidate, p.Existing)
		if len(changed) == 0 {
			t.Skipped++
			metrics.CommitOutcomes.WithLabelValues("skipped").Inc()
			continue
		}
		patch := buildPatch(p.Candidate, changed)
		c.pace(ctx)
		if err := c.Store.Update(ctx, docstore.CollAnnouncements, p.ExistingID, patch); err != nil {
			log.Printf("[commit] update failed title=%q id=%s err=%v", p.Candidate.Title, p.ExistingID, err)
			t.fail(p.Candidate.Title, err)
			continue
		}
		t.Updated++
		metrics.CommitOutcomes.WithLabelValues("updated").Inc()
	}

	// Duplicates never touch the store.
	t.Skipped += len(b.Duplicates)
	for range b.Duplicates {
		metrics.CommitOutcomes.WithLabelValues("skipped").Inc()
	}

	return t
}

func (t *Tally) fail(title string, err error) {
	t.Errors++
	t.Failures = append(t.Failures, fmt.Sprintf("%s: %v", title, err))
	metrics.CommitOutcomes.WithLabelValues("error").Inc()
}

func (c Committer) pace(ctx context.Context) {
	if c.Limiter == nil {
		return
	}
	_ = c.Limiter.Wait(ctx)
}

// buildPatch carries only the differing fields. Kind drags the derived tag
// fields along so a stored announcement can never show a tag inconsistent
// with its kind. Emptied details/pricing clear the field rather than
// writing an empty value.
func buildPatch(cand domain.Announcement, changed []string) docstore.Patch {
	patch := docstore.Patch{}
	for _, field := range changed {
		switch field {
		case "time":
			patch["time"] = docstore.Set(cand.Time)
		case "location":
			patch["location"] = docstore.Set(map[string]any{
				"name":    cand.Location.Name,
				"address": cand.Location.Address,
			})
		case "kind":
			tag := cand.Kind.Tag()
			patch["kind"] = docstore.Set(string(cand.Kind))
			patch["tagLabel"] = docstore.Set(tag.Label)
			patch["tagColor"] = docstore.Set(tag.Color)
		case "details":
			if len(cand.Details) == 0 {
				patch["details"] = docstore.Clear()
				continue
			}
			lines := make([]any, len(cand.Details))
			for i, d := range cand.Details {
				lines[i] = d
			}
			patch["details"] = docstore.Set(lines)
		case "pricing":
			if cand.Pricing == nil {
				patch["pricing"] = docstore.Clear()
				continue
			}
			data, err := docstore.Encode(cand.Pricing)
			if err != nil {
				continue
			}
			patch["pricing"] = docstore.Set(data)
		}
	}
	return patch
}
