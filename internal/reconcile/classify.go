package reconcile

import (
	"encoding/json"
	"sort"
	"strings"

	"bulletin-engine/internal/domain"
)

// Pair binds a candidate to the existing announcement it matched.
type Pair struct {
	Candidate  domain.Announcement `json:"candidate"`
	ExistingID string              `json:"existingId"`
	Existing   domain.Announcement `json:"existing"`
	// Changed lists the doc fields that differ; informational for the
	// review surface, recomputed at commit time in case of edits.
	Changed []string `json:"changed,omitempty"`
}

// Buckets is the classifier's verdict over one candidate list.
type Buckets struct {
	ToAdd      []domain.Announcement `json:"toAdd"`
	Duplicates []Pair                `json:"duplicates"`
	ToUpdate   []Pair                `json:"toUpdate"`
}

// Classify compares candidates against the existing corpus. Matching is an
// O(n·m) scan; corpus sizes are operator-scale, so no index is built.
func Classify(candidates []domain.Announcement, existing []domain.Announcement) Buckets {
	var b Buckets
	for _, cand := range candidates {
		matched := false
		for _, old := range existing {
			if !IsDuplicate(cand, old) {
				continue
			}
			matched = true
			pair := Pair{
				Candidate:  cand,
				ExistingID: old.ID,
				Existing:   old,
				Changed:    ChangedFields(cand, old),
			}
			if len(pair.Changed) > 0 {
				b.ToUpdate = append(b.ToUpdate, pair)
			} else {
				b.Duplicates = append(b.Duplicates, pair)
			}
			break
		}
		if !matched {
			b.ToAdd = append(b.ToAdd, cand)
		}
	}
	return b
}

// IsDuplicate holds when titles are equal after lower-casing and collapsing
// whitespace AND the dates are at most one calendar day apart (inclusive;
// operators re-key dates with transcription slips).
func IsDuplicate(a, b domain.Announcement) bool {
	if normalizeTitle(a.Title) != normalizeTitle(b.Title) {
		return false
	}
	return domain.DaysApart(a.Date, b.Date) <= 1
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ChangedFields deep-compares the content of a matched pair and returns the
// doc fields that differ. Empty means identical, i.e. a true duplicate.
func ChangedFields(cand, old domain.Announcement) []string {
	var changed []string
	if cand.Time != old.Time {
		changed = append(changed, "time")
	}
	if cand.Location.Name != old.Location.Name || cand.Location.Address != old.Location.Address {
		changed = append(changed, "location")
	}
	if cand.Kind != old.Kind {
		changed = append(changed, "kind")
	}
	if !sameDetailSet(cand.Details, old.Details) {
		changed = append(changed, "details")
	}
	if !samePricing(cand.Pricing, old.Pricing) {
		changed = append(changed, "pricing")
	}
	return changed
}

// sameDetailSet compares detail lines order-independently.
func sameDetailSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func samePricing(a, b *domain.Pricing) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}
