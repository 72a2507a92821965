package reconcile

import (
	"testing"
	"time"

	"bulletin-engine/internal/domain"
)

func announcement(title string, date domain.Date) domain.Announcement {
	a := domain.Announcement{
		Title:    title,
		Date:     date,
		Time:     "20h00",
		Location: domain.Location{Name: "Église Saint-Jean", Address: "12 rue des Lilas"},
		Priority: 100,
		IsActive: true,
		Status:   domain.StatusDraft,
	}
	a.SetKind(domain.KindConcert)
	return a
}

func TestIsDuplicate(t *testing.T) {
	base := announcement("Concert de Noël", domain.NewDate(2025, time.December, 15))

	tests := []struct {
		name  string
		title string
		date  domain.Date
		want  bool
	}{
		{"identical", "Concert de Noël", domain.NewDate(2025, time.December, 15), true},
		{"case differs", "CONCERT DE NOËL", domain.NewDate(2025, time.December, 15), true},
		{"whitespace differs", "  Concert   de Noël ", domain.NewDate(2025, time.December, 15), true},
		{"one day before", "Concert de Noël", domain.NewDate(2025, time.December, 14), true},
		{"one day after", "Concert de Noël", domain.NewDate(2025, time.December, 16), true},
		{"two days apart", "Concert de Noël", domain.NewDate(2025, time.December, 17), false},
		{"different title", "Concert de Pâques", domain.NewDate(2025, time.December, 15), false},
	}
	for _, tt := range tests {
		other := announcement(tt.title, tt.date)
		if got := IsDuplicate(base, other); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
		// Matching is symmetric.
		if got := IsDuplicate(other, base); got != tt.want {
			t.Errorf("%s (reversed): got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestClassifyBuckets(t *testing.T) {
	existing := announcement("Concert de Noël", domain.NewDate(2025, time.December, 15))
	existing.ID = "doc-1"

	exact := announcement("concert de noël", domain.NewDate(2025, time.December, 15))
	changed := announcement("Concert de Noël", domain.NewDate(2025, time.December, 16))
	changed.Time = "21h00"
	fresh := announcement("Vêpres de l'Avent", domain.NewDate(2025, time.December, 20))

	b := Classify([]domain.Announcement{exact, changed, fresh}, []domain.Announcement{existing})

	if len(b.Duplicates) != 1 {
		t.Fatalf("duplicates: %d", len(b.Duplicates))
	}
	if b.Duplicates[0].ExistingID != "doc-1" {
		t.Errorf("duplicate existing id: %q", b.Duplicates[0].ExistingID)
	}
	if len(b.ToUpdate) != 1 {
		t.Fatalf("to update: %d", len(b.ToUpdate))
	}
	if len(b.ToUpdate[0].Changed) == 0 {
		t.Error("update pair has no changed fields")
	}
	if len(b.ToAdd) != 1 || b.ToAdd[0].Title != "Vêpres de l'Avent" {
		t.Fatalf("to add: %+v", b.ToAdd)
	}
}

func TestClassifyEmptyCorpus(t *testing.T) {
	cand := announcement("Concert de Noël", domain.NewDate(2025, time.December, 15))
	b := Classify([]domain.Announcement{cand}, nil)
	if len(b.ToAdd) != 1 || len(b.Duplicates) != 0 || len(b.ToUpdate) != 0 {
		t.Fatalf("buckets: %+v", b)
	}
}

func TestChangedFields(t *testing.T) {
	base := announcement("Concert de Noël", domain.NewDate(2025, time.December, 15))
	base.Details = []string{"Entrée libre", "Ouverture à 19h30"}
	base.Pricing = &domain.Pricing{Adult: "12€"}

	same := base
	// Detail order doesn't count as a change.
	same.Details = []string{"Ouverture à 19h30", "Entrée libre"}
	if got := ChangedFields(same, base); len(got) != 0 {
		t.Fatalf("reordered details flagged: %v", got)
	}

	mod := base
	mod.Time = "21h00"
	mod.Location.Address = "14 rue des Lilas"
	mod.SetKind(domain.KindPerformance)
	mod.Details = []string{"Entrée libre"}
	mod.Pricing = &domain.Pricing{Adult: "15€"}

	got := ChangedFields(mod, base)
	want := map[string]bool{"time": true, "location": true, "kind": true, "details": true, "pricing": true}
	if len(got) != len(want) {
		t.Fatalf("changed: %v", got)
	}
	for _, f := range got {
		if !want[f] {
			t.Errorf("unexpected field %q", f)
		}
	}
}

func TestChangedFieldsPricingPresence(t *testing.T) {
	withPricing := announcement("Concert", domain.NewDate(2025, time.December, 15))
	withPricing.Pricing = &domain.Pricing{Free: "Entrée libre"}
	without := announcement("Concert", domain.NewDate(2025, time.December, 15))

	got := ChangedFields(without, withPricing)
	if len(got) != 1 || got[0] != "pricing" {
		t.Fatalf("changed: %v", got)
	}
}
