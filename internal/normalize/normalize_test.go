package normalize

import (
	"testing"
	"time"

	"bulletin-engine/internal/domain"
	"bulletin-engine/internal/extract"
)

func TestNormalizeValidCandidate(t *testing.T) {
	raw := extract.RawCandidate{
		Title:           "Concert de Noël",
		DateTime:        "15 décembre 2025 à 20h00",
		LocationName:    "Église Saint-Jean",
		LocationAddress: "12 rue des Lilas",
		Details:         []string{"Ouverture des portes à 19h30", "Entrée libre"},
	}

	a := Normalize(raw)
	if a == nil {
		t.Fatal("candidate dropped")
	}
	if a.Date != domain.NewDate(2025, time.December, 15) {
		t.Errorf("date: %+v", a.Date)
	}
	if a.Time != "20h00" {
		t.Errorf("time: %q", a.Time)
	}
	if a.Kind != domain.KindConcert || a.TagLabel != "Concert" || a.TagColor != "#7c3aed" {
		t.Errorf("kind/tag: %q %q %q", a.Kind, a.TagLabel, a.TagColor)
	}
	if a.Status != domain.StatusDraft || !a.IsActive || a.Priority != defaultPriority {
		t.Errorf("defaults: %+v", a)
	}
	if len(a.Details) != 1 || a.Details[0] != "Ouverture des portes à 19h30" {
		t.Errorf("details: %v", a.Details)
	}
	if a.Pricing == nil || a.Pricing.Free != "Entrée libre" {
		t.Errorf("pricing: %+v", a.Pricing)
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		in       string
		wantDate domain.Date
		wantTime string
		ok       bool
	}{
		{"15 décembre 2025 à 20h00", domain.NewDate(2025, time.December, 15), "20h00", true},
		{"1er mai 2026 à 9h30", domain.NewDate(2026, time.May, 1), "9h30", true},
		{"1 Août 2026 à 10h00", domain.NewDate(2026, time.August, 1), "10h00", true},
		{"  15 décembre 2025 à 20h00  ", domain.NewDate(2025, time.December, 15), "20h00", true},
		{"32 janvier 2025 à 20h00", domain.Date{}, "", false},
		{"15 frimaire 2025 à 20h00", domain.Date{}, "", false},
		{"15 décembre 2025 à 25h00", domain.Date{}, "", false},
		{"15 décembre 2025 à 20h61", domain.Date{}, "", false},
		{"15 décembre 2025", domain.Date{}, "", false},
		{"demain à 20h00", domain.Date{}, "", false},
	}
	for _, tt := range tests {
		date, tod, ok := parseDateTime(tt.in)
		if ok != tt.ok {
			t.Errorf("%q: ok=%v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if date != tt.wantDate || tod != tt.wantTime {
			t.Errorf("%q: got (%+v, %q)", tt.in, date, tod)
		}
	}
}

func TestNormalizeDropsUnparsableDate(t *testing.T) {
	raw := extract.RawCandidate{Title: "Concert", DateTime: "bientôt"}
	if a := Normalize(raw); a != nil {
		t.Fatalf("expected nil, got %+v", a)
	}
}

func TestInferKind(t *testing.T) {
	tests := []struct {
		title string
		want  domain.Kind
	}{
		{"Concert de la chorale", domain.KindConcert},
		{"Messe de minuit", domain.KindService},
		{"Grand spectacle de fin d'année", domain.KindPerformance},
		{"Assemblée générale", domain.KindMeeting},
		{"Atelier chant", domain.KindTraining},
		{"Vide-grenier", domain.KindOther},
		// The keyword list is ordered: the earliest group with a hit wins.
		{"Réunion après le culte", domain.KindService},
		{"Formation des choristes du concert", domain.KindConcert},
		{"CONCERT DE NOËL", domain.KindConcert},
	}
	for _, tt := range tests {
		if got := InferKind(tt.title); got != tt.want {
			t.Errorf("InferKind(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestSplitPricing(t *testing.T) {
	details, pricing := SplitPricing([]string{
		"Ouverture des portes à 19h30",
		"Gratuit jusqu'à 12 ans",
		"Enfants 6-12 ans : 5€",
		"Étudiants : 8€",
		"Adultes : 12€",
		"Apportez vos instruments",
	})
	if pricing == nil {
		t.Fatal("no pricing extracted")
	}
	if pricing.Free != "Gratuit jusqu'à 12 ans" {
		t.Errorf("free: %q", pricing.Free)
	}
	if pricing.Child != "Enfants 6-12 ans : 5€" {
		t.Errorf("child: %q", pricing.Child)
	}
	if pricing.Student != "Étudiants : 8€" {
		t.Errorf("student: %q", pricing.Student)
	}
	if pricing.Adult != "Adultes : 12€" {
		t.Errorf("adult: %q", pricing.Adult)
	}
	want := []string{"Ouverture des portes à 19h30", "Apportez vos instruments"}
	if len(details) != len(want) {
		t.Fatalf("details: %v", details)
	}
	for i := range want {
		if details[i] != want[i] {
			t.Errorf("details[%d]: %q", i, details[i])
		}
	}
}

func TestSplitPricingRuleOrder(t *testing.T) {
	// "gratuit" + "jusqu" hits the free rule before the age-range rule,
	// even though the line also contains an age range.
	_, p := SplitPricing([]string{"Gratuit jusqu'à 12 ans (6-12 ans accompagnés)"})
	if p == nil || p.Free == "" || p.Child != "" {
		t.Fatalf("got %+v", p)
	}

	_, p = SplitPricing([]string{"Plein tarif : 15€"})
	if p == nil || p.Adult != "Plein tarif : 15€" {
		t.Fatalf("got %+v", p)
	}
}

func TestSplitPricingNilWhenNoPrices(t *testing.T) {
	details, pricing := SplitPricing([]string{"Ouverture des portes à 19h30"})
	if pricing != nil {
		t.Fatalf("got %+v", pricing)
	}
	if len(details) != 1 {
		t.Fatalf("details: %v", details)
	}
}

func TestSplitPricingEmptyInput(t *testing.T) {
	details, pricing := SplitPricing(nil)
	if details != nil || pricing != nil {
		t.Fatalf("got %v, %+v", details, pricing)
	}
}
