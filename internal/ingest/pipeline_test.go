package ingest

import (
	"context"
	"testing"
	"time"

	"bulletin-engine/internal/docstore"
	"bulletin-engine/internal/domain"
)

const pastedSource = `
<p><span class="info"><b>15 décembre 2025 à 21h00</b></span></p>
<p>- <b>Concert de Noël</b> au Centre Culturel (5 avenue de la République)</p>
<ul>
  <li>Ouverture des portes à 20h30</li>
  <li>Entrée libre</li>
</ul>
<hr>
<p><span class="info"><b>20 décembre 2025 à 18h00</b></span></p>
<p>- <b>Vêpres de l'Avent</b> à la Chapelle (1 place de l'Abbaye)</p>
<hr>
<p><span class="info"><b>un jour prochain</b></span></p>
<p>- <b>Date illisible</b></p>
<hr>
<p>Bloc sans marqueur de date.</p>`

func seedAnnouncement(t *testing.T, store docstore.Store, a domain.Announcement) string {
	t.Helper()
	data, err := docstore.Encode(a)
	if err != nil {
		t.Fatal(err)
	}
	id, err := store.Create(context.Background(), docstore.CollAnnouncements, data)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestPreviewEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	existing := domain.Announcement{
		Title:    "Concert de Noël",
		Date:     domain.NewDate(2025, time.December, 15),
		Time:     "20h00",
		Location: domain.Location{Name: "Centre Culturel", Address: "5 avenue de la République"},
		Priority: 100,
		IsActive: true,
		Status:   domain.StatusPublished,
	}
	existing.SetKind(domain.KindConcert)
	id := seedAnnouncement(t, store, existing)

	p := Pipeline{Store: store}
	buckets, err := p.Preview(ctx, pastedSource)
	if err != nil {
		t.Fatal(err)
	}

	// The concert matches the seeded record but the time moved, so it's an
	// update; the vespers are new; the two malformed blocks are dropped
	// before classification.
	if len(buckets.ToUpdate) != 1 {
		t.Fatalf("to update: %+v", buckets.ToUpdate)
	}
	up := buckets.ToUpdate[0]
	if up.ExistingID != id {
		t.Errorf("existing id: %q", up.ExistingID)
	}
	if up.Candidate.Time != "21h00" {
		t.Errorf("candidate time: %q", up.Candidate.Time)
	}
	hasTime := false
	for _, f := range up.Changed {
		if f == "time" {
			hasTime = true
		}
	}
	if !hasTime {
		t.Errorf("changed: %v", up.Changed)
	}

	if len(buckets.ToAdd) != 1 || buckets.ToAdd[0].Title != "Vêpres de l'Avent" {
		t.Fatalf("to add: %+v", buckets.ToAdd)
	}
	if len(buckets.Duplicates) != 0 {
		t.Fatalf("duplicates: %+v", buckets.Duplicates)
	}
}

func TestPreviewIsReadOnly(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	p := Pipeline{Store: store}
	if _, err := p.Preview(ctx, pastedSource); err != nil {
		t.Fatal(err)
	}
	docs, _ := store.List(ctx, docstore.CollAnnouncements)
	if len(docs) != 0 {
		t.Fatalf("preview wrote %d docs", len(docs))
	}
}

func TestPreviewIdempotent(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	p := Pipeline{Store: store}

	first, err := p.Preview(ctx, pastedSource)
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Preview(ctx, pastedSource)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.ToAdd) != len(second.ToAdd) {
		t.Fatalf("previews diverge: %d vs %d", len(first.ToAdd), len(second.ToAdd))
	}
}

func TestLoadAnnouncementsCarriesIdentity(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()

	a := domain.Announcement{
		Title:    "Assemblée générale",
		Date:     domain.NewDate(2026, time.January, 8),
		Location: domain.Location{Name: "Salle des Fêtes"},
		Status:   domain.StatusDraft,
	}
	a.SetKind(domain.KindMeeting)
	id := seedAnnouncement(t, store, a)

	got, err := LoadAnnouncements(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d", len(got))
	}
	if got[0].ID != id {
		t.Errorf("id: %q", got[0].ID)
	}
	if got[0].CreatedAt.IsZero() || got[0].UpdatedAt.IsZero() {
		t.Error("timestamps not carried")
	}
}
