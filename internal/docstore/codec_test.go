package docstore

import (
	"testing"
	"time"

	"bulletin-engine/internal/domain"
)

func TestEncodeDecodeAnnouncement(t *testing.T) {
	var a domain.Announcement
	a.ID = "should-not-serialize"
	a.Title = "Concert de Noël"
	a.Date = domain.NewDate(2025, time.December, 15)
	a.Time = "20h00"
	a.Location = domain.Location{Name: "Église Saint-Jean", Address: "12 rue des Lilas"}
	a.SetKind(domain.KindConcert)
	a.Details = []string{"Ouverture des portes à 19h30"}
	a.IsActive = true
	a.Status = domain.StatusDraft

	data, err := Encode(a)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := data["id"]; ok {
		t.Fatal("id leaked into the document body")
	}
	if data["title"] != "Concert de Noël" {
		t.Fatalf("title: %v", data["title"])
	}

	var out domain.Announcement
	if err := Decode(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Title != a.Title || out.Date != a.Date || out.Time != a.Time {
		t.Fatalf("round trip: %+v", out)
	}
	if out.Kind != domain.KindConcert || out.TagLabel != "Concert" {
		t.Fatalf("kind/tag: %q %q", out.Kind, out.TagLabel)
	}
}
