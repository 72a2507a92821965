package domain

import (
	"errors"
	"time"
)

type Kind string

const (
	KindConcert     Kind = "concert"
	KindService     Kind = "service"
	KindPerformance Kind = "performance"
	KindMeeting     Kind = "meeting"
	KindTraining    Kind = "training"
	KindOther       Kind = "other"
)

type Tag struct {
	Label string
	Color string
}

// kindTags is the single source of truth for the kind -> tag mapping.
// TagLabel/TagColor on an announcement are always derived from here,
// never set independently.
var kindTags = map[Kind]Tag{
	KindConcert:     {Label: "Concert", Color: "#7c3aed"},
	KindService:     {Label: "Culte", Color: "#2563eb"},
	KindPerformance: {Label: "Spectacle", Color: "#db2777"},
	KindMeeting:     {Label: "Réunion", Color: "#16a34a"},
	KindTraining:    {Label: "Formation", Color: "#d97706"},
	KindOther:       {Label: "Autre", Color: "#6b7280"},
}

func (k Kind) Tag() Tag {
	if t, ok := kindTags[k]; ok {
		return t
	}
	return kindTags[KindOther]
}

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

type Location struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Pricing holds the price lines extracted out of the detail list.
// A present Pricing always has at least one field populated.
type Pricing struct {
	Free    string `json:"free,omitempty"`
	Child   string `json:"child,omitempty"`
	Student string `json:"student,omitempty"`
	Adult   string `json:"adult,omitempty"`
}

func (p Pricing) IsZero() bool {
	return p.Free == "" && p.Child == "" && p.Student == "" && p.Adult == ""
}

type Announcement struct {
	ID       string   `json:"-"`
	Title    string   `json:"title"`
	Date     Date     `json:"date"`
	Time     string   `json:"time"`
	Location Location `json:"location"`
	Kind     Kind     `json:"kind"`
	TagLabel string   `json:"tagLabel"`
	TagColor string   `json:"tagColor"`
	Details  []string `json:"details,omitempty"`
	Pricing  *Pricing `json:"pricing,omitempty"`
	IsPinned bool     `json:"isPinned"`
	Priority int      `json:"priority"`
	IsActive bool     `json:"isActive"`
	Status   Status   `json:"status"`

	// Store-assigned, carried alongside the document body.
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// SetKind sets the kind and re-derives the tag so the two can't drift.
func (a *Announcement) SetKind(k Kind) {
	a.Kind = k
	t := k.Tag()
	a.TagLabel = t.Label
	a.TagColor = t.Color
}

var (
	ErrMissingTitle    = errors.New("announcement has no title")
	ErrMissingDate     = errors.New("announcement has no date")
	ErrMissingLocation = errors.New("announcement has no location name")
)

// ValidateForCreate checks the required fields before a create is issued.
func (a Announcement) ValidateForCreate() error {
	if a.Title == "" {
		return ErrMissingTitle
	}
	if a.Date.IsZero() {
		return ErrMissingDate
	}
	if a.Location.Name == "" {
		return ErrMissingLocation
	}
	return nil
}

// Expired reports whether the announcement's day is strictly before today.
// An event stays visible through its own day.
func (a Announcement) Expired(now time.Time) bool {
	return a.Date.Time().Before(DateOf(now).Time())
}
