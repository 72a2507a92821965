package normalize

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"bulletin-engine/internal/domain"
	"bulletin-engine/internal/extract"
	"bulletin-engine/internal/metrics"
)

// months is the closed vocabulary the date parser accepts. Anything else is
// rejected rather than guessed at.
var months = map[string]time.Month{
	"janvier":   time.January,
	"février":   time.February,
	"mars":      time.March,
	"avril":     time.April,
	"mai":       time.May,
	"juin":      time.June,
	"juillet":   time.July,
	"août":      time.August,
	"septembre": time.September,
	"octobre":   time.October,
	"novembre":  time.November,
	"décembre":  time.December,
}

// "15 décembre 2025 à 20h00", "1er mai 2026 à 9h30"
var reDateTime = regexp.MustCompile(`(?i)^(\d{1,2})(?:er)?\s+(\p{L}+)\s+(\d{4})\s+à\s+(\d{1,2})h(\d{2})$`)

const defaultPriority = 100

// Normalize turns a raw candidate into a typed announcement. It returns nil
// when the date/time string does not match the expected pattern; callers
// drop that candidate and keep going.
func Normalize(raw extract.RawCandidate) *domain.Announcement {
	date, timeOfDay, ok := parseDateTime(raw.DateTime)
	if !ok {
		log.Printf("[normalize] dropped candidate title=%q: unparsable date/time %q", raw.Title, raw.DateTime)
		metrics.NormalizeDrops.Inc()
		return nil
	}

	a := &domain.Announcement{
		Title: raw.Title,
		Date:  date,
		Time:  timeOfDay,
		Location: domain.Location{
			Name:    raw.LocationName,
			Address: raw.LocationAddress,
		},
		Priority: defaultPriority,
		IsActive: true,
		Status:   domain.StatusDraft,
	}
	a.SetKind(InferKind(raw.Title))

	details, pricing := SplitPricing(raw.Details)
	a.Details = details
	a.Pricing = pricing

	return a
}

func parseDateTime(s string) (domain.Date, string, bool) {
	m := reDateTime.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return domain.Date{}, "", false
	}

	month, ok := months[strings.ToLower(m[2])]
	if !ok {
		log.Printf("[normalize] unrecognized month name %q in %q", m[2], s)
		return domain.Date{}, "", false
	}

	var day, year, hour, minute int
	fmt.Sscanf(m[1], "%d", &day)
	fmt.Sscanf(m[3], "%d", &year)
	fmt.Sscanf(m[4], "%d", &hour)
	fmt.Sscanf(m[5], "%d", &minute)

	if day < 1 || day > 31 || hour > 23 || minute > 59 {
		return domain.Date{}, "", false
	}

	return domain.NewDate(year, month, day), m[4] + "h" + m[5], true
}

// kindKeywords is an ordered list: the first group with a hit wins, so a
// title matching several groups classifies by list position. The order is
// load-bearing and must not be reshuffled.
var kindKeywords = []struct {
	kind  domain.Kind
	words []string
}{
	{domain.KindConcert, []string{"concert", "récital", "chorale"}},
	{domain.KindService, []string{"culte", "messe", "célébration", "vêpres"}},
	{domain.KindPerformance, []string{"spectacle", "théâtre", "représentation"}},
	{domain.KindMeeting, []string{"réunion", "assemblée"}},
	{domain.KindTraining, []string{"formation", "étude", "atelier"}},
}

func InferKind(title string) domain.Kind {
	l := strings.ToLower(title)
	for _, g := range kindKeywords {
		for _, w := range g.words {
			if strings.Contains(l, w) {
				return g.kind
			}
		}
	}
	return domain.KindOther
}

var reAgeRange = regexp.MustCompile(`\d+\s*(?:-|–|à)\s*\d+\s*ans`)

// SplitPricing pulls price lines out of the detail list. Rules run in a
// fixed order per line and the first hit wins; a matched line moves to the
// pricing field and never stays in details.
func SplitPricing(lines []string) (details []string, pricing *domain.Pricing) {
	var p domain.Pricing

	for _, line := range lines {
		l := strings.ToLower(line)
		switch {
		case strings.Contains(l, "gratuit") && strings.Contains(l, "jusqu"):
			p.Free = line
		case strings.Contains(l, "entrée libre") || strings.Contains(l, "gratuit"):
			p.Free = line
		case reAgeRange.MatchString(l):
			p.Child = line
		case strings.Contains(l, "étudiant"):
			p.Student = line
		case strings.Contains(l, "adulte") || strings.Contains(l, "plein tarif"):
			p.Adult = line
		default:
			details = append(details, line)
		}
	}

	if p.IsZero() {
		return details, nil
	}
	return details, &p
}
