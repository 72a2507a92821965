package extract

import (
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bulletin-engine/internal/metrics"
)

// LocationTBD is the location name used when no location pattern matches.
// A missing location must not discard an otherwise valid announcement.
const LocationTBD = "À déterminer"

// RawCandidate is the untyped output of extraction. Everything is a string
// until the normalizer has had a look.
type RawCandidate struct {
	Title           string
	DateTime        string
	LocationName    string
	LocationAddress string
	Details         []string
}

var (
	reHR = regexp.MustCompile(`(?i)<hr[^>]*/?>`)

	// "à NAME (ADDRESS)" is tried first. No \b: re2 word boundaries are
	// ASCII-only and "à" is not a word character to them.
	reLocParen = regexp.MustCompile(`(?i)(?:^|\s)(?:à|au|aux)\s+([^(,]+?)\s*\(([^)]+)\)`)
	// "- NAME, ADDRESS" is the fallback.
	reLocDash = regexp.MustCompile(`^\s*[-–]\s*([^,]+),\s*(.+)$`)
)

// Extract splits marked-up source text into blocks on horizontal rules and
// recovers one RawCandidate per well-formed block. It never fails: blocks
// missing the date marker or the title are skipped with a diagnostic.
func Extract(source string) []RawCandidate {
	blocks := reHR.Split(source, -1)

	var out []RawCandidate
	for i, block := range blocks {
		if strings.TrimSpace(block) == "" {
			continue
		}
		cand, ok, reason := extractBlock(block)
		if !ok {
			log.Printf("[extract] block %d skipped (%s)", i+1, reason)
			metrics.ExtractSkips.Inc()
			continue
		}
		out = append(out, cand)
	}
	return out
}

func extractBlock(block string) (RawCandidate, bool, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(block))
	if err != nil {
		return RawCandidate{}, false, "unparsable markup"
	}

	var cand RawCandidate

	// Date/time marker: the first styled info span with a bold run.
	// Later marker spans in the same block are ignored (first match wins).
	marker := doc.Find("span.info b, span.info strong").First()
	if marker.Length() == 0 {
		return RawCandidate{}, false, "no date marker"
	}
	cand.DateTime = cleanText(marker.Text())

	// Title: the first bold run preceded by a dash marker, outside the
	// info span.
	var titleSel *goquery.Selection
	doc.Find("b, strong").EachWithBreak(func(_ int, b *goquery.Selection) bool {
		if b.ParentsFiltered("span.info").Length() > 0 {
			return true
		}
		parentText := cleanText(b.Parent().Text())
		boldText := cleanText(b.Text())
		if boldText == "" {
			return true
		}
		idx := strings.Index(parentText, boldText)
		if idx < 0 {
			return true
		}
		prefix := strings.TrimSpace(parentText[:idx])
		if !strings.HasPrefix(prefix, "-") && !strings.HasPrefix(prefix, "–") {
			return true
		}
		cand.Title = boldText
		titleSel = b
		return false
	})
	if cand.Title == "" {
		return RawCandidate{}, false, "no title"
	}

	// Location lives in the text after the title, in the same paragraph.
	after := textAfterTitle(titleSel, cand.Title)
	cand.LocationName, cand.LocationAddress = extractLocation(after)
	if cand.LocationName == LocationTBD {
		log.Printf("[extract] no location pattern matched title=%q", cand.Title)
	}

	// Bulleted detail lines; a block without a list is fine.
	doc.Find("ul li, ol li").Each(func(_ int, li *goquery.Selection) {
		line := cleanText(li.Text())
		if isDetailNoise(line) {
			return
		}
		cand.Details = append(cand.Details, line)
	})

	return cand, true, ""
}

func textAfterTitle(titleSel *goquery.Selection, title string) string {
	if titleSel == nil {
		return ""
	}
	parentText := cleanText(titleSel.Parent().Text())
	idx := strings.Index(parentText, title)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(parentText[idx+len(title):])
}

// extractLocation tries the two location shapes in order and falls back to
// the placeholder name rather than failing the block.
func extractLocation(after string) (name, address string) {
	if m := reLocParen.FindStringSubmatch(after); m != nil {
		return cleanText(m[1]), cleanText(m[2])
	}
	if m := reLocDash.FindStringSubmatch(after); m != nil {
		return cleanText(m[1]), cleanText(m[2])
	}
	return LocationTBD, ""
}
