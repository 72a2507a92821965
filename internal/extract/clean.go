package extract

import "strings"

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// isDetailNoise drops list lines that carry no announcement content:
// empty markers and ticketing boilerplate.
func isDetailNoise(line string) bool {
	if line == "" || line == "-" || line == "–" || line == "—" {
		return true
	}
	l := strings.ToLower(line)
	if strings.Contains(l, "billetterie") {
		return true
	}
	return false
}
