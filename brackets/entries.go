package brackets

import (
	"regexp"
	"strings"
)

const MinEntrants = 2

var (
	bulletMarker   = regexp.MustCompile(`^[-*+]\s*`)
	numberedMarker = regexp.MustCompile(`^\d+\.\s*`)
)

// CleanEntrantName trims a line and strips a leading markdown list marker
// ("-", "*", "+" or "12.").
func CleanEntrantName(line string) string {
	s := strings.TrimSpace(line)
	s = bulletMarker.ReplaceAllString(s, "")
	s = numberedMarker.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseEntrantNames splits every chunk into lines and keeps the non-empty
// cleaned names in order. Blank and marker-only lines are dropped.
func ParseEntrantNames(chunks []string) []string {
	names := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		for _, line := range strings.Split(chunk, "\n") {
			if name := CleanEntrantName(line); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
