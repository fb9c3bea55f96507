package source

import (
	"regexp"
	"strings"
)

var (
	dateRe       = regexp.MustCompile(`(?i)(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})|(\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})`)
	pageNumberRe = regexp.MustCompile(`(?i)^(?:page\s*)?\d{1,3}(?:\s*(?:of|/)\s*\d{1,3})?$`)
	spaceRe      = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	lineBreakRe  = regexp.MustCompile(`\r\n|\n|\r`)
)

// DateLabel returns the first printed date in text, or "" when none is found.
func DateLabel(text string) string {
	return dateRe.FindString(text)
}

// CleanText collapses runs of whitespace inside each line and drops blank and
// page-number lines. Line structure is kept.
func CleanText(text string) string {
	lines := lineBreakRe.Split(text, -1)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spaceRe.ReplaceAllString(line, " "))
		if line == "" || pageNumberRe.MatchString(line) {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
