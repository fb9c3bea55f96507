package menuparse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var sectionKeywords = []string{
	"ENTREE", "APPETISER", "MAIN", "CURRY", "RICE", "BREAD", "NAAN",
	"DRINK", "DESSERT", "SIDES", "VEG", "NON-VEG",
	"KIDS", "SPECIAL", "BRIYANI", "COMBO", "PLATTER", "THALI", "SEAFOOD", "CHEF",
}

// itemRe requires a dollar sign so stray numbers are not read as prices.
var itemRe = regexp.MustCompile(`^(.*?)\s*(\$\d+(?:\.\d{1,2})?)\s*(.*)$`)

var lineSplitRe = regexp.MustCompile(`\r\n|\n|\r`)

const (
	maxHeaderLen  = 30
	minItemName   = 3
	separatorLine = "----------------"
)

// ParseHeuristic reads section headers and "name $price" lines. Items seen
// before the first header are ignored. Sections without items are dropped.
func ParseHeuristic(text string) []RawSection {
	caser := cases.Title(language.English)

	var sections []RawSection
	var current *RawSection
	flush := func() {
		if current != nil && len(current.Items) > 0 {
			sections = append(sections, *current)
		}
	}

	for _, line := range lineSplitRe.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, separatorLine) {
			continue
		}

		match := itemRe.FindStringSubmatch(line)
		if match == nil && utf8.RuneCountInString(line) < maxHeaderLen && isSectionHeader(line) {
			flush()
			current = &RawSection{Title: line}
			continue
		}

		if match == nil || current == nil {
			continue
		}

		name := strings.TrimSpace(match[1])
		if extra := strings.TrimSpace(match[3]); extra != "" {
			name += " " + extra
		}
		if utf8.RuneCountInString(name) < minItemName {
			continue
		}
		if isShouting(name) {
			name = caser.String(name)
		}

		current.Items = append(current.Items, RawItem{
			Name:  name,
			Price: Price(parsePrice(match[2])),
		})
	}
	flush()

	return sections
}

func isSectionHeader(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range sectionKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// isShouting reports whether s has letters and none of them are lower case.
func isShouting(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}
