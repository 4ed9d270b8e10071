package tax

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleCaser = cases.Title(language.English)

	// Bank feeds append card/reference noise like "COLES 0483 NSW AU" or
	// "VISA-1234 REF 998877".
	refNoisePattern  = regexp.MustCompile(`(?i)\b(ref|receipt|txn|card|visa|eftpos|pos)[\s#:-]*\d+\b`)
	trailingNumbers  = regexp.MustCompile(`\s+\d{3,}\b`)
	stateSuffix      = regexp.MustCompile(`(?i)\s+(nsw|vic|qld|wa|sa|tas|act|nt|aus?|au)$`)
	multipleSpaces   = regexp.MustCompile(`\s{2,}`)
	nonAlphanumStrip = regexp.MustCompile(`[^a-z0-9&'+\- ]`)
)

// NormalizeMerchant cleans a raw bank-feed merchant or description string into
// a display name: strips reference noise, trailing store numbers and state
// suffixes, then title-cases the remainder.
func NormalizeMerchant(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = refNoisePattern.ReplaceAllString(s, " ")
	s = nonAlphanumStrip.ReplaceAllString(s, " ")
	s = trailingNumbers.ReplaceAllString(s, " ")
	s = stateSuffix.ReplaceAllString(s, "")
	s = multipleSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	if s == "" {
		return ""
	}
	return titleCaser.String(s)
}
