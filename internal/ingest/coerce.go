package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"gexcli/pkg/contracts/domain"
)

// Sentinel tokens brokers emit for missing cells
const emptyToken = "<empty>"

var (
	numberCleaner  = strings.NewReplacer(",", "", "$", "", "%", "", "\"", "", " ", "", "\t", "")
	mmddyyyyRe     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	yyyymmddRe     = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	leadingAlphaRe = regexp.MustCompile(`^([A-Za-z]+)`)
)

// ParseNumber coerces free-form numeric text into a float64. It strips
// currency symbols, thousands separators, percent signs, quotes and
// whitespace before parsing. Empty cells, the "<empty>" sentinel and a
// double-dash all coerce to 0. ParseNumber never fails; any unparseable
// input yields 0 and the caller decides whether that matters.
func ParseNumber(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" || value == emptyToken || value == "--" {
		return 0
	}
	cleaned := numberCleaner.Replace(value)
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParsePercent coerces percentage text ("10.56%") into a decimal fraction
// (0.1056). Like ParseNumber it fails soft to 0.
func ParsePercent(value string) float64 {
	return ParseNumber(value) / 100
}

// ParseInt coerces numeric text into a non-negative integer count, rounding
// through float parsing so "1,000" and "1000.0" both work.
func ParseInt(value string) int64 {
	n := int64(ParseNumber(value))
	if n < 0 {
		return 0
	}
	return n
}

// ParseOptionType classifies an option-side token. Exact case-insensitive
// matches for call/c/calls and put/p/puts win; otherwise, if the token
// contains exactly one of the letters "c"/"p" the corresponding side is
// inferred. Classification failure returns ok=false and the caller must
// apply a default and record a warning.
func ParseOptionType(value string) (domain.OptionType, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))

	switch normalized {
	case "call", "c", "calls":
		return domain.OptionTypeCall, true
	case "put", "p", "puts":
		return domain.OptionTypePut, true
	}

	hasC := strings.Contains(normalized, "c")
	hasP := strings.Contains(normalized, "p")
	if hasC && !hasP {
		return domain.OptionTypeCall, true
	}
	if hasP && !hasC {
		return domain.OptionTypePut, true
	}
	return "", false
}

// ParseExpiryDate normalizes an expiry string to YYYY-MM-DD. Accepted inputs
// are ISO-parseable dates, MM/DD/YYYY with a 2- or 4-digit year (2-digit
// years are assumed to be 2000s), and compact YYYYMMDD. Unlike the numeric
// coercions this is a structural function: unparseable input returns
// ok=false and the caller decides the fallback.
func ParseExpiryDate(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "Jan 2, 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	if m := mmddyyyyRe.FindStringSubmatch(value); m != nil {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		t, err := time.Parse("2006-1-2", year+"-"+m[1]+"-"+m[2])
		if err != nil {
			return "", false
		}
		return t.Format("2006-01-02"), true
	}

	if m := yyyymmddRe.FindStringSubmatch(value); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3], true
	}

	return "", false
}

// ExtractUnderlying pulls the underlying symbol out of an option symbol by
// taking the leading alphabetic run, e.g. "SPX230616C04100000" -> "SPX".
func ExtractUnderlying(optionSymbol string) string {
	if m := leadingAlphaRe.FindStringSubmatch(optionSymbol); m != nil {
		return strings.ToUpper(m[1])
	}
	return optionSymbol
}
