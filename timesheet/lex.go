package timesheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The normalizers below are total: any string input yields either a typed
// value or ok=false. Parse failure is not an error here; the rule catalog
// decides whether an unparseable value is worth reporting.

var monthPrefixes = []string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// ParseMonth matches a month name or abbreviation by its first three
// characters, case-insensitively, and returns 1-12.
func ParseMonth(raw string) (int, bool) {
	cleaned, ok := Clean(raw)
	if !ok || len(cleaned) < 3 {
		return 0, false
	}

	prefix := strings.ToLower(cleaned[:3])
	for i, abbrev := range monthPrefixes {
		if prefix == abbrev {
			return i + 1, true
		}
	}
	return 0, false
}

// ParseInt parses a base-10 integer.
func ParseInt(raw string) (int, bool) {
	cleaned, ok := Clean(raw)
	if !ok {
		return 0, false
	}

	value, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseHours parses a locale-free decimal number of hours.
func ParseHours(raw string) (float64, bool) {
	cleaned, ok := Clean(raw)
	if !ok {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// clockPattern tolerates the clock notations seen across submitted sheets:
// an hour, optional minute and second separated by any non-digit character,
// and an optional AM/PM indicator whose trailing M may be dropped.
// Shapes like "4", "4:15", "4h15", "4:15:00pm", "4PM", "4p", and "16:15"
// all match. The pattern alone also matches impossible readings such as
// "35:74 PM"; ParseClock rejects those when validating the components.
var clockPattern = regexp.MustCompile(`^\s*(\d{1,2})(?:\D(\d{2})(?:\D(\d{2}))?)?\s*(?:([AaPp])[Mm]?)?\s*$`)

// ParseClock parses a free-form clock cell into a time of day. An hour of
// 1-12 with a P indicator is shifted into the afternoon; hours without an
// indicator are taken as given, so 24-hour input passes through unchanged.
func ParseClock(raw string) (ClockTime, bool) {
	match := clockPattern.FindStringSubmatch(raw)
	if match == nil {
		return ClockTime{}, false
	}

	hour, err := strconv.Atoi(match[1])
	if err != nil {
		return ClockTime{}, false
	}

	minute := 0
	if match[2] != "" {
		if minute, err = strconv.Atoi(match[2]); err != nil {
			return ClockTime{}, false
		}
	}

	second := 0
	if match[3] != "" {
		if second, err = strconv.Atoi(match[3]); err != nil {
			return ClockTime{}, false
		}
	}

	if strings.EqualFold(match[4], "p") && hour >= 1 && hour <= 12 {
		hour += 12
	}

	clock := ClockTime{Hour: hour, Minute: minute, Second: second}
	if !clock.Valid() {
		return ClockTime{}, false
	}
	return clock, true
}

// Clean trims a raw cell value. A value of only whitespace is absent.
func Clean(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// RoundToQuarterHour rounds a duration to the nearest 0.25 hours. Used as
// the comparison baseline for the quarter-hour convention check.
func RoundToQuarterHour(hours float64) float64 {
	return math.Round(hours*4) / 4
}
