package timesheet

import (
	"strings"
	"time"
)

// Parse derives the typed view of one entry. Every field parses
// independently: a bad month never blocks the time columns and vice versa,
// so one row can surface several findings at once. Parse never fails.
func Parse(entry Entry, policies map[string]RolePolicy) ParsedEntry {
	var parsed ParsedEntry

	if position, ok := Clean(entry.Position); ok {
		key := strings.ToLower(position)
		if _, known := policies[key]; known {
			parsed.PositionKey = key
		}
	}

	parsed.Month, parsed.MonthOK = ParseMonth(entry.Month)
	parsed.Day, parsed.DayOK = ParseInt(entry.Day)
	if parsed.MonthOK && parsed.DayOK && entry.ReportingYear > 0 {
		parsed.Date, parsed.DateOK = buildDate(entry.ReportingYear, parsed.Month, parsed.Day)
	}

	parsed.Start, parsed.StartOK = ParseClock(entry.StartTime)
	parsed.End, parsed.EndOK = ParseClock(entry.EndTime)

	if parsed.StartOK && parsed.EndOK {
		if parsed.Start.After(parsed.End) {
			// A start later than its end almost always means the author
			// wrote "1:30" for an afternoon end time. Assume the omitted
			// PM and keep going; the rule catalog records the assumption.
			parsed.End = parsed.End.AddHours(12)
			parsed.EndCorrected = true
		}
		parsed.ComputedHours = parsed.Start.HoursUntil(parsed.End)
		parsed.ComputedOK = true
	}

	parsed.DeclaredHours, parsed.DeclaredOK = ParseHours(entry.Duration)
	if parsed.DeclaredOK {
		parsed.RoundedHours = RoundToQuarterHour(parsed.DeclaredHours)
	}

	return parsed
}

// buildDate validates the month/day combination against the reporting year.
// time.Date normalizes out-of-range days (April 31 becomes May 1), so the
// result is checked against the inputs.
func buildDate(year, month, day int) (time.Time, bool) {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}
