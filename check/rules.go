package check

import (
	"fmt"
	"math"

	"paysheet/internal/roster"
	"paysheet/timesheet"
)

// row bundles everything a rule may look at: the raw entry, its typed
// derivation, and the policy for its role when the role is recognized.
type row struct {
	entry     timesheet.Entry
	parsed    timesheet.ParsedEntry
	policy    timesheet.RolePolicy
	hasPolicy bool
}

// rule is one catalog entry. A rule yields zero or more rendered messages
// for a row; each message becomes one finding at the rule's severity.
type rule struct {
	name     string
	severity timesheet.Severity
	messages func(r row, opts Options, matches *roster.Roster) []string
}

// catalog is the fixed rule order. Every rule runs against every row; one
// bad row may produce several findings. Declaration order is the visible
// ordering contract for findings within a row.
var catalog = []rule{
	{
		name:     "missing position",
		severity: timesheet.SeverityCritical,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			if _, ok := timesheet.Clean(r.entry.Position); !ok {
				return []string{"No position given."}
			}
			return nil
		},
	},
	{
		name:     "unrecognized position",
		severity: timesheet.SeverityCritical,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			position, ok := timesheet.Clean(r.entry.Position)
			if ok && r.parsed.PositionKey == "" {
				return []string{fmt.Sprintf("Unrecognized position: %s.", position)}
			}
			return nil
		},
	},
	{
		name:     "missing required entry",
		severity: timesheet.SeverityCritical,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			if !r.hasPolicy {
				return nil
			}
			var messages []string
			for _, field := range r.policy.Required {
				if _, ok := timesheet.Clean(r.entry.Field(field)); !ok {
					messages = append(messages, fmt.Sprintf("Missing required entry: %s.", field))
				}
			}
			return messages
		},
	},
	{
		name:     "forbidden entry present",
		severity: timesheet.SeverityWarning,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			if !r.hasPolicy {
				return nil
			}
			var messages []string
			for _, field := range r.policy.Forbidden {
				if _, ok := timesheet.Clean(r.entry.Field(field)); ok {
					messages = append(messages, fmt.Sprintf("%s should be blank for position %s.", field, r.entry.Position))
				}
			}
			return messages
		},
	},
	{
		name:     "invalid date",
		severity: timesheet.SeverityCritical,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			var messages []string
			if month, ok := timesheet.Clean(r.entry.Month); ok && !r.parsed.MonthOK {
				messages = append(messages, fmt.Sprintf("Invalid month: %s.", month))
			}
			if day, ok := timesheet.Clean(r.entry.Day); ok && !r.parsed.DayOK {
				messages = append(messages, fmt.Sprintf("Invalid day (must be a number): %s.", day))
			}
			if r.parsed.MonthOK && r.parsed.DayOK && r.entry.ReportingYear > 0 && !r.parsed.DateOK {
				messages = append(messages, fmt.Sprintf(
					"Day is out of range for month: %s %d, %d.",
					r.entry.Month, r.parsed.Day, r.entry.ReportingYear,
				))
			}
			return messages
		},
	},
	{
		name:     "invalid time",
		severity: timesheet.SeverityCritical,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			var messages []string
			if start, ok := timesheet.Clean(r.entry.StartTime); ok && !r.parsed.StartOK {
				messages = append(messages, fmt.Sprintf("Invalid start time: %s.", start))
			}
			if end, ok := timesheet.Clean(r.entry.EndTime); ok && !r.parsed.EndOK {
				messages = append(messages, fmt.Sprintf("Invalid end time: %s.", end))
			}
			return messages
		},
	},
	{
		name:     "invalid duration",
		severity: timesheet.SeverityCritical,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			if duration, ok := timesheet.Clean(r.entry.Duration); ok && !r.parsed.DeclaredOK {
				return []string{fmt.Sprintf("Invalid duration (must be a number): %s.", duration)}
			}
			return nil
		},
	},
	{
		name:     "date past period end",
		severity: timesheet.SeverityCritical,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			if r.parsed.DateOK && !r.entry.PeriodEnd.IsZero() && r.parsed.Date.After(r.entry.PeriodEnd) {
				return []string{fmt.Sprintf(
					"Date (%s %s) is past end of pay period %s.",
					r.entry.Month, r.entry.Day, r.entry.PeriodName,
				)}
			}
			return nil
		},
	},
	{
		name:     "non-positive duration",
		severity: timesheet.SeverityCritical,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			if r.parsed.DeclaredOK && r.parsed.DeclaredHours <= 0 {
				return []string{fmt.Sprintf("Duration must be positive: %s.", r.entry.Duration)}
			}
			return nil
		},
	},
	{
		name:     "start after end",
		severity: timesheet.SeverityComment,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			if r.parsed.EndCorrected {
				return []string{fmt.Sprintf(
					"Start time %s is after end time %s; assuming the end time is PM.",
					r.entry.StartTime, r.entry.EndTime,
				)}
			}
			return nil
		},
	},
	{
		name:     "duration mismatch",
		severity: timesheet.SeverityCritical,
		messages: func(r row, opts Options, _ *roster.Roster) []string {
			if !r.parsed.ComputedOK || !r.parsed.DeclaredOK {
				return nil
			}
			computed := r.parsed.ComputedHours
			if r.parsed.EndCorrected && !opts.UseCorrectedEndForMismatch {
				computed -= 12
			}
			if math.Abs(r.parsed.DeclaredHours-computed) > opts.DurationToleranceHours {
				return []string{fmt.Sprintf(
					"Duration %g does not match time from %s to %s (%g hours).",
					r.parsed.DeclaredHours, r.entry.StartTime, r.entry.EndTime, computed,
				)}
			}
			return nil
		},
	},
	{
		name:     "duration not a quarter hour",
		severity: timesheet.SeverityWarning,
		messages: func(r row, _ Options, _ *roster.Roster) []string {
			if r.parsed.DeclaredOK && r.parsed.DeclaredHours != r.parsed.RoundedHours {
				return []string{fmt.Sprintf("Duration %g is not rounded to 15 minutes.", r.parsed.DeclaredHours)}
			}
			return nil
		},
	},
	{
		name:     "unmatched student",
		severity: timesheet.SeverityCritical,
		messages: func(r row, _ Options, matches *roster.Roster) []string {
			if matches == nil {
				return nil
			}
			last, lastOK := timesheet.Clean(r.entry.LastName)
			first, firstOK := timesheet.Clean(r.entry.FirstName)
			// A partial name is left to the required-fields rule.
			if lastOK && firstOK && !matches.Matched(r.entry.Provider, last, first) {
				return []string{fmt.Sprintf("No record of match with %s %s.", first, last)}
			}
			return nil
		},
	},
}
