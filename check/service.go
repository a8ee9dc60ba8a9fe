// Package check evaluates the validation rule catalog over an assembled
// batch of timesheet entries. It collects everything rather than failing
// fast: every rule runs against every row, and one bad row may yield
// several findings.
package check

import (
	"paysheet/internal/roster"
	"paysheet/timesheet"
)

type Options struct {
	// DurationToleranceHours is the allowed difference between the
	// declared duration and the elapsed start/end time.
	DurationToleranceHours float64
	// UseCorrectedEndForMismatch selects whether the mismatch comparison
	// uses the PM-corrected end time (the author's likely intent) or the
	// end time exactly as written.
	UseCorrectedEndForMismatch bool
}

// DefaultOptions matches the configuration defaults.
func DefaultOptions() Options {
	return Options{
		DurationToleranceHours:     0.1,
		UseCorrectedEndForMismatch: true,
	}
}

// Run evaluates the catalog against parallel entry/parsed slices. Findings
// come out in row order (periods in assembled order) with catalog order
// within each row, which is the reproducibility contract for reports.
// matches may be nil; the pairing rule is skipped without a roster.
func Run(
	entries []timesheet.Entry,
	parsed []timesheet.ParsedEntry,
	policies map[string]timesheet.RolePolicy,
	matches *roster.Roster,
	opts Options,
) []timesheet.Finding {
	findings := make([]timesheet.Finding, 0, len(entries))

	for i, entry := range entries {
		r := row{entry: entry, parsed: parsed[i]}
		if r.parsed.PositionKey != "" {
			if policy, ok := policies[r.parsed.PositionKey]; ok {
				r.policy = policy
				r.hasPolicy = true
			}
		}

		for _, catalogRule := range catalog {
			for _, message := range catalogRule.messages(r, opts, matches) {
				findings = append(findings, timesheet.Finding{
					Severity:   catalogRule.severity,
					Message:    message,
					PeriodName: entry.PeriodName,
					SheetRow:   entry.SheetRow,
					Provider:   entry.Provider,
					SourceFile: entry.SourceFile,
				})
			}
		}
	}

	return findings
}

// CountBySeverity tallies findings for command summaries.
func CountBySeverity(findings []timesheet.Finding) (comments, warnings, criticals int) {
	for _, finding := range findings {
		switch finding.Severity {
		case timesheet.SeverityComment:
			comments++
		case timesheet.SeverityWarning:
			warnings++
		case timesheet.SeverityCritical:
			criticals++
		}
	}
	return comments, warnings, criticals
}
