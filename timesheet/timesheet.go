package timesheet

import (
	"strings"
	"time"
)

// Canonical column headings as they appear in the timesheet header row.
const (
	FieldPosition  = "Position"
	FieldLastName  = "Last Name"
	FieldFirstName = "First Name"
	FieldClass     = "Class Tutored"
	FieldMonth     = "Month"
	FieldDay       = "Day"
	FieldStartTime = "Start Time"
	FieldEndTime   = "End Time"
	FieldDuration  = "Duration"
	FieldNotes     = "Notes"
)

// FieldNames returns the business columns in sheet order.
func FieldNames() []string {
	return []string{
		FieldPosition,
		FieldLastName,
		FieldFirstName,
		FieldClass,
		FieldMonth,
		FieldDay,
		FieldStartTime,
		FieldEndTime,
		FieldDuration,
		FieldNotes,
	}
}

// Entry is one raw timesheet row as submitted, plus provenance stamped by the
// batch assembler. Entries are never mutated after assembly.
type Entry struct {
	Position  string
	LastName  string
	FirstName string
	Class     string
	Month     string
	Day       string
	StartTime string
	EndTime   string
	Duration  string
	Notes     string

	PeriodName    string
	SheetRow      int
	PeriodEnd     time.Time
	Provider      string
	ReportingYear int
	SourceFile    string
}

// Field returns the raw value of a business column by its canonical heading.
// Unknown headings return the empty string.
func (e Entry) Field(name string) string {
	switch name {
	case FieldPosition:
		return e.Position
	case FieldLastName:
		return e.LastName
	case FieldFirstName:
		return e.FirstName
	case FieldClass:
		return e.Class
	case FieldMonth:
		return e.Month
	case FieldDay:
		return e.Day
	case FieldStartTime:
		return e.StartTime
	case FieldEndTime:
		return e.EndTime
	case FieldDuration:
		return e.Duration
	case FieldNotes:
		return e.Notes
	default:
		return ""
	}
}

// IsBlank reports whether every business column is blank. Such rows are
// spreadsheet formatting artifacts, not real entries.
func (e Entry) IsBlank() bool {
	for _, name := range FieldNames() {
		if _, ok := Clean(e.Field(name)); ok {
			return false
		}
	}
	return true
}

// ParsedEntry is the typed derivation of one Entry. A zero value with the
// matching OK flag false means the raw field was blank or failed to parse;
// the two cases are told apart by checking the raw Entry field.
type ParsedEntry struct {
	PositionKey string

	Month   int
	MonthOK bool
	Day     int
	DayOK   bool
	Date    time.Time
	DateOK  bool

	Start   ClockTime
	StartOK bool
	End     ClockTime
	EndOK   bool
	// EndCorrected is set when start > end as written and 12 hours were
	// added to the end time on the assumption of an omitted PM.
	EndCorrected bool

	ComputedHours float64
	ComputedOK    bool
	DeclaredHours float64
	DeclaredOK    bool
	// RoundedHours is the declared duration rounded to the nearest quarter
	// hour; meaningful only when DeclaredOK is set.
	RoundedHours float64
}

// RolePolicy lists the business columns a role must fill in and the ones it
// must leave blank.
type RolePolicy struct {
	Required  []string
	Forbidden []string
}

// Period is one named pay period. Periods recur yearly, so only the end
// month and day are fixed; the year comes from the batch being processed.
type Period struct {
	Name     string
	EndMonth int
	EndDay   int
}

// EndDate resolves the period end for a reporting year.
func (p Period) EndDate(year int) time.Time {
	return time.Date(year, time.Month(p.EndMonth), p.EndDay, 0, 0, 0, 0, time.UTC)
}

// PeriodKey canonicalizes a pay period name for table lookups. Sheet names
// and configuration keys vary in case, so every lookup goes through the
// folded key while the display name keeps its original spelling.
func PeriodKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Severity ranks findings: comments are informational (auto-corrected),
// warnings are against convention, criticals fail a correctness rule.
type Severity int

const (
	SeverityComment Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityComment:
		return "comment"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// SeverityFromString is the inverse of Severity.String, used when reading
// findings back from storage.
func SeverityFromString(value string) (Severity, bool) {
	switch value {
	case "comment":
		return SeverityComment, true
	case "warning":
		return SeverityWarning, true
	case "critical":
		return SeverityCritical, true
	default:
		return SeverityComment, false
	}
}

// Finding is one reported data-quality issue, addressable back to the source
// sheet row. Findings are immutable once produced.
type Finding struct {
	Severity   Severity
	Message    string
	PeriodName string
	SheetRow   int
	Provider   string
	SourceFile string
}
