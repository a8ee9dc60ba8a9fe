package check

import (
	"strings"
	"testing"
	"time"

	"paysheet/internal/roster"
	"paysheet/timesheet"
)

func testPolicies() map[string]timesheet.RolePolicy {
	return map[string]timesheet.RolePolicy{
		"tutor": {
			Required: []string{
				timesheet.FieldLastName, timesheet.FieldFirstName, timesheet.FieldClass,
				timesheet.FieldMonth, timesheet.FieldDay,
				timesheet.FieldStartTime, timesheet.FieldEndTime, timesheet.FieldDuration,
			},
		},
		"coordinator": {
			Required:  []string{timesheet.FieldMonth, timesheet.FieldDay, timesheet.FieldStartTime, timesheet.FieldEndTime, timesheet.FieldDuration},
			Forbidden: []string{timesheet.FieldLastName, timesheet.FieldFirstName, timesheet.FieldClass},
		},
	}
}

func goodTutorEntry() timesheet.Entry {
	return timesheet.Entry{
		Position:      "Tutor",
		LastName:      "Doe",
		FirstName:     "Sam",
		Class:         "MATH 101",
		Month:         "September",
		Day:           "12",
		StartTime:     "9:00",
		EndTime:       "10:30",
		Duration:      "1.5",
		PeriodName:    "Pay Period 1",
		SheetRow:      4,
		PeriodEnd:     time.Date(2019, time.September, 15, 0, 0, 0, 0, time.UTC),
		Provider:      "Jane Smith",
		ReportingYear: 2019,
		SourceFile:    "CAL_PAYROLL_Smith_Jane_Fall2019.xlsx",
	}
}

func runOne(t *testing.T, entry timesheet.Entry, matches *roster.Roster, opts Options) []timesheet.Finding {
	t.Helper()
	policies := testPolicies()
	parsed := timesheet.Parse(entry, policies)
	return Run([]timesheet.Entry{entry}, []timesheet.ParsedEntry{parsed}, policies, matches, opts)
}

func messagesContaining(findings []timesheet.Finding, fragment string) []timesheet.Finding {
	var matched []timesheet.Finding
	for _, finding := range findings {
		if strings.Contains(finding.Message, fragment) {
			matched = append(matched, finding)
		}
	}
	return matched
}

func TestCleanRowHasNoFindings(t *testing.T) {
	t.Parallel()

	findings := runOne(t, goodTutorEntry(), nil, DefaultOptions())
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestMissingPosition(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Position = "   "
	findings := runOne(t, entry, nil, DefaultOptions())

	matched := messagesContaining(findings, "No position given")
	if len(matched) != 1 {
		t.Fatalf("expected one missing-position finding, got %+v", findings)
	}
	if matched[0].Severity != timesheet.SeverityCritical {
		t.Fatalf("expected critical severity, got %s", matched[0].Severity)
	}
}

func TestUnrecognizedPosition(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Position = "Wizard"
	findings := runOne(t, entry, nil, DefaultOptions())

	if len(messagesContaining(findings, "Unrecognized position: Wizard.")) != 1 {
		t.Fatalf("expected unrecognized-position finding, got %+v", findings)
	}
	if len(messagesContaining(findings, "No position given")) != 0 {
		t.Fatalf("missing-position rule must not fire for a present value")
	}
}

func TestMissingRequiredEntryDependsOnRole(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Class = ""
	findings := runOne(t, entry, nil, DefaultOptions())
	matched := messagesContaining(findings, "Missing required entry: Class Tutored.")
	if len(matched) != 1 || matched[0].Severity != timesheet.SeverityCritical {
		t.Fatalf("expected one critical missing-required finding, got %+v", findings)
	}

	// A coordinator does not require (in fact forbids) the class column,
	// so a blank class yields nothing; the filled name columns warn instead.
	coordinator := goodTutorEntry()
	coordinator.Position = "Coordinator"
	coordinator.Class = ""
	findings = runOne(t, coordinator, nil, DefaultOptions())
	if len(messagesContaining(findings, "Missing required entry")) != 0 {
		t.Fatalf("coordinator must not require the class column, got %+v", findings)
	}
	forbidden := messagesContaining(findings, "should be blank for position Coordinator")
	if len(forbidden) != 2 {
		t.Fatalf("expected two forbidden-entry warnings (last and first name), got %+v", findings)
	}
	for _, finding := range forbidden {
		if finding.Severity != timesheet.SeverityWarning {
			t.Fatalf("forbidden-entry findings are warnings, got %s", finding.Severity)
		}
	}
}

func TestInvalidDateFields(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Month = "Smarch"
	entry.Day = "twelve"
	findings := runOne(t, entry, nil, DefaultOptions())

	if len(messagesContaining(findings, "Invalid month: Smarch.")) != 1 {
		t.Fatalf("expected invalid-month finding, got %+v", findings)
	}
	if len(messagesContaining(findings, "Invalid day (must be a number): twelve.")) != 1 {
		t.Fatalf("expected invalid-day finding, got %+v", findings)
	}
}

func TestDayOutOfRangeForMonth(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Month = "April"
	entry.Day = "31"
	findings := runOne(t, entry, nil, DefaultOptions())

	if len(messagesContaining(findings, "Day is out of range for month: April 31, 2019.")) != 1 {
		t.Fatalf("expected out-of-range finding, got %+v", findings)
	}
}

func TestInvalidTimes(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.StartTime = "sometime"
	entry.EndTime = "35:74 PM"
	findings := runOne(t, entry, nil, DefaultOptions())

	if len(messagesContaining(findings, "Invalid start time: sometime.")) != 1 {
		t.Fatalf("expected invalid-start finding, got %+v", findings)
	}
	if len(messagesContaining(findings, "Invalid end time: 35:74 PM.")) != 1 {
		t.Fatalf("expected invalid-end finding, got %+v", findings)
	}
	// No duration mismatch without a computed duration.
	if len(messagesContaining(findings, "does not match")) != 0 {
		t.Fatalf("mismatch rule needs both times, got %+v", findings)
	}
}

func TestInvalidDuration(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Duration = "ninety minutes"
	findings := runOne(t, entry, nil, DefaultOptions())

	if len(messagesContaining(findings, "Invalid duration (must be a number): ninety minutes.")) != 1 {
		t.Fatalf("expected invalid-duration finding, got %+v", findings)
	}
}

func TestDatePastPeriodEnd(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Day = "16" // period ends September 15
	findings := runOne(t, entry, nil, DefaultOptions())

	matched := messagesContaining(findings, "is past end of pay period Pay Period 1.")
	if len(matched) != 1 || matched[0].Severity != timesheet.SeverityCritical {
		t.Fatalf("expected past-period-end finding, got %+v", findings)
	}
}

func TestNonPositiveDuration(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Duration = "0"
	entry.StartTime = ""
	entry.EndTime = ""
	findings := runOne(t, entry, nil, DefaultOptions())

	if len(messagesContaining(findings, "Duration must be positive: 0.")) != 1 {
		t.Fatalf("expected non-positive duration finding, got %+v", findings)
	}
}

func TestStartAfterEndYieldsComment(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.StartTime = "11:00"
	entry.EndTime = "1:30"
	entry.Duration = "2.5"
	findings := runOne(t, entry, nil, DefaultOptions())

	matched := messagesContaining(findings, "assuming the end time is PM")
	if len(matched) != 1 || matched[0].Severity != timesheet.SeverityComment {
		t.Fatalf("expected one PM-assumption comment, got %+v", findings)
	}
	// With the corrected end, 2.5 declared hours match the elapsed time.
	if len(messagesContaining(findings, "does not match")) != 0 {
		t.Fatalf("corrected comparison should not mismatch, got %+v", findings)
	}
}

func TestDurationMismatch(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Duration = "2.0"
	findings := runOne(t, entry, nil, DefaultOptions())

	matched := messagesContaining(findings, "Duration 2 does not match time from 9:00 to 10:30 (1.5 hours).")
	if len(matched) != 1 || matched[0].Severity != timesheet.SeverityCritical {
		t.Fatalf("expected one mismatch finding, got %+v", findings)
	}
}

func TestDurationMismatchWithinToleranceIsSilent(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.Duration = "1.55"
	findings := runOne(t, entry, nil, DefaultOptions())

	if len(messagesContaining(findings, "does not match")) != 0 {
		t.Fatalf("0.05h gap is within tolerance, got %+v", findings)
	}
}

func TestMismatchAgainstUncorrectedEnd(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.StartTime = "11:00"
	entry.EndTime = "1:30"
	entry.Duration = "2.5"

	opts := DefaultOptions()
	opts.UseCorrectedEndForMismatch = false
	findings := runOne(t, entry, nil, opts)

	// Against the end time as written, the elapsed time is -9.5 hours.
	if len(messagesContaining(findings, "does not match")) != 1 {
		t.Fatalf("expected mismatch against uncorrected end, got %+v", findings)
	}
}

func TestQuarterHourWarning(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()
	entry.StartTime = ""
	entry.EndTime = ""
	entry.Duration = "1.6"
	findings := runOne(t, entry, nil, DefaultOptions())

	matched := messagesContaining(findings, "Duration 1.6 is not rounded to 15 minutes.")
	if len(matched) != 1 || matched[0].Severity != timesheet.SeverityWarning {
		t.Fatalf("expected one quarter-hour warning, got %+v", findings)
	}

	entry.Duration = "1.75"
	findings = runOne(t, entry, nil, DefaultOptions())
	if len(messagesContaining(findings, "not rounded")) != 0 {
		t.Fatalf("1.75 is a quarter-hour value, got %+v", findings)
	}
}

func TestUnmatchedStudentNeedsRoster(t *testing.T) {
	t.Parallel()

	entry := goodTutorEntry()

	// No roster: rule disabled.
	findings := runOne(t, entry, nil, DefaultOptions())
	if len(messagesContaining(findings, "No record of match")) != 0 {
		t.Fatalf("pairing rule must be off without a roster, got %+v", findings)
	}

	matches, err := roster.Read(strings.NewReader("Provider,Last Name,First Name\nJane Smith,Doe,Sam\n"))
	if err != nil {
		t.Fatalf("read roster: %v", err)
	}

	findings = runOne(t, entry, matches, DefaultOptions())
	if len(messagesContaining(findings, "No record of match")) != 0 {
		t.Fatalf("matched pair must not be flagged, got %+v", findings)
	}

	entry.LastName = "Poe"
	findings = runOne(t, entry, matches, DefaultOptions())
	matched := messagesContaining(findings, "No record of match with Sam Poe.")
	if len(matched) != 1 || matched[0].Severity != timesheet.SeverityCritical {
		t.Fatalf("expected one unmatched-pair finding, got %+v", findings)
	}
}

func TestFindingsKeepRowThenCatalogOrder(t *testing.T) {
	t.Parallel()

	policies := testPolicies()

	first := goodTutorEntry()
	first.SheetRow = 4
	first.Duration = "2.0" // mismatch (catalog position after forbidden/invalid rules)
	first.Month = "Smarch" // invalid month fires earlier in the catalog

	second := goodTutorEntry()
	second.SheetRow = 6
	second.Position = ""

	entries := []timesheet.Entry{first, second}
	parsed := []timesheet.ParsedEntry{
		timesheet.Parse(first, policies),
		timesheet.Parse(second, policies),
	}

	findings := Run(entries, parsed, policies, nil, DefaultOptions())
	if len(findings) < 3 {
		t.Fatalf("expected at least 3 findings, got %+v", findings)
	}

	// Row 4's findings precede row 6's, and within row 4 the invalid-month
	// finding precedes the duration mismatch.
	if findings[0].SheetRow != 4 || !strings.Contains(findings[0].Message, "Invalid month") {
		t.Fatalf("unexpected first finding: %+v", findings[0])
	}
	if findings[1].SheetRow != 4 || !strings.Contains(findings[1].Message, "does not match") {
		t.Fatalf("unexpected second finding: %+v", findings[1])
	}
	lastRow4 := 0
	firstRow6 := -1
	for i, finding := range findings {
		if finding.SheetRow == 4 {
			lastRow4 = i
		}
		if finding.SheetRow == 6 && firstRow6 == -1 {
			firstRow6 = i
		}
	}
	if firstRow6 < lastRow4 {
		t.Fatalf("row order not preserved: %+v", findings)
	}
}

func TestCountBySeverity(t *testing.T) {
	t.Parallel()

	findings := []timesheet.Finding{
		{Severity: timesheet.SeverityComment},
		{Severity: timesheet.SeverityWarning},
		{Severity: timesheet.SeverityCritical},
		{Severity: timesheet.SeverityCritical},
	}
	comments, warnings, criticals := CountBySeverity(findings)
	if comments != 1 || warnings != 1 || criticals != 2 {
		t.Fatalf("unexpected counts: %d/%d/%d", comments, warnings, criticals)
	}
}
