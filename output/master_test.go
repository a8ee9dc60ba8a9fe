package output

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"paysheet/timesheet"
)

func masterFixture() ([]timesheet.Entry, []timesheet.ParsedEntry) {
	entries := []timesheet.Entry{
		{
			Position: "Tutor", LastName: "doe", FirstName: "SAM", Class: "MATH 101",
			Month: "September", Day: "12", StartTime: "9:00", EndTime: "10:30", Duration: "1.5",
			Provider: "Jane Smith",
		},
		{
			Position: "Tutor", LastName: "doe", FirstName: "SAM", Class: "MATH 101",
			Month: "September", Day: "5", StartTime: "1:00", EndTime: "2:00", Duration: "1",
			Provider: "Jane Smith",
		},
		{
			Position: "Coordinator",
			Month:    "September", Day: "5", StartTime: "3:00", EndTime: "4:00", Duration: "1",
			Provider: "Jane Smith",
		},
	}
	parsed := []timesheet.ParsedEntry{
		{
			PositionKey: "tutor",
			Date:        time.Date(2019, time.September, 12, 0, 0, 0, 0, time.UTC), DateOK: true,
			Start: timesheet.ClockTime{Hour: 9}, StartOK: true,
		},
		{
			PositionKey: "tutor",
			Date:        time.Date(2019, time.September, 5, 0, 0, 0, 0, time.UTC), DateOK: true,
			Start: timesheet.ClockTime{Hour: 13}, StartOK: true,
		},
		{
			PositionKey: "coordinator",
			Date:        time.Date(2019, time.September, 5, 0, 0, 0, 0, time.UTC), DateOK: true,
			Start: timesheet.ClockTime{Hour: 15}, StartOK: true,
		},
	}
	return entries, parsed
}

func TestBuildMasterRowsFiltersByRole(t *testing.T) {
	t.Parallel()

	entries, parsed := masterFixture()
	rows := BuildMasterRows(entries, parsed, []string{"Tutor"})

	if len(rows) != 2 {
		t.Fatalf("expected coordinator rows filtered out, got %d rows", len(rows))
	}
	for _, row := range rows {
		if row.Student != "Sam Doe" {
			t.Fatalf("student name not normalized: %q", row.Student)
		}
	}
}

func TestWriteMasterWorkbookSortsWithinGroup(t *testing.T) {
	t.Parallel()

	entries, parsed := masterFixture()
	rows := BuildMasterRows(entries, parsed, []string{"tutor"})

	// An undated row sorts after every dated one.
	rows = append(rows, MasterRow{Provider: "Jane Smith", Student: "Sam Doe", Month: "Smarch", Day: "1"})

	path := filepath.Join(t.TempDir(), "master.xlsx")
	if err := WriteMasterWorkbook(path, rows, GroupByProvider); err != nil {
		t.Fatalf("write master workbook: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Jane Smith" {
		t.Fatalf("expected one provider sheet, got %v", sheets)
	}

	got, err := file.GetRows("Jane Smith")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(got))
	}
	if got[0][0] != "Student" {
		t.Fatalf("unexpected header: %v", got[0])
	}
	// Sorted by date: Sept 5 before Sept 12, undated last.
	if got[1][3] != "5" || got[2][3] != "12" || got[3][2] != "Smarch" {
		t.Fatalf("rows not sorted by date: %v", got)
	}
}

func TestWriteMasterWorkbookGroupsByStudent(t *testing.T) {
	t.Parallel()

	rows := []MasterRow{
		{Provider: "Jane Smith", Student: "Sam Doe"},
		{Provider: "Alex Kim", Student: "Sam Doe"},
		{Provider: "Jane Smith", Student: "Ann Poe"},
	}

	path := filepath.Join(t.TempDir(), "master.xlsx")
	if err := WriteMasterWorkbook(path, rows, GroupByStudent); err != nil {
		t.Fatalf("write master workbook: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("expected one sheet per student, got %v", sheets)
	}

	got, err := file.GetRows("Sam Doe")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(got))
	}
	if got[0][0] != "Provider" {
		t.Fatalf("student grouping lists the provider first, got %v", got[0])
	}
}

func TestSanitizeSheetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "Jane Smith", want: "Jane Smith"},
		{input: "a/b:c?d", want: "a-b-c-d"},
		{input: "[bracketed]", want: "(bracketed)"},
		{input: strings31() + "overflow", want: strings31()},
		{input: "   ", want: "(unknown)"},
	}

	for _, tc := range tests {
		if got := sanitizeSheetName(tc.input); got != tc.want {
			t.Fatalf("sanitizeSheetName(%q): want %q, got %q", tc.input, tc.want, got)
		}
	}
}

func strings31() string {
	out := make([]byte, 31)
	for i := range out {
		out[i] = 'x'
	}
	return string(out)
}
