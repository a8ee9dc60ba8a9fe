package importer

import (
	"fmt"

	"paysheet/timesheet"
)

// AssembleContext carries the per-source values stamped onto every entry.
type AssembleContext struct {
	Provider      string
	ReportingYear int
	SourceFile    string
}

// Assemble concatenates per-period row groups into one uniform entry table.
// Fully blank rows are dropped, but the sheet row numbers of the surviving
// entries always reference the original, unfiltered sheet position so error
// messages stay auditable against the source file. Period order and
// intra-period row order are preserved as given.
func Assemble(groups []PeriodGroup, periods map[string]timesheet.Period, ctx AssembleContext) ([]timesheet.Entry, error) {
	entries := make([]timesheet.Entry, 0, 256)

	for _, group := range groups {
		period, ok := periods[timesheet.PeriodKey(group.Name)]
		if !ok {
			return nil, fmt.Errorf("unknown pay period %q", group.Name)
		}

		for _, record := range group.Records {
			entry := timesheet.Entry{
				Position:  record.Get(timesheet.FieldPosition),
				LastName:  record.Get(timesheet.FieldLastName),
				FirstName: record.Get(timesheet.FieldFirstName),
				Class:     record.Get(timesheet.FieldClass),
				Month:     record.Get(timesheet.FieldMonth),
				Day:       record.Get(timesheet.FieldDay),
				StartTime: record.Get(timesheet.FieldStartTime),
				EndTime:   record.Get(timesheet.FieldEndTime),
				Duration:  record.Get(timesheet.FieldDuration),
				Notes:     record.Get(timesheet.FieldNotes),

				PeriodName:    group.Name,
				SheetRow:      record.SheetRow,
				Provider:      ctx.Provider,
				ReportingYear: ctx.ReportingYear,
				SourceFile:    ctx.SourceFile,
			}
			if ctx.ReportingYear > 0 {
				entry.PeriodEnd = period.EndDate(ctx.ReportingYear)
			}

			if entry.IsBlank() {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
