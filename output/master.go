package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"paysheet/timesheet"
)

// MasterRow is one provider-facing entry in the consolidated workbook.
type MasterRow struct {
	Provider  string
	Student   string
	Class     string
	Month     string
	Day       string
	StartTime string
	EndTime   string
	Duration  string
	Notes     string

	date    time.Time
	dateOK  bool
	start   timesheet.ClockTime
	startOK bool
}

// GroupBy selects which grouping the master workbook uses: one sheet per
// provider or one sheet per student.
type GroupBy int

const (
	GroupByProvider GroupBy = iota
	GroupByStudent
)

// BuildMasterRows flattens entries into master rows, keeping only the
// payable roles (lowercased position keys). The student name is normalized
// to "First Last" with capitalized parts, matching how coordinators read
// the consolidated sheets.
func BuildMasterRows(entries []timesheet.Entry, parsed []timesheet.ParsedEntry, payableRoles []string) []MasterRow {
	payable := make(map[string]bool, len(payableRoles))
	for _, role := range payableRoles {
		payable[strings.ToLower(strings.TrimSpace(role))] = true
	}

	rows := make([]MasterRow, 0, len(entries))
	for i, entry := range entries {
		view := parsed[i]
		if !payable[view.PositionKey] {
			continue
		}

		rows = append(rows, MasterRow{
			Provider:  entry.Provider,
			Student:   studentName(entry.FirstName, entry.LastName),
			Class:     entry.Class,
			Month:     entry.Month,
			Day:       entry.Day,
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
			Duration:  entry.Duration,
			Notes:     entry.Notes,
			date:      view.Date,
			dateOK:    view.DateOK,
			start:     view.Start,
			startOK:   view.StartOK,
		})
	}
	return rows
}

// WriteMasterWorkbook writes one sheet per group, rows sorted by date then
// start time. Rows without a parseable date sort last in their group,
// keeping their relative order.
func WriteMasterWorkbook(path string, rows []MasterRow, groupBy GroupBy) error {
	byGroup := make(map[string][]MasterRow)
	for _, row := range rows {
		key := row.Provider
		if groupBy == GroupByStudent {
			key = row.Student
		}
		if strings.TrimSpace(key) == "" {
			key = "(unknown)"
		}
		byGroup[key] = append(byGroup[key], row)
	}

	groups := make([]string, 0, len(byGroup))
	for group := range byGroup {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	file := excelize.NewFile()
	defer file.Close()

	headers := masterHeaders(groupBy)
	for i, group := range groups {
		groupRows := byGroup[group]
		sort.SliceStable(groupRows, func(a, b int) bool {
			return masterRowLess(groupRows[a], groupRows[b])
		})

		sheet := sanitizeSheetName(group)
		if i == 0 {
			if err := file.SetSheetName(file.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("rename sheet %s: %w", sheet, err)
			}
		} else {
			if _, err := file.NewSheet(sheet); err != nil {
				return fmt.Errorf("create sheet %s: %w", sheet, err)
			}
		}

		for col, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			if err := file.SetCellValue(sheet, cell, header); err != nil {
				return fmt.Errorf("set master header %s: %w", cell, err)
			}
		}

		for rowIndex, row := range groupRows {
			for col, value := range masterValues(row, groupBy) {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIndex+2)
				if err := file.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("set master value %s: %w", cell, err)
				}
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save master workbook %s: %w", path, err)
	}
	return nil
}

func masterHeaders(groupBy GroupBy) []string {
	first := "Student"
	if groupBy == GroupByStudent {
		first = "Provider"
	}
	return []string{first, "Class Tutored", "Month", "Day", "Start Time", "End Time", "Duration", "Notes"}
}

func masterValues(row MasterRow, groupBy GroupBy) []string {
	first := row.Student
	if groupBy == GroupByStudent {
		first = row.Provider
	}
	return []string{first, row.Class, row.Month, row.Day, row.StartTime, row.EndTime, row.Duration, row.Notes}
}

func masterRowLess(a, b MasterRow) bool {
	if a.dateOK != b.dateOK {
		return a.dateOK
	}
	if a.dateOK && !a.date.Equal(b.date) {
		return a.date.Before(b.date)
	}
	if a.startOK != b.startOK {
		return a.startOK
	}
	if a.startOK && a.start.Seconds() != b.start.Seconds() {
		return a.start.Seconds() < b.start.Seconds()
	}
	return false
}

func studentName(first, last string) string {
	name := strings.TrimSpace(capitalize(first) + " " + capitalize(last))
	return name
}

func capitalize(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	return strings.ToUpper(trimmed[:1]) + strings.ToLower(trimmed[1:])
}

// sanitizeSheetName keeps group names inside Excel's sheet-name rules:
// 31 characters, none of : \ / ? * [ ].
func sanitizeSheetName(name string) string {
	replacer := strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "-", "*", "-", "[", "(", "]", ")")
	cleaned := replacer.Replace(name)
	if len(cleaned) > 31 {
		cleaned = cleaned[:31]
	}
	if strings.TrimSpace(cleaned) == "" {
		cleaned = "(unknown)"
	}
	return cleaned
}
