package importer

import (
	"strings"
)

// Record is one sheet row before assembly, keyed by normalized column
// heading. SheetRow is the 1-based row in the source sheet, header and
// formatting rows included, so findings can point back at the file.
type Record struct {
	SheetRow int
	Values   map[string]string
}

func (r Record) Get(keys ...string) string {
	for _, key := range keys {
		normalized := normalizeHeader(key)
		if value, ok := r.Values[normalized]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// PeriodGroup is the set of rows read from one pay-period sheet, in sheet
// order.
type PeriodGroup struct {
	Name    string
	Records []Record
}

func normalizeHeader(input string) string {
	trimmed := strings.TrimSpace(strings.ToLower(input))
	trimmed = strings.ReplaceAll(trimmed, "_", "")
	trimmed = strings.ReplaceAll(trimmed, "-", "")
	trimmed = strings.ReplaceAll(trimmed, " ", "")
	trimmed = strings.ReplaceAll(trimmed, "/", "")
	return trimmed
}
