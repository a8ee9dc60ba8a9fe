package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// SourceMeta is the context derived from a timesheet filename: who submitted
// the sheet and which reporting year it covers.
type SourceMeta struct {
	Provider  string
	LastName  string
	FirstName string
	Year      int
}

var yearPattern = regexp.MustCompile(`(19|20)\d{2}`)

// ParseFilename extracts provider and year from the submission naming
// convention <dept>_PAYROLL_<Last>_<First>_<term+year>.xlsx, e.g.
// "CAL_PAYROLL_Smith_Jane_Fall2019.xlsx". The error describes what is wrong
// with the name; callers report it once per file and keep processing.
func ParseFilename(path string) (SourceMeta, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.Split(stem, "_")
	if len(parts) != 5 {
		return SourceMeta{}, fmt.Errorf(
			"filename %s does not follow <dept>_PAYROLL_<Last>_<First>_<term>: expected 5 underscore-separated parts, got %d",
			base, len(parts),
		)
	}
	if !strings.EqualFold(parts[1], "PAYROLL") {
		return SourceMeta{}, fmt.Errorf("filename %s is not a payroll submission (second part %q)", base, parts[1])
	}

	last := strings.TrimSpace(parts[2])
	first := strings.TrimSpace(parts[3])
	if last == "" || first == "" {
		return SourceMeta{}, fmt.Errorf("filename %s has a blank provider name part", base)
	}

	meta := SourceMeta{
		Provider:  first + " " + last,
		LastName:  last,
		FirstName: first,
	}

	yearToken := yearPattern.FindString(parts[4])
	if yearToken == "" {
		return meta, fmt.Errorf("filename %s has no year in term part %q", base, parts[4])
	}
	year, err := strconv.Atoi(yearToken)
	if err != nil {
		return meta, fmt.Errorf("filename %s: parse year %q: %w", base, yearToken, err)
	}
	meta.Year = year

	return meta, nil
}
