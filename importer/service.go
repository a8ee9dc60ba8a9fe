package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"paysheet/check"
	"paysheet/config"
	"paysheet/internal/roster"
	"paysheet/timesheet"
)

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsKept       int
	Entries        []timesheet.Entry
	Parsed         []timesheet.ParsedEntry
	Findings       []timesheet.Finding
}

type RunOptions struct {
	// Format forces csv or excel; inferred from the extension when empty.
	Format string
	// PeriodName names the pay period for CSV sources, which carry a
	// single period and no sheet names.
	PeriodName string
	// Provider and Year override the filename-derived values.
	Provider string
	Year     int
	// Matches enables the provider/student pairing rule when non-nil.
	Matches *roster.Roster
}

// Run reads each source file, assembles its pay-period groups into entries,
// derives the typed view of every row, and evaluates the rule catalog.
// A filename that breaks the naming convention yields one critical finding
// for the whole source; the file is still processed with whatever context
// survives, since partial results remain actionable.
func Run(paths []string, cfg *config.Config, options RunOptions) (*Result, error) {
	result := &Result{
		Entries:  make([]timesheet.Entry, 0, 256),
		Parsed:   make([]timesheet.ParsedEntry, 0, 256),
		Findings: make([]timesheet.Finding, 0, 64),
	}

	periods := cfg.PeriodTable()
	policies := cfg.Policies()
	checkOptions := check.Options{
		DurationToleranceHours:     cfg.Check.DurationToleranceHours,
		UseCorrectedEndForMismatch: cfg.Check.UseCorrectedEndForMismatch,
	}

	for _, path := range paths {
		meta, metaErr := ParseFilename(path)

		ctx := AssembleContext{
			Provider:      firstNonEmpty(options.Provider, meta.Provider),
			ReportingYear: firstPositive(options.Year, meta.Year, cfg.Import.Year),
			SourceFile:    path,
		}
		if metaErr != nil && (ctx.Provider == "" || ctx.ReportingYear == 0) {
			result.Findings = append(result.Findings, timesheet.Finding{
				Severity:   timesheet.SeverityCritical,
				Message:    fmt.Sprintf("Cannot derive source context: %v.", metaErr),
				Provider:   ctx.Provider,
				SourceFile: path,
			})
		}

		groups, err := readGroups(path, options, cfg, periods)
		if err != nil {
			return nil, err
		}

		entries, err := Assemble(groups, periods, ctx)
		if err != nil {
			return nil, fmt.Errorf("assemble %s: %w", path, err)
		}

		parsed := make([]timesheet.ParsedEntry, len(entries))
		for i, entry := range entries {
			parsed[i] = timesheet.Parse(entry, policies)
		}

		result.FilesProcessed++
		for _, group := range groups {
			result.RowsRead += len(group.Records)
		}
		result.RowsKept += len(entries)
		result.Entries = append(result.Entries, entries...)
		result.Parsed = append(result.Parsed, parsed...)
		result.Findings = append(result.Findings, check.Run(entries, parsed, policies, options.Matches, checkOptions)...)
	}

	return result, nil
}

func readGroups(path string, options RunOptions, cfg *config.Config, periods map[string]timesheet.Period) ([]PeriodGroup, error) {
	format, err := inferFormat(path, options.Format)
	if err != nil {
		return nil, err
	}

	switch format {
	case "excel":
		reader := &ExcelReader{HeaderRow: cfg.Import.HeaderRow}
		return reader.Read(path, periods)
	case "csv":
		periodName := strings.TrimSpace(options.PeriodName)
		if periodName == "" {
			return nil, fmt.Errorf("csv source %s needs --period (csv files carry a single pay period)", path)
		}
		reader := &CSVReader{}
		return reader.Read(path, periodName)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

func inferFormat(path string, format string) (string, error) {
	if cleaned := strings.TrimSpace(strings.ToLower(format)); cleaned != "" {
		switch cleaned {
		case "csv":
			return "csv", nil
		case "excel", "xlsx", "xlsm", "xls":
			return "excel", nil
		default:
			return "", fmt.Errorf("unsupported input format: %s", format)
		}
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}
