package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Roster records which students each provider is matched with. The pairing
// rule only runs when a roster is supplied.
type Roster struct {
	pairs map[string]map[string]struct{}
}

// Load reads a roster CSV with columns Provider, Last Name, First Name.
// A heading row is skipped when present.
func Load(path string) (*Roster, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster %s: %w", path, err)
	}
	defer file.Close()

	return Read(file)
}

func Read(source io.Reader) (*Roster, error) {
	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1

	roster := &Roster{pairs: make(map[string]map[string]struct{})}
	rowNumber := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster row %d: %w", rowNumber+1, err)
		}
		rowNumber++

		if len(row) < 3 {
			return nil, fmt.Errorf("roster row %d has %d columns, want 3 (provider, last, first)", rowNumber, len(row))
		}
		if rowNumber == 1 && strings.EqualFold(strings.TrimSpace(row[0]), "provider") {
			continue
		}

		roster.add(row[0], row[1], row[2])
	}

	return roster, nil
}

func (r *Roster) add(provider, last, first string) {
	providerKey := normalize(provider)
	if providerKey == "" {
		return
	}
	students, ok := r.pairs[providerKey]
	if !ok {
		students = make(map[string]struct{})
		r.pairs[providerKey] = students
	}
	students[studentKey(last, first)] = struct{}{}
}

// Matched reports whether the provider is on record as matched with the
// named student.
func (r *Roster) Matched(provider, last, first string) bool {
	students, ok := r.pairs[normalize(provider)]
	if !ok {
		return false
	}
	_, ok = students[studentKey(last, first)]
	return ok
}

// Len returns the number of providers on the roster.
func (r *Roster) Len() int {
	return len(r.pairs)
}

func studentKey(last, first string) string {
	return normalize(last) + "|" + normalize(first)
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
