package roster

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadSkipsHeadingRow(t *testing.T) {
	t.Parallel()

	input := "Provider,Last Name,First Name\nJane Smith,Doe,Sam\nJane Smith,Poe,Ann\nAlex Kim,Doe,Sam\n"
	r, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Len() != 2 {
		t.Fatalf("expected 2 providers, got %d", r.Len())
	}
	if !r.Matched("Jane Smith", "Doe", "Sam") || !r.Matched("Jane Smith", "Poe", "Ann") {
		t.Fatalf("expected Jane Smith's pairings on record")
	}
	if !r.Matched("Alex Kim", "Doe", "Sam") {
		t.Fatalf("expected Alex Kim's pairing on record")
	}
	if r.Matched("Alex Kim", "Poe", "Ann") {
		t.Fatalf("pairings must be scoped per provider")
	}
}

func TestReadWithoutHeadingRow(t *testing.T) {
	t.Parallel()

	r, err := Read(strings.NewReader("Jane Smith,Doe,Sam\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Matched("Jane Smith", "Doe", "Sam") {
		t.Fatalf("first data row must not be mistaken for a heading")
	}
}

func TestMatchedIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	r, err := Read(strings.NewReader("Jane Smith,Doe,Sam\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Matched("jane smith", "DOE", " sam ") {
		t.Fatalf("matching must fold case and whitespace")
	}
	if r.Matched("Jane Smith", "Doe", "Samuel") {
		t.Fatalf("different student must not match")
	}
}

func TestReadRejectsShortRows(t *testing.T) {
	t.Parallel()

	if _, err := Read(strings.NewReader("Jane Smith,Doe\n")); err == nil {
		t.Fatalf("expected an error for a two-column row")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "matches.csv")
	if err := os.WriteFile(path, []byte("Provider,Last Name,First Name\nJane Smith,Doe,Sam\n"), 0o644); err != nil {
		t.Fatalf("write roster: %v", err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 provider, got %d", r.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
