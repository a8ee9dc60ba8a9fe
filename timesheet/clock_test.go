package timesheet

import "testing"

func TestClockTimeHoursUntil(t *testing.T) {
	t.Parallel()

	start := ClockTime{Hour: 9}
	end := ClockTime{Hour: 10, Minute: 30}
	if got := start.HoursUntil(end); got != 1.5 {
		t.Fatalf("expected 1.5 hours, got %g", got)
	}
	if got := end.HoursUntil(start); got != -1.5 {
		t.Fatalf("expected -1.5 hours, got %g", got)
	}
}

func TestClockTimeAfter(t *testing.T) {
	t.Parallel()

	a := ClockTime{Hour: 13, Minute: 30}
	b := ClockTime{Hour: 13, Minute: 29, Second: 59}
	if !a.After(b) {
		t.Fatalf("expected %v after %v", a, b)
	}
	if b.After(a) {
		t.Fatalf("expected %v not after %v", b, a)
	}
	if a.After(a) {
		t.Fatalf("a time is not after itself")
	}
}

func TestClockTimeAddHoursMayOverflow(t *testing.T) {
	t.Parallel()

	shifted := ClockTime{Hour: 15, Minute: 45}.AddHours(12)
	if shifted.Hour != 27 || shifted.Minute != 45 {
		t.Fatalf("unexpected shifted clock: %v", shifted)
	}
	if shifted.Valid() {
		t.Fatalf("expected overflowed clock to be invalid")
	}
}

func TestClockFromSecondsRoundTrip(t *testing.T) {
	t.Parallel()

	original := ClockTime{Hour: 16, Minute: 15, Second: 42}
	rebuilt := ClockFromSeconds(original.Seconds())
	if rebuilt != original {
		t.Fatalf("round trip mismatch: want %v, got %v", original, rebuilt)
	}
}
