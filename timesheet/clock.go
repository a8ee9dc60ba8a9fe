package timesheet

import "fmt"

// ClockTime is a time of day with no attached date. Raw timesheet cells only
// carry a clock reading; the calendar date comes from separate columns, so
// time.Time is the wrong representation until both halves have parsed.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// Valid reports whether the components form a real time of day.
func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 &&
		c.Minute >= 0 && c.Minute < 60 &&
		c.Second >= 0 && c.Second < 60
}

// Seconds returns the offset from midnight in seconds.
func (c ClockTime) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// ClockFromSeconds rebuilds a clock time from its offset from midnight.
func ClockFromSeconds(seconds int) ClockTime {
	return ClockTime{
		Hour:   seconds / 3600,
		Minute: seconds % 3600 / 60,
		Second: seconds % 60,
	}
}

// After reports whether c is later in the day than other.
func (c ClockTime) After(other ClockTime) bool {
	return c.Seconds() > other.Seconds()
}

// AddHours shifts the clock forward without wrapping. The result may be
// invalid (hour >= 24); callers decide whether that matters.
func (c ClockTime) AddHours(hours int) ClockTime {
	return ClockTime{Hour: c.Hour + hours, Minute: c.Minute, Second: c.Second}
}

// HoursUntil returns the elapsed time from c to other in fractional hours.
func (c ClockTime) HoursUntil(other ClockTime) float64 {
	return float64(other.Seconds()-c.Seconds()) / 3600.0
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%d:%02d", c.Hour, c.Minute)
}
