package inventory

import (
	"time"
)

// =============================================================================
// DATE - Calendar-day granularity (all expiry math ignores time of day)
// =============================================================================

// Date is a calendar date in UTC. Expiry and status classification work on
// whole days only: a batch expiring today is still dispensable, one that
// expired yesterday is not, regardless of wall-clock time.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

func (d Date) Year() int        { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int         { return d.t.Day() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == `""` || s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysBetween returns the whole-day span from one date to another.
// Negative when `to` is in the past relative to `from`.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// CLOCK - Substitutable time source for deterministic tests
// =============================================================================

// Clock provides "today" for expiry math and "now" for record timestamps.
// Status is never stored; it is recomputed against Today() on every read.
type Clock interface {
	Today() Date
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Today() Date    { return DateOf(time.Now().UTC()) }
func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall-clock Clock used in production.
func SystemClock() Clock { return systemClock{} }

// FixedClock is pinned to a single instant, for tests.
type FixedClock struct {
	Date Date
	Time time.Time
}

func NewFixedClock(year int, month time.Month, day int) *FixedClock {
	d := NewDate(year, month, day)
	return &FixedClock{Date: d, Time: d.t}
}

func (c *FixedClock) Today() Date { return c.Date }

func (c *FixedClock) Now() time.Time {
	if c.Time.IsZero() {
		return c.Date.t
	}
	return c.Time
}

// Advance moves the clock forward by n days.
func (c *FixedClock) Advance(n int) {
	c.Date = c.Date.AddDays(n)
	c.Time = c.Time.AddDate(0, 0, n)
}
