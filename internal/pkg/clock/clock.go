// Package clock supplies the current time in the game's calendar location.
package clock

import "time"

// Clock returns the current time. Calendar days are taken from the
// location of the returned time.
type Clock interface {
	Now() time.Time
}

// System is the wall clock in a fixed location.
type System struct {
	Location *time.Location
}

// NewSystem returns a wall clock in loc, or in time.Local if loc is nil.
func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.Local
	}
	return System{Location: loc}
}

// Now returns the current wall time in the clock's location.
func (s System) Now() time.Time {
	return time.Now().In(s.Location)
}

// Fixed is a clock for tests that returns a settable instant.
type Fixed struct {
	T time.Time
}

// NewFixed returns a clock stopped at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{T: t}
}

// Now returns the stored instant.
func (f *Fixed) Now() time.Time {
	return f.T
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}

// AddDays moves the clock to the same wall time n calendar days later.
func (f *Fixed) AddDays(n int) {
	f.T = f.T.AddDate(0, 0, n)
}

// Today returns the YYYY-MM-DD key of c's current day.
func Today(c Clock) string {
	return c.Now().Format(time.DateOnly)
}
