// Package streak tracks consecutive-day visits and consecutive doubles.
package streak

import (
	"time"

	"lucky-dice-bot/internal/model"
)

// Midnight truncates t to the start of its calendar day in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DaysBetween returns the number of calendar days from a to b, using b's
// location for both. Days are counted on the civil calendar so DST changes
// never produce a 23 or 25 hour "day".
func DaysBetween(a, b time.Time) int {
	loc := b.Location()
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// VisitedToday reports whether the profile's last visit falls on the same
// calendar day as now. Callers read it before OnVisit to apply the visit at
// most once per day.
func VisitedToday(p *model.Profile, now time.Time) bool {
	return p.LastVisit != nil && DaysBetween(*p.LastVisit, now) == 0
}

// OnVisit applies a visit at now and returns the updated streak:
//   - no prior visit: 1
//   - last visit yesterday: streak + 1
//   - last visit two or more days ago: reset to 1
//   - same day: unchanged
//
// LastVisit is set to now in every case. OnVisit is not idempotent across a
// day boundary, so it must run at most once per day per profile.
func OnVisit(p *model.Profile, now time.Time) int {
	switch {
	case p.LastVisit == nil:
		p.StreakDays = 1
	default:
		switch days := DaysBetween(*p.LastVisit, now); {
		case days == 1:
			p.StreakDays++
		case days > 1:
			p.StreakDays = 1
		}
		// days < 0 means the clock went backwards; keep the streak.
	}

	visit := now
	p.LastVisit = &visit
	return p.StreakDays
}

// NextRollStreak returns the consecutive-doubles count after a roll.
// Doubles extend the streak, anything else resets it.
func NextRollStreak(prev, die1, die2 int) int {
	if die1 == die2 {
		if prev < 0 {
			prev = 0
		}
		return prev + 1
	}
	return 0
}
