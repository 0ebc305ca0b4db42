// Package seed provides the deterministic number stream behind the daily challenge.
// The stream is a cheap sine hash, not a source of fair randomness.
package seed

import (
	"math"
	"time"
)

// DateSeed builds the integer seed for a calendar day as year*10000 + month*100 + day.
// The calendar of t's own location is used, so the daily rollover happens at
// local midnight rather than at UTC midnight.
func DateSeed(t time.Time) int64 {
	y, m, d := t.Date()
	return int64(y)*10000 + int64(m)*100 + int64(d)
}

// At returns the n-th draw of the stream for seed, a value in [0,1).
func At(seed int64, n int) float64 {
	x := math.Sin(float64(seed+int64(n))) * 10000
	f := x - math.Floor(x)
	// Guard the half-open interval against rounding at the top end.
	if f >= 1 {
		return 0
	}
	return f
}

// Next returns the first draw of the stream for seed.
func Next(seed int64) float64 {
	return At(seed, 1)
}

// Sequence is a lazy, restartable stream of draws for a single seed.
// A Sequence is not safe for concurrent use; create one per caller.
type Sequence struct {
	seed int64
	n    int
}

// New creates a Sequence positioned before its first draw.
func New(seed int64) *Sequence {
	return &Sequence{seed: seed}
}

// ForDate creates a Sequence seeded from the calendar day of t.
func ForDate(t time.Time) *Sequence {
	return New(DateSeed(t))
}

// Seed returns the seed the sequence was built from.
func (s *Sequence) Seed() int64 {
	return s.seed
}

// Float64 returns the next draw in [0,1).
func (s *Sequence) Float64() float64 {
	s.n++
	return At(s.seed, s.n)
}

// Intn returns floor(Float64()*n), a value in [0,n).
// It returns 0 when n <= 0.
func (s *Sequence) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// IntRange returns a value in [min,max] drawn as floor(Float64()*(max-min+1)) + min.
func (s *Sequence) IntRange(min, max int) int {
	if max < min {
		min, max = max, min
	}
	return s.Intn(max-min+1) + min
}

// Reset rewinds the sequence to before its first draw.
func (s *Sequence) Reset() {
	s.n = 0
}

// Drawn returns how many values have been consumed since the last reset.
func (s *Sequence) Drawn() int {
	return s.n
}
