package challenge

import "lucky-dice-bot/internal/model"

// Reconcile decides which copy of a day's challenge is authoritative.
// Regeneration is the source of truth for structure: a missing copy or one
// for another day is replaced by generated, and a copy whose structure
// drifted takes generated's structure but keeps its completed flag. The
// second result reports whether stored had to change.
func Reconcile(generated, stored model.Challenge, found bool) (model.Challenge, bool) {
	switch {
	case !found:
		return generated, true
	case stored.ID != generated.ID:
		return generated, true
	case !stored.SameShape(generated):
		generated.Completed = stored.Completed
		return generated, true
	default:
		return stored, false
	}
}
