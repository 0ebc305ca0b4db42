// Package challenge generates and evaluates the daily dice challenge.
package challenge

import "lucky-dice-bot/internal/model"

// Archetype is a catalog entry a daily challenge is generated from.
type Archetype struct {
	Kind       model.ChallengeKind
	Template   string // Display text with {target}, {dice1}, {dice2} placeholders
	Difficulty int
	RewardMin  int
	RewardMax  int
}

// archetypes is the frozen catalog. The order is part of the generation
// contract: reordering changes which challenge a given date produces.
var archetypes = [...]Archetype{
	{
		Kind:       model.KindSumEqual,
		Template:   "Roll a total equal to {target}",
		Difficulty: 1,
		RewardMin:  10,
		RewardMax:  20,
	},
	{
		Kind:       model.KindSumGreater,
		Template:   "Roll a total greater than {target}",
		Difficulty: 2,
		RewardMin:  15,
		RewardMax:  30,
	},
	{
		Kind:       model.KindSumLess,
		Template:   "Roll a total less than {target}",
		Difficulty: 2,
		RewardMin:  15,
		RewardMax:  30,
	},
	{
		Kind:       model.KindDoubles,
		Template:   "Roll doubles (both dice show the same value)",
		Difficulty: 3,
		RewardMin:  25,
		RewardMax:  40,
	},
	{
		Kind:       model.KindSpecific,
		Template:   "Roll {dice1} on the first die and {dice2} on the second",
		Difficulty: 5,
		RewardMin:  40,
		RewardMax:  60,
	},
	{
		Kind:       model.KindConsecutive,
		Template:   "Roll consecutive numbers (for example 3 and 4)",
		Difficulty: 4,
		RewardMin:  30,
		RewardMax:  50,
	},
}

// CatalogSize is the number of archetypes.
const CatalogSize = len(archetypes)

// Catalog returns a copy of all archetypes in catalog order.
func Catalog() []Archetype {
	out := make([]Archetype, CatalogSize)
	copy(out, archetypes[:])
	return out
}

// Lookup returns the archetype for kind.
func Lookup(kind model.ChallengeKind) (Archetype, bool) {
	for _, a := range archetypes {
		if a.Kind == kind {
			return a, true
		}
	}
	return Archetype{}, false
}
