package model

// ChallengeKind identifies the rule a daily challenge applies to a roll.
type ChallengeKind string

// Challenge kinds. The set is closed; evaluators switch over all of them.
const (
	KindSumEqual    ChallengeKind = "sumEqual"
	KindSumGreater  ChallengeKind = "sumGreater"
	KindSumLess     ChallengeKind = "sumLess"
	KindDoubles     ChallengeKind = "doubles"
	KindSpecific    ChallengeKind = "specific"
	KindConsecutive ChallengeKind = "consecutive"
)

// ChallengeKinds returns every challenge kind.
func ChallengeKinds() []ChallengeKind {
	return []ChallengeKind{
		KindSumEqual,
		KindSumGreater,
		KindSumLess,
		KindDoubles,
		KindSpecific,
		KindConsecutive,
	}
}

// Valid reports whether k is one of the known kinds.
func (k ChallengeKind) Valid() bool {
	switch k {
	case KindSumEqual, KindSumGreater, KindSumLess, KindDoubles, KindSpecific, KindConsecutive:
		return true
	}
	return false
}

// HasTarget reports whether the kind is parameterized by a sum target.
func (k ChallengeKind) HasTarget() bool {
	return k == KindSumEqual || k == KindSumGreater || k == KindSumLess
}

// ChallengeParams is the kind-specific payload of a challenge.
// Target is set for the sum kinds, Dice1 and Dice2 for KindSpecific.
type ChallengeParams struct {
	Target int `json:"target,omitempty"`
	Dice1  int `json:"dice1,omitempty"`
	Dice2  int `json:"dice2,omitempty"`
}

// Challenge is the goal of a single calendar day.
type Challenge struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Kind        ChallengeKind   `json:"kind"`
	Description string          `json:"description"`
	Params      ChallengeParams `json:"parameters"`
	BaseReward  int             `json:"baseReward"`
	Completed   bool            `json:"completed"`
}

// SameShape reports whether two challenges are structurally identical,
// ignoring the completed flag.
func (c Challenge) SameShape(o Challenge) bool {
	return c.ID == o.ID &&
		c.Date == o.Date &&
		c.Kind == o.Kind &&
		c.Description == o.Description &&
		c.Params == o.Params &&
		c.BaseReward == o.BaseReward
}
