package service

import "errors"

// Service errors.
var (
	ErrInvalidRoll  = errors.New("dice values must be between 1 and 6")
	ErrItemNotFound = errors.New("item not found")
)

// errUnchanged aborts a commit that turned out to have nothing to write.
var errUnchanged = errors.New("unchanged")

func validDice(die1, die2 int) bool {
	return die1 >= 1 && die1 <= 6 && die2 >= 1 && die2 <= 6
}
