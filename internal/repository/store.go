// Package repository persists game documents as whole JSON snapshots.
package repository

import (
	"context"
	"errors"
	"fmt"
)

// Common errors for repository operations.
var (
	ErrNotFound = errors.New("document not found")
	// ErrCorruptState marks a persisted document that could not be parsed.
	// Callers recover by substituting defaults; it never reaches players.
	ErrCorruptState = errors.New("corrupt persisted state")
)

// Document is one keyed JSON snapshot.
type Document struct {
	Key  string
	Body []byte
}

// Store is a key/value document store. Put writes every document of a
// batch or none of them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, docs ...Document) error
}

// Document kinds, also used as metric labels.
const (
	DocProfile     = "profile"
	DocChallenge   = "challenge"
	DocProgression = "progression"
)

// ProfileKey returns the key of a player's profile.
func ProfileKey(userID int64) string {
	return fmt.Sprintf("%s:%d", DocProfile, userID)
}

// ChallengeKey returns the key of a player's copy of a daily challenge.
func ChallengeKey(userID int64, challengeID string) string {
	return fmt.Sprintf("%s:%d:%s", DocChallenge, userID, challengeID)
}

// ProgressionKey returns the key of a player's adventure state.
func ProgressionKey(userID int64) string {
	return fmt.Sprintf("%s:%d", DocProgression, userID)
}
