// Package ledger owns every write to a player's documents. Each commit
// runs under the player's lock, reads whole snapshots, applies a change to
// copies and writes all touched documents back in one batch.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/pkg/clock"
	"lucky-dice-bot/internal/pkg/lock"
	"lucky-dice-bot/internal/pkg/metrics"
	"lucky-dice-bot/internal/repository"
)

// Ledger errors.
var (
	ErrInsufficientFunds = errors.New("insufficient luck points")
	ErrAlreadyUnlocked   = errors.New("item already unlocked")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// DefaultLockTimeout bounds how long a commit waits for the player's lock.
const DefaultLockTimeout = 5 * time.Second

// Ledger serializes read-modify-write cycles per player.
type Ledger struct {
	store       repository.Store
	locks       *lock.ProfileLock
	clock       clock.Clock
	lockTimeout time.Duration
}

// New creates a new Ledger.
func New(store repository.Store, locks *lock.ProfileLock, clk clock.Clock) *Ledger {
	return &Ledger{
		store:       store,
		locks:       locks,
		clock:       clk,
		lockTimeout: DefaultLockTimeout,
	}
}

// SetLockTimeout changes how long a commit waits for the player's lock.
func (l *Ledger) SetLockTimeout(d time.Duration) {
	if d > 0 {
		l.lockTimeout = d
	}
}

// Clock returns the ledger's clock.
func (l *Ledger) Clock() clock.Clock {
	return l.clock
}

// Store returns the underlying document store.
func (l *Ledger) Store() repository.Store {
	return l.store
}

// Get returns the current profile snapshot without taking the lock. A
// missing or unreadable profile yields a fresh one.
func (l *Ledger) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	p := model.NewProfile(userID)
	ok, err := l.load(ctx, repository.ProfileKey(userID), p)
	if err != nil {
		return nil, err
	}
	if !ok {
		p = model.NewProfile(userID)
	}
	normalizeProfile(p, userID)
	return p, nil
}

// Load reads any document outside a commit. It reports false when the
// document is absent or unreadable; in the latter case v may hold a
// partial decode and should be discarded.
func (l *Ledger) Load(ctx context.Context, key string, v any) (bool, error) {
	return l.load(ctx, key, v)
}

// Update applies fn to the player's profile and commits it. If fn returns
// an error nothing is written and the error is returned unchanged.
func (l *Ledger) Update(ctx context.Context, userID int64, fn func(p *model.Profile) error) (*model.Profile, error) {
	return l.Transact(ctx, userID, func(tx *Tx) error {
		return fn(tx.Profile)
	})
}

// Transact runs fn with a transaction holding the player's profile. fn may
// load and stage other documents; the profile and every staged document
// are written in one batch after fn succeeds.
func (l *Ledger) Transact(ctx context.Context, userID int64, fn func(tx *Tx) error) (*model.Profile, error) {
	var committed *model.Profile

	err := l.locks.WithLockContext(ctx, userID, l.lockTimeout, func() error {
		p, err := l.Get(ctx, userID)
		if err != nil {
			return err
		}

		tx := &Tx{
			ctx:     ctx,
			ledger:  l,
			now:     l.clock.Now(),
			Profile: p,
			staged:  make(map[string][]byte),
		}
		if err := fn(tx); err != nil {
			return err
		}

		tx.Profile.UpdatedAt = tx.now
		if err := tx.Stage(repository.ProfileKey(userID), tx.Profile); err != nil {
			return err
		}
		if err := l.store.Put(ctx, tx.documents()...); err != nil {
			return fmt.Errorf("failed to commit profile %d: %w", userID, err)
		}
		committed = tx.Profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// load decodes the document at key into v. Absent documents report false.
// Unreadable ones are logged, counted and also report false; v may be
// partially written, so callers decode into a fresh default.
func (l *Ledger) load(ctx context.Context, key string, v any) (bool, error) {
	body, err := l.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		doc := docKind(key)
		metrics.CorruptSnapshots.WithLabelValues(doc).Inc()
		log.Warn().
			Err(fmt.Errorf("%w: %v", repository.ErrCorruptState, err)).
			Str("doc", doc).
			Str("key", key).
			Msg("Discarding unreadable snapshot")
		return false, nil
	}
	return true, nil
}

// normalizeProfile repairs a loaded profile in place.
func normalizeProfile(p *model.Profile, userID int64) {
	if p.UserID == nil || *p.UserID != userID {
		id := userID
		p.UserID = &id
	}
	p.Sanitize()
}

func docKind(key string) string {
	kind, _, _ := strings.Cut(key, ":")
	return kind
}

// Tx is one commit in progress.
type Tx struct {
	ctx     context.Context
	ledger  *Ledger
	now     time.Time
	staged  map[string][]byte
	order   []string
	Profile *model.Profile
}

// Now returns the commit's timestamp. It is read once per commit so every
// change in the commit shares one instant and one calendar day.
func (tx *Tx) Now() time.Time {
	return tx.now
}

// Load reads a document, preferring a value staged earlier in this commit.
// It reports false when the document is absent or unreadable.
func (tx *Tx) Load(key string, v any) (bool, error) {
	if body, ok := tx.staged[key]; ok {
		if err := json.Unmarshal(body, v); err != nil {
			return false, fmt.Errorf("failed to decode staged %s: %w", key, err)
		}
		return true, nil
	}
	return tx.ledger.load(tx.ctx, key, v)
}

// Stage marshals v to be written under key when the commit succeeds.
func (tx *Tx) Stage(key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if _, ok := tx.staged[key]; !ok {
		tx.order = append(tx.order, key)
	}
	tx.staged[key] = body
	return nil
}

func (tx *Tx) documents() []repository.Document {
	docs := make([]repository.Document, 0, len(tx.order))
	for _, k := range tx.order {
		docs = append(docs, repository.Document{Key: k, Body: tx.staged[k]})
	}
	return docs
}
