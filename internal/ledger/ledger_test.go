package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/pkg/clock"
	"lucky-dice-bot/internal/pkg/lock"
	"lucky-dice-bot/internal/pkg/metrics"
	"lucky-dice-bot/internal/repository"
)

var t0 = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestLedger() (*Ledger, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return New(store, lock.NewProfileLock(), clock.NewFixed(t0)), store
}

// failingStore fails every Put.
type failingStore struct {
	*repository.MemoryStore
}

func (failingStore) Put(context.Context, ...repository.Document) error {
	return errors.New("disk full")
}

func TestGetMissingProfileIsDefault(t *testing.T) {
	l, store := newTestLedger()

	p, err := l.Get(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, p.UserID)
	assert.Equal(t, int64(7), *p.UserID)
	assert.Zero(t, p.LuckPoints)
	assert.Empty(t, p.UnlockedItems)
	assert.Zero(t, store.Len())
}

func TestGetCorruptProfileIsDefault(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, repository.Document{Key: repository.ProfileKey(7), Body: []byte(`{"luckPoints": "lots"`)}))

	before := testutil.ToFloat64(metrics.CorruptSnapshots.WithLabelValues(repository.DocProfile))

	p, err := l.Get(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, p.LuckPoints)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.CorruptSnapshots.WithLabelValues(repository.DocProfile)))
}

func TestGetWrongTypeIsDefault(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, repository.Document{
		Key:  repository.ProfileKey(7),
		Body: []byte(`{"luckPoints": 50, "streakDays": "three"}`),
	}))

	p, err := l.Get(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, p.LuckPoints)
}

func TestGetSanitizesProfile(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, repository.Document{
		Key:  repository.ProfileKey(7),
		Body: []byte(`{"userId": 99, "luckPoints": -5, "unlockedItems": ["a","a"], "challengesCompleted": null}`),
	}))

	p, err := l.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), *p.UserID)
	assert.Zero(t, p.LuckPoints)
	assert.Equal(t, []string{"a"}, p.UnlockedItems)
	assert.NotNil(t, p.ChallengesCompleted)
}

func TestUpdateCommits(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	_, err := l.Update(ctx, 1, func(p *model.Profile) error {
		p.StreakDays = 4
		return nil
	})
	require.NoError(t, err)

	p, err := l.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, p.StreakDays)
	assert.True(t, t0.Equal(p.UpdatedAt))
}

func TestUpdateErrorWritesNothing(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := l.Update(ctx, 1, func(p *model.Profile) error {
		p.LuckPoints = 1000
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, store.Len())
}

func TestTransactStagesDocumentsTogether(t *testing.T) {
	l, store := newTestLedger()
	ctx := context.Background()
	key := repository.ChallengeKey(1, "challenge-2024-06-15")

	_, err := l.Transact(ctx, 1, func(tx *Tx) error {
		var c model.Challenge
		found, err := tx.Load(key, &c)
		require.NoError(t, err)
		assert.False(t, found)

		c = model.Challenge{ID: "challenge-2024-06-15", Completed: true}
		require.NoError(t, tx.Stage(key, c))

		var again model.Challenge
		found, err = tx.Load(key, &again)
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, again.Completed)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	var c model.Challenge
	found, err := l.Load(ctx, key, &c)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, c.Completed)
}

func TestTransactStoreFailure(t *testing.T) {
	store := failingStore{repository.NewMemoryStore()}
	l := New(store, lock.NewProfileLock(), clock.NewFixed(t0))

	_, err := l.AddPoints(context.Background(), 1, 10, model.ReasonChallenge, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSpendPoints(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	_, err := l.SpendPoints(ctx, 1, "dice_style_gold", 100)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = l.AddPoints(ctx, 1, 150, model.ReasonDailyBonus, "")
	require.NoError(t, err)

	p, err := l.SpendPoints(ctx, 1, "dice_style_gold", 100)
	require.NoError(t, err)
	assert.Equal(t, int64(50), p.LuckPoints)
	assert.True(t, p.HasItem("dice_style_gold"))
	last := p.History[len(p.History)-1]
	assert.Equal(t, int64(-100), last.Amount)
	assert.Equal(t, model.ReasonShopPurchase, last.Reason)

	_, err = l.SpendPoints(ctx, 1, "dice_style_gold", 0)
	assert.ErrorIs(t, err, ErrAlreadyUnlocked)

	p, _ = l.Get(ctx, 1)
	assert.Equal(t, int64(50), p.LuckPoints)
}

func TestAddPointsRejectsNonPositive(t *testing.T) {
	l, store := newTestLedger()

	_, err := l.AddPoints(context.Background(), 1, 0, model.ReasonChallenge, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = l.AddPoints(context.Background(), 1, -5, model.ReasonChallenge, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Zero(t, store.Len())
}

func TestUnlockItem(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	p, err := l.UnlockItem(ctx, 1, "effect_fireworks")
	require.NoError(t, err)
	assert.Equal(t, []string{"effect_fireworks"}, p.UnlockedItems)

	_, err = l.UnlockItem(ctx, 1, "effect_fireworks")
	assert.ErrorIs(t, err, ErrAlreadyUnlocked)
}

func TestRecordRoll(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	for _, r := range [][2]int{{1, 1}, {3, 3}, {3, 4}, {2, 2}} {
		_, err := l.RecordRoll(ctx, 1, r[0], r[1])
		require.NoError(t, err)
	}

	p, err := l.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.TotalRolls)
	assert.Equal(t, model.RollStats{
		Doubles:           3,
		SnakeEyes:         1,
		LuckySevens:       1,
		DoublesStreak:     1,
		BestDoublesStreak: 2,
	}, p.Stats)
}

func TestConcurrentAddPoints(t *testing.T) {
	l, _ := newTestLedger()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.AddPoints(ctx, 1, 4, model.ReasonRollStreak, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p, err := l.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), p.LuckPoints)
}

// TestLuckPointsNeverNegativeProperty: any mix of credits and purchases keeps
// the balance non-negative and only lets purchases lower it.
func TestLuckPointsNeverNegativeProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		l, _ := newTestLedger()
		ctx := context.Background()
		items := []string{"a", "b", "c", "d"}

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		var last int64
		for i := 0; i < steps; i++ {
			var p *model.Profile
			var err error
			if rapid.Bool().Draw(t, "credit") {
				p, err = l.AddPoints(ctx, 1, rapid.Int64Range(1, 200).Draw(t, "amount"), model.ReasonChallenge, "")
				if err != nil {
					t.Fatalf("credit failed: %v", err)
				}
				if p.LuckPoints <= last {
					t.Fatalf("credit did not raise the balance")
				}
			} else {
				item := rapid.SampledFrom(items).Draw(t, "item")
				p, err = l.SpendPoints(ctx, 1, item, rapid.Int64Range(0, 300).Draw(t, "cost"))
				if err != nil {
					if !errors.Is(err, ErrInsufficientFunds) && !errors.Is(err, ErrAlreadyUnlocked) {
						t.Fatalf("unexpected spend error: %v", err)
					}
					p, _ = l.Get(ctx, 1)
					if p.LuckPoints != last {
						t.Fatalf("failed spend changed the balance")
					}
				}
			}
			if p.LuckPoints < 0 {
				t.Fatalf("balance went negative: %d", p.LuckPoints)
			}
			last = p.LuckPoints
		}
	})
}
