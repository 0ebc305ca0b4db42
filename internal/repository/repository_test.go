// Tests for the document stores. The PostgreSQL store runs against a
// testcontainers-go container and is skipped when Docker is unavailable.
package repository

import (
	"context"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"lucky-dice-bot/internal/pkg/db"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// setupTestDB creates a PostgreSQL container and returns a migrated pool.
// Skips the test if Docker is not available.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(ctx, pool))

	t.Cleanup(func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	})
	return pool
}

// storeContract exercises the behavior every Store must share.
func storeContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "profile:404")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, Document{Key: "profile:1", Body: []byte(`{"luckPoints":10}`)}))

		body, err := s.Get(ctx, "profile:1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"luckPoints":10}`, string(body))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, Document{Key: "profile:2", Body: []byte(`{"luckPoints":1}`)}))
		require.NoError(t, s.Put(ctx, Document{Key: "profile:2", Body: []byte(`{"luckPoints":2}`)}))

		body, err := s.Get(ctx, "profile:2")
		require.NoError(t, err)
		assert.JSONEq(t, `{"luckPoints":2}`, string(body))
	})

	t.Run("batch", func(t *testing.T) {
		err := s.Put(ctx,
			Document{Key: ProfileKey(3), Body: []byte(`{"challengesCompleted":["challenge-2024-06-15"]}`)},
			Document{Key: ChallengeKey(3, "challenge-2024-06-15"), Body: []byte(`{"completed":true}`)},
		)
		require.NoError(t, err)

		_, err = s.Get(ctx, ProfileKey(3))
		assert.NoError(t, err)
		body, err := s.Get(ctx, ChallengeKey(3, "challenge-2024-06-15"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"completed":true}`, string(body))
	})

	t.Run("concurrent writers", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, s.Put(ctx, Document{Key: ProgressionKey(int64(100 + i)), Body: []byte(`{}`)}))
			}(i)
		}
		wg.Wait()

		for i := 0; i < 10; i++ {
			_, err := s.Get(ctx, ProgressionKey(int64(100+i)))
			assert.NoError(t, err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStoreCopiesBodies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	body := []byte(`{"a":1}`)
	require.NoError(t, s.Put(ctx, Document{Key: "k", Body: body}))
	body[2] = 'b'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	got[2] = 'c'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, `{"a":1}`, string(again))
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, Document{Key: "k", Body: []byte(`{}`)}), context.Canceled)
	assert.Zero(t, s.Len())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "dice.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storeContract(t, s)
}

func TestSQLiteStoreKeepsCorruptBodies(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "dice.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, Document{Key: "profile:9", Body: []byte(`{not json`)}))

	body, err := s.Get(ctx, "profile:9")
	require.NoError(t, err)
	assert.Equal(t, `{not json`, string(body))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dice.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, Document{Key: "profile:1", Body: []byte(`{"streakDays":4}`)}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	body, err := s.Get(ctx, "profile:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"streakDays":4}`, string(body))
}

func TestPostgresStore(t *testing.T) {
	pool := setupTestDB(t)
	storeContract(t, NewPostgresStore(pool))
}

func TestPostgresStoreBatchIsAtomic(t *testing.T) {
	pool := setupTestDB(t)
	s := NewPostgresStore(pool)
	ctx := context.Background()

	// The second body is not valid JSON, so the jsonb insert fails and
	// the whole batch rolls back.
	err := s.Put(ctx,
		Document{Key: "profile:1", Body: []byte(`{"luckPoints":5}`)},
		Document{Key: "challenge:1:x", Body: []byte(`{broken`)},
	)
	require.Error(t, err)

	_, err = s.Get(ctx, "profile:1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "profile:42", ProfileKey(42))
	assert.Equal(t, "challenge:42:challenge-2024-06-15", ChallengeKey(42, "challenge-2024-06-15"))
	assert.Equal(t, "progression:42", ProgressionKey(42))
}
