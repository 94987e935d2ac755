package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"realTimeDash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "data", "test.db")
	repo, err := NewRepository(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return repo, dbPath
}

func TestNewRepository_RequiresLogger(t *testing.T) {
	repo, err := NewRepository(Config{DBPath: filepath.Join(t.TempDir(), "x.db")})
	assert.Error(t, err)
	assert.Nil(t, repo)
}

func TestNewRepository_CreatesDataDirectory(t *testing.T) {
	_, dbPath := setupTestDB(t)
	_, err := os.Stat(filepath.Dir(dbPath))
	assert.NoError(t, err)
}

func TestRepository_AppendThenReadAll(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 5; i++ {
		obs := domain.NewObservation(base.Add(time.Duration(i)*time.Second), float64(i)+0.25)
		id, err := repo.Append(ctx, obs)
		require.NoError(t, err)
		ids = append(ids, id)

		all, err := repo.ReadAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, i+1)

		last := all[len(all)-1]
		assert.Equal(t, id, last.ID)
		assert.Equal(t, obs.Value, last.Value)
		assert.True(t, obs.Time.Equal(last.Time), "time round-trip: want %v got %v", obs.Time, last.Time)
	}

	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i], ids[i-1])
	}
}

func TestRepository_ReadAllIsInsertionOrderNotTimeOrder(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	later := time.Date(2024, 5, 1, 12, 0, 10, 0, time.UTC)
	earlier := later.Add(-time.Minute)

	_, err := repo.Append(ctx, domain.NewObservation(later, 1))
	require.NoError(t, err)
	_, err = repo.Append(ctx, domain.NewObservation(earlier, 2))
	require.NoError(t, err)
	_, err = repo.Append(ctx, domain.NewObservation(earlier, 3)) // duplicate timestamp
	require.NoError(t, err)

	all, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{all[0].Value, all[1].Value, all[2].Value})
}

func TestRepository_EmptyStore(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	all, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRepository_PersistsAcrossReopen(t *testing.T) {
	repo, dbPath := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Append(ctx, domain.NewObservation(time.Now(), float64(i)))
		require.NoError(t, err)
	}
	require.NoError(t, repo.Close())

	reopened, err := NewRepository(Config{DBPath: dbPath, Logger: &mockLogger{}})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRepository_ZeroTimeDefaultsToNow(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	_, err := repo.Append(ctx, domain.Observation{Value: 7})
	require.NoError(t, err)

	all, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Time.After(before))
}

func TestRepository_ConcurrentReadersSeeWholeRecords(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	const writes = 50
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= writes; i++ {
			_, err := repo.Append(ctx, domain.NewObservation(time.Now(), float64(i)))
			assert.NoError(t, err)
		}
	}()

	for i := 0; i < 20; i++ {
		all, err := repo.ReadAll(ctx)
		require.NoError(t, err)
		for j, obs := range all {
			// Values were written as 1..writes in order, so a complete prefix is expected.
			assert.Equal(t, float64(j+1), obs.Value)
			assert.False(t, obs.Time.IsZero())
		}
	}
	wg.Wait()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, writes, count)
}

func TestRepository_ClosedStoreReturnsError(t *testing.T) {
	repo, _ := setupTestDB(t)
	require.NoError(t, repo.Close())

	_, err := repo.Append(context.Background(), domain.NewObservation(time.Now(), 1))
	assert.Error(t, err)
	_, err = repo.ReadAll(context.Background())
	assert.Error(t, err)
}

func TestRepository_InMemory(t *testing.T) {
	repo, err := NewRepository(Config{DBPath: ":memory:", Logger: &mockLogger{}})
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.Append(context.Background(), domain.NewObservation(time.Now(), 5))
	require.NoError(t, err)
	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
