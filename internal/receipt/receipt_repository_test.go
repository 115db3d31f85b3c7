package receipt

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openRepositories(t *testing.T) map[string]ReceiptRepository {
	t.Helper()
	repos := make(map[string]ReceiptRepository)
	for _, backend := range []string{BackendMemory, BackendBuntDB} {
		repo, err := OpenRepository(backend)
		require.NoError(t, err)
		t.Cleanup(func() { repo.Close() })
		repos[backend] = repo
	}
	return repos
}

func TestRepository_CreateAndGet(t *testing.T) {
	for backend, repo := range openRepositories(t) {
		t.Run(backend, func(t *testing.T) {
			id, err := repo.CreateReceipt(targetReceipt())
			require.NoError(t, err)
			_, err = uuid.Parse(id)
			require.NoError(t, err, "id should be a UUID: %s", id)

			got, err := repo.GetReceiptByID(id)
			require.NoError(t, err)
			assert.Equal(t, targetReceipt(), got)

			n, err := repo.Count()
			require.NoError(t, err)
			assert.Equal(t, 1, n)
		})
	}
}

func TestRepository_NotFound(t *testing.T) {
	for backend, repo := range openRepositories(t) {
		t.Run(backend, func(t *testing.T) {
			_, err := repo.GetReceiptByID("does-not-exist")
			assert.True(t, errors.Is(err, ErrNotFound))
		})
	}
}

func TestRepository_UniqueIDs(t *testing.T) {
	for backend, repo := range openRepositories(t) {
		t.Run(backend, func(t *testing.T) {
			seen := make(map[string]bool)
			for i := 0; i < 100; i++ {
				id, err := repo.CreateReceipt(cornerMarketReceipt())
				require.NoError(t, err)
				assert.False(t, seen[id], "duplicate id %s", id)
				seen[id] = true
			}
		})
	}
}

func TestRepository_ConcurrentAccess(t *testing.T) {
	for backend, repo := range openRepositories(t) {
		t.Run(backend, func(t *testing.T) {
			var wg sync.WaitGroup
			ids := make(chan string, 50)
			for i := 0; i < 50; i++ {
				wg.Add(2)
				go func() {
					defer wg.Done()
					id, err := repo.CreateReceipt(targetReceipt())
					assert.NoError(t, err)
					ids <- id
				}()
				go func() {
					defer wg.Done()
					repo.Count() //nolint:errcheck
				}()
			}
			wg.Wait()
			close(ids)

			for id := range ids {
				_, err := repo.GetReceiptByID(id)
				assert.NoError(t, err)
			}
			n, err := repo.Count()
			require.NoError(t, err)
			assert.Equal(t, 50, n)
		})
	}
}

func TestMemoryRepository_StoresCopy(t *testing.T) {
	repo := NewMemoryReceiptRepository()
	r := targetReceipt()
	id, err := repo.CreateReceipt(r)
	require.NoError(t, err)

	r.Items[0].Price = "999.99"
	got, err := repo.GetReceiptByID(id)
	require.NoError(t, err)
	assert.Equal(t, "6.49", got.Items[0].Price)

	got.Items[0].Price = "0.00"
	again, err := repo.GetReceiptByID(id)
	require.NoError(t, err)
	assert.Equal(t, "6.49", again.Items[0].Price)
}

func TestMemoryRepository_RetriesOnCollision(t *testing.T) {
	fixed := uuid.MustParse("6f1c2b9e-0f64-4b8a-9d33-0c7f3e5a1b20")
	next := uuid.MustParse("0a4a8d1e-2c3b-4f5e-8a9b-1c2d3e4f5a6b")
	calls := 0

	repo := NewMemoryReceiptRepository()
	repo.newID = func() (uuid.UUID, error) { return fixed, nil }
	_, err := repo.CreateReceipt(targetReceipt())
	require.NoError(t, err)

	repo.newID = func() (uuid.UUID, error) {
		calls++
		if calls == 1 {
			return fixed, nil
		}
		return next, nil
	}
	id, err := repo.CreateReceipt(targetReceipt())
	require.NoError(t, err)
	assert.Equal(t, next.String(), id)
	assert.Equal(t, 2, calls)
}

func TestMemoryRepository_GivesUpAfterCollisions(t *testing.T) {
	fixed := uuid.MustParse("6f1c2b9e-0f64-4b8a-9d33-0c7f3e5a1b20")
	repo := NewMemoryReceiptRepository()
	repo.newID = func() (uuid.UUID, error) { return fixed, nil }

	_, err := repo.CreateReceipt(targetReceipt())
	require.NoError(t, err)
	_, err = repo.CreateReceipt(targetReceipt())
	assert.Error(t, err)
}

func TestOpenRepository_UnknownBackend(t *testing.T) {
	_, err := OpenRepository("postgres")
	assert.Error(t, err)
}
