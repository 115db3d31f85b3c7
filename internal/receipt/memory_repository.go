package receipt

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryReceiptRepository is a map guarded by a RWMutex. Entries live for the
// life of the process and are never updated or removed.
type MemoryReceiptRepository struct {
	mu       sync.RWMutex
	receipts map[string]Receipt
	newID    func() (uuid.UUID, error) // injectable for collision tests
}

func NewMemoryReceiptRepository() *MemoryReceiptRepository {
	return &MemoryReceiptRepository{
		receipts: make(map[string]Receipt),
		newID:    uuid.NewRandom,
	}
}

// CreateReceipt - stores a copy of receipt under a fresh uuid
func (repo *MemoryReceiptRepository) CreateReceipt(receipt Receipt) (string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	id, err := newID(repo.newID, func(id string) (bool, error) {
		_, ok := repo.receipts[id]
		return ok, nil
	})
	if err != nil {
		return "", err
	}
	repo.receipts[id] = receipt.clone()
	return id, nil
}

// GetReceiptByID - returns ErrNotFound when id is unknown
func (repo *MemoryReceiptRepository) GetReceiptByID(id string) (Receipt, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	r, ok := repo.receipts[id]
	if !ok {
		return Receipt{}, ErrNotFound
	}
	return r.clone(), nil
}

func (repo *MemoryReceiptRepository) Count() (int, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return len(repo.receipts), nil
}

func (repo *MemoryReceiptRepository) Close() error { return nil }
