package receipt

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidwall/buntdb"
)

// ErrNotFound is returned when no receipt is stored under an id.
var ErrNotFound = errors.New("receipt not found")

// Storage backends accepted by OpenRepository.
const (
	BackendMemory = "memory"
	BackendBuntDB = "buntdb"
)

// uuidMaxCollisions bounds id regeneration; collisions are astronomically unlikely.
const uuidMaxCollisions = 3

type ReceiptRepository interface {
	// CreateReceipt stores a receipt under a fresh UUID and returns (UUID, error)
	CreateReceipt(receipt Receipt) (string, error)
	// GetReceiptByID Gets receipt with UUID and returns (Receipt, error)
	GetReceiptByID(id string) (Receipt, error)
	// Count returns the number of stored receipts
	Count() (int, error)
	// Close releases the backing storage
	Close() error
}

// OpenRepository opens a volatile repository for the named backend.
func OpenRepository(backend string) (ReceiptRepository, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryReceiptRepository(), nil
	case BackendBuntDB:
		// in memory database
		db, err := buntdb.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("open buntdb: %w", err)
		}
		return NewBuntDBReceiptRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

// newID generates a receipt id, retrying while taken reports a collision.
func newID(gen func() (uuid.UUID, error), taken func(id string) (bool, error)) (string, error) {
	for i := 0; i < uuidMaxCollisions; i++ {
		u, err := gen()
		if err != nil {
			continue
		}
		id := u.String()
		exists, err := taken(id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("could not create UUID for receipt")
}

type BuntDBReceiptRepository struct {
	db    *buntdb.DB
	newID func() (uuid.UUID, error)
}

func NewBuntDBReceiptRepository(db *buntdb.DB) *BuntDBReceiptRepository {
	return &BuntDBReceiptRepository{db: db, newID: uuid.NewRandom}
}

func receiptKey(id string) string {
	return "receipt:" + id
}

// CreateReceipt - creates a db entry for the receipt with its uuid as the primary key
// returns (Receipt.id, error)
func (repo *BuntDBReceiptRepository) CreateReceipt(receipt Receipt) (string, error) {
	receiptMarshal, err := json.Marshal(receipt)
	if err != nil {
		return "", err
	}

	var receiptID string
	err = repo.db.Update(func(tx *buntdb.Tx) error {
		id, err := newID(repo.newID, func(id string) (bool, error) {
			_, err := tx.Get(receiptKey(id))
			if errors.Is(err, buntdb.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		})
		if err != nil {
			return err
		}
		if _, _, err := tx.Set(receiptKey(id), string(receiptMarshal), nil); err != nil {
			return err
		}
		receiptID = id
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create receipt: %w", err)
	}
	return receiptID, nil
}

// GetReceiptByID - takes a receipt id and returns the stored receipt
func (repo *BuntDBReceiptRepository) GetReceiptByID(id string) (Receipt, error) {
	var stringValue string
	err := repo.db.View(func(tx *buntdb.Tx) error {
		var err error
		stringValue, err = tx.Get(receiptKey(id))
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return Receipt{}, ErrNotFound
	}
	if err != nil {
		return Receipt{}, fmt.Errorf("get receipt %s: %w", id, err)
	}

	var receipt Receipt
	if err := json.Unmarshal([]byte(stringValue), &receipt); err != nil {
		return Receipt{}, fmt.Errorf("decode receipt %s: %w", id, err)
	}
	return receipt, nil
}

func (repo *BuntDBReceiptRepository) Count() (int, error) {
	var n int
	err := repo.db.View(func(tx *buntdb.Tx) error {
		var err error
		n, err = tx.Len()
		return err
	})
	return n, err
}

func (repo *BuntDBReceiptRepository) Close() error {
	return repo.db.Close()
}
