package sdk

import (
	"context"
	"errors"
	"sync"
)

// Storage keys shared by every EventCore surface.
const (
	KeyTenantID        = "tenantId"
	KeyTenantSubdomain = "tenantSubdomain"
	KeyBuyerToken      = "buyerToken"
	KeyUserToken       = "userToken"
	KeyStaffToken      = "staffToken"
	KeyHostToken       = "hostToken"
	KeyGenericToken    = "token"
	KeyAdminTheme      = "adminTheme"
	KeyTickets         = "tickets"
)

// ErrNotFound is returned by Storage.Get when a key has no value.
var ErrNotFound = errors.New("key not found")

// Storage is the durable string-keyed store the pipeline caches tenant identity
// and credentials in. Implementations must be safe for concurrent use.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage implements Storage in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// lookup reads key and folds ErrNotFound into ok=false.
func lookup(ctx context.Context, s Storage, key string) (string, bool, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}
