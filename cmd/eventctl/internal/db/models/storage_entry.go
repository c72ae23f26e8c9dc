package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// MaxStorageKeyLength bounds storage keys.
const MaxStorageKeyLength = 128

// StorageEntry is one key/value pair of the client's durable storage.
type StorageEntry struct {
	bun.BaseModel `bun:"table:storage_entries,alias:se"`

	Key       string    `bun:"storage_key,pk"`
	Value     string    `bun:"storage_value,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Validate verifies the entry is well formed before it is written.
func (e *StorageEntry) Validate() error {
	if e.Key == "" {
		return errors.New("storage key is required")
	}
	if len(e.Key) > MaxStorageKeyLength {
		return errors.New("storage key exceeds maximum length")
	}
	return nil
}
