// Package storage provides the durable sdk.Storage backends used by eventctl.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/db/bunx"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

// Driver names a storage backend.
type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQL    Driver = "sql"
	DriverMemory Driver = "memory"
)

// DirName is the per-user directory eventctl keeps its state in.
const DirName = ".eventcore"

// Options selects and configures a backend.
type Options struct {
	Driver Driver
	// Path is the JSON file for the file driver.
	Path string
	// DSN is the database for the sql driver.
	DSN string
}

// ParseDriver validates a driver name.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case DriverFile, DriverSQL, DriverMemory:
		return d, nil
	case "":
		return DriverFile, nil
	default:
		return "", fmt.Errorf("unknown storage driver %q (want file, sql or memory)", s)
	}
}

// DefaultDir returns ~/.eventcore.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Open returns the backend opts selects. The closer releases any held
// resources. SQL backends are migrated before use.
func Open(ctx context.Context, opts Options) (sdk.Storage, io.Closer, error) {
	switch opts.Driver {
	case DriverMemory:
		return sdk.NewMemoryStorage(), nopCloser{}, nil

	case DriverSQL:
		db, err := bunx.NewDB(ctx, opts.DSN)
		if err != nil {
			return nil, nil, err
		}
		if _, err := Migrate(ctx, db); err != nil {
			bunx.Close(db)
			return nil, nil, err
		}
		return NewBunStore(db), db, nil

	case DriverFile, "":
		path := opts.Path
		if path == "" {
			dir, err := DefaultDir()
			if err != nil {
				return nil, nil, err
			}
			path = filepath.Join(dir, "storage.json")
		}
		store, err := NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
