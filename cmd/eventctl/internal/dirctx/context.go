package dirctx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	// FileName is the name of the per-directory context file
	FileName = ".eventcore.json"
	// FileVersion is the current schema version
	FileVersion = "1"
)

// DirectoryContext pins a working directory to a tenant host and API server.
type DirectoryContext struct {
	Version     string    `json:"version"`
	WorkspaceID string    `json:"workspace_id"`
	Host        string    `json:"host"`
	ServerURL   string    `json:"server_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// New returns a context for host with a fresh workspace id.
func New(host, serverURL string) *DirectoryContext {
	now := time.Now().UTC()
	return &DirectoryContext{
		Version:     FileVersion,
		WorkspaceID: uuid.NewString(),
		Host:        host,
		ServerURL:   serverURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Validate checks if the DirectoryContext is valid
func (dc *DirectoryContext) Validate() error {
	if dc.Version != FileVersion {
		return fmt.Errorf("unsupported %s version: %s (expected %s)", FileName, dc.Version, FileVersion)
	}

	if _, err := uuid.Parse(dc.WorkspaceID); err != nil {
		return fmt.Errorf("invalid workspace_id format: %w", err)
	}

	if dc.Host == "" {
		return fmt.Errorf("host is required")
	}

	return nil
}

// Read reads the context file from the current directory.
// Returns nil, nil if the file doesn't exist and nil, error if it is
// corrupted or invalid.
func Read() (*DirectoryContext, error) {
	data, err := os.ReadFile(FileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var ctx DirectoryContext
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("corrupted %s (invalid JSON): %w", FileName, err)
	}

	if err := ctx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	return &ctx, nil
}

// Write writes the directory context atomically (temp file + rename).
func Write(ctx *DirectoryContext) error {
	if err := ctx.Validate(); err != nil {
		return fmt.Errorf("invalid context: %w", err)
	}

	data, err := json.MarshalIndent(ctx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}

	// Trailing newline for better git diffs
	data = append(data, '\n')

	tmpPath := FileName + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, FileName); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename %s to %s: %w", tmpPath, FileName, err)
	}

	return nil
}

// Remove deletes the context file. A missing file is not an error.
func Remove() error {
	if err := os.Remove(FileName); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", FileName, err)
	}
	return nil
}

// ResolveHost applies the host priority: explicit flag, then directory
// context, then the configured default. Empty means no host applies.
func ResolveHost(explicit string, ctx *DirectoryContext, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if ctx != nil && ctx.Host != "" {
		return ctx.Host
	}
	return fallback
}

// ResolveServerURL applies the same priority to the API base URL.
func ResolveServerURL(explicit string, ctx *DirectoryContext, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if ctx != nil && ctx.ServerURL != "" {
		return ctx.ServerURL
	}
	return fallback
}

// Path returns the absolute path to the context file in the current directory
func Path() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return filepath.Join(cwd, FileName), nil
}
