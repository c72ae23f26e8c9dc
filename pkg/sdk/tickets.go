package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTheme reports a theme other than light or dark.
var ErrInvalidTheme = errors.New("invalid theme")

// TicketList is the locally persisted, ordered list of ticket records.
type TicketList struct {
	storage Storage
}

// NewTicketList wraps storage.
func NewTicketList(storage Storage) *TicketList {
	return &TicketList{storage: storage}
}

// List returns the stored records in order. A missing key is an empty list.
func (l *TicketList) List(ctx context.Context) ([]json.RawMessage, error) {
	raw, ok, err := lookup(ctx, l.storage, KeyTickets)
	if err != nil {
		return nil, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []json.RawMessage{}, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode stored tickets: %w", err)
	}
	return records, nil
}

// Append adds record to the end of the list.
func (l *TicketList) Append(ctx context.Context, record json.RawMessage) error {
	if !json.Valid(record) {
		return fmt.Errorf("ticket record is not valid JSON")
	}
	records, err := l.List(ctx)
	if err != nil {
		return err
	}
	return l.Replace(ctx, append(records, record))
}

// Replace overwrites the whole list.
func (l *TicketList) Replace(ctx context.Context, records []json.RawMessage) error {
	if records == nil {
		records = []json.RawMessage{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode tickets: %w", err)
	}
	return l.storage.Set(ctx, KeyTickets, string(data))
}

// Theme is the admin console colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences holds the persisted admin console preferences.
type Preferences struct {
	storage Storage
}

// NewPreferences wraps storage.
func NewPreferences(storage Storage) *Preferences {
	return &Preferences{storage: storage}
}

// AdminTheme returns the stored theme, light when unset.
func (p *Preferences) AdminTheme(ctx context.Context) (Theme, error) {
	raw, ok, err := lookup(ctx, p.storage, KeyAdminTheme)
	if err != nil {
		return "", err
	}
	if !ok {
		return ThemeLight, nil
	}
	theme, err := ParseTheme(raw)
	if err != nil {
		return ThemeLight, nil
	}
	return theme, nil
}

// SetAdminTheme stores theme.
func (p *Preferences) SetAdminTheme(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	return p.storage.Set(ctx, KeyAdminTheme, string(theme))
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: %q (want light or dark)", ErrInvalidTheme, s)
	}
}
