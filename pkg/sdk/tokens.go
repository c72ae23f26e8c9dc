package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Role names one of the isolated authentication contexts.
type Role string

const (
	// RoleAny selects the precedence lookup across every role key.
	RoleAny   Role = ""
	RoleAdmin Role = "admin"
	RoleHost  Role = "host"
	RoleStaff Role = "staff"
	RoleBuyer Role = "buyer"
)

var (
	// ErrNoToken reports that no credential is stored for the requested role.
	ErrNoToken = errors.New("no token stored")
	// ErrInvalidRole reports a role name outside admin, host, staff and buyer.
	ErrInvalidRole = errors.New("invalid role")
)

// Roles lists every concrete role.
var Roles = []Role{RoleAdmin, RoleHost, RoleStaff, RoleBuyer}

var roleKeys = map[Role]string{
	RoleBuyer: KeyBuyerToken,
	RoleAdmin: KeyUserToken,
	RoleStaff: KeyStaffToken,
	RoleHost:  KeyHostToken,
}

// tokenPrecedence is the order a role-agnostic lookup scans storage in.
var tokenPrecedence = []string{
	KeyBuyerToken,
	KeyUserToken,
	KeyStaffToken,
	KeyHostToken,
	KeyGenericToken,
}

var signInRoutes = map[Role]string{
	RoleAdmin: "/admin/login",
	RoleHost:  "/host/login",
	RoleStaff: "/staff/login",
	RoleBuyer: "/login",
}

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleKeys[role]; !ok {
		return RoleAny, fmt.Errorf("%w: %q (want admin, host, staff or buyer)", ErrInvalidRole, s)
	}
	return role, nil
}

// StorageKey returns the storage key holding role's credential.
func (r Role) StorageKey() (string, error) {
	key, ok := roleKeys[r]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
	return key, nil
}

// SignInRoute returns the sign-in entry point for role.
func SignInRoute(role Role) string {
	return signInRoutes[role]
}

// Session is the structured credential payload written on sign-in.
type Session struct {
	Token      string    `json:"token"`
	Email      string    `json:"email,omitempty"`
	SignedInAt time.Time `json:"signedInAt,omitempty"`
}

// Credential is a parsed stored token.
type Credential struct {
	Role  Role
	Key   string
	Token string
	// Raw is the stored value before parsing.
	Raw string
}

// TokenStore keeps one credential per role in Storage.
type TokenStore struct {
	storage Storage
}

// NewTokenStore wraps storage.
func NewTokenStore(storage Storage) *TokenStore {
	return &TokenStore{storage: storage}
}

// Token returns the bearer token for role. With RoleAny the role keys are
// scanned in precedence order and the first non-empty value wins.
func (s *TokenStore) Token(ctx context.Context, role Role) (string, error) {
	cred, err := s.Credential(ctx, role)
	if err != nil {
		return "", err
	}
	return cred.Token, nil
}

// Credential returns the parsed credential for role (or the first present one
// for RoleAny), or ErrNoToken.
func (s *TokenStore) Credential(ctx context.Context, role Role) (Credential, error) {
	keys := tokenPrecedence
	if role != RoleAny {
		key, err := role.StorageKey()
		if err != nil {
			return Credential{}, err
		}
		keys = []string{key}
	}

	for _, key := range keys {
		raw, ok, err := lookup(ctx, s.storage, key)
		if err != nil {
			return Credential{}, fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		token := parseStoredToken(raw)
		if token == "" {
			continue
		}
		return Credential{Role: roleForKey(key), Key: key, Token: token, Raw: raw}, nil
	}
	return Credential{}, ErrNoToken
}

// SetToken stores a raw token under role's key only.
func (s *TokenStore) SetToken(ctx context.Context, role Role, token string) error {
	key, err := role.StorageKey()
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, key, token)
}

// SaveSession stores session as a structured payload under role's key.
func (s *TokenStore) SaveSession(ctx context.Context, role Role, session Session) error {
	key, err := role.StorageKey()
	if err != nil {
		return err
	}
	if session.Token == "" {
		return fmt.Errorf("session token is required")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.storage.Set(ctx, key, string(data))
}

// ClearToken deletes role's key; other roles are untouched.
func (s *TokenStore) ClearToken(ctx context.Context, role Role) error {
	key, err := role.StorageKey()
	if err != nil {
		return err
	}
	return s.storage.Delete(ctx, key)
}

// TokenSource adapts the store to oauth2.TokenSource. The token is read from
// storage on every call so sign-ins and faults take effect immediately.
func (s *TokenStore) TokenSource(ctx context.Context, role Role) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, store: s, role: role}
}

type storeTokenSource struct {
	ctx   context.Context
	store *TokenStore
	role  Role
}

func (ts *storeTokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.store.Token(ts.ctx, ts.role)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}

// parseStoredToken accepts {"token": "..."} payloads and raw tokens alike. A
// JSON object without a token yields "", so the key counts as empty.
func parseStoredToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "{") {
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err == nil {
			return strings.TrimSpace(payload.Token)
		}
	}
	return raw
}

func roleForKey(key string) Role {
	for role, k := range roleKeys {
		if k == key {
			return role
		}
	}
	return RoleAny
}
