package sdk

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// SignInInput carries the credentials for a role sign-in.
type SignInInput struct {
	Role     Role
	Email    string
	Password string
}

// SignIn authenticates against the role's login endpoint and stores the
// returned token under that role only.
func (c *Client) SignIn(ctx context.Context, input SignInInput) (*Session, error) {
	if _, err := input.Role.StorageKey(); err != nil {
		return nil, err
	}
	if input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	body := map[string]string{
		"email":    input.Email,
		"password": input.Password,
	}
	var payload any
	path := fmt.Sprintf("/auth/%s/login", input.Role)
	if err := c.Do(ctx, http.MethodPost, path, nil, body, &payload); err != nil {
		return nil, err
	}

	token, ok := FirstString(payload, tokenExtractors)
	if !ok {
		return nil, fmt.Errorf("sign-in response carries no token")
	}

	session := Session{
		Token:      token,
		Email:      input.Email,
		SignedInAt: time.Now().UTC(),
	}
	if err := c.tokens.SaveSession(ctx, input.Role, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &session, nil
}

// SignOut forgets role's credential.
func (c *Client) SignOut(ctx context.Context, role Role) error {
	return c.tokens.ClearToken(ctx, role)
}
