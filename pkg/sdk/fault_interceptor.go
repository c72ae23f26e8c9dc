package sdk

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Navigator moves the user to a sign-in entry point after their session for
// role was rejected.
type Navigator interface {
	Navigate(role Role, route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(role Role, route string)

// Navigate calls f(role, route).
func (f NavigatorFunc) Navigate(role Role, route string) { f(role, route) }

// FaultInterceptor reacts to 401 responses on a client by clearing the token of
// the role it was created for and navigating to that role's sign-in route.
//
// The role is fixed at construction. While armed, the interceptor observes
// every response on the client it is armed on, so a 401 caused by another
// consumer still signs this role out.
type FaultInterceptor struct {
	role      Role
	tokens    *TokenStore
	navigator Navigator
	logger    *zap.Logger

	mu          sync.Mutex
	unsubscribe func()
	// active belongs to the current subscription. Notification snapshots
	// taken before Disarm still hold the old flag and see it cleared.
	active *atomic.Bool
}

// NewFaultInterceptor binds an interceptor to role.
func NewFaultInterceptor(role Role, tokens *TokenStore, navigator Navigator, logger *zap.Logger) *FaultInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FaultInterceptor{
		role:      role,
		tokens:    tokens,
		navigator: navigator,
		logger:    logger.Named("fault").With(zap.String("role", string(role))),
	}
}

// Role returns the role the interceptor signs out.
func (f *FaultInterceptor) Role() Role { return f.role }

// Armed reports whether the interceptor is subscribed.
func (f *FaultInterceptor) Armed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unsubscribe != nil
}

// Arm subscribes to client's responses. Arming an armed interceptor is a no-op,
// so at most one subscription exists per interceptor.
func (f *FaultInterceptor) Arm(client *Client) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsubscribe != nil {
		return
	}
	active := new(atomic.Bool)
	active.Store(true)
	f.active = active
	f.unsubscribe = client.Subscribe(func(resp *http.Response) {
		if active.Load() {
			f.observe(resp)
		}
	})
}

// Disarm detaches the interceptor. Responses arriving afterwards are ignored.
func (f *FaultInterceptor) Disarm() {
	f.mu.Lock()
	unsubscribe := f.unsubscribe
	f.unsubscribe = nil
	if f.active != nil {
		f.active.Store(false)
		f.active = nil
	}
	f.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (f *FaultInterceptor) observe(resp *http.Response) {
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		return
	}

	ctx := context.Background()
	if resp.Request != nil {
		ctx = context.WithoutCancel(resp.Request.Context())
	}

	fields := []zap.Field{}
	if resp.Request != nil && resp.Request.URL != nil {
		fields = append(fields, zap.String("url", resp.Request.URL.Redacted()))
	}
	f.logger.Info("unauthorized response, signing role out", fields...)

	if err := f.tokens.ClearToken(ctx, f.role); err != nil {
		f.logger.Error("clear token", zap.Error(err))
	}
	if f.navigator != nil {
		f.navigator.Navigate(f.role, SignInRoute(f.role))
	}
}
