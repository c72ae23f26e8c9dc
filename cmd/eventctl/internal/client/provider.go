package client

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/storage"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

// Options configures a Provider.
type Options struct {
	ServerURL string
	Timeout   time.Duration
	Rules     sdk.HostRules
	// Host is the host the tenant is derived from.
	Host string
	// BearerToken is an ephemeral token that bypasses the token store.
	BearerToken string
	Storage     storage.Options
	Logger      *zap.Logger
	// Navigator receives sign-in navigation when a bound role is rejected.
	Navigator sdk.Navigator
}

// Provider lazily opens storage and yields the shared, bootstrapped SDK
// client. Each piece is built once per process.
type Provider struct {
	opts Options

	storageOnce sync.Once
	storage     sdk.Storage
	closer      io.Closer
	storageErr  error

	sdkOnce   sync.Once
	sdkClient *sdk.Client
	sdkErr    error

	bootstrapper *sdk.Bootstrapper
}

// NewProvider constructs a Provider. Nothing is opened until first use.
func NewProvider(opts Options) *Provider {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Provider{opts: opts}
}

// Host returns the host the tenant is derived from.
func (p *Provider) Host() string { return p.opts.Host }

// Rules returns the host rules in effect.
func (p *Provider) Rules() sdk.HostRules { return p.opts.Rules }

// Storage opens the configured backend once.
func (p *Provider) Storage(ctx context.Context) (sdk.Storage, error) {
	p.storageOnce.Do(func() {
		p.storage, p.closer, p.storageErr = storage.Open(ctx, p.opts.Storage)
		if p.storageErr != nil {
			p.storageErr = fmt.Errorf("open %s storage: %w", p.opts.Storage.Driver, p.storageErr)
		}
	})
	return p.storage, p.storageErr
}

// SDKClient returns the shared client. It does not resolve the tenant; use
// Bootstrap or Bind for calls that need one.
func (p *Provider) SDKClient(ctx context.Context) (*sdk.Client, error) {
	p.sdkOnce.Do(func() {
		store, err := p.Storage(ctx)
		if err != nil {
			p.sdkErr = err
			return
		}

		opts := []sdk.ClientOption{
			sdk.WithStorage(store),
			sdk.WithLogger(p.opts.Logger),
			sdk.WithTimeout(p.opts.Timeout),
		}
		// Ephemeral bearer token (testing/CI) takes priority over stored tokens.
		if p.opts.BearerToken != "" {
			source := oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: p.opts.BearerToken,
				TokenType:   "Bearer",
			})
			opts = append(opts, sdk.WithTokenSource(source))
		}

		p.sdkClient = sdk.NewClient(p.opts.ServerURL, opts...)
		p.bootstrapper = sdk.NewBootstrapper(p.sdkClient, p.opts.Rules, p.opts.Host)
	})
	return p.sdkClient, p.sdkErr
}

// Bootstrap resolves and caches the tenant identity, at most once per process.
// A zero identity means no tenant applies or resolution failed; requests then
// go out without a tenant header.
func (p *Provider) Bootstrap(ctx context.Context) (sdk.TenantIdentity, error) {
	if _, err := p.SDKClient(ctx); err != nil {
		return sdk.TenantIdentity{}, err
	}
	return p.bootstrapper.Run(ctx), nil
}

// Bind bootstraps the tenant and arms a fault interceptor for role, so a 401
// during the command signs that role out. Call release when the command ends.
func (p *Provider) Bind(ctx context.Context, role sdk.Role) (*sdk.Client, func(), error) {
	client, err := p.SDKClient(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.Bootstrap(ctx); err != nil {
		return nil, nil, err
	}

	interceptor := sdk.NewFaultInterceptor(role, client.Tokens(), p.opts.Navigator, p.opts.Logger)
	interceptor.Arm(client)
	return client, interceptor.Disarm, nil
}

// Close releases the storage backend.
func (p *Provider) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
