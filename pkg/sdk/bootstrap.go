package sdk

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Bootstrapper establishes the tenant identity before dependent calls run.
type Bootstrapper struct {
	rules    HostRules
	host     string
	cache    *TenantCache
	resolver *TenantResolver
	logger   *zap.Logger

	once     sync.Once
	identity TenantIdentity
}

// NewBootstrapper prepares a bootstrap for host against client's storage.
func NewBootstrapper(client *Client, rules HostRules, host string) *Bootstrapper {
	return &Bootstrapper{
		rules:    rules,
		host:     host,
		cache:    client.Tenants(),
		resolver: NewTenantResolver(client),
		logger:   client.Logger().Named("bootstrap"),
	}
}

// Run resolves and caches the tenant identity at most once per Bootstrapper.
// A cached identity for the same subdomain short-circuits without a network
// call. One store serves every host, so an identity cached for another
// subdomain is discarded and the host's own tenant is resolved. Failures leave
// the identity zero; callers must cope with an empty tenant id.
func (b *Bootstrapper) Run(ctx context.Context) TenantIdentity {
	b.once.Do(func() {
		b.identity = b.run(ctx)
	})
	return b.identity
}

func (b *Bootstrapper) run(ctx context.Context) TenantIdentity {
	cached, err := b.cache.Identity(ctx)
	switch {
	case errors.Is(err, ErrNoTenant):
	case err != nil:
		b.logger.Warn("read tenant cache", zap.Error(err))
		return TenantIdentity{}
	}
	hasCached := err == nil

	// Without a host there is nothing to check the cached identity against.
	if b.host == "" {
		if hasCached {
			b.logger.Debug("tenant already cached", zap.String("tenant_id", cached.TenantID))
		}
		return cached
	}

	subdomain, ok := b.rules.SubdomainName(b.host)
	if hasCached && ok && cached.SubdomainName == subdomain {
		b.logger.Debug("tenant already cached", zap.String("tenant_id", cached.TenantID))
		return cached
	}

	if hasCached {
		b.logger.Info("discarding tenant cached for another host",
			zap.String("cached_subdomain", cached.SubdomainName),
			zap.String("host", b.host),
		)
		if err := b.cache.Clear(ctx); err != nil {
			b.logger.Warn("clear tenant cache", zap.Error(err))
			return TenantIdentity{}
		}
	}

	if !ok {
		b.logger.Debug("no tenant applies to host", zap.String("host", b.host))
		return TenantIdentity{}
	}

	tenantID, ok := b.resolver.ResolveTenantID(ctx, subdomain)
	if !ok {
		return TenantIdentity{}
	}

	identity := TenantIdentity{SubdomainName: subdomain, TenantID: tenantID}
	if err := b.cache.Save(ctx, identity); err != nil {
		b.logger.Warn("cache tenant identity", zap.Error(err))
	}
	return identity
}
