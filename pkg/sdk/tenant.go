package sdk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// ResolveTenantPath is the public endpoint mapping a subdomain to a tenant id.
const ResolveTenantPath = "/tenants/public/resolve"

// ErrNoTenant reports that no tenant identity is cached.
var ErrNoTenant = errors.New("no tenant resolved")

// TenantIdentity pairs a tenant subdomain with its durable id.
type TenantIdentity struct {
	SubdomainName string `json:"subdomain_name"`
	TenantID      string `json:"tenant_id"`
}

// IsZero reports whether no tenant id is known.
func (t TenantIdentity) IsZero() bool {
	return t.TenantID == ""
}

// HostRules configures how a host name maps to a tenant subdomain.
type HostRules struct {
	// RootDomain is the production apex, e.g. "eventcore.io".
	RootDomain string
	// DevTenant is the subdomain used for localhost and bare IPv4 hosts.
	DevTenant string
}

// SubdomainName derives the tenant subdomain for host. It returns false for an
// empty host, an apex or foreign domain, and any host it cannot classify.
func (r HostRules) SubdomainName(host string) (string, bool) {
	host = normalizeHost(host)
	if host == "" {
		return "", false
	}

	if host == "localhost" || isIPv4(host) {
		if r.DevTenant == "" {
			return "", false
		}
		return r.DevTenant, true
	}

	root := strings.ToLower(strings.Trim(r.RootDomain, "."))
	if root == "" || !strings.HasSuffix(host, "."+root) {
		return "", false
	}

	labels := strings.Split(host, ".")
	if len(labels) < 3 || labels[0] == "" {
		return "", false
	}
	return labels[0], true
}

// normalizeHost lower-cases host and strips a scheme, path or port if present.
func normalizeHost(host string) string {
	host = strings.TrimSpace(strings.ToLower(host))
	if host == "" {
		return ""
	}
	if strings.Contains(host, "://") {
		if u, err := url.Parse(host); err == nil {
			host = u.Host
		}
	}
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(host, ".")
}

func isIPv4(host string) bool {
	if strings.Contains(host, ":") {
		return false
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.To4() != nil
}

// TenantCache persists the resolved tenant identity in Storage.
type TenantCache struct {
	storage Storage
}

// NewTenantCache wraps storage.
func NewTenantCache(storage Storage) *TenantCache {
	return &TenantCache{storage: storage}
}

// SavedTenantID returns the cached tenant id, or "" when none is cached.
func (c *TenantCache) SavedTenantID(ctx context.Context) (string, error) {
	id, _, err := lookup(ctx, c.storage, KeyTenantID)
	return id, err
}

// SaveTenantID caches id as-is; ids are opaque.
func (c *TenantCache) SaveTenantID(ctx context.Context, id string) error {
	return c.storage.Set(ctx, KeyTenantID, id)
}

// Identity returns the cached identity, or ErrNoTenant.
func (c *TenantCache) Identity(ctx context.Context) (TenantIdentity, error) {
	id, err := c.SavedTenantID(ctx)
	if err != nil {
		return TenantIdentity{}, err
	}
	if id == "" {
		return TenantIdentity{}, ErrNoTenant
	}
	subdomain, _, err := lookup(ctx, c.storage, KeyTenantSubdomain)
	if err != nil {
		return TenantIdentity{}, err
	}
	return TenantIdentity{SubdomainName: subdomain, TenantID: id}, nil
}

// Save caches both halves of identity.
func (c *TenantCache) Save(ctx context.Context, identity TenantIdentity) error {
	if err := c.SaveTenantID(ctx, identity.TenantID); err != nil {
		return err
	}
	return c.storage.Set(ctx, KeyTenantSubdomain, identity.SubdomainName)
}

// Clear forgets the cached identity so the next bootstrap resolves again.
func (c *TenantCache) Clear(ctx context.Context) error {
	if err := c.storage.Delete(ctx, KeyTenantID); err != nil {
		return err
	}
	return c.storage.Delete(ctx, KeyTenantSubdomain)
}

// TenantResolver maps a subdomain to a tenant id through the resolve endpoint.
type TenantResolver struct {
	client *Client
	logger *zap.Logger
}

// NewTenantResolver builds a resolver that issues its lookups through client.
func NewTenantResolver(client *Client) *TenantResolver {
	return &TenantResolver{client: client, logger: client.logger.Named("tenant")}
}

// ResolveTenantID performs one resolve call for subdomain. Failures are logged
// and reported as ok=false; the caller decides when to try again.
func (r *TenantResolver) ResolveTenantID(ctx context.Context, subdomain string) (string, bool) {
	id, err := r.resolve(ctx, subdomain)
	if err != nil {
		r.logger.Warn("tenant resolution failed",
			zap.String("subdomain", subdomain),
			zap.Error(err),
		)
		return "", false
	}
	r.logger.Debug("tenant resolved",
		zap.String("subdomain", subdomain),
		zap.String("tenant_id", id),
	)
	return id, true
}

func (r *TenantResolver) resolve(ctx context.Context, subdomain string) (string, error) {
	if subdomain == "" {
		return "", fmt.Errorf("subdomain is required")
	}

	query := url.Values{"subdomain": []string{subdomain}}
	var payload any
	if err := r.client.Do(ctx, http.MethodGet, ResolveTenantPath, query, nil, &payload); err != nil {
		return "", err
	}

	id, ok := ExtractTenantID(payload)
	if !ok {
		return "", fmt.Errorf("resolve response carries no tenant id")
	}
	return id, nil
}
