package sdk_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk/sdktest"
)

var testRules = sdk.HostRules{RootDomain: "eventcore.io", DevTenant: "demo"}

func TestHostRules_SubdomainName(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		want   string
		wantOK bool
	}{
		{name: "no host", host: "", wantOK: false},
		{name: "localhost", host: "localhost", want: "demo", wantOK: true},
		{name: "localhost with port", host: "localhost:3000", want: "demo", wantOK: true},
		{name: "ipv4 loopback", host: "127.0.0.1", want: "demo", wantOK: true},
		{name: "ipv4 lan with port", host: "192.168.1.20:5173", want: "demo", wantOK: true},
		{name: "tenant subdomain", host: "acme.eventcore.io", want: "acme", wantOK: true},
		{name: "uppercase host", host: "ACME.EventCore.io", want: "acme", wantOK: true},
		{name: "deep subdomain takes first label", host: "tickets.acme.eventcore.io", want: "tickets", wantOK: true},
		{name: "url form", host: "https://acme.eventcore.io/events", want: "acme", wantOK: true},
		{name: "apex", host: "eventcore.io", wantOK: false},
		{name: "foreign domain", host: "acme.example.com", wantOK: false},
		{name: "suffix lookalike", host: "acme.noteventcore.io", wantOK: false},
		{name: "ipv6 loopback", host: "[::1]:8080", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := testRules.SubdomainName(tt.host)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostRules_NoDevTenant(t *testing.T) {
	rules := sdk.HostRules{RootDomain: "eventcore.io"}
	_, ok := rules.SubdomainName("localhost")
	assert.False(t, ok)
}

func TestExtractTenantID(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{name: "nested tenant object", body: `{"data":{"tenant":{"id":"abc"}}}`, want: "abc", wantOK: true},
		{name: "data tenantId", body: `{"data":{"tenantId":"t-1"}}`, want: "t-1", wantOK: true},
		{name: "top-level tenantId", body: `{"tenantId":"t-2"}`, want: "t-2", wantOK: true},
		{name: "top-level tenant object", body: `{"tenant":{"id":"t-3"}}`, want: "t-3", wantOK: true},
		{name: "data id", body: `{"data":{"id":"t-4"}}`, want: "t-4", wantOK: true},
		{name: "bare id", body: `{"id":"t-5"}`, want: "t-5", wantOK: true},
		{name: "numeric id", body: `{"id":42}`, want: "42", wantOK: true},
		{
			name:   "higher priority wins over lower",
			body:   `{"id":"low","data":{"id":"mid","tenant":{"id":"abc"}}}`,
			want:   "abc",
			wantOK: true,
		},
		{
			name:   "empty higher priority value is skipped",
			body:   `{"data":{"tenantId":"","tenant":{"id":"abc"}}}`,
			want:   "abc",
			wantOK: true,
		},
		{name: "unrecognised shape", body: `{"result":{"uuid":"x"}}`, wantOK: false},
		{name: "array body", body: `["abc"]`, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload any
			require.NoError(t, json.Unmarshal([]byte(tt.body), &payload))
			got, ok := sdk.ExtractTenantID(payload)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTenantResolver_ResolveTenantID(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	srv.SetResolvePayload("acme", map[string]any{"data": map[string]any{"tenantId": "0b7c2b8e-1d1f-4a55-9a3c-52c1f0d7e001"}})

	client := sdk.NewClient(srv.URL)
	resolver := sdk.NewTenantResolver(client)

	t.Run("success", func(t *testing.T) {
		id, ok := resolver.ResolveTenantID(context.Background(), "acme")
		require.True(t, ok)
		assert.Equal(t, "0b7c2b8e-1d1f-4a55-9a3c-52c1f0d7e001", id)

		req, found := srv.LastRequest()
		require.True(t, found)
		assert.Equal(t, "/tenants/public/resolve", req.Path)
		assert.Equal(t, "subdomain=acme", req.Query)
	})

	t.Run("unknown tenant is swallowed", func(t *testing.T) {
		id, ok := resolver.ResolveTenantID(context.Background(), "ghost")
		assert.False(t, ok)
		assert.Empty(t, id)
	})

	t.Run("server error is swallowed", func(t *testing.T) {
		srv.Fail(sdk.ResolveTenantPath, 500)
		defer srv.Fail(sdk.ResolveTenantPath, 0)

		before := srv.ResolveCalls()
		_, ok := resolver.ResolveTenantID(context.Background(), "acme")
		assert.False(t, ok)
		// Injected failures short-circuit before the handler: nothing retried.
		assert.Equal(t, before, srv.ResolveCalls())
	})

	t.Run("unreachable server is swallowed", func(t *testing.T) {
		offline := sdk.NewTenantResolver(sdk.NewClient("http://127.0.0.1:1"))
		_, ok := offline.ResolveTenantID(context.Background(), "acme")
		assert.False(t, ok)
	})
}

func TestTenantCache(t *testing.T) {
	ctx := context.Background()
	cache := sdk.NewTenantCache(sdk.NewMemoryStorage())

	id, err := cache.SavedTenantID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	_, err = cache.Identity(ctx)
	assert.ErrorIs(t, err, sdk.ErrNoTenant)

	require.NoError(t, cache.SaveTenantID(ctx, "not-a-uuid"))
	id, err = cache.SavedTenantID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "not-a-uuid", id, "ids are opaque and stored as-is")

	require.NoError(t, cache.Save(ctx, sdk.TenantIdentity{SubdomainName: "acme", TenantID: "t-1"}))
	identity, err := cache.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, sdk.TenantIdentity{SubdomainName: "acme", TenantID: "t-1"}, identity)

	require.NoError(t, cache.Clear(ctx))
	_, err = cache.Identity(ctx)
	assert.ErrorIs(t, err, sdk.ErrNoTenant)
}
