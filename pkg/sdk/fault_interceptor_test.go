package sdk

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk/sdktest"
)

type navigation struct {
	role  Role
	route string
}

type recordingNavigator struct {
	mu    sync.Mutex
	calls []navigation
}

func (n *recordingNavigator) Navigate(role Role, route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, navigation{role: role, route: route})
}

func (n *recordingNavigator) Calls() []navigation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]navigation(nil), n.calls...)
}

func seedAllRoles(t *testing.T, client *Client) {
	t.Helper()
	for _, role := range Roles {
		require.NoError(t, client.Tokens().SetToken(context.Background(), role, string(role)+"-token"))
	}
}

func TestFaultInterceptor_UnauthorizedSignsRoleOut(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	srv.Fail("/host/dashboard", http.StatusUnauthorized)

	ctx := context.Background()
	client := NewClient(srv.URL)
	seedAllRoles(t, client)

	nav := &recordingNavigator{}
	interceptor := NewFaultInterceptor(RoleStaff, client.Tokens(), nav, nil)
	interceptor.Arm(client)
	defer interceptor.Disarm()

	_, err := client.HostDashboard(ctx)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err), "the fault still reaches the caller")

	_, err = client.Storage().Get(ctx, KeyStaffToken)
	assert.ErrorIs(t, err, ErrNotFound)
	for _, key := range []string{KeyBuyerToken, KeyUserToken, KeyHostToken} {
		_, err := client.Storage().Get(ctx, key)
		assert.NoError(t, err, key)
	}

	assert.Equal(t, []navigation{{role: RoleStaff, route: "/staff/login"}}, nav.Calls())
}

func TestFaultInterceptor_IgnoresOtherStatuses(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()

	ctx := context.Background()
	client := NewClient(srv.URL)
	seedAllRoles(t, client)

	nav := &recordingNavigator{}
	interceptor := NewFaultInterceptor(RoleBuyer, client.Tokens(), nav, nil)
	interceptor.Arm(client)
	defer interceptor.Disarm()

	for _, status := range []int{http.StatusForbidden, http.StatusNotFound, http.StatusInternalServerError} {
		srv.Fail("/events", status)
		_, err := client.ListEvents(ctx, ListEventsOptions{})
		require.Error(t, err)
	}
	srv.Fail("/events", 0)
	_, err := client.ListEvents(ctx, ListEventsOptions{})
	require.NoError(t, err)

	token, err := client.Tokens().Token(ctx, RoleBuyer)
	require.NoError(t, err)
	assert.Equal(t, "buyer-token", token)
	assert.Empty(t, nav.Calls())
}

func TestFaultInterceptor_ArmIsIdempotent(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	srv.Fail("/events", http.StatusUnauthorized)

	client := NewClient(srv.URL)
	nav := &recordingNavigator{}
	interceptor := NewFaultInterceptor(RoleAdmin, client.Tokens(), nav, nil)

	interceptor.Arm(client)
	interceptor.Arm(client)
	interceptor.Arm(client)
	assert.True(t, interceptor.Armed())
	assert.Equal(t, 1, client.subscribers())

	_, _ = client.ListEvents(context.Background(), ListEventsOptions{})
	assert.Len(t, nav.Calls(), 1)

	interceptor.Disarm()
	assert.False(t, interceptor.Armed())
	assert.Equal(t, 0, client.subscribers())
}

func TestFaultInterceptor_DisarmDetaches(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	srv.Fail("/events", http.StatusUnauthorized)

	ctx := context.Background()
	client := NewClient(srv.URL)
	seedAllRoles(t, client)

	nav := &recordingNavigator{}
	interceptor := NewFaultInterceptor(RoleHost, client.Tokens(), nav, nil)
	interceptor.Arm(client)
	interceptor.Disarm()
	interceptor.Disarm()

	_, err := client.ListEvents(ctx, ListEventsOptions{})
	require.Error(t, err)

	token, err := client.Tokens().Token(ctx, RoleHost)
	require.NoError(t, err)
	assert.Equal(t, "host-token", token)
	assert.Empty(t, nav.Calls())

	// Re-arming after a disarm subscribes again.
	interceptor.Arm(client)
	defer interceptor.Disarm()
	_, _ = client.ListEvents(ctx, ListEventsOptions{})
	assert.Len(t, nav.Calls(), 1)
}

func TestFaultInterceptor_BroadcastAcrossRoles(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	srv.Fail("/tickets/my", http.StatusUnauthorized)

	ctx := context.Background()
	client := NewClient(srv.URL)
	seedAllRoles(t, client)

	nav := &recordingNavigator{}
	staff := NewFaultInterceptor(RoleStaff, client.Tokens(), nav, nil)
	host := NewFaultInterceptor(RoleHost, client.Tokens(), nav, nil)
	staff.Arm(client)
	host.Arm(client)
	defer staff.Disarm()
	defer host.Disarm()

	// A buyer call failing with 401 reaches every armed interceptor.
	_, err := client.MyTickets(ctx)
	require.Error(t, err)

	for _, role := range []Role{RoleStaff, RoleHost} {
		_, err := client.Tokens().Token(ctx, role)
		assert.ErrorIs(t, err, ErrNoToken, role)
	}
	for _, role := range []Role{RoleBuyer, RoleAdmin} {
		_, err := client.Tokens().Token(ctx, role)
		assert.NoError(t, err, role)
	}
	assert.ElementsMatch(t, []navigation{
		{role: RoleStaff, route: "/staff/login"},
		{role: RoleHost, route: "/host/login"},
	}, nav.Calls())
}

func TestFaultInterceptor_NavigatorFunc(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	srv.Fail("/events", http.StatusUnauthorized)

	client := NewClient(srv.URL)
	var got string
	interceptor := NewFaultInterceptor(RoleBuyer, client.Tokens(), NavigatorFunc(func(_ Role, route string) {
		got = route
	}), nil)
	interceptor.Arm(client)
	defer interceptor.Disarm()

	_, _ = client.ListEvents(context.Background(), ListEventsOptions{})
	assert.Equal(t, "/login", got)
	assert.Equal(t, RoleBuyer, interceptor.Role())
}

func TestFaultInterceptor_DisarmDuringNotification(t *testing.T) {
	ctx := context.Background()
	client := NewClient("http://api.invalid")
	seedAllRoles(t, client)

	nav := &recordingNavigator{}
	interceptor := NewFaultInterceptor(RoleBuyer, client.Tokens(), nav, nil)
	interceptor.Arm(client)

	// Take the snapshot notify would hold, then detach before delivering.
	client.mu.RLock()
	snapshot := make([]ResponseObserver, 0, len(client.observers))
	for _, observer := range client.observers {
		snapshot = append(snapshot, observer)
	}
	client.mu.RUnlock()
	require.Len(t, snapshot, 1)

	interceptor.Disarm()
	for _, observer := range snapshot {
		observer(&http.Response{StatusCode: http.StatusUnauthorized})
	}

	assert.Empty(t, nav.Calls())
	token, err := client.Tokens().Token(ctx, RoleBuyer)
	require.NoError(t, err)
	assert.Equal(t, "buyer-token", token)

	// Re-arming starts a fresh subscription; the stale snapshot stays inert.
	interceptor.Arm(client)
	defer interceptor.Disarm()
	for _, observer := range snapshot {
		observer(&http.Response{StatusCode: http.StatusUnauthorized})
	}
	assert.Empty(t, nav.Calls())

	client.notify(&http.Response{StatusCode: http.StatusUnauthorized})
	assert.Len(t, nav.Calls(), 1)
}
