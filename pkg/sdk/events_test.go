package sdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk/sdktest"
)

func seedEvents(srv *sdktest.Server) {
	srv.SetEvents(
		map[string]any{
			"id": "evt-1", "title": "Jazz Night", "category": "music", "venue": "Blue Room",
			"city": "Lahore", "price": 25.5, "currency": "USD", "ticketsAvailable": 40, "featured": true,
		},
		map[string]any{
			"_id": "evt-2", "name": "Tech Summit", "category": "conference", "location": "Expo Hall",
			"city": "Karachi", "price": "120", "ticketsAvailable": "0", "featured": false,
		},
		map[string]any{
			"id": "evt-3", "title": "Rock Festival", "category": "music", "city": "Karachi",
			"date": "2026-11-01T18:00:00Z",
		},
	)
}

func TestClient_ListEvents(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	seedEvents(srv)

	client := sdk.NewClient(srv.URL)
	events, err := client.ListEvents(context.Background(), sdk.ListEventsOptions{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, "Jazz Night", events[0].Title)
	assert.InDelta(t, 25.5, events[0].Price, 0.001)
	assert.Equal(t, 40, events[0].TicketsAvailable)

	// Aliased and string-typed fields are normalized.
	assert.Equal(t, "evt-2", events[1].ID)
	assert.Equal(t, "Tech Summit", events[1].Title)
	assert.Equal(t, "Expo Hall", events[1].Venue)
	assert.InDelta(t, 120, events[1].Price, 0.001)
	assert.Equal(t, 0, events[1].TicketsAvailable)

	assert.Equal(t, "2026-11-01T18:00:00Z", events[2].StartsAt)
	assert.Equal(t, "Karachi", events[2].Attributes["city"])
}

func TestClient_ListEventsQuery(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	seedEvents(srv)

	client := sdk.NewClient(srv.URL)
	events, err := client.ListEvents(context.Background(), sdk.ListEventsOptions{Page: 2, Limit: 10, Category: "music"})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	req, _ := srv.LastRequest()
	assert.Equal(t, "category=music&limit=10&page=2", req.Query)
}

func TestClient_SearchEvents(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	seedEvents(srv)

	client := sdk.NewClient(srv.URL)
	events, err := client.SearchEvents(context.Background(), "rock", sdk.ListEventsOptions{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-3", events[0].ID)

	req, _ := srv.LastRequest()
	assert.Equal(t, "/events/search", req.Path)
	assert.Equal(t, "q=rock", req.Query)

	_, err = client.SearchEvents(context.Background(), "  ", sdk.ListEventsOptions{})
	assert.Error(t, err)
}

func TestClient_GetEvent(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	seedEvents(srv)

	client := sdk.NewClient(srv.URL)
	event, err := client.GetEvent(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Blue Room", event.Venue)

	_, err = client.GetEvent(context.Background(), "missing")
	assert.True(t, sdk.IsStatus(err, http.StatusNotFound))

	_, err = client.GetEvent(context.Background(), "")
	assert.Error(t, err)
}

func TestClient_HostDashboard(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	srv.SetDashboard(map[string]any{
		"totalEvents": 12, "upcomingEvents": "3", "ticketsSold": 480, "revenue": 10250.75, "currency": "PKR",
	})

	ctx := context.Background()
	client := sdk.NewClient(srv.URL)
	require.NoError(t, client.Tokens().SetToken(ctx, sdk.RoleHost, "host-jwt"))

	summary, err := client.HostDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, sdk.DashboardSummary{
		TotalEvents: 12, UpcomingEvents: 3, TicketsSold: 480, Revenue: 10250.75, Currency: "PKR",
	}, *summary)

	req, _ := srv.LastRequest()
	assert.Equal(t, "Bearer host-jwt", req.Header.Get("Authorization"))
}

func TestClient_MyTickets(t *testing.T) {
	srv := sdktest.NewServer()
	defer srv.Close()
	srv.SetTickets(
		map[string]any{"id": "tkt-1", "eventId": "evt-1", "seat": "A1"},
		map[string]any{"id": "tkt-2", "eventId": "evt-3"},
	)

	tickets, err := sdk.NewClient(srv.URL).MyTickets(context.Background())
	require.NoError(t, err)
	require.Len(t, tickets, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(tickets[0], &first))
	assert.Equal(t, "A1", first["seat"])
}
