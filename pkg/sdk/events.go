package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Event is a ticketed event as listed by the API.
type Event struct {
	ID               string  `mapstructure:"id" json:"id"`
	Title            string  `mapstructure:"title" json:"title"`
	Description      string  `mapstructure:"description" json:"description,omitempty"`
	Category         string  `mapstructure:"category" json:"category,omitempty"`
	Venue            string  `mapstructure:"venue" json:"venue,omitempty"`
	City             string  `mapstructure:"city" json:"city,omitempty"`
	StartsAt         string  `mapstructure:"startsAt" json:"startsAt,omitempty"`
	Status           string  `mapstructure:"status" json:"status,omitempty"`
	Price            float64 `mapstructure:"price" json:"price,omitempty"`
	Currency         string  `mapstructure:"currency" json:"currency,omitempty"`
	TicketsAvailable int     `mapstructure:"ticketsAvailable" json:"ticketsAvailable,omitempty"`

	// Attributes holds the raw record for filtering on fields the struct omits.
	Attributes map[string]any `mapstructure:"-" json:"-"`
}

// ListEventsOptions narrows an events listing.
type ListEventsOptions struct {
	Page     int
	Limit    int
	Category string
}

func (o ListEventsOptions) query() url.Values {
	q := url.Values{}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Category != "" {
		q.Set("category", o.Category)
	}
	return q
}

// DashboardSummary is the host dashboard headline.
type DashboardSummary struct {
	TotalEvents    int     `mapstructure:"totalEvents"`
	UpcomingEvents int     `mapstructure:"upcomingEvents"`
	TicketsSold    int     `mapstructure:"ticketsSold"`
	Revenue        float64 `mapstructure:"revenue"`
	Currency       string  `mapstructure:"currency"`
}

// eventAliases maps field names some endpoints use onto Event's.
var eventAliases = map[string]string{
	"_id":       "id",
	"eventId":   "id",
	"name":      "title",
	"date":      "startsAt",
	"startDate": "startsAt",
	"location":  "venue",
}

// ListEvents returns the tenant's events.
func (c *Client) ListEvents(ctx context.Context, opts ListEventsOptions) ([]Event, error) {
	return c.fetchEvents(ctx, "/events", opts.query())
}

// SearchEvents returns events matching query.
func (c *Client) SearchEvents(ctx context.Context, query string, opts ListEventsOptions) ([]Event, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	q := opts.query()
	q.Set("q", query)
	return c.fetchEvents(ctx, "/events/search", q)
}

// GetEvent returns a single event by id.
func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	if id == "" {
		return nil, fmt.Errorf("event id is required")
	}
	var payload any
	if err := c.Do(ctx, http.MethodGet, "/events/"+url.PathEscape(id), nil, nil, &payload); err != nil {
		return nil, err
	}
	record, ok := FirstObject(payload, recordExtractors("event"))
	if !ok {
		return nil, fmt.Errorf("event response carries no event")
	}
	event, err := decodeEvent(record)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// HostDashboard returns the signed-in host's dashboard summary.
func (c *Client) HostDashboard(ctx context.Context) (*DashboardSummary, error) {
	var payload any
	if err := c.Do(ctx, http.MethodGet, "/host/dashboard", nil, nil, &payload); err != nil {
		return nil, err
	}
	record, ok := FirstObject(payload, recordExtractors("dashboard"))
	if !ok {
		return nil, fmt.Errorf("dashboard response carries no summary")
	}
	var summary DashboardSummary
	if err := weakDecode(record, &summary); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	return &summary, nil
}

// MyTickets returns the signed-in buyer's tickets as opaque records.
func (c *Client) MyTickets(ctx context.Context) ([]json.RawMessage, error) {
	var payload any
	if err := c.Do(ctx, http.MethodGet, "/tickets/my", nil, nil, &payload); err != nil {
		return nil, err
	}
	list, ok := FirstList(payload, collectionExtractors("tickets"))
	if !ok {
		return nil, fmt.Errorf("tickets response carries no list")
	}
	records := make([]json.RawMessage, 0, len(list))
	for _, item := range list {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("encode ticket: %w", err)
		}
		records = append(records, data)
	}
	return records, nil
}

func (c *Client) fetchEvents(ctx context.Context, path string, query url.Values) ([]Event, error) {
	var payload any
	if err := c.Do(ctx, http.MethodGet, path, query, nil, &payload); err != nil {
		return nil, err
	}
	list, ok := FirstList(payload, collectionExtractors("events"))
	if !ok {
		return nil, fmt.Errorf("events response carries no list")
	}

	events := make([]Event, 0, len(list))
	for _, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		event, err := decodeEvent(record)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func decodeEvent(record map[string]any) (Event, error) {
	normalized := make(map[string]any, len(record))
	for key, value := range record {
		normalized[key] = value
	}
	for alias, field := range eventAliases {
		if value, ok := record[alias]; ok {
			if _, exists := normalized[field]; !exists {
				normalized[field] = value
			}
		}
	}

	var event Event
	if err := weakDecode(normalized, &event); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	event.Attributes = normalized
	return event, nil
}

func weakDecode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
