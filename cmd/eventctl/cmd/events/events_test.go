package events

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

func TestFilterExpression(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		where  []string
		want   string
	}{
		{name: "none", want: ""},
		{name: "filter only", filter: `  price < 50 `, want: `price < 50`},
		{name: "where only", where: []string{"city=Karachi"}, want: `city == "Karachi"`},
		{
			name:   "both",
			filter: `price < 50`,
			where:  []string{"city=Karachi", "featured=true"},
			want:   `(price < 50) and (city == "Karachi" and featured == true)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings, err := filterExpression(tt.filter, tt.where)
			require.NoError(t, err)
			assert.Empty(t, warnings)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterExpression_InvalidPair(t *testing.T) {
	_, _, err := filterExpression("", []string{"city"})
	assert.Error(t, err)
}

func TestWriteEventTable(t *testing.T) {
	var buf bytes.Buffer
	err := writeEventTable(&buf, []sdk.Event{
		{ID: "evt-1", Title: "Jazz Night", Category: "music", City: "Lahore", Price: 25.5, Currency: "USD", TicketsAvailable: 40},
		{ID: "evt-2", Title: "Open Day"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "25.50 USD")
	assert.Contains(t, out, "free")
	assert.Contains(t, out, "Open Day")
}

func TestHelpFilterExamplesCompile(t *testing.T) {
	quoted := regexp.MustCompile(`(?:--filter |e\.g\. )'([^']+)'`)
	help := listCmd.Long + "\n" + searchCmd.Long + "\n" + listCmd.Flags().Lookup("filter").Usage

	var shown []string
	for _, m := range quoted.FindAllStringSubmatch(help, -1) {
		shown = append(shown, m[1])
	}
	require.NotEmpty(t, shown)
	assert.Subset(t, filterExamples, shown)

	events := []sdk.Event{
		{ID: "1", Attributes: map[string]any{"city": "Lahore", "featured": true, "category": "music"}},
		{ID: "2", Attributes: map[string]any{"city": "Karachi", "featured": false, "category": "free"}},
	}
	for _, expr := range filterExamples {
		matched, err := sdk.FilterEvents(events, expr)
		require.NoError(t, err, expr)
		assert.NotEmpty(t, matched, expr)
	}
}
