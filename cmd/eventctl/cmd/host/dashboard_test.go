package host

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeSummary(&buf, &sdk.DashboardSummary{
		TotalEvents: 12, UpcomingEvents: 3, TicketsSold: 480, Revenue: 10250.75, Currency: "PKR",
	}))

	out := buf.String()
	assert.Contains(t, out, "Total events:")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "10250.75 PKR")
}
