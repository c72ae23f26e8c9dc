package host

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the host dashboard summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		client, release, err := cfg.ClientProvider.Bind(cmd.Context(), sdk.RoleHost)
		if err != nil {
			return err
		}
		defer release()

		summary, err := client.HostDashboard(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}
		return writeSummary(os.Stdout, summary)
	},
}

func writeSummary(w io.Writer, s *sdk.DashboardSummary) error {
	revenue := strconv.FormatFloat(s.Revenue, 'f', 2, 64)
	if s.Currency != "" {
		revenue += " " + s.Currency
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total events:\t%d\n", s.TotalEvents)
	fmt.Fprintf(tw, "Upcoming events:\t%d\n", s.UpcomingEvents)
	fmt.Fprintf(tw, "Tickets sold:\t%d\n", s.TicketsSold)
	fmt.Fprintf(tw, "Revenue:\t%s\n", revenue)
	return tw.Flush()
}
