package events

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

// EventsCmd is the parent command for browsing events
var EventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse the tenant's events",
	Long:  `Commands for listing, searching and inspecting the tenant's events.`,
}

var (
	eventsRole     string
	eventsPage     int
	eventsLimit    int
	eventsCategory string
	eventsFilter   string
	eventsWhere    []string
)

func init() {
	EventsCmd.PersistentFlags().StringVar(&eventsRole, "role", string(sdk.RoleBuyer), "Role whose session the requests carry")

	for _, c := range []*cobra.Command{listCmd, searchCmd} {
		c.Flags().IntVar(&eventsPage, "page", 0, "Page number (server default when 0)")
		c.Flags().IntVar(&eventsLimit, "limit", 0, "Page size (server default when 0)")
		c.Flags().StringVar(&eventsCategory, "category", "", "Only events in this category")
		c.Flags().StringVar(&eventsFilter, "filter", "", "Boolean filter expression, e.g. '"+filterExamples[0]+"'")
		c.Flags().StringArrayVar(&eventsWhere, "where", nil, "Equality filter key=value (repeatable)")
	}

	EventsCmd.AddCommand(listCmd)
	EventsCmd.AddCommand(searchCmd)
	EventsCmd.AddCommand(getCmd)
}

// filterExamples appear in help text. Filters support ==, !=, in, contains,
// matches, and, or and not; there are no ordering operators.
var filterExamples = []string{
	`city == "Lahore" and featured == true`,
	`category == "free" or city == "Karachi"`,
}

func listOptions() sdk.ListEventsOptions {
	return sdk.ListEventsOptions{Page: eventsPage, Limit: eventsLimit, Category: eventsCategory}
}

// filterExpression joins the --filter expression and the --where pairs into
// one expression. Warnings name keys given more than once.
func filterExpression(filter string, where []string) (string, []string, error) {
	fields, warnings, err := sdk.ParseFilterPairs(where)
	if err != nil {
		return "", nil, err
	}
	pairs := sdk.BuildEventFilter(fields)

	filter = strings.TrimSpace(filter)
	switch {
	case filter == "":
		return pairs, warnings, nil
	case pairs == "":
		return filter, warnings, nil
	default:
		return fmt.Sprintf("(%s) and (%s)", filter, pairs), warnings, nil
	}
}

func writeEventTable(w io.Writer, events []sdk.Event) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tCITY\tSTARTS\tPRICE\tAVAILABLE")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			e.ID, e.Title, dash(e.Category), dash(e.City), dash(e.StartsAt), formatPrice(e), e.TicketsAvailable)
	}
	return tw.Flush()
}

func formatPrice(e sdk.Event) string {
	if e.Price == 0 {
		return "free"
	}
	price := strconv.FormatFloat(e.Price, 'f', 2, 64)
	if e.Currency != "" {
		return price + " " + e.Currency
	}
	return price
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
