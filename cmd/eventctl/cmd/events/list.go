package events

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	Long: `Lists the tenant's events. --filter and --where narrow the page locally.

Examples:
  eventctl events list --category music
  eventctl events list --where city=Karachi --where featured=true
  eventctl events list --filter '` + filterExamples[1] + `'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvents(cmd, func(client *sdk.Client) ([]sdk.Event, error) {
			return client.ListEvents(cmd.Context(), listOptions())
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search events by text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runEvents(cmd, func(client *sdk.Client) ([]sdk.Event, error) {
			return client.SearchEvents(cmd.Context(), args[0], listOptions())
		})
	},
}

func runEvents(cmd *cobra.Command, fetch func(*sdk.Client) ([]sdk.Event, error)) error {
	cfg := config.MustFromContext(cmd.Context())

	role, err := sdk.ParseRole(eventsRole)
	if err != nil {
		return err
	}
	expr, warnings, err := filterExpression(eventsFilter, eventsWhere)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		pterm.Warning.Println(w)
	}

	client, release, err := cfg.ClientProvider.Bind(cmd.Context(), role)
	if err != nil {
		return err
	}
	defer release()

	events, err := fetch(client)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}
	events, err = sdk.FilterEvents(events, expr)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		pterm.Info.Println("No events found")
		return nil
	}
	return writeEventTable(os.Stdout, events)
}
