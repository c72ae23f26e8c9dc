package events

import (
	"fmt"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var getCmd = &cobra.Command{
	Use:   "get <event-id>",
	Short: "Show one event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		role, err := sdk.ParseRole(eventsRole)
		if err != nil {
			return err
		}
		client, release, err := cfg.ClientProvider.Bind(cmd.Context(), role)
		if err != nil {
			return err
		}
		defer release()

		event, err := client.GetEvent(cmd.Context(), args[0])
		if sdk.IsStatus(err, http.StatusNotFound) {
			return fmt.Errorf("event %q not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to fetch event: %w", err)
		}

		pterm.DefaultSection.Println(event.Title)
		pterm.Printfln("ID:        %s", event.ID)
		pterm.Printfln("Category:  %s", dash(event.Category))
		pterm.Printfln("Venue:     %s", dash(event.Venue))
		pterm.Printfln("City:      %s", dash(event.City))
		pterm.Printfln("Starts:    %s", dash(event.StartsAt))
		pterm.Printfln("Status:    %s", dash(event.Status))
		pterm.Printfln("Price:     %s", formatPrice(*event))
		pterm.Printfln("Available: %d", event.TicketsAvailable)
		if event.Description != "" {
			pterm.Println()
			pterm.Println(event.Description)
		}
		return nil
	},
}
