package tickets

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := ticketList(cmd)
		if err != nil {
			return err
		}
		records, err := list.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(records) == 0 {
			pterm.Info.Println("No tickets stored")
			return nil
		}
		return writeTicketTable(os.Stdout, records)
	},
}

var addCmd = &cobra.Command{
	Use:   "add <json>",
	Short: "Append a ticket record",
	Long: `Appends a ticket given as a JSON object. A record without an id gets one.

Example:
  eventctl tickets add '{"eventId":"evt-1","seat":"A1"}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := normalizeTicket([]byte(args[0]))
		if err != nil {
			return err
		}
		list, err := ticketList(cmd)
		if err != nil {
			return err
		}
		if err := list.Append(cmd.Context(), record); err != nil {
			return err
		}
		pterm.Success.Printfln("Added ticket %s", record)
		return nil
	},
}

var replaceFile string

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Replace the stored list from a JSON array",
	Long:  `Replaces the stored list with the JSON array read from --file, or stdin when --file is "-" or unset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if replaceFile != "" && replaceFile != "-" {
			f, err := os.Open(replaceFile)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", replaceFile, err)
			}
			defer f.Close()
			in = f
		}

		records, err := decodeTickets(in)
		if err != nil {
			return err
		}
		list, err := ticketList(cmd)
		if err != nil {
			return err
		}
		if err := list.Replace(cmd.Context(), records); err != nil {
			return err
		}
		pterm.Success.Printfln("Stored %d ticket(s)", len(records))
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replace the stored list with the buyer's tickets from the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		client, release, err := cfg.ClientProvider.Bind(cmd.Context(), sdk.RoleBuyer)
		if err != nil {
			return err
		}
		defer release()

		records, err := client.MyTickets(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch tickets: %w", err)
		}
		if err := sdk.NewTicketList(client.Storage()).Replace(cmd.Context(), records); err != nil {
			return err
		}
		pterm.Success.Printfln("Synced %d ticket(s)", len(records))
		return nil
	},
}

func init() {
	replaceCmd.Flags().StringVarP(&replaceFile, "file", "f", "", "JSON file holding the ticket array (- for stdin)")
}

func ticketList(cmd *cobra.Command) (*sdk.TicketList, error) {
	cfg := config.MustFromContext(cmd.Context())
	storage, err := cfg.ClientProvider.Storage(cmd.Context())
	if err != nil {
		return nil, err
	}
	return sdk.NewTicketList(storage), nil
}
