package tickets

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// TicketsCmd is the parent command for the local ticket list
var TicketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "Manage locally stored tickets",
	Long: `Commands for the ticket list kept in local storage. 'sync' replaces it with
the tickets the API holds for the signed-in buyer.`,
}

func init() {
	TicketsCmd.AddCommand(listCmd)
	TicketsCmd.AddCommand(addCmd)
	TicketsCmd.AddCommand(replaceCmd)
	TicketsCmd.AddCommand(syncCmd)
}

// normalizeTicket checks raw is a JSON object and assigns an id when it has none.
func normalizeTicket(raw []byte) (json.RawMessage, error) {
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("ticket must be a JSON object: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("ticket must be a JSON object")
	}
	if id, ok := record["id"]; !ok || id == nil || id == "" {
		record["id"] = uuid.NewString()
	}
	out, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decodeTickets parses a JSON array of ticket objects.
func decodeTickets(r io.Reader) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("tickets must be a JSON array: %w", err)
	}
	records := make([]json.RawMessage, 0, len(raw))
	for i, item := range raw {
		record, err := normalizeTicket(item)
		if err != nil {
			return nil, fmt.Errorf("ticket %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func writeTicketTable(w io.Writer, records []json.RawMessage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEVENT\tDETAILS")
	for _, raw := range records {
		var record map[string]any
		if err := json.Unmarshal(raw, &record); err != nil {
			fmt.Fprintf(tw, "-\t-\t%s\n", raw)
			continue
		}
		id := stringField(record, "id")
		event := stringField(record, "eventId")
		delete(record, "id")
		delete(record, "eventId")
		details, _ := json.Marshal(record)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, event, details)
	}
	return tw.Flush()
}

func stringField(record map[string]any, key string) string {
	v, ok := record[key]
	if !ok || v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}
