package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display stored sessions",
	Long: `Lists every role's stored session and the token a role-agnostic request
would carry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		tokens := client.Tokens()

		identity, err := client.Tenants().Identity(cmd.Context())
		switch {
		case err == nil:
			pterm.Info.Printfln("Tenant: %s (%s)", identity.SubdomainName, identity.TenantID)
		case errors.Is(err, sdk.ErrNoTenant):
			pterm.Info.Println("Tenant: not resolved")
		default:
			return fmt.Errorf("failed to read tenant cache: %w", err)
		}

		pterm.DefaultSection.Println("Sessions")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ROLE\tKEY\tSIGNED_IN\tEMAIL\tSINCE\tTOKEN")
		for _, role := range sdk.Roles {
			key, _ := role.StorageKey()
			cred, err := tokens.Credential(cmd.Context(), role)
			if err != nil {
				if !errors.Is(err, sdk.ErrNoToken) {
					return fmt.Errorf("failed to read %s session: %w", role, err)
				}
				fmt.Fprintf(w, "%s\t%s\tno\t-\t-\t-\n", role, key)
				continue
			}
			email, since := describeSession(cred.Raw)
			fmt.Fprintf(w, "%s\t%s\tyes\t%s\t%s\t%s\n", role, key, email, since, maskToken(cred.Token))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		effective, err := tokens.Credential(cmd.Context(), sdk.RoleAny)
		switch {
		case err == nil:
			pterm.Info.Printfln("Requests carry the %s token (key %s)", roleLabel(effective.Role), effective.Key)
		case errors.Is(err, sdk.ErrNoToken):
			pterm.Info.Println("Requests carry no bearer token")
		default:
			return err
		}
		return nil
	},
}

// describeSession returns the email and sign-in time of a structured
// session payload, or placeholders for a raw token.
func describeSession(raw string) (string, string) {
	var session sdk.Session
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") || json.Unmarshal([]byte(raw), &session) != nil {
		return "-", "-"
	}
	email, since := "-", "-"
	if session.Email != "" {
		email = session.Email
	}
	if !session.SignedInAt.IsZero() {
		since = session.SignedInAt.Local().Format(time.RFC1123)
	}
	return email, since
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + "…" + token[len(token)-4:]
}

func roleLabel(role sdk.Role) string {
	if role == sdk.RoleAny {
		return "generic"
	}
	return string(role)
}
