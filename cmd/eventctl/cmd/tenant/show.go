package tenant

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cached tenant identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		provider := cfg.ClientProvider

		client, err := provider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		host := provider.Host()
		if host == "" {
			host = "(none)"
		}
		pterm.Info.Printfln("Host: %s", host)
		if subdomain, ok := provider.Rules().SubdomainName(provider.Host()); ok {
			pterm.Info.Printfln("Derived subdomain: %s", subdomain)
		} else {
			pterm.Info.Println("Derived subdomain: none")
		}

		identity, err := client.Tenants().Identity(cmd.Context())
		if errors.Is(err, sdk.ErrNoTenant) {
			pterm.Warning.Println("No tenant cached; run `eventctl tenant resolve`")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tenant cache: %w", err)
		}

		pterm.Info.Printfln("Cached tenant: %s (%s)", identity.SubdomainName, identity.TenantID)
		return nil
	},
}
