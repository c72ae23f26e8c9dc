package tenant

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
)

var resolveForce bool

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve the tenant for the current host",
	Long: `Derives the tenant subdomain from the host (--host, the directory context or
tenant.host) and resolves it to a tenant id, caching the result. A cached
identity is reused without a network call unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		provider := cfg.ClientProvider

		client, err := provider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}

		if resolveForce {
			if err := client.Tenants().Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear tenant cache: %w", err)
			}
		}

		subdomain, ok := provider.Rules().SubdomainName(provider.Host())
		identity, err := provider.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}

		if identity.IsZero() {
			if !ok {
				return fmt.Errorf("no tenant applies to host %q; pass --host <tenant>.%s", provider.Host(), provider.Rules().RootDomain)
			}
			return fmt.Errorf("could not resolve tenant %q (see logs with --log-level=warn)", subdomain)
		}

		pterm.Success.Printfln("Tenant %s resolved to %s", identity.SubdomainName, identity.TenantID)
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveForce, "force", false, "Discard the cached identity and resolve again")
}
