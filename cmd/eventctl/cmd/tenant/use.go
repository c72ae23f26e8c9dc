package tenant

import (
	"errors"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/dirctx"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var useCmd = &cobra.Command{
	Use:   "use <host>",
	Short: "Pin the current directory to a tenant host",
	Long: `Writes a directory context file so commands run here derive the tenant from
<host> (and use --server, if given). A cached identity for a different tenant
is discarded.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		host := args[0]

		rules := cfg.ClientProvider.Rules()
		subdomain, ok := rules.SubdomainName(host)
		if !ok {
			return fmt.Errorf("no tenant applies to host %q", host)
		}

		existing, err := dirctx.Read()
		if err != nil {
			pterm.Warning.Printfln("Replacing invalid %s: %v", dirctx.FileName, err)
			existing = nil
		}

		serverURL := ""
		if cmd.Flags().Changed("server") {
			serverURL = cfg.ServerURL
		}

		dc := dirctx.New(host, serverURL)
		if existing != nil {
			dc.WorkspaceID = existing.WorkspaceID
			dc.CreatedAt = existing.CreatedAt
			if serverURL == "" {
				dc.ServerURL = existing.ServerURL
			}
			dc.UpdatedAt = time.Now().UTC()
		}
		if err := dirctx.Write(dc); err != nil {
			return err
		}

		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		cached, err := client.Tenants().Identity(cmd.Context())
		switch {
		case err == nil && cached.SubdomainName != subdomain:
			if err := client.Tenants().Clear(cmd.Context()); err != nil {
				return fmt.Errorf("failed to clear tenant cache: %w", err)
			}
			pterm.Info.Printfln("Discarded cached tenant %s", cached.SubdomainName)
		case err != nil && !errors.Is(err, sdk.ErrNoTenant):
			return fmt.Errorf("failed to read tenant cache: %w", err)
		}

		path, _ := dirctx.Path()
		pterm.Success.Printfln("Using tenant %s for this directory (%s)", subdomain, path)
		return nil
	},
}
