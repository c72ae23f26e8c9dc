package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/cmd/admin"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/cmd/auth"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/cmd/events"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/cmd/host"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/cmd/tenant"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/cmd/tickets"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/client"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/dirctx"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/logging"
	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/navigator"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var (
	cfgFile        string
	serverURL      string
	hostName       string
	bearerToken    string
	logLevel       string
	nonInteractive bool

	globalCfg *config.GlobalConfig
)

var rootCmd = &cobra.Command{
	Use:   "eventctl",
	Short: "EventCore CLI - tenant-aware client for the EventCore ticketing API",
	Long: `eventctl is the command-line client for EventCore, a multi-tenant event
ticketing platform. It resolves the tenant from a host name, keeps one
session per role (admin, host, staff, buyer) and decorates every API call
with the tenant id and the matching bearer token.

Example usage:
  eventctl tenant resolve --host acme.eventcore.io
  eventctl auth login --role buyer --email me@example.com
  eventctl events list --where category=music
  eventctl host dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("EVENTCTL_NON_INTERACTIVE") == "1" {
			nonInteractive = true
		}

		gc, err := buildGlobalConfig(cmd)
		if err != nil {
			return err
		}
		globalCfg = gc
		cmd.SetContext(config.InjectConfig(cmd.Context(), gc))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeGlobalConfig()
	},
}

// Execute runs the root command
func Execute() {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when RunE fails.
	if closeErr := closeGlobalConfig(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, pterm.Error.Sprint(err))
		os.Exit(1)
	}
}

func buildGlobalConfig(cmd *cobra.Command) (*config.GlobalConfig, error) {
	overrides := map[string]any{}
	if cmd.Flags().Changed("log-level") {
		overrides["logging.level"] = logLevel
	}

	cfg, err := config.Load(cfgFile, overrides)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return nil, err
	}

	dirCtx, err := dirctx.Read()
	if err != nil {
		pterm.Warning.Printfln("%s ignored: %v", dirctx.FileName, err)
		dirCtx = nil
	}

	storageOpts, err := cfg.StorageOptions()
	if err != nil {
		return nil, err
	}

	server := dirctx.ResolveServerURL(serverURL, dirCtx, cfg.API.BaseURL)
	host := dirctx.ResolveHost(hostName, dirCtx, cfg.Tenant.Host)

	logger.Debug("configuration loaded",
		zap.String("server", server),
		zap.String("host", host),
		zap.String("storage_driver", string(storageOpts.Driver)),
	)

	provider := client.NewProvider(client.Options{
		ServerURL:   server,
		Timeout:     cfg.API.Timeout,
		Rules:       sdk.HostRules{RootDomain: cfg.Tenant.RootDomain, DevTenant: cfg.Tenant.DevTenant},
		Host:        host,
		BearerToken: bearerToken,
		Storage:     storageOpts,
		Logger:      logger,
		Navigator:   navigator.Terminal{},
	})

	return &config.GlobalConfig{
		Config:         cfg,
		ServerURL:      server,
		Host:           host,
		NonInteractive: nonInteractive,
		Logger:         logger,
		ClientProvider: provider,
	}, nil
}

func closeGlobalConfig() error {
	if globalCfg == nil {
		return nil
	}
	gc := globalCfg
	globalCfg = nil
	_ = gc.Logger.Sync()
	return gc.ClientProvider.Close()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .eventctl.yaml in . or $HOME/.config/eventctl)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "EventCore API base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().StringVar(&hostName, "host", "", "Host to derive the tenant from, e.g. acme.eventcore.io (overrides tenant.host)")
	rootCmd.PersistentFlags().StringVar(&bearerToken, "token", "", "Ephemeral bearer token; bypasses stored sessions")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts (also set via EVENTCTL_NON_INTERACTIVE=1)")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(tenant.TenantCmd)
	rootCmd.AddCommand(events.EventsCmd)
	rootCmd.AddCommand(host.HostCmd)
	rootCmd.AddCommand(tickets.TicketsCmd)
	rootCmd.AddCommand(admin.AdminCmd)
	rootCmd.AddCommand(storageCmd)
}
