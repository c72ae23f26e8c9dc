package auth

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

var setTokenRole string

var setTokenCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store a raw token for a role",
	Long:  `Stores an externally obtained bearer token under a single role's key.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		role, err := sdk.ParseRole(setTokenRole)
		if err != nil {
			return err
		}

		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.Tokens().SetToken(cmd.Context(), role, strings.TrimSpace(args[0])); err != nil {
			return err
		}

		pterm.Success.Printfln("Stored %s token", role)
		return nil
	},
}

func init() {
	setTokenCmd.Flags().StringVar(&setTokenRole, "role", "", "Role the token belongs to: admin, host, staff or buyer")
	_ = setTokenCmd.MarkFlagRequired("role")
}
