package admin

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

// AdminCmd is the parent command for admin preferences
var AdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin console preferences",
}

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark]",
	Short:     "Show or set the admin console theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(sdk.ThemeLight), string(sdk.ThemeDark)},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())
		storage, err := cfg.ClientProvider.Storage(cmd.Context())
		if err != nil {
			return err
		}
		prefs := sdk.NewPreferences(storage)

		if len(args) == 0 {
			theme, err := prefs.AdminTheme(cmd.Context())
			if err != nil {
				return err
			}
			pterm.Info.Printfln("Admin theme: %s", theme)
			return nil
		}

		theme, err := sdk.ParseTheme(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q (want light or dark)", err, args[0])
		}
		if err := prefs.SetAdminTheme(cmd.Context(), theme); err != nil {
			return err
		}
		pterm.Success.Printfln("Admin theme set to %s", theme)
		return nil
	},
}

func init() {
	AdminCmd.AddCommand(themeCmd)
}
