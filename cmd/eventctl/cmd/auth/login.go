package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/config"
	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

// PasswordEnv supplies the password in non-interactive runs.
const PasswordEnv = "EVENTCTL_PASSWORD"

var (
	loginRole     string
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in as a role",
	Long: `Signs in against the role's login endpoint and stores the session under that
role only. The tenant is resolved first so the sign-in carries the tenant id.

The password is read from --password, then $EVENTCTL_PASSWORD, then an
interactive prompt (unless --non-interactive is set).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		role, err := sdk.ParseRole(loginRole)
		if err != nil {
			return err
		}

		email := strings.TrimSpace(loginEmail)
		password := loginPassword
		if password == "" {
			password = os.Getenv(PasswordEnv)
		}

		if email == "" || password == "" {
			if cfg.NonInteractive {
				return fmt.Errorf("--email and --password (or $%s) are required in non-interactive mode", PasswordEnv)
			}
			if email == "" {
				if email, err = pterm.DefaultInteractiveTextInput.Show("Email"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password"); err != nil {
					return err
				}
			}
		}

		client, err := cfg.ClientProvider.SDKClient(cmd.Context())
		if err != nil {
			return err
		}
		identity, err := cfg.ClientProvider.Bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if identity.IsZero() {
			pterm.Warning.Println("No tenant resolved; signing in without a tenant id.")
		}

		session, err := client.SignIn(cmd.Context(), sdk.SignInInput{Role: role, Email: email, Password: password})
		if err != nil {
			if sdk.IsUnauthorized(err) {
				return fmt.Errorf("sign-in rejected for %s: %w", role, err)
			}
			return fmt.Errorf("failed to sign in: %w", err)
		}

		pterm.Success.Printfln("Signed in as %s (%s)", session.Email, role)
		if !identity.IsZero() {
			pterm.Info.Printfln("Tenant: %s (%s)", identity.SubdomainName, identity.TenantID)
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginRole, "role", string(sdk.RoleBuyer), "Role to sign in as: admin, host, staff or buyer")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prefer $"+PasswordEnv+")")
}
