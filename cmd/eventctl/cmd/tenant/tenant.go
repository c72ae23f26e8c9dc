package tenant

import (
	"github.com/spf13/cobra"
)

// TenantCmd is the parent command for tenant operations
var TenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Resolve and inspect the tenant",
	Long: `Commands for resolving the tenant a host belongs to and managing the cached
tenant identity every request is scoped by.`,
}

func init() {
	TenantCmd.AddCommand(resolveCmd)
	TenantCmd.AddCommand(showCmd)
	TenantCmd.AddCommand(clearCmd)
	TenantCmd.AddCommand(useCmd)
}
