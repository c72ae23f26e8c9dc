package host

import (
	"github.com/spf13/cobra"
)

// HostCmd is the parent command for event host operations
var HostCmd = &cobra.Command{
	Use:   "host",
	Short: "Event host operations",
	Long:  `Commands for event hosts. They carry the host session; sign in with 'eventctl auth login --role host'.`,
}

func init() {
	HostCmd.AddCommand(dashboardCmd)
}
