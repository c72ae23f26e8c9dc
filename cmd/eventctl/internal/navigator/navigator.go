// Package navigator renders sign-in navigation in the terminal.
package navigator

import (
	"io"

	"github.com/pterm/pterm"

	"github.com/mtahir955/EventCore-UserSide-sub004/pkg/sdk"
)

// Terminal implements sdk.Navigator for a CLI: there is no page to move to,
// so it tells the user which login command brings them back.
type Terminal struct {
	// Writer defaults to pterm's standard output.
	Writer io.Writer
}

var _ sdk.Navigator = Terminal{}

// Navigate prints the sign-in instruction for role.
func (n Terminal) Navigate(role sdk.Role, route string) {
	printer := &pterm.Warning
	if n.Writer != nil {
		printer = printer.WithWriter(n.Writer)
	}
	printer.Printfln("%s session expired or was rejected (sign-in page %s).", role, route)
	printer.Printfln("Run `eventctl auth login --role %s` to sign in again.", role)
}
