package main

import "github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/cmd"

func main() {
	cmd.Execute()
}
