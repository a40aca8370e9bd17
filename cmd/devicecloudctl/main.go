// devicecloudctl is a command line client for the device cloud platform:
// applications, inventory, binaries, simulators, smart rules and identity
// lookups from the shell.
package main

import (
	"os"

	"github.com/devicecloud-io/go-devicecloud/cmd/devicecloudctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
