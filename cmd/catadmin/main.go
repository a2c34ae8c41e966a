// catadmin is a CLI and terminal console for administering a
// medical-supply catalog over its HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/medsupply/catadmin/internal/command"
)

var version = "dev"

func main() {
	if err := command.NewRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
