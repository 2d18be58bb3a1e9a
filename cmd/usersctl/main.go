// Command usersctl lists, looks up and creates users.
package main

import (
	"fmt"
	"os"

	"github.com/Konsultn-Engineering/typedq/connector"
	_ "github.com/Konsultn-Engineering/typedq/providers/postgres"
)

var (
	// Version information (set by build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := execute(connector.Open, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
