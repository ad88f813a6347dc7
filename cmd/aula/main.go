// Command aula runs the course site and administers its data.
package main

import (
	"fmt"
	"os"

	"github.com/castellanoconmh/aula/cmd/aula/cli"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
