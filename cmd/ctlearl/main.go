// Command ctlearl converts TEAM Engine CTL execution logs to EARL reports.
package main

import (
	"os"

	"github.com/roach88/ctlearl/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
