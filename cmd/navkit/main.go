// Command navkit serves a static site with its navigation behaviors
// running server-side over live WebSocket sessions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "navkit",
		Short:        "Static site server with live navigation behaviors",
		SilenceUsage: true,
	}
	root.AddCommand(
		newServeCmd(),
		newInitConfigCmd(),
		newVersionCmd(),
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "navkit:", err)
		os.Exit(1)
	}
}
