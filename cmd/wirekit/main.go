package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

const banner = `
          _           __    _ __
   _   __(_)_______  / /__ (_) /_
  | | /| / / / ___/ _ \/ //_/ / __/
  | |/ |/ / / /  /  __/ ,< / / /_
  |__/|__/_/_/   \___/_/|_/_/\__/
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "wirekit",
		Short: "Fixed-frame packet relay node",
		Long: `wirekit runs a relay node speaking the wirekit fixed-frame
packet protocol: a TCP listener that pairs every accepted connection
with a dispatcher and a protocol table, an optional shared-passphrase
frame cipher, and an HTTP status API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		keygenCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wirekit %s (%s)\n", version, commit)
		},
	}
}
