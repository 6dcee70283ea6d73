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
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bindkit",
		Short: "Keyed list bindings for live Go web UIs",
		Long: `Bindkit streams keyed list changes to browsers as minimal patch
scripts over WebSocket.

A sequence binding diffs each list snapshot against the previous one,
applies the insert/remove/move script to a live region, and pushes the
same script to connected clients. Items keep their rendered fragments
for as long as their key stays present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
		explainCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
