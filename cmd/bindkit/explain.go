package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bindkit-dev/bindkit/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Explain a bindkit error code",
		Long: `Explain the error code carried by a bindkit error message.

Every error bindkit reports is prefixed with a stable code (for example
"B102: remove patch references unknown key"). Pass the code to see what
it means and how to fix it; run without arguments to list all codes.

Examples:
  bindkit explain
  bindkit explain B102`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.Codes() {
					e := errors.FromCode(code)
					fmt.Fprintf(out, "%s  [%s]  %s\n", e.Code, e.Category, e.Message)
				}
				return nil
			}

			code := strings.ToUpper(args[0])
			if !errors.IsRegistered(code) {
				return fmt.Errorf("unknown error code %q; run \"bindkit explain\" to list codes", code)
			}
			e := errors.FromCode(code)
			fmt.Fprintf(out, "%s: %s\n", e.Code, e.Message)
			fmt.Fprintf(out, "Category: %s\n", e.Category)
			if e.Detail != "" {
				fmt.Fprintf(out, "\n%s\n", e.Detail)
			}
			if e.Suggestion != "" {
				fmt.Fprintf(out, "\nSuggestion: %s\n", e.Suggestion)
			}
			return nil
		},
	}
}
