// Package cli implements the billscan command line: the RPC server plus
// offline commands for parsing, scanning and splitting a receipt.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/billscan/pkg/logging"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:          "billscan",
		Short:        "Split a restaurant bill from a receipt photo",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// serve configures logging from its config file instead.
			if cmd.Name() != "serve" {
				logging.SetupWith(logging.ParseLevel(logLevel), "text")
			}
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level for offline commands (debug, info, warn, error)")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(parseCmd())
	cmd.AddCommand(scanCmd())
	cmd.AddCommand(splitCmd())
	return cmd
}
