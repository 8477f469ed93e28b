// Command profastctl is the operator tool for the Profast backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "profastctl",
		Short:        "Operator tool for the Profast parcel backend",
		Version:      Version,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(quoteCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(roleCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
