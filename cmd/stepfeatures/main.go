// Command stepfeatures builds the daily feature table of a patient from a data directory.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "stepfeatures",
		Short:        "Daily step count feature engineering",
		SilenceUsage: true,
	}
	registerFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(schemaCmd())
	rootCmd.AddCommand(designCmd())
	return rootCmd
}
