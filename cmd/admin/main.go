// Command admin runs schema migrations and mints API tokens.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Operational tasks for the meeting intelligence API",
		SilenceUsage:  true,
	}
	root.AddCommand(newMigrateCommand(), newTokenCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
