package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the release build.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dnsherd version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "dnsherd %s\n", version)
			return nil
		},
	}
}
