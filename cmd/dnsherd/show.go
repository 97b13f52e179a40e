package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsdrift/dnsherd/internal/runlog"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-record>",
		Short: "Pretty-print a run record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := runlog.ParseFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderRecord(rec))
			return nil
		},
	}
}
