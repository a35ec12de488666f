package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wwtp-carbon/internal/ingest"
)

var monthsCmd = &cobra.Command{
	Use:   "months <file>",
	Short: "List the months in a plant data file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := ingest.NewLoader(cfg.Ingest, log).LoadFile(args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "MONTH\tDAYS")
		for _, m := range ds.Months {
			fmt.Fprintf(w, "%s\t%d\n", m, ds.Month(m).Len())
		}
		for _, warn := range ds.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warn)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(monthsCmd)
}
