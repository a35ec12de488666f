package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"wwtp-carbon/internal/carbon"
	"wwtp-carbon/internal/ingest"
	"wwtp-carbon/internal/pipeline"
	"wwtp-carbon/internal/report"
)

var accountCmd = &cobra.Command{
	Use:   "account <file>",
	Short: "Build the monthly carbon account for a plant data file",
	Long: `Load an .xlsx, .csv or .json file of daily operating data, enrich every
day with emission figures and print the selected month's report.

Examples:
  # Latest month as text
  account data/2024.xlsx

  # March with a 10% aeration cut, JSON output, ledger written to CSV
  account data/2024.xlsx --month 2024-03 --aeration 10 --format json --ledger out/ledger.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAccount,
}

func init() {
	f := accountCmd.Flags()
	f.String("month", "", "month to report, YYYY-MM (default: latest)")
	f.Float64("aeration", 0, "aeration what-if, percent reduction in [-30, 30]")
	f.Float64("pac", 0, "PAC dosing what-if, percent reduction in [-20, 20]")
	f.String("format", "text", "output format: text or json")
	f.String("ledger", "", "write the month's enriched daily ledger to this CSV path")
	f.Int("concurrency", 4, "months enriched in parallel")

	rootCmd.AddCommand(accountCmd)
}

func runAccount(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	month, _ := cmd.Flags().GetString("month")
	aeration, _ := cmd.Flags().GetFloat64("aeration")
	pac, _ := cmd.Flags().GetFloat64("pac")
	format, _ := cmd.Flags().GetString("format")
	ledger, _ := cmd.Flags().GetString("ledger")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	if format != "text" && format != "json" {
		return eris.Errorf("unknown format %q", format)
	}

	engine, err := carbon.New(cfg.Factors)
	if err != nil {
		return err
	}
	ds, err := ingest.NewLoader(cfg.Ingest, log).LoadFile(args[0])
	if err != nil {
		return err
	}

	rep, err := pipeline.Run(ctx, engine, ds, pipeline.Options{
		Month:       month,
		AerationPct: aeration,
		PACPct:      pac,
		Anomaly:     cfg.Anomaly,
		Concurrency: concurrency,
	})
	if err != nil {
		return err
	}

	if ledger != "" {
		if err := report.WriteLedgerCSV(ledger, rep.Records); err != nil {
			return err
		}
		log.Info().Str("path", ledger).Int("rows", len(rep.Records)).Msg("wrote ledger")
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return report.WriteJSON(out, rep)
	}
	if err := report.RenderText(out, rep); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if len(rep.Issues) > 0 {
		fmt.Fprintf(os.Stderr, "%d cells could not be read as numbers; run with --format json for the list\n", len(rep.Issues))
	}
	return nil
}
