package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"wwtp-carbon/internal/formula"
	"wwtp-carbon/internal/ingest"
)

var formulaCmd = &cobra.Command{
	Use:   "formula",
	Short: "Custom carbon formulas",
}

var formulaEvalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a formula",
	Long: fmt.Sprintf(`Evaluate an arithmetic expression over the plant variables.

Variables: %s
Functions: %s
Constants: pi, e

Variables come from --file (a month of plant data) and --var overrides;
anything unbound is 0.

Examples:
  formula eval "energy * 0.9419 / water_flow" --file data/2024.xlsx --month 2024-03
  formula eval "(cod_in - cod_out) / cod_in" --var cod_in=200 --var cod_out=50`,
		strings.Join(formula.Variables, ", "), strings.Join(formula.Functions(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: runFormulaEval,
}

func init() {
	f := formulaEvalCmd.Flags()
	f.String("file", "", "plant data file to bind variables from")
	f.String("month", "", "month of --file to use (default: latest)")
	f.StringArray("var", nil, "variable binding name=value (repeatable)")

	formulaCmd.AddCommand(formulaEvalCmd)
	rootCmd.AddCommand(formulaCmd)
}

func runFormulaEval(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	month, _ := cmd.Flags().GetString("month")
	bindings, _ := cmd.Flags().GetStringArray("var")

	vars := map[string]float64{}
	if file != "" {
		ds, err := ingest.NewLoader(cfg.Ingest, log).LoadFile(file)
		if err != nil {
			return err
		}
		if month == "" {
			month = ds.LatestMonth()
		}
		if !ds.HasMonth(month) {
			return eris.Errorf("month %q not in %s", month, file)
		}
		vars = formula.VariablesFromTable(ds.Month(month))
	}
	for _, b := range bindings {
		name, raw, ok := strings.Cut(b, "=")
		if !ok {
			return eris.Errorf("--var %q: want name=value", b)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return eris.Wrapf(err, "--var %q", b)
		}
		vars[strings.TrimSpace(name)] = v
	}

	v, err := formula.Evaluate(args[0], vars)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'g', -1, 64))
	return nil
}
