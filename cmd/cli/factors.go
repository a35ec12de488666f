package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"wwtp-carbon/internal/report"
)

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "Print the emission factors in effect",
	Long:  "Print the emission factors after defaults, the factors file and inline overrides are merged. The YAML output can be used as a factors_file.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			return report.WriteJSON(cmd.OutOrStdout(), cfg.Factors)
		case "yaml":
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(map[string]any{"factors": cfg.Factors}); err != nil {
				return eris.Wrap(err, "encode factors")
			}
			return enc.Close()
		default:
			return eris.Errorf("unknown format %q", format)
		}
	},
}

func init() {
	factorsCmd.Flags().String("format", "yaml", "output format: yaml or json")
	rootCmd.AddCommand(factorsCmd)
}
