package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wwtp-carbon/internal/config"
	"wwtp-carbon/internal/logging"
)

var (
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "wwtp-carbon",
	Short:         "Carbon accounting for a wastewater treatment plant",
	Long:          "Reads daily plant operating data, derives per-day emissions by source and process zone, and reports monthly carbon accounts.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			cfg = config.Default()
		} else {
			c, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = c
		}
		cfg.ApplyEnv(os.Getenv)
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Log.Level = lvl
		}
		log = logging.New(cfg.Log)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to YAML config (default: built-in factors)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
