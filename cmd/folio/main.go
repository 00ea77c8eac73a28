// Command folio is a conversational front end for a crypto portfolio CLI:
// it turns requests like "I bought 0.1 btc at 95000 on Binance" into
// confirmed portfolio commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bdobrica/folio/internal/folio/config"
	"github.com/bdobrica/folio/internal/folio/observability"
)

var (
	// Global flags
	configPath string
	modeFlag   string
	logLevel   string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Talk to your crypto portfolio",
	Long: `folio interprets plain-English portfolio requests, asks for anything
missing, confirms every change, and hands the resulting command to the
portfolio CLI.

With no subcommand it starts the interactive shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if modeFlag != "" {
			cfg.AI.Mode = modeFlag
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		observability.Setup(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
	RunE: runShell,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $HOME/.config/folio/folio.yaml)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "AI mode: online, offline, hybrid or disabled")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.Flags().StringVar(&execProgram, "exec", "", "Portfolio program that runs approved commands (default: print them)")
	shellCmd.Flags().StringVar(&execProgram, "exec", "", "Portfolio program that runs approved commands (default: print them)")

	parseCmd.Flags().BoolVar(&showPlan, "plan", false, "Also print which interpreters would be tried")

	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print status as JSON")
	statusCmd.Flags().BoolVar(&showConfig, "show-config", false, "Also print the resolved configuration (credentials masked)")

	rootCmd.AddCommand(shellCmd, parseCmd, statusCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
