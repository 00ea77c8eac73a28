package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bdobrica/folio/internal/folio/app"
)

var showPlan bool

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Interpret one request and print the parse result as JSON",
	Example: `  folio parse "I bought 0.1 btc at 95000 on Binance"
  folio parse --mode offline --plan "sell all my eth and then buy sol"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		text := strings.Join(args, " ")
		out := cmd.OutOrStdout()
		if showPlan {
			fmt.Fprintf(out, "plan: %v\n", a.Router().Plan(text))
		}
		res := a.Parse(cmd.Context(), text)
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}
