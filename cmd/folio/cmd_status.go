package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bdobrica/folio/internal/folio/app"
)

var (
	statusJSON bool
	showConfig bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which interpreters are configured and reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.Status(cmd.Context())
		out := cmd.OutOrStdout()
		if statusJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(st); err != nil {
				return err
			}
		} else {
			printStatus(out, st)
		}

		if showConfig {
			fmt.Fprintln(out)
			if cfg.File != "" {
				fmt.Fprintf(out, "# %s\n", cfg.File)
			}
			return yaml.NewEncoder(out).Encode(cfg.Redacted())
		}
		return nil
	},
}

func printStatus(w io.Writer, st app.Status) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Mode\t%s\n", st.Mode)

	cloud := "not configured"
	if st.CloudConfigured {
		cloud = "API key set (" + st.CloudModel + ")"
	}
	fmt.Fprintf(tw, "Cloud\t%s\n", cloud)

	local := "not configured"
	switch {
	case st.LocalConfigured && st.LocalReachable:
		local = "connected (" + st.LocalModel + " at " + st.LocalURL + ")"
	case st.LocalConfigured:
		local = "offline (" + st.LocalURL + ")"
	}
	fmt.Fprintf(tw, "Local\t%s\n", local)
	fmt.Fprintf(tw, "Active\t%s\n", st.Effective)

	journal := "disabled"
	if st.Journal != "" {
		journal = st.Journal
	}
	fmt.Fprintf(tw, "Journal\t%s\n", journal)
	tw.Flush()
}
