package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NahomAnteneh/scm-predictor/core"
)

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var (
		flags  inputFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Ask the server whether a shipment will be late",
		Example: `  scmctl predict --days 2 --mode "Second Class" --region "Western Europe" --market Europe
  scmctl predict --region-id 17 --sales 250 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.client(cmd).Predict(cmd.Context(), flags.input(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}

			fmt.Fprintln(out, p.Headline)
			printVerdict(cmd, p.Verdict)
			fmt.Fprintf(out, "Assessment: %s\n", p.ID)
			return nil
		},
	}

	addInputFlags(cmd, &flags)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON response")
	return cmd
}

func printVerdict(cmd *cobra.Command, v core.Verdict) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Late delivery: %.2f%%  On time: %.2f%%\n", v.LatePercent, v.OnTimePercent)
	fmt.Fprintf(out, "%s: %s\n", v.Band.Title(), v.Band.Narrative())
}
