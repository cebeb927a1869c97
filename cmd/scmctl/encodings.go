package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NahomAnteneh/scm-predictor/core"
	"github.com/NahomAnteneh/scm-predictor/pkg/client"
)

func newEncodingsCmd(opts *rootOptions) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "encodings",
		Short: "List the label codes used to encode a shipment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := &client.Encodings{
				ShippingModes: core.ShippingModes(),
				Markets:       core.Markets(),
				Regions:       core.Regions(),
			}
			if !local {
				var err error
				if enc, err = opts.client(cmd).Encodings(cmd.Context()); err != nil {
					return err
				}
			}
			return writeEncodings(cmd.OutOrStdout(), enc)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Print the built-in tables without contacting the server")
	return cmd
}

func writeEncodings(w io.Writer, enc *client.Encodings) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TABLE\tLABEL\tCODE")
	for _, t := range []struct {
		name   string
		labels []core.Label
	}{
		{"shipping_mode", enc.ShippingModes},
		{"market", enc.Markets},
		{"order_region", enc.Regions},
	} {
		for _, l := range t.labels {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", t.name, l.Name, l.Code)
		}
	}
	return tw.Flush()
}
