package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/NahomAnteneh/scm-predictor/core"
	"github.com/NahomAnteneh/scm-predictor/pkg/client"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	server  string
	timeout time.Duration
	verbose bool
}

func (o *rootOptions) client(cmd *cobra.Command) *client.Client {
	return client.NewClient(o.server,
		client.WithTimeout(o.timeout),
		client.WithVerbose(o.verbose),
		client.WithLogger(func(format string, args ...interface{}) {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
		}))
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "scmctl",
		Short:         "Late delivery predictor tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.server, "server", envOr("SCM_SERVER", "http://localhost:8080"), "Predictor server base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "HTTP request timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log HTTP requests to stderr")

	root.AddCommand(
		newPredictCmd(opts),
		newInspectCmd(),
		newEncodingsCmd(opts),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// inputFlags binds the six shipment widgets to command flags
type inputFlags struct {
	days     int
	mode     string
	region   string
	regionID int
	sales    float64
	quantity int
	market   string
}

func addInputFlags(cmd *cobra.Command, f *inputFlags) {
	def := core.DefaultInput()
	cmd.Flags().IntVar(&f.days, "days", def.DaysScheduled, "Days scheduled for shipment")
	cmd.Flags().StringVar(&f.mode, "mode", def.ShippingMode, "Shipping mode")
	cmd.Flags().StringVar(&f.region, "region", def.OrderRegion, "Order region")
	cmd.Flags().IntVar(&f.regionID, "region-id", -1, "Raw order region ID, overrides --region")
	cmd.Flags().Float64Var(&f.sales, "sales", def.Sales, "Sales amount")
	cmd.Flags().IntVar(&f.quantity, "quantity", def.Quantity, "Order item quantity")
	cmd.Flags().StringVar(&f.market, "market", def.Market, "Market")
}

func (f *inputFlags) input(cmd *cobra.Command) core.ShipmentInput {
	in := core.ShipmentInput{
		DaysScheduled: f.days,
		ShippingMode:  f.mode,
		OrderRegion:   f.region,
		Sales:         f.sales,
		Quantity:      f.quantity,
		Market:        f.market,
	}
	if cmd.Flags().Changed("region-id") {
		id := f.regionID
		in.OrderRegionID = &id
		in.OrderRegion = ""
	}
	return in
}
