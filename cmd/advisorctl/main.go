// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

// Command advisorctl queries a CropAdvisor server from the command line.
//
//	advisorctl crop --n 90 --p 42 --k 43 --ph 6.5 --rainfall 202
//	advisorctl fertilizer --n 30 --p 10 --k 50
//	advisorctl history farmer-01 --limit 5
//	advisorctl model -o json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/cropadvisor/internal/client"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	server  string
	timeout time.Duration
	output  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "advisorctl",
		Short: "Query a CropAdvisor server",
		Long: `advisorctl sends soil measurements to a CropAdvisor server and prints
crop recommendations, fertilizer advice, a farmer's advisory history, or the
status of the live model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.output != outputTable && opts.output != outputJSON {
				return fmt.Errorf("unsupported output %q (use %s or %s)", opts.output, outputTable, outputJSON)
			}
			return nil
		},
	}

	defaultServer := os.Getenv("CROPADVISOR_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:5000"
	}
	root.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "CropAdvisor base URL (env CROPADVISOR_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputTable, "output format (table, json)")

	root.AddCommand(cropCmd(opts))
	root.AddCommand(fertilizerCmd(opts))
	root.AddCommand(historyCmd(opts))
	root.AddCommand(modelCmd(opts))

	return root
}

func (o *globalOptions) client() (*client.Client, error) {
	return client.New(client.Config{BaseURL: o.server, Timeout: o.timeout})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
