package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"CompanyPulse/internal/notifier"
	"CompanyPulse/internal/scheduler"
)

func insightsCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "insights <company>",
		Short: "Print growth, trend and news for a company",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unsupported format %q (want text or json)", format)
			}
			rec := a.recorder()
			defer rec.Close()

			s := scheduler.NewScheduler(cmd.Context(), a.collector(), nil, rec, nil)
			in, err := s.Lookup(cmd.Context(), "cli", "", strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(in)
			}
			_, err = fmt.Fprint(out, notifier.FormatInsightsPlain(in))
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}
