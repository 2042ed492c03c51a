package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CompanyPulse/internal/chart"
	"CompanyPulse/internal/scheduler"
)

func chartCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "chart price|keywords|dates <company>",
		Short:     "Render a chart of a company as PNG",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{string(chart.KindPrice), string(chart.KindKeywords), string(chart.KindDates)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := chart.ParseKind(args[0])
			if err != nil {
				return err
			}
			rec := a.recorder()
			defer rec.Close()

			s := scheduler.NewScheduler(cmd.Context(), a.collector(), nil, rec, nil)
			in, err := s.Lookup(cmd.Context(), "cli", "", strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			png, err := chart.Render(kind, in)
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("%s-%s.png", strings.ToLower(in.Ticker.Symbol), kind)
			}
			if err := os.WriteFile(output, png, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			log.Info().Str("file", output).Str("kind", string(kind)).Msg("chart written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <symbol>-<kind>.png)")
	return cmd
}
