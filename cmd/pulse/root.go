package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CompanyPulse/internal/collector"
	"CompanyPulse/internal/config"
	"CompanyPulse/internal/logging"
	"CompanyPulse/internal/ranker"
	"CompanyPulse/internal/recorder"
)

// app holds what every subcommand needs once config is loaded.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}

	root := &cobra.Command{
		Use:           "pulse",
		Short:         "Company growth, trend and news insights",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultPath, "path to config file")

	root.AddCommand(insightsCmd(a), chartCmd(a), runCmd(a))
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) marketSource() collector.MarketSource {
	ds := a.cfg.DataSource
	if ds.BaseURL != "" {
		return collector.NewGatewayFetcher(ds.BaseURL, ds.APIKey, a.cfg.Proxy, ds.RequestsPerSecond)
	}
	return collector.NewYahooFetcher(a.cfg.Proxy, ds.RequestsPerSecond)
}

func (a *app) collector() *collector.Collector {
	n := a.cfg.News
	market := a.marketSource()
	news := collector.NewGoogleNewsFetcher(n.FeedURL, n.Recency, a.cfg.Proxy)
	log.Debug().Str("market", market.Name()).Str("news", news.Name()).Msg("data sources")

	col := collector.NewCollector(market, news, a.cfg.Analytics.Periods, ranker.Options{
		Keywords:         n.Keywords,
		IdentityKeywords: n.IdentityKeywords,
		IdentityRequired: a.cfg.IsIdentityRequired(),
		Limit:            n.Limit,
		MinImportant:     n.MinImportant,
		ScanLimit:        n.ScanLimit,
	})
	col.NewsFetchLimit = n.FetchLimit
	return col
}

// recorder opens the SQLite audit log, falling back to a no-op one.
func (a *app) recorder() recorder.Recorder {
	path := a.cfg.Database.SQLitePath
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}
