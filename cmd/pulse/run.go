package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"CompanyPulse/internal/notifier"
	"CompanyPulse/internal/scheduler"
	"CompanyPulse/internal/server"
)

func runCmd(a *app) *cobra.Command {
	var digestNow bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Telegram bot, watchlist digest and HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := a.cfg
			log.Info().Msg("CompanyPulse starting...")

			rec := a.recorder()
			defer rec.Close()

			var tn *notifier.TelegramNotifier
			var sn scheduler.Notifier
			if cfg.BotEnabled() {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
				sn = tn
			}

			sched := scheduler.NewScheduler(ctx, a.collector(), sn, rec, cfg.Watchlist.Companies)
			if tn != nil {
				if err := sched.RegisterDigest(cfg.Schedule.DigestCron); err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()

				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Info().Msg("telegram polling started")

				if digestNow || os.Getenv("RUN_ON_START") == "true" {
					log.Info().Msg("running watchlist digest now")
					go sched.RunDigestNow()
				}
			} else {
				log.Warn().Msg("telegram not configured, bot and digest disabled")
			}

			srv := server.New(cfg.HTTP.Addr, sched, rec)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			log.Info().Msg("CompanyPulse is running. Press Ctrl+C to stop.")
			select {
			case <-ctx.Done():
				log.Info().Msg("shutdown signal received, stopping...")
			case err := <-errCh:
				if err != nil {
					return err
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("http shutdown")
			}
			log.Info().Msg("CompanyPulse stopped")
			return nil
		},
	}
	cmd.Flags().BoolVar(&digestNow, "digest-now", false, "send the watchlist digest once at startup")
	return cmd
}
