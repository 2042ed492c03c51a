package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"CompanyPulse/internal/chart"
	"CompanyPulse/internal/metrics"
	"CompanyPulse/internal/model"
	"CompanyPulse/internal/notifier"
	"CompanyPulse/internal/recorder"
)

// InsightsCollector looks up one company.
type InsightsCollector interface {
	Collect(ctx context.Context, query string) (*model.Insights, error)
}

// Notifier delivers messages to the configured chat.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the watchlist digest and answers bot commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector InsightsCollector
	Notifier  Notifier
	Recorder  recorder.Recorder
	Watchlist []string
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col InsightsCollector, tn Notifier, rec recorder.Recorder, watchlist []string) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  tn,
		Recorder:  rec,
		Watchlist: watchlist,
		Ctx:       ctx,
	}
}

// RegisterDigest schedules the watchlist digest.
func (s *Scheduler) RegisterDigest(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running digest.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunDigestNow builds and sends the digest immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

// Digest looks up every watchlist company in order.
func (s *Scheduler) Digest(ctx context.Context) []notifier.DigestLine {
	lines := make([]notifier.DigestLine, 0, len(s.Watchlist))
	for _, company := range s.Watchlist {
		in, err := s.Lookup(ctx, "digest", "", company)
		lines = append(lines, notifier.DigestLine{Query: company, Insights: in, Err: err})
	}
	return lines
}

func (s *Scheduler) digestTask() {
	if len(s.Watchlist) == 0 {
		log.Info().Msg("watchlist empty, skipping digest")
		return
	}
	log.Info().Int("companies", len(s.Watchlist)).Msg("running watchlist digest")
	s.trySend(notifier.FormatDigest(s.Digest(s.Ctx), time.Now()))
}

// Lookup collects insights and records the outcome in the audit log and
// metrics.
func (s *Scheduler) Lookup(ctx context.Context, source, requestID, query string) (*model.Insights, error) {
	in, err := s.Collector.Collect(ctx, query)
	outcome := recorder.OutcomeOf(err)
	metrics.RecordLookup(source, outcome)
	if rerr := s.Recorder.RecordLookup(recorder.NewLookupEvent(requestID, source, query, in, outcome)); rerr != nil {
		log.Error().Err(rerr).Msg("record lookup")
	}
	if err != nil {
		log.Warn().Err(err).Str("source", source).Str("query", query).Msg("lookup failed")
	}
	return in, err
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) notifier.Reply {
	command = strings.TrimSpace(command)
	name, arg, _ := strings.Cut(command, " ")
	arg = strings.TrimSpace(arg)
	// Telegram appends the bot name in groups: /insights@PulseBot
	name, _, _ = strings.Cut(name, "@")

	switch name {
	case "/start", "/help":
		return notifier.Reply{Text: notifier.FormatHelp()}
	case "/watchlist":
		return notifier.Reply{Text: notifier.FormatWatchlist(s.Watchlist)}
	case "/recent":
		events, err := s.Recorder.RecentLookups(10)
		if err != nil {
			log.Error().Err(err).Msg("read recent lookups")
			return notifier.Reply{Text: "❌ Could not read the lookup history."}
		}
		return notifier.Reply{Text: notifier.FormatRecent(events)}
	case "/insights":
		if arg == "" {
			return notifier.Reply{Text: "Usage: /insights &lt;company&gt;"}
		}
		return s.insightsReply(ctx, arg)
	}
	if strings.HasPrefix(command, "/") {
		return notifier.Reply{Text: notifier.FormatHelp()}
	}
	return s.insightsReply(ctx, command)
}

func (s *Scheduler) insightsReply(ctx context.Context, query string) notifier.Reply {
	in, err := s.Lookup(ctx, "telegram", "", query)
	if err != nil {
		return notifier.Reply{Text: notifier.FormatLookupError(query, err)}
	}
	return notifier.Reply{Text: notifier.FormatInsights(in), Photos: chartPhotos(in)}
}

var chartCaptions = map[chart.Kind]string{
	chart.KindPrice:    "Price history",
	chart.KindKeywords: "Keyword frequency",
	chart.KindDates:    "Headlines per day",
}

// chartPhotos renders every chart the data allows.
func chartPhotos(in *model.Insights) []notifier.Photo {
	var photos []notifier.Photo
	for _, kind := range chart.Kinds {
		png, err := chart.Render(kind, in)
		if err != nil {
			if !errors.Is(err, chart.ErrNotEnoughData) {
				log.Warn().Err(err).Str("kind", string(kind)).Msg("render chart")
			}
			continue
		}
		photos = append(photos, notifier.Photo{
			Caption: fmt.Sprintf("%s: %s", in.Ticker.Symbol, chartCaptions[kind]),
			PNG:     png,
		})
	}
	return photos
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
