package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"CompanyPulse/internal/model"
	"CompanyPulse/internal/recorder"
)

// maxReportHeadlines caps the headlines in a chat report; Telegram rejects
// messages over 4096 characters.
const maxReportHeadlines = 8

// markup decides how emphasis and user text are rendered.
type markup struct {
	bold   func(string) string
	escape func(string) string
	link   func(text, href string) string
}

var htmlMarkup = markup{
	bold:   func(s string) string { return "<b>" + s + "</b>" },
	escape: html.EscapeString,
	link: func(text, href string) string {
		if href == "" {
			return html.EscapeString(text)
		}
		return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), html.EscapeString(text))
	},
}

var plainMarkup = markup{
	bold:   func(s string) string { return s },
	escape: func(s string) string { return s },
	link: func(text, href string) string {
		if href == "" {
			return text
		}
		return text + "\n     " + href
	},
}

// FormatInsights formats a company report as Telegram HTML.
func FormatInsights(in *model.Insights) string {
	return formatInsights(in, htmlMarkup, maxReportHeadlines)
}

// FormatInsightsPlain formats a company report as plain terminal text with
// every selected headline.
func FormatInsightsPlain(in *model.Insights) string {
	return formatInsights(in, plainMarkup, 0)
}

func formatInsights(in *model.Insights, m markup, maxHeadlines int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🏢 %s (%s) | %s\n",
		m.bold(m.escape(in.Ticker.DisplayName())), m.escape(in.Ticker.Symbol),
		in.GeneratedAt.Format("2006-01-02 15:04")))
	if in.Quote != nil {
		b.WriteString(fmt.Sprintf("Price: %.2f %s\n", in.Quote.Price, m.escape(in.Quote.Currency)))
	}

	if len(in.Growth) > 0 {
		b.WriteString("\n📈 " + m.bold("Growth") + "\n")
		for _, e := range in.Growth {
			b.WriteString(fmt.Sprintf("  %-9s %s\n", m.escape(e.Label), e.Growth.Signed()))
		}
	}

	b.WriteString("\n📉 " + m.bold("Trend") + "\n")
	b.WriteString(fmt.Sprintf("  Direction: %s\n", trendText(in.Trend.Label)))
	b.WriteString(fmt.Sprintf("  Avg annual return: %s\n", in.Trend.AverageAnnualReturn.Signed()))
	b.WriteString(fmt.Sprintf("  Annualized volatility: %s\n", in.Trend.AnnualizedVolatility))
	ind := in.Indicators
	b.WriteString(fmt.Sprintf("  MA200: %s | RSI14: %s\n", ind.MA200.Format("%.2f"), ind.RSI14.Format("%.1f")))
	b.WriteString(fmt.Sprintf("  52w range: %s - %s (position %s)\n",
		ind.Low52w.Format("%.2f"), ind.High52w.Format("%.2f"), ind.Position52w.Format("%.2f")))

	writeNews(&b, in.News, m, maxHeadlines)

	if len(in.Warnings) > 0 {
		b.WriteString("\n⚠️ " + m.bold("Warnings") + "\n")
		for _, w := range in.Warnings {
			b.WriteString("  • " + m.escape(w) + "\n")
		}
	}
	return b.String()
}

func writeNews(b *strings.Builder, news model.RankedNews, m markup, maxHeadlines int) {
	b.WriteString("\n📰 " + m.bold("News") + "\n")
	if len(news.Headlines) == 0 {
		b.WriteString("  No headlines found.\n")
		return
	}
	if news.Fallback {
		b.WriteString(fmt.Sprintf("  Only %d important headline(s), filled with general news.\n", news.Important))
	}
	shown := news.Headlines
	if maxHeadlines > 0 && len(shown) > maxHeadlines {
		shown = shown[:maxHeadlines]
	}
	for i, h := range shown {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, m.link(h.Title, h.Link)))
		meta := strings.TrimSpace(h.Source + " " + h.Day())
		if meta != "" {
			b.WriteString("     " + m.escape(meta) + "\n")
		}
	}
	if rest := len(news.Headlines) - len(shown); rest > 0 {
		b.WriteString(fmt.Sprintf("  … and %d more\n", rest))
	}

	var kw []string
	for _, k := range news.Keywords.Sorted() {
		if k.Count > 0 {
			kw = append(kw, fmt.Sprintf("%s×%d", m.escape(k.Keyword), k.Count))
		}
	}
	if len(kw) > 0 {
		b.WriteString("  Keywords: " + strings.Join(kw, ", ") + "\n")
	}
	var days []string
	for _, d := range news.Dates.Sorted() {
		days = append(days, fmt.Sprintf("%s:%d", m.escape(d.Day), d.Count))
	}
	if len(days) > 0 {
		b.WriteString("  By day: " + strings.Join(days, ", ") + "\n")
	}
}

func trendText(l model.TrendLabel) string {
	switch l {
	case model.TrendUp:
		return "🟢 uptrend"
	case model.TrendDown:
		return "🔴 downtrend"
	case model.TrendSideways:
		return "⚪ sideways"
	default:
		return "insufficient data"
	}
}

// DigestLine is one watchlist entry of the digest; Err is set when the
// lookup failed.
type DigestLine struct {
	Query    string
	Insights *model.Insights
	Err      error
}

// FormatDigest formats the scheduled watchlist digest.
func FormatDigest(lines []DigestLine, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗞 <b>Watchlist digest</b> | %s\n\n", at.Format("2006-01-02")))
	if len(lines) == 0 {
		b.WriteString("Watchlist is empty.\n")
		return b.String()
	}
	for _, l := range lines {
		if l.Err != nil || l.Insights == nil {
			b.WriteString(fmt.Sprintf("❌ %s: lookup failed\n", html.EscapeString(l.Query)))
			continue
		}
		in := l.Insights
		price := "N/A"
		if in.Quote != nil {
			price = fmt.Sprintf("%.2f", in.Quote.Price)
		}
		day, _ := in.Growth.Lookup("1 Day")
		year, _ := in.Growth.Lookup("1 Year")
		b.WriteString(fmt.Sprintf("<b>%s</b> %s | 1D %s | 1Y %s | %s | news %d\n",
			html.EscapeString(in.Ticker.Symbol), price, day.Signed(), year.Signed(),
			in.Trend.Label, len(in.News.Headlines)))
	}
	return b.String()
}

// FormatWatchlist lists the configured watchlist companies.
func FormatWatchlist(companies []string) string {
	if len(companies) == 0 {
		return "📋 Watchlist is empty. Add companies under <code>watchlist.companies</code>."
	}
	var b strings.Builder
	b.WriteString("📋 <b>Watchlist</b>\n")
	for _, c := range companies {
		b.WriteString("  • " + html.EscapeString(c) + "\n")
	}
	return b.String()
}

// FormatLookupError explains a failed lookup to the chat.
func FormatLookupError(query string, err error) string {
	return fmt.Sprintf("❌ Could not look up <b>%s</b>: %s", html.EscapeString(query), html.EscapeString(err.Error()))
}

// FormatHelp returns the command reference.
func FormatHelp() string {
	return `🤖 <b>CompanyPulse</b>

/insights &lt;company&gt; - growth, trend and news report
/watchlist - show watchlist companies
/recent - latest lookups
/help - this message

Any other text is looked up as a company name.`
}

// FormatRecent lists the latest lookups from the audit log.
func FormatRecent(events []recorder.LookupEvent) string {
	if len(events) == 0 {
		return "🕘 No lookups recorded yet."
	}
	var b strings.Builder
	b.WriteString("🕘 <b>Recent lookups</b>\n")
	for _, e := range events {
		subject := e.Symbol
		if subject == "" {
			subject = e.Query
		}
		b.WriteString(fmt.Sprintf("  %s %s (%s) %s\n",
			e.Time.Format("01-02 15:04"), html.EscapeString(subject), e.Source, e.Outcome))
	}
	return b.String()
}
