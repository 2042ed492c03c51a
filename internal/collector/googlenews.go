package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"CompanyPulse/internal/metrics"
	"CompanyPulse/internal/model"
)

// DefaultGoogleNewsURL is the Google News RSS search endpoint.
const DefaultGoogleNewsURL = "https://news.google.com/rss/search"

const summaryRunes = 300

// GoogleNewsFetcher implements NewsSource over the Google News RSS search.
type GoogleNewsFetcher struct {
	FeedURL string
	// Recency adds a "when:<Recency>" qualifier (e.g. "7d") to each query.
	Recency string
	Client  *http.Client
	parser  *gofeed.Parser
}

// NewGoogleNewsFetcher creates a news fetcher with optional proxy support.
func NewGoogleNewsFetcher(feedURL, recency, proxyURL string) *GoogleNewsFetcher {
	if feedURL == "" {
		feedURL = DefaultGoogleNewsURL
	}
	return &GoogleNewsFetcher{
		FeedURL: feedURL,
		Recency: recency,
		Client:  newHTTPClient(proxyURL),
		parser:  gofeed.NewParser(),
	}
}

func (f *GoogleNewsFetcher) Name() string { return "googlenews" }

func (f *GoogleNewsFetcher) searchURL(query string) string {
	q := strings.TrimSpace(query)
	if f.Recency != "" {
		q += " when:" + f.Recency
	}
	v := url.Values{}
	v.Set("q", q)
	v.Set("hl", "en-US")
	v.Set("gl", "US")
	v.Set("ceid", "US:en")
	return f.FeedURL + "?" + v.Encode()
}

// Search returns up to limit headlines for query, in feed order.
// limit <= 0 returns the whole feed.
func (f *GoogleNewsFetcher) Search(ctx context.Context, query string, limit int) (headlines []model.Headline, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream(f.Name(), "search", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.searchURL(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: news fetch: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: news status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed: %v", ErrUpstreamUnavailable, err)
	}

	for _, item := range feed.Items {
		if limit > 0 && len(headlines) >= limit {
			break
		}
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		headlines = append(headlines, toHeadline(item))
	}
	return headlines, nil
}

func toHeadline(item *gofeed.Item) model.Headline {
	h := model.Headline{
		Title:     strings.TrimSpace(item.Title),
		Summary:   summarize(item.Description, summaryRunes),
		Link:      item.Link,
		Published: item.Published,
	}
	if item.PublishedParsed != nil {
		h.Published = item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	switch {
	case item.Author != nil && item.Author.Name != "":
		h.Source = item.Author.Name
	default:
		// Google News titles end in " - Publisher".
		if i := strings.LastIndex(h.Title, " - "); i > 0 {
			h.Source = strings.TrimSpace(h.Title[i+3:])
		}
	}
	return h
}

// summarize reduces an HTML description to plain text of at most n runes.
func summarize(html string, n int) string {
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}
