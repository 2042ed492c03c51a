// Package ranker selects and orders news headlines by keyword relevance and
// aggregates keyword and day counts over the selection.
package ranker

import (
	"strings"

	"CompanyPulse/internal/model"
)

const (
	DefaultLimit        = 15
	DefaultMinImportant = 1
	DefaultScanLimit    = 30
)

// Options controls relevance matching and selection.
type Options struct {
	// Subject is the company name that must co-occur with a keyword when
	// IdentityRequired is set.
	Subject string
	// Keywords are the topical keywords (growth, expansion, ...).
	Keywords []string
	// IdentityKeywords are leadership/corporate-event keywords (CEO, merger, ...).
	IdentityKeywords []string
	// IdentityRequired switches from "any keyword" to "subject and any keyword".
	IdentityRequired bool
	// Limit is the number of headlines returned. Defaults to DefaultLimit.
	Limit int
	// MinImportant is the number of important headlines below which the
	// general pool is used to fill the selection. Defaults to 1.
	MinImportant int
	// ScanLimit caps how many feed entries are considered. Zero means all.
	ScanLimit int
}

// Rank filters headlines for relevance and returns the selection with its
// keyword and day frequencies. The input slice is not modified.
func Rank(headlines []model.Headline, opts Options) model.RankedNews {
	keywords := mergeKeywords(opts.Keywords, opts.IdentityKeywords)
	subject := strings.ToLower(strings.TrimSpace(opts.Subject))

	feed := headlines
	if opts.ScanLimit > 0 && len(feed) > opts.ScanLimit {
		feed = feed[:opts.ScanLimit]
	}

	var important, general []model.Headline
	for _, h := range feed {
		if isImportant(strings.ToLower(h.Title), subject, keywords, opts.IdentityRequired) {
			important = append(important, h)
		} else {
			general = append(general, h)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	minImportant := opts.MinImportant
	if minImportant <= 0 {
		minImportant = DefaultMinImportant
	}

	res := model.RankedNews{Important: len(important)}
	if len(important) >= minImportant {
		res.Headlines = truncate(important, limit)
	} else {
		pool := make([]model.Headline, 0, len(important)+len(general))
		pool = append(pool, important...)
		pool = append(pool, general...)
		res.Headlines = truncate(pool, limit)
		res.Fallback = true
	}

	res.Keywords = KeywordFrequency(res.Headlines, keywords)
	res.Dates = DateFrequency(res.Headlines)
	return res
}

// KeywordFrequency counts, per keyword, the titles containing it.
// A title may count towards several keywords.
func KeywordFrequency(headlines []model.Headline, keywords []string) model.KeywordFrequency {
	freq := model.KeywordFrequency{}
	keywords = mergeKeywords(keywords)
	for _, h := range headlines {
		title := strings.ToLower(h.Title)
		for _, k := range keywords {
			if strings.Contains(title, strings.ToLower(k)) {
				freq[k]++
			}
		}
	}
	return freq
}

// DateFrequency counts headlines per day bucket.
func DateFrequency(headlines []model.Headline) model.DateFrequency {
	freq := model.DateFrequency{}
	for _, h := range headlines {
		if d := h.Day(); d != "" {
			freq[d]++
		}
	}
	return freq
}

func isImportant(title, subject string, keywords []string, identityRequired bool) bool {
	if identityRequired && (subject == "" || !strings.Contains(title, subject)) {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(title, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// mergeKeywords concatenates keyword sets, dropping blanks and
// case-insensitive duplicates. The first spelling of a keyword is kept.
func mergeKeywords(sets ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range sets {
		for _, k := range set {
			k = strings.TrimSpace(k)
			key := strings.ToLower(k)
			if k == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, k)
		}
	}
	return out
}

func truncate(hs []model.Headline, n int) []model.Headline {
	if len(hs) > n {
		hs = hs[:n]
	}
	out := make([]model.Headline, len(hs))
	copy(out, hs)
	return out
}
