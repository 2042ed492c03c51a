package model

import "sort"

// Headline is one news item.
type Headline struct {
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Source    string `json:"source,omitempty"`
}

// Day returns the day bucket: the first 10 characters of Published.
func (h Headline) Day() string {
	if len(h.Published) <= 10 {
		return h.Published
	}
	return h.Published[:10]
}

// KeywordFrequency counts keyword occurrences across headline titles.
type KeywordFrequency map[string]int

// KeywordCount is one keyword frequency entry.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Sorted orders keywords by count descending, then alphabetically.
func (f KeywordFrequency) Sorted() []KeywordCount {
	out := make([]KeywordCount, 0, len(f))
	for k, c := range f {
		out = append(out, KeywordCount{Keyword: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Keyword < out[j].Keyword
	})
	return out
}

// DateFrequency counts headlines per day bucket.
type DateFrequency map[string]int

// DateCount is one day bucket entry.
type DateCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Sorted orders day buckets ascending.
func (f DateFrequency) Sorted() []DateCount {
	out := make([]DateCount, 0, len(f))
	for d, c := range f {
		out = append(out, DateCount{Day: d, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// RankedNews is the selected headlines, most relevant first, with their
// keyword and day aggregations.
type RankedNews struct {
	Headlines []Headline       `json:"headlines"`
	Important int              `json:"important"`
	Fallback  bool             `json:"fallback"`
	Keywords  KeywordFrequency `json:"keywords"`
	Dates     DateFrequency    `json:"dates"`
}
