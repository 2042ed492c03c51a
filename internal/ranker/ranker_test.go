package ranker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CompanyPulse/internal/model"
)

func titles(hs []model.Headline) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Title
	}
	return out
}

func feed(ts ...string) []model.Headline {
	hs := make([]model.Headline, len(ts))
	for i, t := range ts {
		hs[i] = model.Headline{Title: t, Published: fmt.Sprintf("2025-03-%02dT08:00:00Z", 28-i)}
	}
	return hs
}

func TestRank_IdentityRequired(t *testing.T) {
	res := Rank(feed("Acme announces merger", "Globex releases report"), Options{
		Subject:          "Acme",
		Keywords:         []string{"merger"},
		IdentityRequired: true,
		Limit:            11,
	})
	assert.Equal(t, 1, res.Important)
	assert.False(t, res.Fallback)
	assert.Equal(t, []string{"Acme announces merger"}, titles(res.Headlines))
}

func TestRank_IdentityRequiresBoth(t *testing.T) {
	hs := feed(
		"Globex merger talks",    // keyword only
		"ACME quarterly results", // subject only
		"acme ceo steps down",    // both, different case
	)
	res := Rank(hs, Options{
		Subject:          "Acme",
		Keywords:         []string{"growth"},
		IdentityKeywords: []string{"CEO", "merger"},
		IdentityRequired: true,
		Limit:            11,
	})
	assert.Equal(t, []string{"acme ceo steps down"}, titles(res.Headlines))
}

func TestRank_AnyKeyword(t *testing.T) {
	hs := feed("Globex merger talks", "Acme picnic", "Initech sales growth")
	res := Rank(hs, Options{
		Subject:  "Acme",
		Keywords: []string{"merger", "growth"},
		Limit:    12,
	})
	assert.Equal(t, 2, res.Important)
	assert.Equal(t, []string{"Globex merger talks", "Initech sales growth"}, titles(res.Headlines))
}

func TestRank_EmptySubjectNeverImportantWhenIdentityRequired(t *testing.T) {
	res := Rank(feed("merger news"), Options{
		Keywords:         []string{"merger"},
		IdentityRequired: true,
	})
	assert.Zero(t, res.Important)
	assert.True(t, res.Fallback)
	assert.Equal(t, []string{"merger news"}, titles(res.Headlines))
}

func TestRank_FallbackToGeneralPool(t *testing.T) {
	hs := feed("one", "two", "three", "four", "five")
	res := Rank(hs, Options{
		Subject:          "Acme",
		Keywords:         []string{"merger"},
		IdentityRequired: true,
		Limit:            11,
	})
	assert.Zero(t, res.Important)
	assert.True(t, res.Fallback)
	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, titles(res.Headlines))
}

func TestRank_FallbackFillsAfterImportant(t *testing.T) {
	hs := feed("plain a", "growth b", "plain c", "plain d")
	res := Rank(hs, Options{
		Keywords:     []string{"growth"},
		Limit:        3,
		MinImportant: 2,
	})
	assert.Equal(t, 1, res.Important)
	assert.True(t, res.Fallback)
	assert.Equal(t, []string{"growth b", "plain a", "plain c"}, titles(res.Headlines))
}

func TestRank_TruncatesImportant(t *testing.T) {
	var ts []string
	for i := 0; i < 20; i++ {
		ts = append(ts, fmt.Sprintf("Acme growth %d", i))
	}
	res := Rank(feed(ts...), Options{Subject: "Acme", Keywords: []string{"growth"}, IdentityRequired: true, Limit: 15})
	require.Len(t, res.Headlines, 15)
	assert.Equal(t, "Acme growth 0", res.Headlines[0].Title)
	assert.Equal(t, 20, res.Important)
}

func TestRank_ScanLimit(t *testing.T) {
	hs := feed("plain", "plain", "late growth")
	res := Rank(hs, Options{Keywords: []string{"growth"}, ScanLimit: 2, Limit: 5})
	assert.Zero(t, res.Important)
	assert.Len(t, res.Headlines, 2)
}

func TestRank_DefaultsAndInputUntouched(t *testing.T) {
	var ts []string
	for i := 0; i < 20; i++ {
		ts = append(ts, fmt.Sprintf("story %d", i))
	}
	hs := feed(ts...)
	res := Rank(hs, Options{})
	assert.Len(t, res.Headlines, DefaultLimit)

	res.Headlines[0].Title = "changed"
	assert.Equal(t, "story 0", hs[0].Title)
}

func TestRank_Aggregations(t *testing.T) {
	hs := []model.Headline{
		{Title: "Acme CEO sees growth", Published: "2025-03-03T10:00:00Z"},
		{Title: "Acme merger approved", Published: "2025-03-01T10:00:00Z"},
		{Title: "Acme growth outlook", Published: "2025-03-03T07:00:00Z"},
	}
	res := Rank(hs, Options{
		Subject:          "acme",
		Keywords:         []string{"growth", "Growth"},
		IdentityKeywords: []string{"CEO", "merger"},
		IdentityRequired: true,
	})
	assert.Equal(t, model.KeywordFrequency{"growth": 2, "CEO": 1, "merger": 1}, res.Keywords)
	assert.Equal(t, []model.DateCount{
		{Day: "2025-03-01", Count: 1},
		{Day: "2025-03-03", Count: 2},
	}, res.Dates.Sorted())
}

func TestKeywordFrequency(t *testing.T) {
	freq := KeywordFrequency([]model.Headline{{Title: "CEO resigns"}, {Title: "New CEO appointed"}}, []string{"ceo"})
	assert.Equal(t, 2, freq["ceo"])
	assert.Len(t, freq, 1)
}

func TestDateFrequency_SortedAscending(t *testing.T) {
	hs := []model.Headline{
		{Published: "2025-03-09T10:00:00Z"},
		{Published: "2025-02-28T10:00:00Z"},
		{Published: "2025-03-09T01:00:00Z"},
		{Published: "2024-12-31T23:00:00Z"},
		{Published: ""},
	}
	got := DateFrequency(hs).Sorted()
	assert.Equal(t, []model.DateCount{
		{Day: "2024-12-31", Count: 1},
		{Day: "2025-02-28", Count: 1},
		{Day: "2025-03-09", Count: 2},
	}, got)
}
