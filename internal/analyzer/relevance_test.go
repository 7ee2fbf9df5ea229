package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusd/internal/session"
)

func contextWith(t *testing.T, pairs ...[2]string) *session.TaskContext {
	t.Helper()
	tc := session.NewTaskContext()
	for _, p := range pairs {
		require.NoError(t, tc.Add(p[0], p[1]))
	}
	return tc
}

func TestScoreRelevanceEmptyContext(t *testing.T) {
	tc := session.NewTaskContext()
	signals := ExtractSignals("https://example.com/budget")

	result := ScoreRelevance("https://example.com/budget", signals, tc)

	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.MatchedTerms)
	assert.Empty(t, result.Matches)
}

func TestScoreRelevanceNilContext(t *testing.T) {
	signals := ExtractSignals("https://example.com/")
	result := ScoreRelevance("https://example.com/", signals, nil)
	assert.Equal(t, 0.0, result.Score)
}

func TestScoreRelevanceURLMatch(t *testing.T) {
	tc := contextWith(t, [2]string{"What are you working on?", "quarterly budget report"})
	url := "https://example.com/docs/budget-report-2026"
	signals := ExtractSignals(url)

	result := ScoreRelevance(url, signals, tc)

	// "budget" matches the URL as a single token.
	assert.Contains(t, result.MatchedTerms, "budget")
	assert.Greater(t, result.Score, 0.0)
	for _, m := range result.Matches {
		assert.Equal(t, LocationURL, m.Location)
		assert.Equal(t, 0.3, m.Weight)
	}
}

func TestScoreRelevanceMultiWordSpan(t *testing.T) {
	tc := contextWith(t, [2]string{"Task?", "reading about budget report strategy"})
	url := "https://www.google.com/search?q=budget+report+template"
	signals := ExtractSignals(url)

	result := ScoreRelevance(url, signals, tc)

	// The 2-token span matches inside the decoded search query.
	assert.Contains(t, result.MatchedTerms, "budget report")
}

func TestScoreRelevanceSearchQueryWeight(t *testing.T) {
	tc := contextWith(t, [2]string{"Task?", "golang concurrency patterns"})
	url := "https://www.google.com/search?q=golang+concurrency"
	signals := ExtractSignals(url)

	result := ScoreRelevance(url, signals, tc)

	// "golang" hits both the raw URL (0.3) and the decoded query (0.5);
	// "concurrency" likewise. Clamped at 1.0.
	assert.Equal(t, 1.0, result.Score)

	var queryMatches int
	for _, m := range result.Matches {
		if m.Location == LocationSearchQuery {
			queryMatches++
			assert.Equal(t, 0.5, m.Weight)
		}
	}
	assert.Greater(t, queryMatches, 0)
}

func TestScoreRelevanceScoreBounds(t *testing.T) {
	tc := contextWith(t, [2]string{"Task?", "go go-test go-test-a go-test-b go-test-c go-test-d"})
	url := "https://example.com/go-test-a/go-test-b/go-test-c/go-test-d"
	signals := ExtractSignals(url)

	result := ScoreRelevance(url, signals, tc)

	assert.LessOrEqual(t, result.Score, 1.0)
	assert.GreaterOrEqual(t, result.Score, 0.0)
}

func TestScoreRelevanceShortTokensDropped(t *testing.T) {
	// Tokens of length <= 2 never become candidate terms on their own.
	tc := contextWith(t, [2]string{"Task?", "go is ok"})
	url := "https://example.com/?q=go+is+ok"
	signals := ExtractSignals(url)

	result := ScoreRelevance(url, signals, tc)

	assert.NotContains(t, result.MatchedTerms, "go")
	assert.NotContains(t, result.MatchedTerms, "is")
	assert.NotContains(t, result.MatchedTerms, "ok")
	// Multi-token spans like "go is" are long enough and match the
	// decoded search query.
	assert.Contains(t, result.MatchedTerms, "go is")
}

func TestScoreRelevancePunctuationStripped(t *testing.T) {
	tc := contextWith(t, [2]string{"Task?", "Writing essays, research!"})
	url := "https://example.com/research/essays"
	signals := ExtractSignals(url)

	result := ScoreRelevance(url, signals, tc)

	assert.Contains(t, result.MatchedTerms, "essays")
	assert.Contains(t, result.MatchedTerms, "research")
}

func TestScoreRelevanceTermCountedOncePerLocation(t *testing.T) {
	tc := contextWith(t, [2]string{"Task?", "budget planning"})
	// "budget" appears twice in the URL; it still contributes 0.3 once.
	url := "https://example.com/budget/budget"
	signals := ExtractSignals(url)

	result := ScoreRelevance(url, signals, tc)

	urlWeight := 0.0
	for _, m := range result.Matches {
		if m.Term == "budget" && m.Location == LocationURL {
			urlWeight += m.Weight
		}
	}
	assert.InDelta(t, 0.3, urlWeight, 1e-9)
}

func TestScoreRelevanceVeryShortAnswer(t *testing.T) {
	// Fewer than 3 tokens produces no 3-token spans; that is expected.
	tc := contextWith(t, [2]string{"Task?", "essay"})
	url := "https://example.com/essay"
	signals := ExtractSignals(url)

	result := ScoreRelevance(url, signals, tc)

	assert.Equal(t, []string{"essay"}, result.MatchedTerms)
	assert.InDelta(t, 0.3, result.Score, 1e-9)
}

func TestScoreRelevanceGoogleDocsScenario(t *testing.T) {
	// Context terms do not appear in the opaque spreadsheet URL: score 0.
	tc := contextWith(t, [2]string{"What are you working on?", "quarterly budget report in excel"})
	url := "https://docs.google.com/spreadsheets/d/xyz"
	signals := ExtractSignals(url)

	result := ScoreRelevance(url, signals, tc)

	assert.Equal(t, 0.0, result.Score)
	assert.Empty(t, result.MatchedTerms)
	assert.Equal(t, CategoryDocumentation, signals.DomainCategory)
}
