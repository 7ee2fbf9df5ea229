package analyzer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusd/internal/cache"
	"focusd/internal/config"
	"focusd/internal/llm"
	"focusd/internal/session"
)

func testSettings() *config.Settings {
	return &config.Settings{
		Domains: map[string]config.DomainSettings{
			"work": {
				AllowedPlatforms: map[string][]string{
					"productivity_tools": {"notion.so"},
				},
				BlockedSpecific: []string{"facebook.com"},
				BlockedKeywords: []string{"game"},
			},
			"school": {
				AllowedPlatforms: map[string][]string{
					"lms_platforms": {"canvas"},
				},
				BlockedSpecific: []string{"tiktok.com"},
				BlockedKeywords: []string{"unblocked"},
			},
		},
	}
}

func newTestAnalyzer(t *testing.T, oracle llm.Client) (*Analyzer, *cache.ResultCache[Result]) {
	t.Helper()
	results, err := cache.New[Result](100, time.Minute)
	require.NoError(t, err)
	return New(testSettings(), oracle, results, session.NewManager(), 5*time.Second), results
}

func TestAnalyzeInputValidation(t *testing.T) {
	a, _ := newTestAnalyzer(t, &llm.MockClient{})

	_, err := a.Analyze(context.Background(), Request{Domain: "work"})
	assert.ErrorIs(t, err, ErrMissingURL)

	_, err = a.Analyze(context.Background(), Request{URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrMissingDomain)

	_, err = a.Analyze(context.Background(), Request{URL: "https://example.com", Domain: "gaming"})
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestAnalyzeDefaultBlockWithEmptyContext(t *testing.T) {
	oracle := &llm.MockClient{}
	a, _ := newTestAnalyzer(t, oracle)

	result, err := a.Analyze(context.Background(), Request{
		URL:       "https://example.com/random",
		Domain:    "work",
		SessionID: "s1",
	})
	require.NoError(t, err)

	assert.False(t, result.IsProductive)
	assert.Contains(t, result.Explanation, "Low relevance")
	assert.Equal(t, 0.0, result.ContextRelevance.Score)
	assert.NotNil(t, result.ContextUsed)
	assert.True(t, result.ContextUsed.Empty())
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
	assert.Zero(t, oracle.CallCount())
}

func TestAnalyzeAllowedPlatform(t *testing.T) {
	a, _ := newTestAnalyzer(t, &llm.MockClient{})

	result, err := a.Analyze(context.Background(), Request{
		URL:       "https://www.notion.so/workspace/page",
		Domain:    "work",
		SessionID: "s1",
	})
	require.NoError(t, err)

	assert.True(t, result.IsProductive)
	assert.Equal(t, "Explicitly allowed platform", result.Explanation)
}

func TestAnalyzeCacheHitSameSession(t *testing.T) {
	oracle := &llm.MockClient{Responses: []string{"ALLOW: related"}}
	a, _ := newTestAnalyzer(t, oracle)

	tc := session.NewTaskContext()
	require.NoError(t, tc.Add("Task?", "researching tutorial content"))

	req := Request{
		URL:       "https://example.com/tutorial/content",
		Domain:    "work",
		SessionID: "s1",
		Context:   tc,
	}

	first, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	callsAfterFirst := oracle.CallCount()

	second, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.IsProductive, second.IsProductive)
	assert.Equal(t, first.Explanation, second.Explanation)
	// The cached result is served without another oracle call.
	assert.Equal(t, callsAfterFirst, oracle.CallCount())
}

func TestAnalyzeCacheMissDifferentSession(t *testing.T) {
	a, results := newTestAnalyzer(t, &llm.MockClient{})

	req := Request{URL: "https://example.com/x", Domain: "work", SessionID: "s1"}
	_, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)

	_, hit := results.Get(req.URL, req.Domain, "s1")
	assert.True(t, hit)
	_, hit = results.Get(req.URL, req.Domain, "other-session")
	assert.False(t, hit)

	req.SessionID = "other-session"
	result, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Cached)
}

func TestAnalyzeShortQueryGuard(t *testing.T) {
	oracle := &llm.MockClient{}
	a, _ := newTestAnalyzer(t, oracle)

	result, err := a.Analyze(context.Background(), Request{
		URL:       "https://www.google.com/search?q=un",
		Domain:    "school",
		SessionID: "s1",
		Referrer:  "https://www.google.com/search?q=un",
	})
	require.NoError(t, err)

	assert.False(t, result.IsProductive)
	assert.True(t, result.SearchQueryBlocked)
	assert.Contains(t, result.Explanation, "too vague")
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
	// The guard fires before any oracle involvement.
	assert.Zero(t, oracle.CallCount())
}

func TestAnalyzeShortQueryGuardPrecedesAllowList(t *testing.T) {
	oracle := &llm.MockClient{}
	a, _ := newTestAnalyzer(t, oracle)

	// canvas is allow-listed for school, but the guard runs first.
	result, err := a.Analyze(context.Background(), Request{
		URL:       "https://canvas.example.edu/search?q=ai",
		Domain:    "school",
		SessionID: "s1",
		Referrer:  "https://www.google.com/search?q=ai",
	})
	require.NoError(t, err)

	assert.False(t, result.IsProductive)
	assert.True(t, result.SearchQueryBlocked)
}

func TestAnalyzeLowRelevanceReferrerGuard(t *testing.T) {
	oracle := &llm.MockClient{}
	a, _ := newTestAnalyzer(t, oracle)

	tc := session.NewTaskContext()
	require.NoError(t, tc.Add("What are you working on?", "quarterly budget report"))

	result, err := a.Analyze(context.Background(), Request{
		URL:       "https://someblog.example.com/posts/cooking",
		Domain:    "work",
		SessionID: "s1",
		Context:   tc,
		Referrer:  "https://www.google.com/search?q=best+pasta+recipes",
	})
	require.NoError(t, err)

	assert.False(t, result.IsProductive)
	assert.True(t, result.SearchQueryBlocked)
	assert.Contains(t, result.Explanation, "low relevance")
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.Zero(t, oracle.CallCount())
}

func TestAnalyzeReferrerGuardSkippedWithoutContext(t *testing.T) {
	// With no task context the low-relevance referrer guard does not apply;
	// the tiered policy decides instead.
	a, _ := newTestAnalyzer(t, &llm.MockClient{})

	result, err := a.Analyze(context.Background(), Request{
		URL:       "https://someblog.example.com/posts/cooking",
		Domain:    "work",
		SessionID: "s1",
		Referrer:  "https://www.google.com/search?q=best+pasta+recipes",
	})
	require.NoError(t, err)

	assert.False(t, result.IsProductive)
	assert.False(t, result.SearchQueryBlocked)
	assert.Contains(t, result.Explanation, "Low relevance")
}

func TestAnalyzeUsesSessionContextWhenRequestOmitsIt(t *testing.T) {
	a, _ := newTestAnalyzer(t, &llm.MockClient{})

	tc := session.NewTaskContext()
	require.NoError(t, tc.Add("Task?", "writing documentation for budget tooling"))
	a.Sessions().Bind("s9", "work", tc)

	result, err := a.Analyze(context.Background(), Request{
		URL:       "https://example.com/budget/tooling",
		Domain:    "work",
		SessionID: "s9",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ContextUsed.Len())
	assert.Greater(t, result.ContextRelevance.Score, 0.0)
}

func TestAnalyzeUnparseableURLDegrades(t *testing.T) {
	a, _ := newTestAnalyzer(t, &llm.MockClient{})

	result, err := a.Analyze(context.Background(), Request{
		URL:       "not-a-url",
		Domain:    "work",
		SessionID: "s1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Signals.ParseError)
	assert.False(t, result.IsProductive)
	assert.NotEmpty(t, result.Explanation)
}

func TestAnalyzeDirectVisitFlagPropagates(t *testing.T) {
	a, _ := newTestAnalyzer(t, &llm.MockClient{})

	result, err := a.Analyze(context.Background(), Request{
		URL:         "https://example.com/x",
		Domain:      "work",
		SessionID:   "s1",
		DirectVisit: true,
	})
	require.NoError(t, err)

	assert.True(t, result.DirectVisit)
	assert.True(t, result.Signals.IsDirectVisit)
	require.NotNil(t, result.ReferrerData)
	assert.True(t, result.ReferrerData.IsDirectVisit)
}
