package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"focusd/internal/cache"
	"focusd/internal/config"
	"focusd/internal/llm"
	"focusd/internal/logging"
	"focusd/internal/session"
)

// Input validation errors, reported to the caller as client errors.
var (
	ErrMissingURL    = errors.New("url is required")
	ErrMissingDomain = errors.New("domain is required")
	ErrUnknownDomain = errors.New("unknown domain")
)

// Guard thresholds for search-engine-referred navigations.
const (
	minSearchQueryLength   = 3
	referrerRelevanceFloor = 0.4
)

// Analyzer orchestrates one analysis request: cache lookup, signal
// extraction, referrer guard, relevance scoring, the tiered decision policy
// and the cache write. It is safe for concurrent use.
type Analyzer struct {
	settings  *config.Settings
	engine    *DecisionEngine
	questions *QuestionGenerator
	results   *cache.ResultCache[Result]
	sessions  *session.Manager
	logger    logging.Logger

	// group collapses concurrent identical requests so a burst of
	// navigations to the same URL triggers at most one oracle call.
	group singleflight.Group

	oracleTimeout time.Duration
}

// New creates an analyzer.
func New(settings *config.Settings, oracle llm.Client, results *cache.ResultCache[Result], sessions *session.Manager, oracleTimeout time.Duration) *Analyzer {
	if oracleTimeout <= 0 {
		oracleTimeout = config.DefaultOracleTimeout
	}
	return &Analyzer{
		settings:      settings,
		engine:        NewDecisionEngine(oracle),
		questions:     NewQuestionGenerator(oracle),
		results:       results,
		sessions:      sessions,
		logger:        logging.NewComponentLogger("analyzer"),
		oracleTimeout: oracleTimeout,
	}
}

// Sessions exposes the session manager for the transport layer.
func (a *Analyzer) Sessions() *session.Manager {
	return a.sessions
}

// NextQuestion proxies to the question generator.
func (a *Analyzer) NextQuestion(ctx context.Context, domain string, history []session.QA) (string, bool) {
	return a.questions.NextQuestion(ctx, domain, history)
}

// Analyze classifies one URL. It returns an error only for invalid input;
// every internal failure is absorbed into a well-formed Result.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.URL) == "" {
		return Result{}, ErrMissingURL
	}
	if strings.TrimSpace(req.Domain) == "" {
		return Result{}, ErrMissingDomain
	}
	settings, ok := a.settings.Domain(req.Domain)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownDomain, req.Domain)
	}

	if cached, hit := a.results.Get(req.URL, req.Domain, req.SessionID); hit {
		a.logger.Debug("cache hit for %s", req.URL)
		cached.Cached = true
		return cached, nil
	}

	flightKey := req.URL + "\x00" + req.Domain + "\x00" + req.SessionID
	value, err, shared := a.group.Do(flightKey, func() (any, error) {
		if cached, hit := a.results.Get(req.URL, req.Domain, req.SessionID); hit {
			cached.Cached = true
			return cached, nil
		}

		result := a.analyze(ctx, req, settings)

		// A canceled request must not write a cache entry.
		if ctx.Err() == nil {
			a.results.Put(req.URL, req.Domain, req.SessionID, result)
		}
		return result, nil
	})
	if err != nil {
		// The flight function never returns an error; keep the contract
		// of a well-formed result anyway.
		return Result{
			IsProductive: false,
			Explanation:  fmt.Sprintf("Error analyzing URL: %v", err),
		}, nil
	}
	result := value.(Result)
	if shared {
		a.logger.Debug("deduplicated concurrent analysis for %s", req.URL)
	}
	return result, nil
}

// analyze performs the actual pipeline for a cache miss.
func (a *Analyzer) analyze(ctx context.Context, req Request, settings config.DomainSettings) Result {
	tc := req.Context
	if tc == nil || tc.Empty() {
		tc = a.sessions.Context(req.SessionID)
	}

	signals := ExtractSignals(req.URL)
	if signals.ParseError != "" {
		a.logger.Warn("degraded signals for %s: %s", req.URL, signals.ParseError)
	}

	referrer := ParseReferrer(req.Referrer)
	referrer.IsDirectVisit = req.DirectVisit
	signals.IsDirectVisit = req.DirectVisit
	if referrer.FromSearchEngine {
		signals.FromSearchEngine = true
		signals.SearchEngine = referrer.SearchEngine
		if signals.SearchQuery == "" && referrer.SearchQuery != "" {
			signals.SearchQuery = referrer.SearchQuery
		}
	}

	relevance := ScoreRelevance(req.URL, signals, tc)

	base := Result{
		Signals:          signals,
		ContextRelevance: relevance,
		ContextUsed:      tc,
		DirectVisit:      req.DirectVisit,
	}
	if referrer.FromSearchEngine || referrer.IsDirectVisit {
		r := referrer
		base.ReferrerData = &r
	}

	// Short-query guard: search-engine referrals with vague queries are
	// blocked before the tiered policy runs.
	if referrer.FromSearchEngine && referrer.SearchQuery != "" {
		query := strings.TrimSpace(referrer.SearchQuery)
		if len(query) < minSearchQueryLength {
			base.IsProductive = false
			base.Explanation = fmt.Sprintf("Search query %q is too vague to determine relevance to your task.", referrer.SearchQuery)
			base.Confidence = 0.8
			base.SearchQueryBlocked = true
			return base
		}
		if !tc.Empty() && relevance.Score < referrerRelevanceFloor {
			base.IsProductive = false
			base.Explanation = fmt.Sprintf("Search query %q has low relevance to your current task.", referrer.SearchQuery)
			base.Confidence = 0.7
			base.SearchQueryBlocked = true
			return base
		}
	}

	oracleCtx, cancel := context.WithTimeout(ctx, a.oracleTimeout)
	defer cancel()
	verdict := a.engine.Decide(oracleCtx, req.URL, signals, relevance, settings, tc)

	base.IsProductive = verdict.IsProductive
	base.Explanation = verdict.Explanation
	base.Confidence = ConfidenceScore(signals, relevance)
	return base
}
