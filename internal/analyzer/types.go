// Package analyzer implements the context-relevance scoring and decision
// engine behind the focus extension: URL signal extraction, term-matching
// relevance scoring, the tiered allow/block policy with LLM arbitration for
// the borderline band, and the question-generation state machine that builds
// the task context used by scoring.
package analyzer

import (
	"focusd/internal/session"
)

// DomainCategory classifies a hostname into a coarse bucket.
type DomainCategory string

const (
	CategorySearch        DomainCategory = "search"
	CategoryEducational   DomainCategory = "educational"
	CategoryDocumentation DomainCategory = "documentation"
	CategoryProductivity  DomainCategory = "productivity"
	CategoryDevelopment   DomainCategory = "development"
	CategoryGeneral       DomainCategory = "general"
)

// UrlSignals is the derived, immutable record of structural signals for one
// URL. Created fresh per analysis call and never mutated afterwards, except
// for the referrer-derived fields the orchestrator fills in before scoring.
type UrlSignals struct {
	IsSearch           bool           `json:"is_search"`
	IsEducational      bool           `json:"is_educational"`
	IsReference        bool           `json:"is_reference"`
	SearchQuery        string         `json:"search_query,omitempty"`
	DomainCategory     DomainCategory `json:"domain_category"`
	PathSegments       []string       `json:"path_segments"`
	Hostname           string         `json:"hostname"`
	HasBlockedKeywords bool           `json:"has_blocked_keywords"`
	SuspiciousPaths    bool           `json:"suspicious_paths"`

	// ParseError marks signals derived from an unparseable URL. Processing
	// continues with the degraded record instead of aborting.
	ParseError string `json:"error,omitempty"`

	// Referrer-derived signals, present when the request carried them.
	FromSearchEngine bool   `json:"from_search_engine,omitempty"`
	SearchEngine     string `json:"search_engine,omitempty"`
	IsDirectVisit    bool   `json:"is_direct_visit,omitempty"`
}

// MatchLocation names where a context term matched.
type MatchLocation string

const (
	LocationURL         MatchLocation = "url"
	LocationSearchQuery MatchLocation = "search_query"
)

// Match records a single term match with its location and weight.
type Match struct {
	Term     string        `json:"term"`
	Location MatchLocation `json:"location"`
	Weight   float64       `json:"weight"`
}

// RelevanceResult is the outcome of scoring a URL against the task context.
type RelevanceResult struct {
	Score        float64  `json:"score"`
	MatchedTerms []string `json:"matched_terms"`
	Matches      []Match  `json:"matches"`
}

// Verdict is the decision engine's output for one URL.
type Verdict struct {
	IsProductive bool   `json:"isProductive"`
	Explanation  string `json:"explanation"`
}

// ReferrerData summarizes what was learned from the request's referrer.
type ReferrerData struct {
	FromSearchEngine bool   `json:"from_search_engine,omitempty"`
	SearchEngine     string `json:"search_engine,omitempty"`
	SearchQuery      string `json:"search_query,omitempty"`
	IsDirectVisit    bool   `json:"is_direct_visit,omitempty"`
}

// Request is one analysis request as received from the routing layer.
type Request struct {
	URL         string
	Domain      string
	SessionID   string
	Context     *session.TaskContext
	Referrer    string
	DirectVisit bool
}

// Result is the full, always-well-formed analysis result returned to the
// caller. Internal failures surface as IsProductive=false with a
// human-readable explanation, never as a raw error.
type Result struct {
	IsProductive       bool                 `json:"isProductive"`
	Explanation        string               `json:"explanation"`
	Confidence         float64              `json:"confidence"`
	Signals            UrlSignals           `json:"signals"`
	ContextRelevance   RelevanceResult      `json:"context_relevance"`
	ContextUsed        *session.TaskContext `json:"context_used"`
	ReferrerData       *ReferrerData        `json:"referrer_data,omitempty"`
	DirectVisit        bool                 `json:"direct_visit,omitempty"`
	SearchQueryBlocked bool                 `json:"search_query_blocked,omitempty"`
	Cached             bool                 `json:"cached,omitempty"`
}
