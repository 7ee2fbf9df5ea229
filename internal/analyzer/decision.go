package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"focusd/internal/config"
	"focusd/internal/llm"
	"focusd/internal/logging"
	"focusd/internal/session"
)

// Borderline band: scores inside it require oracle arbitration, above it the
// URL is auto-allowed, below it the default is to block.
const (
	autoAllowThreshold  = 0.7
	borderlineThreshold = 0.3
)

// DecisionEngine applies the tiered allow/block policy. Deterministic except
// for the borderline oracle path.
type DecisionEngine struct {
	oracle llm.Client
	logger logging.Logger
}

// NewDecisionEngine creates a decision engine backed by an oracle for
// borderline arbitration.
func NewDecisionEngine(oracle llm.Client) *DecisionEngine {
	return &DecisionEngine{
		oracle: oracle,
		logger: logging.NewComponentLogger("decision"),
	}
}

// Decide applies the ordered policy, first matching rule wins:
//
//  1. explicit allow-list match for the domain
//  2. high relevance auto-allow (score > 0.7)
//  3. explicitly blocked hostname suffix
//  4. blocked keyword in the URL
//  5. borderline band [0.3, 0.7]: oracle arbitration
//  6. default block (low relevance, no override)
func (e *DecisionEngine) Decide(ctx context.Context, rawURL string, signals UrlSignals, relevance RelevanceResult, settings config.DomainSettings, tc *session.TaskContext) Verdict {
	urlLower := strings.ToLower(rawURL)

	if matchesAllowedPlatform(urlLower, signals.Hostname, settings) {
		return Verdict{IsProductive: true, Explanation: "Explicitly allowed platform"}
	}

	if relevance.Score > autoAllowThreshold {
		return Verdict{
			IsProductive: true,
			Explanation:  fmt.Sprintf("High relevance to current task (score: %.2f)", relevance.Score),
		}
	}

	for _, suffix := range settings.BlockedSpecific {
		if suffix != "" && strings.HasSuffix(signals.Hostname, strings.ToLower(suffix)) {
			return Verdict{
				IsProductive: false,
				Explanation:  fmt.Sprintf("Site is blocked in this domain: %s", suffix),
			}
		}
	}

	for _, keyword := range settings.BlockedKeywords {
		if keyword != "" && strings.Contains(urlLower, strings.ToLower(keyword)) {
			return Verdict{
				IsProductive: false,
				Explanation:  fmt.Sprintf("Contains blocked keyword: %s", keyword),
			}
		}
	}

	if relevance.Score >= borderlineThreshold && relevance.Score <= autoAllowThreshold {
		return e.arbitrate(ctx, rawURL, signals, relevance, tc)
	}

	return Verdict{
		IsProductive: false,
		Explanation:  fmt.Sprintf("Low relevance to current task (score: %.2f)", relevance.Score),
	}
}

// matchesAllowedPlatform checks every configured allow-list category for a
// pattern contained in the hostname or the full URL. This override precedes
// all scoring and block rules.
func matchesAllowedPlatform(urlLower, hostname string, settings config.DomainSettings) bool {
	for _, patterns := range settings.AllowedPlatforms {
		for _, pattern := range patterns {
			p := strings.ToLower(pattern)
			if p == "" {
				continue
			}
			if strings.Contains(hostname, p) || strings.Contains(urlLower, p) {
				return true
			}
		}
	}
	return false
}

// arbitrate asks the oracle for an ALLOW/BLOCK verdict on a borderline URL.
// Any failure, including a malformed response, degrades to a block.
func (e *DecisionEngine) arbitrate(ctx context.Context, rawURL string, signals UrlSignals, relevance RelevanceResult, tc *session.TaskContext) Verdict {
	prompt := arbitrationPrompt(rawURL, signals, relevance, tc)

	response, err := e.oracle.Complete(ctx, prompt)
	if err != nil {
		e.logger.Warn("oracle arbitration failed for %s: %v", rawURL, err)
		return Verdict{
			IsProductive: false,
			Explanation:  "Unable to verify relevance to your task; blocked as a precaution",
		}
	}

	verdictToken, reason, found := strings.Cut(strings.TrimSpace(response), ":")
	if !found {
		e.logger.Warn("malformed oracle verdict for %s: %q", rawURL, response)
		return Verdict{
			IsProductive: false,
			Explanation:  "Could not parse relevance verdict; blocked as a precaution",
		}
	}

	allowed := strings.EqualFold(strings.TrimSpace(verdictToken), "ALLOW")
	return Verdict{
		IsProductive: allowed,
		Explanation:  strings.TrimSpace(reason),
	}
}

func arbitrationPrompt(rawURL string, signals UrlSignals, relevance RelevanceResult, tc *session.TaskContext) string {
	contextJSON, err := json.MarshalIndent(tc, "", "  ")
	if err != nil {
		contextJSON = []byte("{}")
	}

	return fmt.Sprintf(`Analyze if this URL content matches the current task:

CURRENT TASK:
%s

URL Details:
- URL: %s
- Search Query: %s
- Context Match Score: %.2f
- Matched Terms: %s

Rules:
1. URL must be directly related to the current task
2. Content must help complete the specific task
3. Block if content could distract from task

Respond with exactly 'ALLOW' or 'BLOCK' followed by reason.
Format: <ALLOW|BLOCK>: <reason>`,
		string(contextJSON), rawURL, signals.SearchQuery,
		relevance.Score, strings.Join(relevance.MatchedTerms, ", "))
}

// ConfidenceScore computes the advisory confidence metadata: a base of 0.5
// boosted by search/educational signals and capped relevance contribution,
// clamped to 1.0. It is not part of the verdict.
func ConfidenceScore(signals UrlSignals, relevance RelevanceResult) float64 {
	score := 0.5
	if signals.IsSearch {
		score += 0.2
	}
	if signals.IsEducational {
		score += 0.1
	}
	if relevance.Score > 0 {
		contribution := relevance.Score
		if contribution > 0.3 {
			contribution = 0.3
		}
		score += contribution
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
