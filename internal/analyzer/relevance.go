package analyzer

import (
	"strings"

	"focusd/internal/session"
)

const (
	urlMatchWeight   = 0.3
	queryMatchWeight = 0.5
	minTermLength    = 3
)

// ScoreRelevance computes how relevant a URL is to the accumulated task
// context. Deterministic given the context contents; an empty context yields
// a zero score with empty matches rather than an error.
func ScoreRelevance(rawURL string, signals UrlSignals, tc *session.TaskContext) RelevanceResult {
	result := RelevanceResult{
		MatchedTerms: []string{},
		Matches:      []Match{},
	}
	if tc.Empty() {
		return result
	}

	terms := contextTerms(tc)
	if len(terms) == 0 {
		return result
	}

	urlLower := strings.ToLower(rawURL)
	matchedSet := make(map[string]bool)

	for _, term := range terms {
		if strings.Contains(urlLower, term) {
			result.Score += urlMatchWeight
			result.Matches = append(result.Matches, Match{Term: term, Location: LocationURL, Weight: urlMatchWeight})
			if !matchedSet[term] {
				matchedSet[term] = true
				result.MatchedTerms = append(result.MatchedTerms, term)
			}
		}
	}

	if signals.SearchQuery != "" {
		decodedQuery := strings.ToLower(decodeQueryValue(signals.SearchQuery))
		for _, term := range terms {
			if strings.Contains(decodedQuery, term) {
				result.Score += queryMatchWeight
				result.Matches = append(result.Matches, Match{Term: term, Location: LocationSearchQuery, Weight: queryMatchWeight})
				if !matchedSet[term] {
					matchedSet[term] = true
					result.MatchedTerms = append(result.MatchedTerms, term)
				}
			}
		}
	}

	if result.Score > 1.0 {
		result.Score = 1.0
	}
	return result
}

// contextTerms builds the deduplicated candidate term set from every answer:
// all 1-, 2- and 3-consecutive-token spans longer than two characters, with
// tokens lowercased and stripped of surrounding punctuation.
func contextTerms(tc *session.TaskContext) []string {
	seen := make(map[string]bool)
	var terms []string

	add := func(term string) {
		if len(term) < minTermLength {
			return
		}
		if seen[term] {
			return
		}
		seen[term] = true
		terms = append(terms, term)
	}

	for _, answer := range tc.Answers() {
		tokens := tokenize(answer)
		for i := range tokens {
			add(tokens[i])
			if i+1 < len(tokens) {
				add(tokens[i] + " " + tokens[i+1])
			}
			if i+2 < len(tokens) {
				add(tokens[i] + " " + tokens[i+1] + " " + tokens[i+2])
			}
		}
	}
	return terms
}

// tokenize splits an answer on whitespace, strips the punctuation set
// `.,?!` and lowercases. Empty results are dropped.
func tokenize(answer string) []string {
	fields := strings.Fields(answer)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		token := strings.ToLower(strings.Trim(f, ".,?!"))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
