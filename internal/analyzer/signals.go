package analyzer

import (
	"net/url"
	"strings"
)

var (
	searchTerms      = []string{"search", "find", "query"}
	searchParamKeys  = []string{"q", "query", "search"}
	educationalTerms = []string{"edu", "learn", "course", "study", "academic", "school"}
	referenceTerms   = []string{"wiki", "docs", "documentation", "reference"}

	blockedURLKeywords = []string{"game", "unblocked", "entertainment", "proxy", "bypass"}
	suspiciousSegments = []string{"games", "unblocked", "bypass", "proxy", "hack"}

	// categoryOrder fixes the priority in which hostname categories are
	// probed; the first matching category wins.
	categoryOrder = []DomainCategory{
		CategorySearch,
		CategoryEducational,
		CategoryDocumentation,
		CategoryProductivity,
		CategoryDevelopment,
	}

	categoryPatterns = map[DomainCategory][]string{
		CategorySearch:        {"search", "find", "query"},
		CategoryEducational:   {"edu", "learn", "course", "study", "academic"},
		CategoryDocumentation: {"docs", "documentation", "reference", "manual"},
		CategoryProductivity:  {"mail", "calendar", "drive", "docs", "sheets"},
		CategoryDevelopment:   {"github", "gitlab", "stackoverflow", "dev"},
	}

	searchEngineHosts = []string{
		"google.com", "bing.com", "duckduckgo.com",
		"yahoo.com", "brave.com", "startpage.com",
	}

	searchQueryParamKeys = []string{"q", "query", "p", "text", "search"}
)

// ExtractSignals derives structural signals from a URL. It is a pure
// function of the URL string and never aborts the caller: unparseable input
// yields a record carrying a parse-error marker instead.
func ExtractSignals(rawURL string) UrlSignals {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		reason := "URL has no hostname"
		if err != nil {
			reason = err.Error()
		}
		return UrlSignals{
			DomainCategory: CategoryGeneral,
			PathSegments:   []string{},
			ParseError:     reason,
		}
	}

	hostname := strings.ToLower(parsed.Host)
	pathLower := strings.ToLower(parsed.Path)
	urlLower := strings.ToLower(rawURL)

	segments := make([]string, 0, 4)
	for _, part := range strings.Split(pathLower, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}

	queryParams := parseQueryParams(parsed.RawQuery)

	signals := UrlSignals{
		IsSearch:       isSearchURL(hostname, pathLower, queryParams),
		IsEducational:  containsAny(hostname, educationalTerms),
		IsReference:    containsAny(hostname, referenceTerms),
		SearchQuery:    extractSearchQuery(queryParams, []string{"q", "query"}),
		DomainCategory: categorizeHostname(hostname),
		PathSegments:   segments,
		Hostname:       hostname,
	}

	signals.HasBlockedKeywords = containsAny(urlLower, blockedURLKeywords)
	for _, segment := range segments {
		for _, keyword := range suspiciousSegments {
			if segment == keyword {
				signals.SuspiciousPaths = true
			}
		}
	}

	return signals
}

// queryParam is a raw key/value pair from the URL query, order preserved and
// value not yet decoded.
type queryParam struct {
	key   string
	value string
}

// parseQueryParams splits a raw query string preserving parameter order.
// Values stay verbatim; decoding happens at comparison time.
func parseQueryParams(rawQuery string) []queryParam {
	if rawQuery == "" {
		return nil
	}
	parts := strings.Split(rawQuery, "&")
	params := make([]queryParam, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		params = append(params, queryParam{key: strings.ToLower(key), value: value})
	}
	return params
}

// extractSearchQuery returns the verbatim value of the first parameter whose
// key is in keys.
func extractSearchQuery(params []queryParam, keys []string) string {
	for _, p := range params {
		for _, k := range keys {
			if p.key == k {
				return p.value
			}
		}
	}
	return ""
}

func isSearchURL(hostname, path string, params []queryParam) bool {
	if containsAny(hostname, searchTerms) || containsAny(path, searchTerms) {
		return true
	}
	for _, p := range params {
		for _, k := range searchParamKeys {
			if p.key == k {
				return true
			}
		}
	}
	return false
}

// categorizeHostname picks the first category whose pattern set matches the
// hostname, defaulting to general.
func categorizeHostname(hostname string) DomainCategory {
	for _, category := range categoryOrder {
		if containsAny(hostname, categoryPatterns[category]) {
			return category
		}
	}
	return CategoryGeneral
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// ParseReferrer inspects a referrer URL for search-engine origin and an
// embedded search query. The query is returned decoded since it only feeds
// term comparison and guard checks, never the signals record.
func ParseReferrer(referrer string) ReferrerData {
	if referrer == "" {
		return ReferrerData{}
	}
	parsed, err := url.Parse(referrer)
	if err != nil || parsed.Host == "" {
		return ReferrerData{}
	}

	host := strings.ToLower(parsed.Host)
	fromSearch := false
	for _, engine := range searchEngineHosts {
		if strings.Contains(host, engine) {
			fromSearch = true
			break
		}
	}
	if !fromSearch {
		return ReferrerData{}
	}

	data := ReferrerData{
		FromSearchEngine: true,
		SearchEngine:     host,
	}
	raw := extractSearchQuery(parseQueryParams(parsed.RawQuery), searchQueryParamKeys)
	if raw != "" {
		data.SearchQuery = decodeQueryValue(raw)
	}
	return data
}

// decodeQueryValue URL-decodes a query value, treating + as space. Undecodable
// input is used as-is.
func decodeQueryValue(value string) string {
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return value
	}
	return decoded
}
