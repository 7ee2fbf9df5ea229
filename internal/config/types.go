package config

import "time"

// Default configuration values.
const (
	DefaultPort          = "5000"
	DefaultLLMModel      = "gemini-2.0-flash"
	DefaultLLMBaseURL    = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultOracleTimeout = 30 * time.Second
	DefaultCacheTTL      = 60 * time.Second
	DefaultCacheMaxSize  = 1000
)

// DomainSettings holds the per-domain (work/school/personal) policy
// configuration consumed by the decision engine. Loaded once at startup and
// read-only afterwards.
type DomainSettings struct {
	// AllowedPlatforms maps a category name (lms_platforms, productivity_tools,
	// ai_tools, ...) to hostname/substring patterns that are always allowed.
	AllowedPlatforms map[string][]string `json:"allowed_platforms" mapstructure:"allowed_platforms"`
	// BlockedSpecific lists hostname suffixes that are always blocked.
	BlockedSpecific []string `json:"blocked_specific" mapstructure:"blocked_specific"`
	// BlockedKeywords lists URL substrings that are always blocked.
	BlockedKeywords []string `json:"blocked_keywords" mapstructure:"blocked_keywords"`
}

// Settings is the full settings file content: one DomainSettings per domain.
type Settings struct {
	Domains map[string]DomainSettings `json:"domains" mapstructure:"domains"`
}

// DomainNames returns the configured domain names.
func (s *Settings) DomainNames() []string {
	names := make([]string, 0, len(s.Domains))
	for name := range s.Domains {
		names = append(names, name)
	}
	return names
}

// Domain returns the settings for a domain and whether it exists.
func (s *Settings) Domain(name string) (DomainSettings, bool) {
	ds, ok := s.Domains[name]
	return ds, ok
}

// ServerConfig holds runtime configuration for the server process.
type ServerConfig struct {
	Port          string
	APIKey        string
	BaseURL       string
	Model         string
	OracleTimeout time.Duration
	CacheTTL      time.Duration
	CacheMaxSize  int
	Debug         bool
}
