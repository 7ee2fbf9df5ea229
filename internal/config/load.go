package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// LoadSettings reads the domain settings file. A missing or malformed file is
// a fatal startup condition for the caller; no per-request fallback exists.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		path = os.Getenv("FOCUSD_SETTINGS")
	}
	if path == "" {
		path = "settings.json"
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}

	if len(settings.Domains) == 0 {
		return nil, fmt.Errorf("settings file %s defines no domains", path)
	}
	for name, ds := range settings.Domains {
		if len(ds.AllowedPlatforms) == 0 && len(ds.BlockedSpecific) == 0 && len(ds.BlockedKeywords) == 0 {
			return nil, fmt.Errorf("settings file %s: domain %q has no rules", path, name)
		}
	}

	return &settings, nil
}

// LoadServerConfig assembles the server runtime configuration from the
// environment, falling back to defaults for anything unset.
func LoadServerConfig() ServerConfig {
	cfg := ServerConfig{
		Port:          getEnv("FOCUSD_PORT", DefaultPort),
		APIKey:        os.Getenv("FOCUSD_API_KEY"),
		BaseURL:       getEnv("FOCUSD_BASE_URL", DefaultLLMBaseURL),
		Model:         getEnv("FOCUSD_MODEL", DefaultLLMModel),
		OracleTimeout: DefaultOracleTimeout,
		CacheTTL:      DefaultCacheTTL,
		CacheMaxSize:  DefaultCacheMaxSize,
		Debug:         os.Getenv("FOCUSD_DEBUG") == "true",
	}

	if raw := os.Getenv("FOCUSD_ORACLE_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.OracleTimeout = d
		}
	}
	if raw := os.Getenv("FOCUSD_CACHE_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			cfg.CacheMaxSize = n
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
