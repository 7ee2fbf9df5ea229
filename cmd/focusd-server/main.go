package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"focusd/internal/analyzer"
	"focusd/internal/cache"
	"focusd/internal/config"
	"focusd/internal/llm"
	"focusd/internal/logging"
	"focusd/internal/session"
	"focusd/internal/webui"
)

func main() {
	logger := logging.NewComponentLogger("main")
	logger.Info("starting focusd server...")

	cfg := config.LoadServerConfig()

	// Missing or malformed settings are fatal at startup, never at request
	// time for a domain that was valid here.
	settings, err := config.LoadSettings("")
	if err != nil {
		log.Fatalf("failed to load domain settings: %v", err)
	}
	logger.Info("loaded settings for domains: %v", settings.DomainNames())

	oracle, err := buildOracle(cfg)
	if err != nil {
		log.Fatalf("failed to create oracle client: %v", err)
	}

	results, err := cache.New[analyzer.Result](cfg.CacheMaxSize, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("failed to create result cache: %v", err)
	}

	sessions := session.NewManager()
	core := analyzer.New(settings, oracle, results, sessions, cfg.OracleTimeout)

	serverCfg := webui.DefaultServerConfig()
	serverCfg.Port = cfg.Port
	serverCfg.Debug = cfg.Debug

	server := webui.NewServer(core, results, serverCfg)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if err := server.Stop(); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}

// buildOracle assembles the retrying HTTP oracle client from configuration.
func buildOracle(cfg config.ServerConfig) (llm.Client, error) {
	httpClient, err := llm.NewHTTPClient(llm.HTTPClientConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.OracleTimeout,
	})
	if err != nil {
		return nil, err
	}
	return llm.NewRetryClient(httpClient, llm.DefaultRetryConfig()), nil
}
