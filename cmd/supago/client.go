package main

import (
	"context"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/edgeflare/supago"
	"github.com/edgeflare/supago/pkg/metrics"
)

var metricsWg sync.WaitGroup

// newClient builds the service clients from the loaded config. It exits on
// missing or invalid settings since no command can proceed without them.
func newClient() *supago.Client {
	if cfg == nil {
		log.Fatal("Configuration not loaded")
	}

	url := cfg.Project.URL
	if url == "" {
		url = os.Getenv("SUPABASE_URL")
	}
	key := cfg.Project.Key
	if key == "" {
		key = os.Getenv("SUPABASE_KEY")
	}
	if url == "" || key == "" {
		log.Fatal("Project URL and API key required (config file or SUPABASE_URL / SUPABASE_KEY)")
	}

	if cfg.Metrics.Enabled {
		metrics.StartPrometheusServer(context.Background(), &metricsWg, &metrics.PromServerOpts{
			Addr: cfg.Metrics.ListenAddr,
		})
	}

	client, err := supago.NewClient(supago.Config{
		URL:     url,
		Key:     key,
		Schema:  cfg.Project.Schema,
		Timeout: cfg.Project.Timeout,
	}, newLogger())
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func newLogger() *zap.Logger {
	if logLevel == "none" {
		return zap.NewNop()
	}
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
