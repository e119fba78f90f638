package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"dormhop/backend/config"
	"dormhop/backend/pkg/features"
	applogger "dormhop/backend/pkg/logger"
)

type dormFeatures struct {
	Dorm     string   `json:"dorm"`
	Slug     string   `json:"slug"`
	URL      string   `json:"url"`
	Features []string `json:"features"`
	Error    string   `json:"error,omitempty"`
}

func main() {
	out := pflag.StringP("out", "o", "", "write JSON to this file instead of stdout")
	timeout := pflag.Duration("timeout", 10*time.Second, "per-page request timeout")
	userAgent := pflag.String("user-agent", "dormhop-feature-scraper/1.0", "User-Agent header")
	workers := pflag.Int("workers", 4, "concurrent page fetches")
	pflag.Parse()

	logger, err := applogger.NewLogger(&config.LogConfig{Level: "info", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	catalog, err := features.LoadCatalog()
	if err != nil {
		logger.Fatal("failed to load dorm catalog", zap.Error(err))
	}

	results := scrapeAll(context.Background(), features.NewScraper(*timeout, *userAgent), catalog.All(), *workers, logger)

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		logger.Fatal("encode results", zap.Error(err))
	}
	if *out == "" {
		fmt.Println(string(payload))
		return
	}
	if err := os.WriteFile(*out, append(payload, '\n'), 0o644); err != nil {
		logger.Fatal("write output", zap.String("path", *out), zap.Error(err))
	}
	logger.Info("features written", zap.String("path", *out), zap.Int("dorms", len(results)))
}

// scrapeAll fetches every dorm with a bounded worker pool, keeping catalog order
func scrapeAll(ctx context.Context, fetcher features.Fetcher, dorms []features.Dorm, workers int, logger *zap.Logger) []dormFeatures {
	if workers < 1 {
		workers = 1
	}
	results := make([]dormFeatures, len(dorms))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				d := dorms[i]
				res := dormFeatures{Dorm: d.Name, Slug: d.Slug, URL: d.URL, Features: []string{}}
				feats, err := fetcher.Scrape(ctx, d.URL)
				if err != nil {
					logger.Warn("scrape failed", zap.String("dorm", d.Slug), zap.Error(err))
					res.Error = err.Error()
				} else {
					res.Features = feats
				}
				results[i] = res
			}
		}()
	}
	for i := range dorms {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
