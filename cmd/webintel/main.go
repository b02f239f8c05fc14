package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aluiziolira/go-webintel/cache"
	"github.com/aluiziolira/go-webintel/config"
	"github.com/aluiziolira/go-webintel/crawl"
	"github.com/aluiziolira/go-webintel/enrich"
	"github.com/aluiziolira/go-webintel/fetch"
	"github.com/aluiziolira/go-webintel/models"
	"github.com/aluiziolira/go-webintel/pipeline"
	"github.com/aluiziolira/go-webintel/platform"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	defaultCfg := config.DefaultConfig()
	pagesDefault := defaultCfg.CrawlMaxPages
	if value, ok, err := config.EnvInt("WEBINTEL_PAGES"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid WEBINTEL_PAGES: %v\n", err)
		os.Exit(1)
	} else if ok {
		pagesDefault = value
	}
	outputDefault := defaultCfg.OutputFile
	if value, ok := config.EnvString("WEBINTEL_OUTPUT"); ok {
		outputDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("WEBINTEL_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	mode := flag.String("mode", "enrich", "Operation: detect, scrape, crawl, or enrich")
	targetURL := flag.String("url", "", "Target website URL")
	company := flag.String("company", "", "Company name (enrich mode)")
	linkedinURL := flag.String("linkedin", "", "Company LinkedIn page URL (enrich mode)")
	industry := flag.String("industry", "", "Company industry hint (enrich mode)")
	deep := flag.Bool("deep", false, "Use the sitemap-seeded deep crawl strategy (crawl mode)")
	maxPages := flag.Int("pages", pagesDefault, "Maximum pages per crawl")
	maxDepth := flag.Int("depth", defaultCfg.CrawlMaxDepth, "Maximum link depth for deep crawls")
	outputFile := flag.String("output", outputDefault, "Catalog output file path (scrape mode)")
	outputFormat := flag.String("format", defaultCfg.OutputFormat, "Catalog output format: csv, json, or dual")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.CrawlMaxPages = *maxPages
	cfg.CrawlMaxDepth = *maxDepth
	cfg.OutputFile = *outputFile
	cfg.OutputFormat = strings.ToLower(*outputFormat)
	cfg.Verbose = *verbose
	cfg.MetricsAddr = *metricsAddr
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	if *mode != "enrich" || *targetURL != "" {
		if err := config.ValidateTarget(*targetURL); err != nil {
			slog.Error("invalid target", slog.Any("error", err))
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, waiting for in-flight work to finish")
	}()

	fetcher := fetch.NewFetcher(cfg)
	pages := cache.NewPages(fetcher, cfg)

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && fetcher.Metrics != nil {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(fetcher.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	var err error
	switch *mode {
	case "detect":
		err = runDetect(ctx, fetcher, *targetURL)
	case "scrape":
		err = runScrape(ctx, cfg, fetcher, *targetURL)
	case "crawl":
		err = runCrawl(ctx, cfg, fetcher, pages, *targetURL, *deep)
	case "enrich":
		err = runEnrich(ctx, cfg, fetcher, pages, models.CompanyProfile{
			Name:        *company,
			Website:     *targetURL,
			LinkedInURL: *linkedinURL,
			Industry:    *industry,
		})
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if shutdownErr := metricsServer.Shutdown(shutdownCtx); shutdownErr != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", shutdownErr))
		}
		cancel()
	}

	if err != nil {
		slog.Error("run failed", slog.String("mode", *mode), slog.Any("error", err))
		os.Exit(1)
	}
}

func runDetect(ctx context.Context, fetcher *fetch.Fetcher, targetURL string) error {
	detected := platform.Detect(ctx, fetcher, targetURL)
	fmt.Printf("Platform: %s\n", detected)
	return nil
}

func runScrape(ctx context.Context, cfg *config.Config, fetcher *fetch.Fetcher, targetURL string) error {
	detected := platform.Detect(ctx, fetcher, targetURL)
	if detected == platform.None {
		return fmt.Errorf("no supported platform detected at %s", targetURL)
	}
	slog.Info("starting platform scrape",
		slog.String("platform", string(detected)),
		slog.String("url", targetURL),
		slog.Int("max_pages", cfg.PlatformMaxPages),
	)

	writer, err := pipeline.NewWriter(cfg)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if err := writer.Close(); err != nil {
			slog.Error("close writer", slog.Any("error", err))
		}
	}()

	p := pipeline.NewPipeline(writer, cfg)
	p.Start(1)
	if cfg.Verbose {
		p.StartMetricsReporting(10 * time.Second)
	}

	startTime := time.Now()
	data := platform.NewScraper(cfg, fetcher).Scrape(ctx, detected, targetURL, cfg.PlatformMaxPages, cfg.PlatformTimeout)
	if err := p.Process(data.Products); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := p.Close(); err != nil {
		return fmt.Errorf("pipeline shutdown: %w", err)
	}
	if len(data.Products) > 0 {
		if err := writer.Validate(); err != nil {
			return fmt.Errorf("output validation: %w", err)
		}
	}

	fmt.Println(platform.Summary(data))
	printScrapeSummary(p.GetMetrics(), time.Since(startTime), cfg.OutputFile)
	return nil
}

func runCrawl(ctx context.Context, cfg *config.Config, fetcher *fetch.Fetcher, pages *cache.Pages, targetURL string, deep bool) error {
	crawler := crawl.New(cfg, fetcher, pages)

	var result models.CrawlResult
	if deep {
		result = crawler.Deep(ctx, targetURL, cfg.CrawlMaxPages, cfg.CrawlMaxDepth)
	} else {
		result = crawler.Shallow(ctx, targetURL, cfg.CrawlMaxPages)
	}
	if result.CombinedText == "" {
		return fmt.Errorf("crawl yielded no content for %s", targetURL)
	}

	fmt.Println(result.CombinedText)
	fmt.Printf("\n--- %d pages ---\n", len(result.Sources))
	for _, source := range result.Sources {
		fmt.Printf("  %s\n", source.URL)
	}
	return nil
}

func runEnrich(ctx context.Context, cfg *config.Config, fetcher *fetch.Fetcher, pages *cache.Pages, profile models.CompanyProfile) error {
	if profile.Name == "" && profile.Website == "" {
		return fmt.Errorf("enrich mode needs -company or -url")
	}

	gatherer := enrich.NewGatherer(cfg, fetcher, pages)
	intel := gatherer.Gather(ctx, profile)
	fmt.Println(gatherer.Summary(intel, profile))
	return nil
}

func printScrapeSummary(metrics map[string]interface{}, duration time.Duration, outputFile string) {
	separator := "--------------------------------------------------"
	fmt.Println(separator)
	fmt.Println("Scrape complete")

	totalItems := int64(0)
	if processed, ok := metrics["processed_products"].(int64); ok {
		totalItems = processed
	}
	itemsPerSec := 0.0
	if duration.Seconds() > 0 {
		itemsPerSec = float64(totalItems) / duration.Seconds()
	}

	fmt.Printf("  Total items:   %d\n", totalItems)
	if valErrors, ok := metrics["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Printf("  Validation:    %v\n", valErrors)
	}
	fmt.Printf("  Duration:      %v\n", duration)
	fmt.Printf("  Items/sec:     %.2f\n", itemsPerSec)
	fmt.Printf("  Output file:   %s\n", outputFile)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
