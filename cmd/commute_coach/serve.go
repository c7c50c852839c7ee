package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/commute-coach/internal/catalog"
	"github.com/jonathan/commute-coach/internal/fetch"
	"github.com/jonathan/commute-coach/internal/llm"
	"github.com/jonathan/commute-coach/internal/server"
)

var (
	servePort       int
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for building packs, chat intent extraction, watch history, and saved packs.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Use a headless browser for JS-rendered index pages")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Get database URL from environment
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	source, err := buildCatalogSource(ctx)
	if err != nil {
		return err
	}
	if source == nil {
		log.Printf("[serve] no catalog source configured; only inline-candidate builds will work")
	}

	// Chat endpoints need an LLM client; without a key they return an error
	// per request instead of failing startup.
	var llmClient llm.Client
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		llmClient, err = llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
	} else {
		log.Printf("[serve] GEMINI_API_KEY not set; chat endpoints disabled")
	}

	cfg := server.Config{
		Port:        servePort,
		DatabaseURL: databaseURL,
		Source:      source,
		LLMClient:   llmClient,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// buildCatalogSource assembles the candidate source fan-out from environment
// configuration. Returns nil when no source is configured.
func buildCatalogSource(ctx context.Context) (catalog.Source, error) {
	var sources []catalog.Source

	if apiKey := os.Getenv("YOUTUBE_API_KEY"); apiKey != "" {
		yt, err := catalog.NewYouTubeSource(ctx, apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create YouTube source: %w", err)
		}
		sources = append(sources, yt)
	}

	if indexURL := os.Getenv("INDEX_URL"); indexURL != "" {
		fetcher := fetch.NewCachedFetcher(fetch.DefaultCachedFetcherConfig())
		sources = append(sources, catalog.NewIndexSource(indexURL, fetcher, serveUseBrowser))
	}

	switch len(sources) {
	case 0:
		return nil, nil
	case 1:
		return sources[0], nil
	default:
		return catalog.NewMultiSource(sources...), nil
	}
}
