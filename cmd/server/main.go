package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/simbatda/backend/config"
	httpDelivery "github.com/simbatda/backend/internal/delivery/http"
	"github.com/simbatda/backend/internal/domain"
	"github.com/simbatda/backend/internal/infrastructure/bunjang"
	"github.com/simbatda/backend/internal/infrastructure/credentials"
	"github.com/simbatda/backend/internal/infrastructure/exaone"
	"github.com/simbatda/backend/internal/infrastructure/joongna"
	"github.com/simbatda/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Simbatda Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Tag strategy: %s", cfg.Tagging.Strategy)

	// Optional credential store; connectors run anonymously without it
	var tokens domain.TokenSource
	if cfg.Database.URL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to credential store: %v", err)
		}
		defer pool.Close()
		tokens = credentials.NewStore(pool)
		log.Printf("Credential store enabled")
	} else {
		log.Printf("Credential store disabled; scraping anonymously")
	}

	// Initialize infrastructure dependencies
	bunjangClient := bunjang.NewClient(cfg.Bunjang.BaseURL, cfg.Bunjang.Timeout, tokens)
	joongnaClient := joongna.NewClient(
		cfg.Joongna.SearchBaseURL,
		cfg.Joongna.WebBaseURL,
		cfg.Joongna.BuildID,
		cfg.Joongna.Timeout,
	)
	log.Printf("Joongna build id: %s", cfg.Joongna.BuildID)

	var generator domain.TagGenerator
	if cfg.Tagging.Strategy == usecase.StrategyGenerative {
		generator = exaone.NewClient(cfg.Tagging.BaseURL, cfg.Tagging.Model, cfg.Tagging.Timeout)
		log.Printf("Tag model: %s at %s", cfg.Tagging.Model, cfg.Tagging.BaseURL)
	}

	// Initialize usecase layer
	tagService := usecase.NewTagService(cfg.Tagging.Strategy, generator)
	searchService := usecase.NewSearchService(
		[]domain.Connector{
			bunjang.NewConnector(bunjangClient),
			joongna.NewConnector(joongnaClient),
		},
		tagService,
		usecase.SearchServiceConfig{
			DetailConcurrency: cfg.Search.DetailConcurrency,
		},
	)
	log.Printf("Detail fan-out concurrency: %d", cfg.Search.DetailConcurrency)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
