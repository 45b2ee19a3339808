package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taxmeter/internal/api"
	"taxmeter/internal/config"
	"taxmeter/internal/estimate"
	"taxmeter/internal/metrics"
	"taxmeter/internal/model"
	"taxmeter/internal/series"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (defaults to $CONFIG_PATH)")
	flag.Parse()

	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Couldn't read .env: %v", err)
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := series.NewStore()
	ingester := cfg.Ingester()

	initial, source, err := ingester.Load(ctx)
	if err != nil {
		var schemaErr *model.SchemaError
		if !errors.As(err, &schemaErr) {
			log.Fatalf("Failed to ingest receipts: %v", err)
		}
		// Data-quality failure: serve the empty series rather than exit.
		log.Printf("[Ingest] Schema error, serving empty series: %v", err)
		initial = model.Series{}
	}
	if _, err := store.Publish(initial, source); err != nil {
		log.Fatalf("Failed to publish series: %v", err)
	}

	if cfg.Data.RefreshInterval > 0 {
		go series.RunRefresher(ctx, store, ingester.Load, cfg.Data.RefreshInterval)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		Store:      store,
		Assembler:  estimate.NewAssembler(nil),
		Estimation: cfg.Estimation,
		Unit:       cfg.Unit(),
		Load:       ingester.Reload,
		StaticDir:  cfg.Server.StaticDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown: %v", err)
		}
	}()

	log.Printf("Starting API server on %s (method=%s anchor=%s)", srv.Addr, cfg.Estimation.Method, cfg.Estimation.Anchor)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
