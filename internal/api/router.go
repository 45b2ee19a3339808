// Package api assembles the HTTP surface of the meter.
package api

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"taxmeter/internal/api/handlers"
	"taxmeter/internal/api/middleware"
	"taxmeter/internal/api/models"
	"taxmeter/internal/estimate"
	"taxmeter/internal/model"
	"taxmeter/internal/series"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries everything the router needs.
type Options struct {
	Store      *series.Store
	Assembler  *estimate.Assembler
	Estimation model.EstimationConfig
	Unit       model.Unit
	// Load re-ingests on POST /api/v1/refresh. Nil disables the endpoint.
	Load series.Loader
	// StaticDir is served with SPA fallback when it exists.
	StaticDir string
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	stateHandler := handlers.NewStateHandler(opts.Store, opts.Assembler, opts.Estimation, opts.Unit)
	dataHandler := handlers.NewDataHandler(opts.Store, opts.Load)

	router.GET("/health", func(c *gin.Context) {
		snap := opts.Store.Current()
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"series_version": snap.Version,
			"records":        len(snap.Series),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Minimal surface: live tick and the raw records.
	router.GET("/api/state", stateHandler.GetLiveTick)
	router.GET("/data", dataHandler.ListRecords)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", stateHandler.GetState)
		v1.GET("/live", stateHandler.GetLiveTick)
		v1.GET("/policies", stateHandler.ListPolicies)

		v1.GET("/years", dataHandler.ListYears)
		v1.GET("/snapshot", dataHandler.GetSnapshot)
		v1.POST("/refresh", dataHandler.Refresh)
	}

	serveStatic(router, opts.StaticDir)
	return router
}

func serveStatic(router *gin.Engine, staticDir string) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "NOT_FOUND",
				Message: "Not found",
			},
		})
	}

	info, err := os.Stat(staticDir)
	if staticDir == "" || err != nil || !info.IsDir() {
		log.Printf("[API] Static directory %q not found, skipping static file serving", staticDir)
		router.NoRoute(notFound)
		return
	}

	index := filepath.Join(staticDir, "index.html")
	router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") || c.Request.Method != http.MethodGet {
			notFound(c)
			return
		}
		// Real files win; anything else is a client-side route.
		candidate := filepath.Join(staticDir, filepath.FromSlash(filepath.Clean("/"+path)))
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			c.File(candidate)
			return
		}
		if _, err := os.Stat(index); err != nil {
			notFound(c)
			return
		}
		c.File(index)
	})
	log.Printf("[API] Serving static files from %s", staticDir)
}
