package main

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"golang.org/x/sync/errgroup"

	"raffle/internal/config"
	"raffle/internal/describe"
	"raffle/internal/handlers"
	"raffle/internal/services"
)

//go:embed all:templates
var templateFS embed.FS

//go:embed all:assets
var assetsFS embed.FS

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	defer logger.Init("raffle", cfg.LogVerbose, false, io.Discard).Close()

	// 1. Pick the description generator; without a key only the local template is used.
	var remote describe.Describer
	if cfg.APIKey() != "" {
		remote = describe.NewGemini(describe.GeminiConfig{
			APIKey:   cfg.APIKey(),
			Model:    cfg.GeminiModel,
			Endpoint: cfg.GeminiEndpoint,
		})
	} else {
		logger.Warning("GEMINI_API_KEY not set, descriptions use the local template")
	}
	describer := describe.NewResilient(remote, cfg.DescribeTimeout)

	// 2. Initialize the Raffle Service
	raffleService := services.NewRaffleService(describer, cfg.SeedDemo)

	// 3. Load HTML templates from the embedded filesystem.
	templates, err := template.New("").Funcs(handlers.TemplateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		logger.Fatalf("Failed to parse templates: %v", err)
	}

	// 4. Initialize the HTTP Handler
	httpHandler := handlers.NewHTTPHandler(raffleService, templates)

	// 5. Set up the Gin router
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	assetsSubFS, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		logger.Fatalf("Failed to create assets sub-filesystem: %v", err)
	}
	r.StaticFS("/assets", http.FS(assetsSubFS))

	httpHandler.RegisterPublicRoutes(r)

	tenantRoutes := r.Group("/")
	tenantRoutes.Use(httpHandler.TenantMiddleware())
	httpHandler.RegisterTenantRoutes(tenantRoutes)

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// 6. Background janitor cleans up inactive sessions.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.JanitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				removed := raffleService.CleanUpInactiveSessions(cfg.SessionTTL)
				logger.Infof("Performed cleanup of inactive sessions, removed %d", removed)
			}
		}
	})

	g.Go(func() error {
		logger.Infof("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("Server stopped with error: %v", err)
		return
	}
	logger.Info("Server stopped")
}
