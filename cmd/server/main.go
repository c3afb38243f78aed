package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/feichai0017/file-organizer/api/handlers"
	"github.com/feichai0017/file-organizer/api/routes"
	"github.com/feichai0017/file-organizer/config"
	"github.com/feichai0017/file-organizer/internal/app"
	"github.com/feichai0017/file-organizer/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// init logger
	log, err := app.NewLogger(cfg.Log, "server")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	services, err := app.New(ctx, cfg, log, app.WithQueue())
	if err != nil {
		log.Fatal("Failed to initialize services", logger.Error(err))
	}
	defer services.Close()

	// startup check only warns; the server starts either way
	services.CheckBackend(ctx)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	routes.SetupRoutes(r, handlers.NewHandlers(services.Deps()), log)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: r,
	}

	go func() {
		log.Info("Server starting",
			logger.String("addr", srv.Addr),
			logger.String("model", cfg.Ollama.Model),
			logger.String("backend", cfg.Extraction.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", logger.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Error(err))
	}
}
