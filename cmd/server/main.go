package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/letieu/ideadb/config"
	"github.com/letieu/ideadb/internal/api"
	"github.com/letieu/ideadb/internal/cache"
	"github.com/letieu/ideadb/internal/database"
	"github.com/letieu/ideadb/internal/logger"
	"github.com/letieu/ideadb/internal/metrics"
	"github.com/letieu/ideadb/internal/pubsub"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("ideadb", "info").Fatalf("load config: %v", err)
	}
	log := logger.NewLogger("ideadb", cfg.Log.Level)

	db, err := database.NewDB(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	var (
		listings cache.ListingCache   = cache.Noop{}
		events   pubsub.VotePublisher = pubsub.Noop{}
	)
	if cfg.Redis.URL != "" {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatalf("redis connect failed: %v", err)
		}
		defer client.Close()
		listings = cache.NewRedisCache(client, cfg.Redis.ListingTTL)
		events = pubsub.NewRedisPublisher(client, cfg.Redis.VoteChannel)
	} else {
		log.Info("redis.url not set, listing cache and vote events disabled")
	}

	m := metrics.NewMetrics(prometheus.DefaultRegisterer, "api")

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(db, listings, events, m, log)
	router := api.NewRouter(handler, prometheus.DefaultGatherer)

	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			m.RecordDBPoolStats(db.Stats())
			select {
			case <-statsCtx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("HTTP API server listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Infof("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Errorf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http shutdown error: %v", err)
	}
	log.Info("server stopped")
}
