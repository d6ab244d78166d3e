package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakery-storefront/internal/catalog"
	"bakery-storefront/internal/common/config"
	"bakery-storefront/internal/common/database"
	"bakery-storefront/internal/common/logger"
	"bakery-storefront/internal/handlers"
	"bakery-storefront/internal/relay"
	"bakery-storefront/internal/wordpress"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting bakery storefront server", map[string]interface{}{
		"addr":        cfg.Server.Addr(),
		"environment": cfg.App.Environment,
	})

	if cfg.Backend.BaseURL == "" || cfg.Backend.Username == "" || cfg.Backend.AppPassword == "" || cfg.Orders.Recipient == "" {
		log.Warn("order relay configuration incomplete; order submissions will be rejected", nil)
	}

	// Catalog cache is optional: without a Redis address every catalog read
	// goes straight to the content backend.
	var cache *database.RedisClient
	if cfg.Cache.Redis.Address != "" {
		cache, err = database.NewRedis(cfg.Cache.Redis)
		if err != nil {
			log.WithError(err).Error("failed to create redis client", nil)
			os.Exit(1)
		}
		defer cache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			log.WithError(err).Warn("redis unreachable, catalog cache degraded", nil)
		}
		cancel()
	}

	wpClient := wordpress.NewClient(cfg.Backend, log)
	relayService := relay.NewService(cfg, log)
	catalogService := catalog.NewService(wpClient, cache, time.Duration(cfg.Cache.TTL)*time.Second, log)

	healthHandler := handlers.NewHealthHandler(cfg.App.Version)
	orderHandler := handlers.NewOrderHandler(relayService, log)
	catalogHandler := handlers.NewCatalogHandler(catalogService, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Site.PublicURL, "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/order", orderHandler.SubmitOrder)
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/courses", catalogHandler.ListCourses)
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("server failed", nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server", nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("server forced to shutdown", nil)
		os.Exit(1)
	}

	log.Info("server stopped", nil)
}
