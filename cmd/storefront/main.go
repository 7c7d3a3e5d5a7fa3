package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/maryamhelal/yaqeen-storefront/internal/backend"
	"github.com/maryamhelal/yaqeen-storefront/internal/cart"
	"github.com/maryamhelal/yaqeen-storefront/internal/checkout"
	"github.com/maryamhelal/yaqeen-storefront/internal/httpapi"
	"github.com/maryamhelal/yaqeen-storefront/internal/refdata"
	"github.com/maryamhelal/yaqeen-storefront/pkg/config"
	"github.com/maryamhelal/yaqeen-storefront/pkg/logger"
	"github.com/maryamhelal/yaqeen-storefront/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "yaqeen-storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	api := backend.New(cfg.BackendURL, backend.WithHTTPClient(&http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}))

	var storage cart.Storage
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		storage = cart.NewRedisStorage(client, cfg.CartOwner)
		log.Info("cart persistence: redis", "addr", cfg.RedisAddr, "owner", cfg.CartOwner)
	} else {
		storage = cart.NewFileStorage(cfg.CartFile)
		log.Info("cart persistence: file", "path", cfg.CartFile)
	}

	store := cart.NewStore(storage, log)
	ref := refdata.NewCache(api, cfg.RefDataTTL)
	session := checkout.NewSession(store, api, ref, log)

	router := httpapi.NewRouter(
		httpapi.NewCartHandler(store, api, cfg.RequestTimeout),
		httpapi.NewCheckoutHandler(session, cfg.RequestTimeout),
		httpapi.NewCatalogHandler(api, ref, cfg.RequestTimeout),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	go func() {
		log.Info("storefront listening", "port", cfg.HTTPPort, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server exited")
}
