package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/safar/go-storefront/internal/account"
	"github.com/safar/go-storefront/internal/api"
	"github.com/safar/go-storefront/internal/auth"
	"github.com/safar/go-storefront/internal/catalog"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/kvstore"
	"github.com/safar/go-storefront/internal/logging"
	"github.com/safar/go-storefront/internal/pricing"
	"github.com/safar/go-storefront/internal/simulate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := kvstore.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer kv.Close()

	logger.Info("store opened", zap.String("driver", cfg.Store.Driver))

	bus := events.NewBus(logging.NewWatermillAdapter(logger))
	defer bus.Close()

	clock := simulate.SystemClock{}
	latency := simulate.NewLatency(clock, cfg.Latency)
	engine := pricing.NewEngine(cfg.Pricing, pricing.DefaultPromos())

	creds, err := auth.NewCredentials(cfg.Auth)
	if err != nil {
		logger.Fatal("prepare credentials", zap.Error(err))
	}

	devices := api.NewDevices(kv, api.DeviceDeps{
		Engine:      engine,
		Latency:     latency,
		Tokens:      auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, clock),
		Credentials: creds,
		Publisher:   bus,
		Logger:      logger,
	})

	recorder := account.NewRecorder(func(deviceID string) (account.OrderRepository, error) {
		return devices.Repository(deviceID)
	}, logger)
	if err := bus.SubscribeOrderPlaced(ctx, recorder.HandleOrderPlaced); err != nil {
		logger.Fatal("subscribe order recorder", zap.Error(err))
	}

	handler := api.NewHandler(devices, catalog.New(catalog.DefaultProducts()), engine, latency, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      api.NewRouter(cfg.Server, handler),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
