package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menugenius/config"
	httpapi "menugenius/order-svc/internal/api/http"
	"menugenius/order-svc/internal/service"
	"menugenius/order-svc/internal/storage"
	"menugenius/recommend"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Menu prices leave the API as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	bootstrap := zap.NewNop()
	config.LoadDotEnv(bootstrap)
	cfg := config.LoadOrderServiceConfig()

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(logger)
	defer db.Close()
	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	if cfg.SeedMenu {
		seeded, err := repo.SeedMenuItems(ctx, recommend.SampleCatalog())
		if err != nil {
			logger.Fatal("failed to seed menu", zap.Error(err))
		}
		if seeded > 0 {
			logger.Info("seeded menu", zap.Int("items", seeded))
		}
	}

	redisClient := config.MustInitRedis(logger)
	defer redisClient.Close()
	cache := storage.NewRedisCache(redisClient, cfg.CacheTTL)

	writer := config.NewKafkaWriter(cfg.StatusTopic)
	defer writer.Close()
	publisher := storage.NewKafkaPublisher(writer)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	orders := service.NewOrderService(repo, repo, cache, publisher,
		service.DefaultQRGenerator{BaseURL: cfg.PublicURL}, metrics, logger,
		service.OrderServiceConfig{ServiceChargeRate: cfg.ServiceChargeRate})
	menu := service.NewMenuService(repo, metrics, logger)
	handler := httpapi.NewHandler(orders, menu, []byte(cfg.JWTSecret), logger)

	apiServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range []*http.Server{apiServer, metricsServer} {
		srv := srv
		g.Go(func() error {
			logger.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return errors.Join(apiServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		logger.Error("order service stopped", zap.Error(err))
		return
	}
	logger.Info("order service stopped")
}
