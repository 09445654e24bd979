package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"supplyperf/api"
	"supplyperf/api/web"
	"supplyperf/database"
	analyticsapp "supplyperf/internal/analytics/application"
	"supplyperf/internal/config"
	exportapp "supplyperf/internal/export/application"
	ordersapp "supplyperf/internal/orders/application"
	ordersinfra "supplyperf/internal/orders/infrastructure"
	predictionapp "supplyperf/internal/prediction/application"
	predictioninfra "supplyperf/internal/prediction/infrastructure"
	sharedinfra "supplyperf/internal/shared/infrastructure"
	"supplyperf/internal/shared/logger"
	"supplyperf/internal/shared/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("Invalid configuration", zap.Error(err))
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "supplyperf",
	}); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.GetLogger()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		httpMetrics *metrics.HTTPMetrics
		gatherer    prometheus.Gatherer
		registerer  prometheus.Registerer = prometheus.NewRegistry()
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		registerer, gatherer = reg, reg
		httpMetrics = metrics.NewHTTPMetrics(reg, "supplyperf")
	}
	domainMetrics := metrics.NewDomainMetrics(registerer, cfg.Metrics.Prefix)

	source, db, err := newSource(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	store := ordersapp.NewDatasetStore(source, domainMetrics)
	if err := store.Reload(ctx); err != nil {
		log.Warn("Initial data load failed, serving without data", zap.Error(err))
	}

	scheduler, err := ordersapp.NewRefreshScheduler(store, cfg.Data.RefreshSchedule, log)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	models := predictionapp.NewModelRegistry(bundlePaths(cfg.Models), log)
	if err := models.Load(); err != nil {
		log.Warn("Models unavailable, prediction forms are disabled", zap.Error(err))
	}

	cache := sharedinfra.NewShardedCache(cfg.Cache.Shards, time.Minute)
	defer cache.Close()

	dashboard := analyticsapp.NewDashboardService(store, cache, cfg.Cache.TTL)
	store.OnRetire(dashboard.Evict)
	predictions := predictionapp.NewPredictionService(models, store, dashboard, domainMetrics, log)
	exports := exportapp.NewExportService(store, dashboard, cfg.Data.LoadWorkers)

	router, err := api.NewRouter(api.Dependencies{
		Store:       store,
		Models:      models,
		Dashboard:   dashboard,
		Predictions: predictions,
		Exports:     exports,
		UI:          web.Options{Title: cfg.UI.Title, Footer: cfg.UI.FooterText},
		HTTPMetrics: httpMetrics,
		Gatherer:    gatherer,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			zap.String("addr", srv.Addr),
			zap.String("data_source", source.Name()),
			zap.String("model_format", cfg.Models.Format),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newSource(cfg *config.Config) (ordersapp.Source, *sql.DB, error) {
	if cfg.Data.Source == "postgres" {
		db, err := database.Open(cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		return ordersinfra.NewPostgresSource(db, cfg.Data.Currency), db, nil
	}
	return &ordersinfra.CSVSource{
		SupplierPath: cfg.Data.SupplierPath(),
		POPath:       cfg.Data.POPath(),
		GRPath:       cfg.Data.GRPath(),
		Currency:     cfg.Data.Currency,
		Workers:      cfg.Data.LoadWorkers,
	}, nil, nil
}

func bundlePaths(m config.ModelsConfig) predictioninfra.BundlePaths {
	features := filepath.Join(m.Dir, m.FeaturesDir)
	paths := predictioninfra.BundlePaths{
		Format:           m.Format,
		LeadTimeModel:    filepath.Join(m.Dir, m.LeadTimeFile),
		Encoder:          filepath.Join(m.Dir, m.EncoderFile),
		LeadTimeFeatures: filepath.Join(features, m.LeadTimeFeatures),
		IsLateModel:      filepath.Join(m.Dir, m.IsLateFile),
		IsLateFeatures:   filepath.Join(features, m.IsLateFeatures),
	}
	if categorical := filepath.Join(m.Dir, m.CategoricalFile); fileExists(categorical) {
		paths.Categorical = categorical
	}
	return paths
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
