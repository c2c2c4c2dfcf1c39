package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"gorm.io/gorm"

	"github.com/tair/catalog-admin/internal/product"
	productrepo "github.com/tair/catalog-admin/internal/product/repository"
	productcommand "github.com/tair/catalog-admin/internal/product/usecase/command"
	"github.com/tair/catalog-admin/internal/purchase"
	purchaserepo "github.com/tair/catalog-admin/internal/purchase/repository"
	"github.com/tair/catalog-admin/internal/taxonomy"
	taxonomyrepo "github.com/tair/catalog-admin/internal/taxonomy/repository"
	"github.com/tair/catalog-admin/internal/user"
	userhttp "github.com/tair/catalog-admin/internal/user/delivery/http"
	userrepo "github.com/tair/catalog-admin/internal/user/repository"
	"github.com/tair/catalog-admin/kafka"
	"github.com/tair/catalog-admin/pkg/auth"
	"github.com/tair/catalog-admin/pkg/config"
	"github.com/tair/catalog-admin/pkg/database"
	"github.com/tair/catalog-admin/pkg/logger"
	"github.com/tair/catalog-admin/pkg/tracing"
)

// lowStockThreshold is the in_stock level below which the consumer raises a
// warning after a negative adjustment
const lowStockThreshold = 5

func main() {
	cfg := config.Load()

	logger.Init(cfg.Service.Name, cfg.Service.LogLevel, cfg.Service.Environment == "development")
	auth.Init(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	logger.Logger.Info().
		Str("service", cfg.Service.Name).
		Str("environment", cfg.Service.Environment).
		Msg("Starting catalog admin service")

	tp, err := tracing.InitTracer(cfg.Service.Name)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := database.NewSQLConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open raw database connection")
	}
	defer sqlDB.Close()

	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Kafka is optional; a nil publisher disables event publishing
	var publisher *kafka.Publisher
	if cfg.Kafka.Enabled {
		publisher, err = kafka.NewPublisher(cfg.Kafka.Brokers)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, events disabled")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.Enabled {
		startLowStockWatcher(ctx, cfg, db)
	}

	userHandler := user.InitializeUserHandler(db)
	gate := user.InitializePermissionChecker(db)
	productHandler := product.InitializeProductHandler(db, sqlDB, publisher)
	purchaseHandler := purchase.InitializePurchaseHandler(db)
	taxonomyHandler := taxonomy.InitializeNodeHandler(db)

	router := mux.NewRouter()
	userHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router, gate)
	purchaseHandler.RegisterRoutes(router, gate)
	taxonomyHandler.RegisterRoutes(router, gate)
	userHandler.RegisterHealthCheck(router, sqlDB)

	router.Handle("/metrics", promhttp.Handler())
	userhttp.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if cfg.Reconcile.Enabled {
		startReconciler(ctx, cfg, sqlDB)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      c.Handler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.Service.HTTPPort).
			Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down catalog admin service")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Logger.Info().Msg("Catalog admin service stopped")
}

func runMigrations(db *gorm.DB) error {
	if err := userrepo.NewGormUserRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := taxonomyrepo.NewGormNodeRepository(db).AutoMigrate(); err != nil {
		return err
	}
	if err := productrepo.NewGormProductRepository(db).AutoMigrate(); err != nil {
		return err
	}
	return purchaserepo.NewGormPurchaseRepository(db).AutoMigrate()
}

// startReconciler periodically recomputes every parent counter from live
// associations and corrects drift
func startReconciler(ctx context.Context, cfg *config.Config, sqlDB *sql.DB) {
	handler := productcommand.NewReconcileCountersHandler(sqlDB)
	interval := cfg.Reconcile.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				report, err := handler.Handle(ctx)
				if err != nil {
					logger.Error(ctx).Err(err).Msg("Counter reconciliation failed")
					continue
				}
				for table, n := range report.Corrected {
					if n > 0 {
						logger.Warn(ctx).
							Str("table", table).
							Int64("rows", n).
							Msg("Corrected counter drift")
					}
				}
			}
		}
	}()

	logger.Logger.Info().
		Dur("interval", interval).
		Msg("Counter reconciliation loop started")
}

// startLowStockWatcher consumes stock adjusted events and warns when a
// product's stock falls under the threshold
func startLowStockWatcher(ctx context.Context, cfg *config.Config, db *gorm.DB) {
	consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, []string{kafka.TopicStockAdjusted})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, low stock watcher disabled")
		return
	}

	lowStockGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "product_low_stock_total",
		Help: "Number of products observed under the low stock threshold",
	})
	prometheus.MustRegister(lowStockGauge)

	repo := productrepo.NewGormProductRepository(db)
	tracker := newLowStockTracker(lowStockGauge)

	consumer.RegisterHandler(kafka.EventTypeStockAdjusted, func(ctx context.Context, payload []byte) error {
		event, err := kafka.UnmarshalStockAdjusted(payload)
		if err != nil {
			return err
		}

		p, err := repo.FindByID(event.ProductID)
		if err != nil {
			return nil
		}

		if tracker.Observe(p.ID, p.InStock) {
			logger.Warn(ctx).
				Uint("product_id", p.ID).
				Str("sku", p.SKU).
				Int("in_stock", p.InStock).
				Int("delta", event.Delta).
				Msg("Product stock is low")
		}
		return nil
	})

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to start Kafka consumer")
		return
	}

	go func() {
		<-ctx.Done()
		consumer.Close()
	}()
}

// lowStockTracker keeps the set of products currently under the low stock
// threshold. The consumer group runs one handler goroutine per claimed
// partition, so the map and gauge are guarded.
type lowStockTracker struct {
	mu    sync.Mutex
	gauge prometheus.Gauge
	low   map[uint]bool
}

func newLowStockTracker(gauge prometheus.Gauge) *lowStockTracker {
	return &lowStockTracker{gauge: gauge, low: make(map[uint]bool)}
}

// Observe records the product's current stock level and reports whether it
// sits at or under the threshold
func (t *lowStockTracker) Observe(productID uint, inStock int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	isLow := inStock <= lowStockThreshold
	if isLow {
		t.low[productID] = true
	} else {
		delete(t.low, productID)
	}
	if t.gauge != nil {
		t.gauge.Set(float64(len(t.low)))
	}
	return isLow
}
