package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-browse/internal/app/catalog/queries/list_references"
	"github.com/light-bringer/procat-browse/internal/app/catalog/repo"
	"github.com/light-bringer/procat-browse/internal/app/catalog/session"
	"github.com/light-bringer/procat-browse/internal/config"
	"github.com/light-bringer/procat-browse/internal/pkg/cache"
	"github.com/light-bringer/procat-browse/internal/pkg/clock"
	"github.com/light-bringer/procat-browse/internal/pkg/committer"
	"github.com/light-bringer/procat-browse/internal/pkg/metrics"
)

// Store is an opened catalog store.
type Store struct {
	ReadModel contracts.ReadModel
	Writer    contracts.CatalogWriter

	spannerClient *spanner.Client
	gormDB        *gorm.DB
}

// OpenStore connects to the store selected by cfg.Driver.
func OpenStore(ctx context.Context, cfg config.StoreConfig, debug bool) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSpanner:
		client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		return &Store{
			ReadModel:     repo.NewSpannerReadModel(client),
			Writer:        repo.NewSpannerWriter(committer.NewCommitter(client)),
			spannerClient: client,
		}, nil

	case config.DriverSQLite:
		level := gormlogger.Silent
		if debug {
			level = gormlogger.Info
		}
		db, err := repo.OpenSQLite(cfg.SQLitePath, level)
		if err != nil {
			return nil, err
		}
		return &Store{
			ReadModel: repo.NewGormReadModel(db),
			Writer:    repo.NewGormWriter(db),
			gormDB:    db,
		}, nil

	case config.DriverMemory:
		mem := repo.NewMemoryStore()
		return &Store{ReadModel: mem, Writer: mem}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Close releases the store connection.
func (s *Store) Close() {
	if s.spannerClient != nil {
		s.spannerClient.Close()
	}
	if s.gormDB != nil {
		if sqlDB, err := s.gormDB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        *Store
	ReadModel    contracts.ReadModel
	Registry     *session.Registry
	Metrics      *metrics.Metrics
	PromRegistry *prometheus.Registry

	redisClient *redis.Client
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, log *zap.Logger) (*ServiceOptions, error) {
	// 1. Open the catalog store
	store, err := OpenStore(ctx, cfg.Store, !cfg.IsProduction() && cfg.Log.Level == "debug")
	if err != nil {
		return nil, err
	}

	// 2. Metrics on a private registry
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promReg, cfg.ServiceName)
	readModel := repo.NewInstrumentedReadModel(store.ReadModel, m)

	// 3. Optional shared reference cache
	opts := &ServiceOptions{
		Config:       cfg,
		Logger:       log,
		Store:        store,
		ReadModel:    readModel,
		Metrics:      m,
		PromRegistry: promReg,
	}
	var refCache list_references.Cache
	if cfg.Cache.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisAddr)
		if err != nil {
			log.Warn("reference cache disabled", zap.String("redis_addr", cfg.Cache.RedisAddr), zap.Error(err))
		} else {
			opts.redisClient = client
			refCache = cache.New(client, cfg.ServiceName+":", cfg.Cache.TTL)
		}
	}

	// 4. Queries and sessions
	productsQuery := list_products.NewQuery(readModel)
	referencesQuery := list_references.NewQuery(readModel, refCache, log)
	opts.Registry = session.NewRegistry(productsQuery, referencesQuery, clock.NewRealClock(), cfg.Session.IdleTimeout)

	return opts, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	if s.Store != nil {
		s.Store.Close()
	}
}
