package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/procat-browse/internal/app/catalog/seed"
	"github.com/light-bringer/procat-browse/internal/config"
	"github.com/light-bringer/procat-browse/internal/pkg/logger"
	"github.com/light-bringer/procat-browse/internal/services"
	httphandler "github.com/light-bringer/procat-browse/internal/transport/http"
)

// startupPingTimeout bounds the store check made before reporting SERVING.
const startupPingTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		return 1
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	log.Info("Starting catalog browse service",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("http_port", cfg.Server.HTTPPort),
		zap.String("grpc_port", cfg.Server.GRPCPort),
	)

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize service", zap.Error(err))
		return 1
	}
	defer serviceOpts.Close()

	// An in-process store starts empty; give it the demo catalog.
	if cfg.Store.Driver == config.DriverMemory {
		catalog, err := seed.Load(ctx, serviceOpts.Store.Writer, seed.DefaultOptions())
		if err != nil {
			log.Error("failed to seed memory store", zap.Error(err))
			return 1
		}
		log.Info("Seeded memory store", zap.Int("products", len(catalog.Products)))
	}

	// 3. gRPC server with health and reflection
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)
	healthServer.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		log.Error("failed to listen on gRPC port", zap.Error(err))
		return 1
	}
	go func() {
		log.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("gRPC server error", zap.Error(err))
		}
	}()

	// 4. HTTP server
	router := httphandler.NewRouter(httphandler.RouterConfig{
		Registry:           serviceOpts.Registry,
		Store:              serviceOpts.ReadModel,
		Logger:             log,
		SessionIdleTimeout: cfg.Session.IdleTimeout,
		Metrics:            serviceOpts.Metrics,
		Gatherer:           serviceOpts.PromRegistry,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
		}
	}()

	// 5. Report SERVING once the store answers
	pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	if err := serviceOpts.ReadModel.Ping(pingCtx); err != nil {
		log.Warn("catalog store not reachable at startup", zap.Error(err))
	} else {
		healthServer.SetServingStatus(cfg.ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	}
	cancel()

	// 6. Graceful shutdown on SIGINT/SIGTERM
	wait := gfshutdown.GracefulShutdown(
		ctx,
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http": func(ctx context.Context) error {
				return httpServer.Shutdown(ctx)
			},
			"grpc": func(ctx context.Context) error {
				healthServer.Shutdown()
				grpcServer.GracefulStop()
				return nil
			},
		},
	)

	exitCode := <-wait
	log.Info("Shut down", zap.Int("exit_code", exitCode))
	return exitCode
}
