package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"myregistry/adapters/myredis"
	"myregistry/adapters/peergrpc"
	"myregistry/api"
	"myregistry/domain"
	"myregistry/handlers"
	"myregistry/service"
	"myregistry/telemetry"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.WithPrefix(logger, "ts", log.DefaultTimestampUTC)
	logger = log.WithPrefix(logger, "caller", log.DefaultCaller)

	level.Info(logger).Log("msg", "Starting MyRegistry service")

	config, err := LoadConfig()
	if err != nil {
		level.Error(logger).Log("msg", "Failed to load configuration", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log(
		"msg", "Configuration loaded",
		"node_id", config.NodeID,
		"service_port_http", config.HTTPPort,
		"service_port_grpc", config.GRPCPort,
		"peers", len(config.Peers),
		"redis_mirror", config.Redis.Addr != "",
		"default_lease", config.Registry.DefaultLease,
		"sweep_interval", config.SweepInterval,
		"self_preservation", config.Registry.SelfPreservation.Enabled,
	)

	// Peers first, the mirror last: Bootstrap tries sources in this order.
	var targets []service.ReplicationTarget
	{
		for _, peer := range config.Peers {
			client, err := peergrpc.NewClient(peer.Address)
			if err != nil {
				level.Error(logger).Log("msg", "Failed to create peer client", "peer", peer.ID, "err", err)
				os.Exit(1)
			}
			targets = append(targets, service.ReplicationTarget{ID: peer.ID, Client: client})
		}

		if config.Redis.Addr != "" {
			redisClient, err := myredis.NewRedisUniversalClient(config.Redis.Addr, myredis.WithTimeouts(defaultRedisTimeout))
			if err != nil {
				level.Error(logger).Log("msg", "Failed to create Redis client", "err", err)
				os.Exit(1)
			}
			defer redisClient.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				// The mirror is optional; replication to it retries and drops like any peer.
				level.Warn(logger).Log("msg", "Redis mirror is not reachable", "err", err)
			}
			cancel()

			cache := myredis.NewCache[domain.InstanceRecord](redisClient, myredis.MirrorPrefix,
				myredis.MarshalJSON[domain.InstanceRecord], myredis.UnmarshalJSON[domain.InstanceRecord])
			targets = append(targets, service.ReplicationTarget{ID: "redis-mirror", Client: myredis.NewMirror(cache)})
		}
	}

	replicator := service.NewReplicator(config.NodeID, config.Replication, targets, logger)
	registry := service.NewRegistry(config.Registry, service.NewTimeProvider(time.Now), replicator, logger)

	e, err := newHTTPServer(registry, logger)
	if err != nil {
		level.Error(logger).Log("msg", "Failed to create HTTP server", "err", err)
		os.Exit(1)
	}
	grpcServer, healthServer := newGRPCServer(registry, logger)

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", config.GRPCPort))
	if err != nil {
		level.Error(logger).Log("msg", "Failed to listen", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	// Serve peers before bootstrapping so nodes starting together can snapshot each other.
	go func() {
		level.Info(logger).Log("msg", "Starting gRPC server", "addr", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			level.Error(logger).Log("msg", "gRPC server error", "err", err)
		}
	}()

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		replicator.Run(ctx)
	}()

	service.Bootstrap(ctx, registry, targets, config.BootstrapTimeout, logger)

	workers.Add(1)
	go func() {
		defer workers.Done()
		service.NewSweeper(registry, config.SweepInterval, logger).Run(ctx)
	}()

	go func() {
		addr := fmt.Sprintf(":%d", config.HTTPPort)
		level.Info(logger).Log("msg", "Starting HTTP server", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			level.Error(logger).Log("msg", "HTTP server error", "err", err)
		}
	}()

	<-quit
	level.Info(logger).Log("msg", "Shutting down...")
	healthServer.Shutdown()

	cancel()
	workers.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "Error during HTTP server shutdown", "err", err)
	}
	grpcServer.GracefulStop()

	for _, t := range targets {
		if err := t.Client.Close(); err != nil {
			level.Warn(logger).Log("msg", "Error closing replication target", "target", t.ID, "err", err)
		}
	}
	level.Info(logger).Log("msg", "Server stopped")
}

// newHTTPServer builds the public API: instrumented, validated against the OpenAPI
// document, plus /healthz and /metrics.
func newHTTPServer(registry *service.Registry, logger log.Logger) (*echo.Echo, error) {
	validator, err := handlers.NewRequestValidator(api.Spec)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	service.RegisterErrorHandler(e, logger)
	e.Use(telemetry.Instrument())
	e.Use(validator)

	handlers.RegisterHandlers(e, handlers.NewHTTPServer(registry, logger))
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(telemetry.MetricsHandler()))
	return e, nil
}

// newGRPCServer builds the peer-facing server with the health and reflection services.
func newGRPCServer(registry *service.Registry, logger log.Logger) (*grpc.Server, *health.Server) {
	errorCodeOption := grpc.ChainUnaryInterceptor(service.MyErrorToGRPCInterceptor(logger))
	grpcServer := grpc.NewServer(errorCodeOption)
	peergrpc.RegisterPeerServer(grpcServer, peergrpc.NewServer(registry, logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(peergrpc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)
	return grpcServer, healthServer
}
