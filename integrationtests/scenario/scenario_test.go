package scenario

import (
	"context"
	"fmt"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"myregistry/adapters/peergrpc"
	"myregistry/api"
	"myregistry/handlers"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

// startCluster runs size fully meshed nodes in process and returns a config pointing at them.
func startCluster(t *testing.T, size int) *Config {
	t.Helper()
	logger := log.NewNopLogger()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	listeners := make([]net.Listener, size)
	for i := range listeners {
		lis, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		listeners[i] = lis
	}

	cfg := &Config{PollInterval: 20 * time.Millisecond}
	for i := 0; i < size; i++ {
		nodeID := fmt.Sprintf("n%d", i+1)

		var targets []service.ReplicationTarget
		for j, lis := range listeners {
			if j == i {
				continue
			}
			client, err := peergrpc.NewClient(lis.Addr().String())
			require.NoError(t, err)
			t.Cleanup(func() { client.Close() })
			targets = append(targets, service.ReplicationTarget{ID: fmt.Sprintf("n%d", j+1), Client: client})
		}

		replicator := service.NewReplicator(nodeID, service.ReplicationConfig{
			QueueSize:      100,
			BatchSize:      10,
			MaxAttempts:    3,
			InitialBackoff: 10 * time.Millisecond,
			MaxBackoff:     50 * time.Millisecond,
			Timeout:        time.Second,
		}, targets, logger)
		registry := service.NewRegistry(service.RegistryConfig{
			NodeID:         nodeID,
			DefaultLease:   90 * time.Second,
			MinLease:       time.Second,
			MaxLease:       time.Hour,
			DeltaRetention: 3 * time.Minute,
			SelfPreservation: service.SelfPreservationConfig{
				Enabled: true, Threshold: 0.85, EvictionCap: 0.15,
				StabilizationWindow: time.Minute, ExpectedRateSmoothing: 0.25,
			},
		}, service.NewTimeProvider(time.Now), replicator, logger)
		go replicator.Run(ctx)

		grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(service.MyErrorToGRPCInterceptor(logger)))
		peergrpc.RegisterPeerServer(grpcServer, peergrpc.NewServer(registry, logger))
		go func(lis net.Listener) {
			_ = grpcServer.Serve(lis)
		}(listeners[i])
		t.Cleanup(grpcServer.Stop)

		e := echo.New()
		validator, err := handlers.NewRequestValidator(api.Spec)
		require.NoError(t, err)
		service.RegisterErrorHandler(e, logger)
		e.Use(validator)
		handlers.RegisterHandlers(e, handlers.NewHTTPServer(registry, logger))
		srv := httptest.NewServer(e)
		t.Cleanup(srv.Close)

		cfg.NodeURLs = append(cfg.NodeURLs, srv.URL)
	}
	return cfg
}

func TestScenarios(t *testing.T) {
	cfg := startCluster(t, 2)
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, Run(name, context.Background(), cfg))
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		scenarioBasicWorkflow,
		scenarioDeltaSync,
		scenarioPeerReplication,
		scenarioRenewUnknownInstance,
	}, Names())
	assert.Len(t, All(), 4)
}

func TestRun_UnknownScenario(t *testing.T) {
	err := Run("no_such_scenario", context.Background(), &Config{})
	var unknown *UnknownScenarioError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no_such_scenario", unknown.Name)
	assert.EqualError(t, err, "unknown scenario: no_such_scenario")
}

func TestRun_NotEnoughNodes(t *testing.T) {
	err := Run(scenarioPeerReplication, context.Background(), &Config{NodeURLs: []string{"http://127.0.0.1:1"}})
	assert.EqualError(t, err, "scenario needs 2 nodes, 1 configured")
}

func TestEventually(t *testing.T) {
	cfg := &Config{PollInterval: time.Millisecond}

	calls := 0
	err := eventually(context.Background(), cfg, "third call", func() (bool, error) {
		calls++
		return calls == 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = eventually(ctx, cfg, "never", func() (bool, error) { return false, nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never: not observed before deadline")

	err = eventually(context.Background(), cfg, "failing", func() (bool, error) { return false, fmt.Errorf("boom") })
	assert.EqualError(t, err, "failing: boom")
}
