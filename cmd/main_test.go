package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"myregistry/adapters/peergrpc"
	"myregistry/domain"
	"myregistry/interfaces/mock"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func testRegistry(t *testing.T) *service.Registry {
	t.Helper()
	setRequiredEnv(t)
	t.Setenv(envNodeID, "n1")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	return service.NewRegistry(cfg.Registry, service.NewTimeProvider(time.Now), &mock.EventSinkMock{}, log.NewNopLogger())
}

func TestGRPCServer_HealthAndPeer(t *testing.T) {
	registry := testRegistry(t)
	_, err := registry.Register(context.Background(), domain.Registration{
		ServiceName: "orders", InstanceID: "a", Endpoint: domain.Endpoint{Host: "h", Port: 1},
	})
	require.NoError(t, err)

	grpcServer, _ := newGRPCServer(registry, log.NewNopLogger())
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		_ = grpcServer.Serve(lis)
	}()
	t.Cleanup(grpcServer.GracefulStop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	for _, name := range []string{"", peergrpc.ServiceName} {
		resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: name})
		require.NoError(t, err)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
	}

	peer, err := peergrpc.NewClient(lis.Addr().String())
	require.NoError(t, err)
	defer peer.Close()
	records, err := peer.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a", records[0].InstanceID)

	err = peer.Replicate(ctx, "", nil)
	assert.True(t, service.IsBadParameterError(err))
}

func TestHTTPServer_Routes(t *testing.T) {
	e, err := newHTTPServer(testRegistry(t), log.NewNopLogger())
	require.NoError(t, err)

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	assert.Equal(t, http.StatusOK, get("/healthz").Code)

	rec := get("/v1/services")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"services":[]}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, get("/v1/delta?since=x").Code)

	rec = get("/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `myregistry_http_requests_total{route="/v1/services",status="2xx"}`), rec.Body.String())
}
