package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"myregistry/api"
	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces/mock"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestEcho(t *testing.T, registry *mock.RegistryMock) *echo.Echo {
	t.Helper()
	e := echo.New()
	validator, err := NewRequestValidator(api.Spec)
	require.NoError(t, err)
	e.Use(validator)
	service.RegisterErrorHandler(e, log.NewNopLogger())
	RegisterHandlers(e, NewHTTPServer(registry, log.NewNopLogger()))
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body errBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	return body.Error.Code, body.Error.Message
}

func storedRecord() domain.InstanceRecord {
	now := helpers.TestNow()
	return domain.InstanceRecord{
		ServiceName:        "orders",
		InstanceID:         "inst-1",
		Endpoint:           domain.Endpoint{Host: "10.0.0.1", Port: 9000, Metadata: map[string]string{"zone": "a"}},
		Status:             domain.StatusUp,
		RegisteredStatus:   domain.StatusUp,
		LeaseDuration:      30 * time.Second,
		LeaseExpiryAt:      now.Add(30 * time.Second),
		RegisteredAt:       now,
		LastRenewedAt:      now,
		LastDirtyTimestamp: 17,
		OriginNode:         "n1",
	}
}

func TestNewHTTPServer_Panics(t *testing.T) {
	assert.Panics(t, func() { NewHTTPServer(nil, log.NewNopLogger()) })
	assert.Panics(t, func() { NewHTTPServer(&mock.RegistryMock{}, nil) })
}

func TestHTTPServer_RegisterInstance(t *testing.T) {
	validBody := `{"instance_id":"inst-1","host":"10.0.0.1","port":9000,"metadata":{"zone":"a"},"lease_duration_ms":30000}`

	tests := []struct {
		name           string
		body           string
		registry       *mock.RegistryMock
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "ok",
			body: validBody,
			registry: &mock.RegistryMock{
				RegisterFunc: func(ctx context.Context, reg domain.Registration) (domain.InstanceRecord, error) {
					assert.Equal(t, domain.Registration{
						ServiceName:   "orders",
						InstanceID:    "inst-1",
						Endpoint:      domain.Endpoint{Host: "10.0.0.1", Port: 9000, Metadata: map[string]string{"zone": "a"}},
						LeaseDuration: 30 * time.Second,
					}, reg)
					return storedRecord(), nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "400 invalid JSON",
			body:           `{invalid`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name:           "400 missing host",
			body:           `{"instance_id":"inst-1","port":9000}`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name:           "400 port out of range",
			body:           `{"instance_id":"inst-1","host":"h","port":70000}`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name:           "400 unknown status",
			body:           `{"instance_id":"inst-1","host":"h","port":1,"status":"SLEEPING"}`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name: "400 lease rejected by registry",
			body: `{"instance_id":"inst-1","host":"h","port":1,"lease_duration_ms":10}`,
			registry: &mock.RegistryMock{
				RegisterFunc: func(ctx context.Context, reg domain.Registration) (domain.InstanceRecord, error) {
					return domain.InstanceRecord{}, service.NewBadParameterError("lease_duration below minimum", nil)
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   service.ErrBadParameter,
		},
		{
			name: "500 registry error",
			body: validBody,
			registry: &mock.RegistryMock{
				RegisterFunc: func(ctx context.Context, reg domain.Registration) (domain.InstanceRecord, error) {
					return domain.InstanceRecord{}, assert.AnError
				},
			},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   service.ErrInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newTestEcho(t, tt.registry), http.MethodPost, "/v1/services/orders/instances", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode != "" {
				code, msg := decodeError(t, rec)
				assert.Equal(t, tt.expectedCode, code)
				assert.NotEmpty(t, msg)
				return
			}
			var got Instance
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, toInstance(storedRecord()), got)
		})
	}
}

func TestHTTPServer_RenewInstance(t *testing.T) {
	registry := &mock.RegistryMock{
		RenewFunc: func(ctx context.Context, serviceName string, instanceID string) error {
			if instanceID == "gone" {
				return service.NewInstanceNotFoundError(serviceName, instanceID)
			}
			return nil
		},
	}
	e := newTestEcho(t, registry)

	rec := serve(e, http.MethodPut, "/v1/services/orders/instances/inst-1/heartbeat", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	rec = serve(e, http.MethodPut, "/v1/services/orders/instances/gone/heartbeat", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	code, _ := decodeError(t, rec)
	assert.Equal(t, service.ErrEntityNotFound, code)

	calls := registry.RenewCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "orders", calls[0].ServiceName)
	assert.Equal(t, "inst-1", calls[0].InstanceID)
}

func TestHTTPServer_CancelInstance(t *testing.T) {
	registry := &mock.RegistryMock{}
	e := newTestEcho(t, registry)

	for i := 0; i < 2; i++ {
		rec := serve(e, http.MethodDelete, "/v1/services/orders/instances/inst-1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Len(t, registry.CancelCalls(), 2)
}

func TestHTTPServer_SetInstanceStatus(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setErr         error
		expectedStatus int
		expectedValue  domain.Status
	}{
		{name: "ok", target: "/v1/services/orders/instances/inst-1/status?value=OUT_OF_SERVICE", expectedStatus: http.StatusOK, expectedValue: domain.StatusOutOfService},
		{name: "400 missing value", target: "/v1/services/orders/instances/inst-1/status", expectedStatus: http.StatusBadRequest},
		{name: "400 unknown value", target: "/v1/services/orders/instances/inst-1/status?value=SLEEPING", expectedStatus: http.StatusBadRequest},
		{
			name:           "404 unknown instance",
			target:         "/v1/services/orders/instances/inst-1/status?value=DOWN",
			setErr:         service.NewInstanceNotFoundError("orders", "inst-1"),
			expectedStatus: http.StatusNotFound,
			expectedValue:  domain.StatusDown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &mock.RegistryMock{
				SetStatusFunc: func(ctx context.Context, serviceName string, instanceID string, status domain.Status) error {
					return tt.setErr
				},
			}
			rec := serve(newTestEcho(t, registry), http.MethodPut, tt.target, "")
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedValue == "" {
				assert.Empty(t, registry.SetStatusCalls())
				return
			}
			require.Len(t, registry.SetStatusCalls(), 1)
			assert.Equal(t, tt.expectedValue, registry.SetStatusCalls()[0].Status)
		})
	}
}

func TestHTTPServer_DeleteStatusOverride(t *testing.T) {
	registry := &mock.RegistryMock{
		DeleteStatusOverrideFunc: func(ctx context.Context, serviceName string, instanceID string) error {
			return service.NewInstanceNotFoundError(serviceName, instanceID)
		},
	}
	rec := serve(newTestEcho(t, registry), http.MethodDelete, "/v1/services/orders/instances/inst-1/status", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, registry.DeleteStatusOverrideCalls(), 1)
}

func TestHTTPServer_QueryInstances(t *testing.T) {
	registry := &mock.RegistryMock{
		QueryFunc: func(ctx context.Context, serviceName string, includeAll bool) ([]domain.InstanceRecord, error) {
			if includeAll {
				return []domain.InstanceRecord{storedRecord()}, nil
			}
			return nil, nil
		},
	}
	e := newTestEcho(t, registry)

	rec := serve(e, http.MethodGet, "/v1/services/orders/instances", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"instances":[]}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/v1/services/orders/instances?include_all=true", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var got InstancesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got.Instances, 1)
	assert.Equal(t, "inst-1", got.Instances[0].InstanceId)

	rec = serve(e, http.MethodGet, "/v1/services/orders/instances?include_all=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	calls := registry.QueryCalls()
	require.Len(t, calls, 2)
	assert.False(t, calls[0].IncludeAll)
	assert.True(t, calls[1].IncludeAll)
}

func TestHTTPServer_ListServices(t *testing.T) {
	e := newTestEcho(t, &mock.RegistryMock{})
	rec := serve(e, http.MethodGet, "/v1/services", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"services":[]}`, rec.Body.String())

	e = newTestEcho(t, &mock.RegistryMock{
		ServicesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"billing", "orders"}, nil
		},
	})
	rec = serve(e, http.MethodGet, "/v1/services", "")
	assert.JSONEq(t, `{"services":["billing","orders"]}`, rec.Body.String())
}

func TestHTTPServer_GetDelta(t *testing.T) {
	registry := &mock.RegistryMock{
		QueryDeltaFunc: func(ctx context.Context, since uint64) (domain.Delta, error) {
			return domain.Delta{
				Version: 42,
				Changed: []domain.InstanceRecord{storedRecord()},
				Deleted: []domain.Tombstone{{
					ServiceName: "orders", InstanceID: "inst-2", Reason: domain.ActionEvict,
					LastDirtyTimestamp: 40, DeletedAt: helpers.TestNow(),
				}},
				HashCode: "UP_1_",
			}, nil
		},
	}
	e := newTestEcho(t, registry)

	rec := serve(e, http.MethodGet, "/v1/delta?since=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got DeltaResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, uint64(42), got.Version)
	assert.False(t, got.Full)
	assert.Equal(t, "UP_1_", got.HashCode)
	require.Len(t, got.Changed, 1)
	require.Len(t, got.Deleted, 1)
	assert.Equal(t, "evict", got.Deleted[0].Reason)

	rec = serve(e, http.MethodGet, "/v1/delta", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, bad := range []string{"/v1/delta?since=-1", "/v1/delta?since=abc"} {
		rec = serve(e, http.MethodGet, bad, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}

	calls := registry.QueryDeltaCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, uint64(5), calls[0].Since)
	assert.Zero(t, calls[1].Since)
}

func TestHTTPServer_GetStatus(t *testing.T) {
	e := newTestEcho(t, &mock.RegistryMock{
		StatusFunc: func(ctx context.Context) (domain.RegistryStatus, error) {
			return domain.RegistryStatus{NodeID: "n1", Instances: 3, Services: 2, SelfPreservationActive: true, ExpectedRenewsPerMin: 200, ObservedRenewsPerMin: 10, RenewalThreshold: 170, Version: 9}, nil
		},
	})
	rec := serve(e, http.MethodGet, "/v1/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"node_id":"n1","instances":3,"services":2,"self_preservation_active":true,
		"expected_renews_per_min":200,"observed_renews_per_min":10,"renewal_threshold":170,"version":9}`, rec.Body.String())
}

func TestRequestValidator_SkipsUndocumentedPaths(t *testing.T) {
	e := newTestEcho(t, &mock.RegistryMock{})
	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(e, http.MethodGet, "/v1/unknown", "").Code)
}

func TestNewRequestValidator_InvalidDocument(t *testing.T) {
	_, err := NewRequestValidator([]byte("openapi: [broken"))
	assert.Error(t, err)
}
