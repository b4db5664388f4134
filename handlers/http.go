// Package handlers contains http handlers for myregistry.
//
//go:generate oapi-codegen -config oapi-codegen.config.yaml ../api/my-registry.openapi.yaml
package handlers

import (
	"fmt"
	"net/http"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

// HTTPServer implements ServerInterface generated from OpenAPI spec.
type HTTPServer struct {
	registry interfaces.Registry
	logger   log.Logger
}

var _ ServerInterface = (*HTTPServer)(nil)

// NewHTTPServer creates a new HTTPServer.
func NewHTTPServer(registry interfaces.Registry, logger log.Logger) *HTTPServer {
	logger = log.WithPrefix(helpers.NilPanic(logger, "handlers.http.go: logger is required"), "component", "HTTPServer")
	return &HTTPServer{
		registry: helpers.NilPanic(registry, "handlers.http.go: registry is required"),
		logger:   logger,
	}
}

// RegisterInstance (POST /v1/services/{service_name}/instances) registers or replaces an instance
// and returns the stored record. 400 on parse/validation error.
func (h *HTTPServer) RegisterInstance(ectx echo.Context, serviceName ServiceName) error {
	var req RegisterRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	reg, err := fromRegisterRequest(serviceName, req)
	if err != nil {
		return err
	}

	rec, err := h.registry.Register(ectx.Request().Context(), reg)
	if err != nil {
		return fmt.Errorf("registerInstance failed to register %s/%s, err: %w", serviceName, req.InstanceId, err)
	}

	return ectx.JSON(http.StatusOK, toInstance(rec))
}

// RenewInstance (PUT .../{instance_id}/heartbeat). 404 tells the client to register again.
func (h *HTTPServer) RenewInstance(ectx echo.Context, serviceName ServiceName, instanceId InstanceId) error {
	if err := h.registry.Renew(ectx.Request().Context(), serviceName, instanceId); err != nil {
		return fmt.Errorf("renewInstance failed, err: %w", err)
	}
	return ectx.NoContent(http.StatusOK)
}

// CancelInstance (DELETE .../{instance_id}) is idempotent.
func (h *HTTPServer) CancelInstance(ectx echo.Context, serviceName ServiceName, instanceId InstanceId) error {
	if err := h.registry.Cancel(ectx.Request().Context(), serviceName, instanceId); err != nil {
		return fmt.Errorf("cancelInstance failed, err: %w", err)
	}
	return ectx.NoContent(http.StatusOK)
}

// SetInstanceStatus (PUT .../{instance_id}/status?value=) overrides the effective status.
// 400 on an unknown status, 404 for an unknown instance.
func (h *HTTPServer) SetInstanceStatus(ectx echo.Context, serviceName ServiceName, instanceId InstanceId, params SetInstanceStatusParams) error {
	status, err := domain.ParseStatus(string(params.Value))
	if err != nil {
		return service.NewBadParameterError(err.Error(), err)
	}
	if err := h.registry.SetStatus(ectx.Request().Context(), serviceName, instanceId, status); err != nil {
		return fmt.Errorf("setInstanceStatus failed, err: %w", err)
	}
	return ectx.NoContent(http.StatusOK)
}

// DeleteStatusOverride (DELETE .../{instance_id}/status) restores the registered status. 404 for an unknown instance.
func (h *HTTPServer) DeleteStatusOverride(ectx echo.Context, serviceName ServiceName, instanceId InstanceId) error {
	if err := h.registry.DeleteStatusOverride(ectx.Request().Context(), serviceName, instanceId); err != nil {
		return fmt.Errorf("deleteStatusOverride failed, err: %w", err)
	}
	return ectx.NoContent(http.StatusOK)
}

// QueryInstances (GET /v1/services/{service_name}/instances) returns UP instances, or all with include_all=true.
func (h *HTTPServer) QueryInstances(ectx echo.Context, serviceName ServiceName, params QueryInstancesParams) error {
	includeAll := params.IncludeAll != nil && *params.IncludeAll
	records, err := h.registry.Query(ectx.Request().Context(), serviceName, includeAll)
	if err != nil {
		return fmt.Errorf("queryInstances failed, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, toInstancesResponse(records))
}

// ListServices (GET /v1/services) returns the sorted service names, never null.
func (h *HTTPServer) ListServices(ectx echo.Context) error {
	names, err := h.registry.Services(ectx.Request().Context())
	if err != nil {
		return fmt.Errorf("listServices failed, err: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return ectx.JSON(http.StatusOK, ServicesResponse{Services: names})
}

// GetDelta (GET /v1/delta?since=) returns the changes since the given version.
func (h *HTTPServer) GetDelta(ectx echo.Context, params GetDeltaParams) error {
	var since uint64
	if params.Since != nil {
		if *params.Since < 0 {
			return service.NewBadParameterError("since must not be negative", nil)
		}
		since = uint64(*params.Since)
	}
	delta, err := h.registry.QueryDelta(ectx.Request().Context(), since)
	if err != nil {
		return fmt.Errorf("getDelta failed, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, toDeltaResponse(delta))
}

// GetStatus (GET /v1/status) reports the node and its self-preservation state.
func (h *HTTPServer) GetStatus(ectx echo.Context) error {
	st, err := h.registry.Status(ectx.Request().Context())
	if err != nil {
		return fmt.Errorf("getStatus failed, err: %w", err)
	}
	return ectx.JSON(http.StatusOK, toStatusResponse(st))
}
