// Package registryhttp is a Go client of the myregistry public HTTP API.
package registryhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"
)

// Client talks to one registry node. Errors are service.MyError values decoded from the
// node's error body, so callers can test them with service.IsEntityNotFoundError and friends.
type Client struct {
	baseURL string
	client  *http.Client
}

var _ interfaces.Registry = (*Client)(nil)

// NewClient creates a client for baseURL (e.g. http://registry-1:8080, no trailing slash).
// Panics on empty baseURL or nil client.
func NewClient(baseURL string, client *http.Client) *Client {
	return &Client{
		baseURL: helpers.StrPanic(baseURL, "registryhttp.client.go: baseURL is required"),
		client:  helpers.NilPanic(client, "registryhttp.client.go: http client is required"),
	}
}

type registerRequest struct {
	InstanceID           string            `json:"instance_id"`
	Host                 string            `json:"host"`
	Port                 int               `json:"port"`
	Metadata             map[string]string `json:"metadata,omitempty"`
	Status               string            `json:"status,omitempty"`
	LeaseDurationMs      int64             `json:"lease_duration_ms,omitempty"`
	LeaseRenewalDisabled bool              `json:"lease_renewal_disabled,omitempty"`
}

type instance struct {
	ServiceName          string            `json:"service_name"`
	InstanceID           string            `json:"instance_id"`
	Host                 string            `json:"host"`
	Port                 int               `json:"port"`
	Metadata             map[string]string `json:"metadata"`
	Status               string            `json:"status"`
	RegisteredStatus     string            `json:"registered_status"`
	OverriddenStatus     string            `json:"overridden_status"`
	LeaseDurationMs      int64             `json:"lease_duration_ms"`
	LeaseRenewalDisabled bool              `json:"lease_renewal_disabled"`
	LeaseExpiryAt        time.Time         `json:"lease_expiry_at"`
	RegisteredAt         time.Time         `json:"registered_at"`
	LastRenewedAt        time.Time         `json:"last_renewed_at"`
	LastDirtyTimestamp   uint64            `json:"last_dirty_timestamp"`
	OriginNode           string            `json:"origin_node"`
}

func (i instance) toDomain() domain.InstanceRecord {
	return domain.InstanceRecord{
		ServiceName:          i.ServiceName,
		InstanceID:           i.InstanceID,
		Endpoint:             domain.Endpoint{Host: i.Host, Port: i.Port, Metadata: i.Metadata},
		Status:               domain.Status(i.Status),
		RegisteredStatus:     domain.Status(i.RegisteredStatus),
		OverriddenStatus:     domain.Status(i.OverriddenStatus),
		LeaseDuration:        time.Duration(i.LeaseDurationMs) * time.Millisecond,
		LeaseRenewalDisabled: i.LeaseRenewalDisabled,
		LeaseExpiryAt:        i.LeaseExpiryAt,
		RegisteredAt:         i.RegisteredAt,
		LastRenewedAt:        i.LastRenewedAt,
		LastDirtyTimestamp:   i.LastDirtyTimestamp,
		OriginNode:           i.OriginNode,
	}
}

func toDomainList(in []instance) []domain.InstanceRecord {
	out := make([]domain.InstanceRecord, 0, len(in))
	for _, i := range in {
		out = append(out, i.toDomain())
	}
	return out
}

type deletedInstance struct {
	ServiceName        string    `json:"service_name"`
	InstanceID         string    `json:"instance_id"`
	Reason             string    `json:"reason"`
	LastDirtyTimestamp uint64    `json:"last_dirty_timestamp"`
	DeletedAt          time.Time `json:"deleted_at"`
}

type deltaResponse struct {
	Version  uint64            `json:"version"`
	Full     bool              `json:"full"`
	Changed  []instance        `json:"changed"`
	Deleted  []deletedInstance `json:"deleted"`
	HashCode string            `json:"hash_code"`
}

type statusResponse struct {
	NodeID                 string  `json:"node_id"`
	Instances              int     `json:"instances"`
	Services               int     `json:"services"`
	SelfPreservationActive bool    `json:"self_preservation_active"`
	ExpectedRenewsPerMin   float64 `json:"expected_renews_per_min"`
	ObservedRenewsPerMin   float64 `json:"observed_renews_per_min"`
	RenewalThreshold       float64 `json:"renewal_threshold"`
	Version                uint64  `json:"version"`
}

func instancePath(serviceName, instanceID string) string {
	return "/v1/services/" + url.PathEscape(serviceName) + "/instances/" + url.PathEscape(instanceID)
}

// Register performs POST /v1/services/{service_name}/instances and returns the stored record.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.InstanceRecord, error) {
	body := registerRequest{
		InstanceID:           reg.InstanceID,
		Host:                 reg.Endpoint.Host,
		Port:                 reg.Endpoint.Port,
		Metadata:             reg.Endpoint.Metadata,
		Status:               string(reg.Status),
		LeaseDurationMs:      reg.LeaseDuration.Milliseconds(),
		LeaseRenewalDisabled: reg.LeaseRenewalDisabled,
	}
	var out instance
	if err := c.do(ctx, http.MethodPost, "/v1/services/"+url.PathEscape(reg.ServiceName)+"/instances", body, &out); err != nil {
		return domain.InstanceRecord{}, err
	}
	return out.toDomain(), nil
}

// Renew performs the heartbeat. entity_not_found means the instance must register again.
func (c *Client) Renew(ctx context.Context, serviceName, instanceID string) error {
	return c.do(ctx, http.MethodPut, instancePath(serviceName, instanceID)+"/heartbeat", nil, nil)
}

func (c *Client) Cancel(ctx context.Context, serviceName, instanceID string) error {
	return c.do(ctx, http.MethodDelete, instancePath(serviceName, instanceID), nil, nil)
}

func (c *Client) SetStatus(ctx context.Context, serviceName, instanceID string, status domain.Status) error {
	path := instancePath(serviceName, instanceID) + "/status?value=" + url.QueryEscape(string(status))
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

func (c *Client) DeleteStatusOverride(ctx context.Context, serviceName, instanceID string) error {
	return c.do(ctx, http.MethodDelete, instancePath(serviceName, instanceID)+"/status", nil, nil)
}

// Query returns UP instances of serviceName, or every instance with includeAll.
func (c *Client) Query(ctx context.Context, serviceName string, includeAll bool) ([]domain.InstanceRecord, error) {
	path := "/v1/services/" + url.PathEscape(serviceName) + "/instances"
	if includeAll {
		path += "?include_all=true"
	}
	var out struct {
		Instances []instance `json:"instances"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Instances == nil {
		return nil, fmt.Errorf("registry response missing instances field")
	}
	return toDomainList(out.Instances), nil
}

func (c *Client) Services(ctx context.Context) ([]string, error) {
	var out struct {
		Services []string `json:"services"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/services", nil, &out); err != nil {
		return nil, err
	}
	return out.Services, nil
}

// QueryDelta fetches changes after since; pass the returned Version on the next call.
func (c *Client) QueryDelta(ctx context.Context, since uint64) (domain.Delta, error) {
	var out deltaResponse
	if err := c.do(ctx, http.MethodGet, "/v1/delta?since="+strconv.FormatUint(since, 10), nil, &out); err != nil {
		return domain.Delta{}, err
	}
	delta := domain.Delta{
		Version:  out.Version,
		Full:     out.Full,
		Changed:  toDomainList(out.Changed),
		HashCode: out.HashCode,
	}
	for _, d := range out.Deleted {
		delta.Deleted = append(delta.Deleted, domain.Tombstone{
			ServiceName:        d.ServiceName,
			InstanceID:         d.InstanceID,
			Reason:             domain.Action(d.Reason),
			LastDirtyTimestamp: d.LastDirtyTimestamp,
			DeletedAt:          d.DeletedAt,
		})
	}
	return delta, nil
}

func (c *Client) Status(ctx context.Context) (domain.RegistryStatus, error) {
	var out statusResponse
	if err := c.do(ctx, http.MethodGet, "/v1/status", nil, &out); err != nil {
		return domain.RegistryStatus{}, err
	}
	return domain.RegistryStatus{
		NodeID:                 out.NodeID,
		Instances:              out.Instances,
		Services:               out.Services,
		SelfPreservationActive: out.SelfPreservationActive,
		ExpectedRenewsPerMin:   out.ExpectedRenewsPerMin,
		ObservedRenewsPerMin:   out.ObservedRenewsPerMin,
		RenewalThreshold:       out.RenewalThreshold,
		Version:                out.Version,
	}, nil
}

// do sends the request and decodes a 200 body into out (when non-nil). Other statuses
// become the MyError carried in the error body, or internal_server_error without one.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return service.NewInternalServerError("marshal request", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return service.NewInternalServerError("build request", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return service.NewInternalServerError("registry request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return service.NewInternalServerError("read response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decodeError(method, path, resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return service.NewInternalServerError("decode response", err)
	}
	return nil
}

func decodeError(method, path string, statusCode int, data []byte) error {
	cause := fmt.Errorf("%s %s returned %d", method, path, statusCode)
	var body service.ErrResponse
	if err := json.Unmarshal(data, &body); err == nil && body.Error != nil && body.Error.Code != "" {
		return service.NewMyError(body.Error.Code, body.Error.Message, cause)
	}
	switch statusCode {
	case http.StatusBadRequest:
		return service.NewBadParameterError(cause.Error(), cause)
	case http.StatusNotFound:
		return service.NewEntityNotFoundError(cause.Error(), cause)
	default:
		return service.NewInternalServerError(cause.Error(), cause)
	}
}
