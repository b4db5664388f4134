package handlers

import (
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRegisterRequest(t *testing.T) {
	valid := RegisterRequest{InstanceId: "inst-1", Host: "10.0.0.1", Port: 9000}

	tests := []struct {
		name          string
		serviceName   string
		request       RegisterRequest
		expected      domain.Registration
		expectedError string
	}{
		{
			name:        "minimal",
			serviceName: "orders",
			request:     valid,
			expected: domain.Registration{
				ServiceName: "orders",
				InstanceID:  "inst-1",
				Endpoint:    domain.Endpoint{Host: "10.0.0.1", Port: 9000},
			},
		},
		{
			name:        "all fields",
			serviceName: "orders",
			request: RegisterRequest{
				InstanceId:           "inst-1",
				Host:                 "10.0.0.1",
				Port:                 9000,
				Metadata:             &map[string]string{"zone": "a"},
				Status:               service.Ptr(InstanceStatusSTARTING),
				LeaseDurationMs:      service.Ptr(int64(45000)),
				LeaseRenewalDisabled: service.Ptr(true),
			},
			expected: domain.Registration{
				ServiceName:          "orders",
				InstanceID:           "inst-1",
				Endpoint:             domain.Endpoint{Host: "10.0.0.1", Port: 9000, Metadata: map[string]string{"zone": "a"}},
				Status:               domain.StatusStarting,
				LeaseDuration:        45 * time.Second,
				LeaseRenewalDisabled: true,
			},
		},
		{name: "empty service_name", serviceName: "", request: valid, expectedError: "service_name is required"},
		{name: "empty instance_id", serviceName: "orders", request: RegisterRequest{Host: "h", Port: 1}, expectedError: "instance_id is required"},
		{name: "empty host", serviceName: "orders", request: RegisterRequest{InstanceId: "i", Port: 1}, expectedError: "host is required"},
		{name: "zero port", serviceName: "orders", request: RegisterRequest{InstanceId: "i", Host: "h"}, expectedError: "port must be in 1..65535"},
		{
			name:          "bad status",
			serviceName:   "orders",
			request:       RegisterRequest{InstanceId: "i", Host: "h", Port: 1, Status: service.Ptr(InstanceStatus("SLEEPING"))},
			expectedError: `unknown status "SLEEPING"`,
		},
		{
			name:          "negative lease",
			serviceName:   "orders",
			request:       RegisterRequest{InstanceId: "i", Host: "h", Port: 1, LeaseDurationMs: service.Ptr(int64(-1))},
			expectedError: "lease_duration_ms must not be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fromRegisterRequest(tt.serviceName, tt.request)
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.True(t, service.IsBadParameterError(err))
				assert.Equal(t, tt.expectedError, service.ToMyError(err).Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
