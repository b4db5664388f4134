package handlers

import (
	"time"

	"myregistry/domain"
	"myregistry/service"
)

// fromRegisterRequest converts RegisterRequest to domain.Registration.
// Returns service.BadParameterError on validation failure; lease bounds are checked by the registry.
func fromRegisterRequest(serviceName string, req RegisterRequest) (domain.Registration, error) {
	if serviceName == "" {
		return domain.Registration{}, service.NewBadParameterError("service_name is required", nil)
	}
	if req.InstanceId == "" {
		return domain.Registration{}, service.NewBadParameterError("instance_id is required", nil)
	}
	if req.Host == "" {
		return domain.Registration{}, service.NewBadParameterError("host is required", nil)
	}
	if req.Port <= 0 || req.Port > 65535 {
		return domain.Registration{}, service.NewBadParameterError("port must be in 1..65535", nil)
	}

	reg := domain.Registration{
		ServiceName:          serviceName,
		InstanceID:           req.InstanceId,
		Endpoint:             domain.Endpoint{Host: req.Host, Port: req.Port, Metadata: service.Value(req.Metadata)},
		LeaseRenewalDisabled: service.Value(req.LeaseRenewalDisabled),
	}
	if req.Status != nil {
		status, err := domain.ParseStatus(string(*req.Status))
		if err != nil {
			return domain.Registration{}, service.NewBadParameterError(err.Error(), err)
		}
		reg.Status = status
	}
	if req.LeaseDurationMs != nil {
		if *req.LeaseDurationMs < 0 {
			return domain.Registration{}, service.NewBadParameterError("lease_duration_ms must not be negative", nil)
		}
		reg.LeaseDuration = time.Duration(*req.LeaseDurationMs) * time.Millisecond
	}
	return reg, nil
}
