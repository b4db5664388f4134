package handlers

import (
	"myregistry/domain"
	"myregistry/service"
)

func toInstance(r domain.InstanceRecord) Instance {
	out := Instance{
		ServiceName:          r.ServiceName,
		InstanceId:           r.InstanceID,
		Host:                 r.Endpoint.Host,
		Port:                 r.Endpoint.Port,
		Status:               InstanceStatus(r.Status),
		RegisteredStatus:     InstanceStatus(r.RegisteredStatus),
		LeaseDurationMs:      r.LeaseDuration.Milliseconds(),
		LeaseRenewalDisabled: r.LeaseRenewalDisabled,
		LeaseExpiryAt:        r.LeaseExpiryAt,
		RegisteredAt:         r.RegisteredAt,
		LastRenewedAt:        r.LastRenewedAt,
		LastDirtyTimestamp:   r.LastDirtyTimestamp,
		OriginNode:           r.OriginNode,
	}
	if len(r.Endpoint.Metadata) > 0 {
		out.Metadata = service.Ptr(r.Endpoint.Metadata)
	}
	if r.HasOverride() {
		out.OverriddenStatus = service.Ptr(InstanceStatus(r.OverriddenStatus))
	}
	return out
}

func toInstances(records []domain.InstanceRecord) []Instance {
	out := make([]Instance, 0, len(records))
	for _, r := range records {
		out = append(out, toInstance(r))
	}
	return out
}

// toInstancesResponse converts domain records to API response. Never returns a nil list.
func toInstancesResponse(records []domain.InstanceRecord) InstancesResponse {
	return InstancesResponse{Instances: toInstances(records)}
}

func toDeltaResponse(d domain.Delta) DeltaResponse {
	deleted := make([]DeletedInstance, 0, len(d.Deleted))
	for _, t := range d.Deleted {
		deleted = append(deleted, DeletedInstance{
			ServiceName:        t.ServiceName,
			InstanceId:         t.InstanceID,
			Reason:             string(t.Reason),
			LastDirtyTimestamp: t.LastDirtyTimestamp,
			DeletedAt:          t.DeletedAt,
		})
	}
	return DeltaResponse{
		Version:  d.Version,
		Full:     d.Full,
		Changed:  toInstances(d.Changed),
		Deleted:  deleted,
		HashCode: d.HashCode,
	}
}

func toStatusResponse(s domain.RegistryStatus) StatusResponse {
	return StatusResponse{
		NodeId:                 s.NodeID,
		Instances:              s.Instances,
		Services:               s.Services,
		SelfPreservationActive: s.SelfPreservationActive,
		ExpectedRenewsPerMin:   float32(s.ExpectedRenewsPerMin),
		ObservedRenewsPerMin:   float32(s.ObservedRenewsPerMin),
		RenewalThreshold:       float32(s.RenewalThreshold),
		Version:                s.Version,
	}
}
