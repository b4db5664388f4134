package peergrpc

import (
	"time"

	"myregistry/domain"
)

// ReplicateRequest carries a batch of events produced on Origin.
type ReplicateRequest struct {
	Origin string  `json:"origin"`
	Events []Event `json:"events"`
}

// ReplicateResponse reports how many events changed the receiver's state.
type ReplicateResponse struct {
	Applied int `json:"applied"`
}

// SnapshotRequest is empty; the receiver returns all of its records.
type SnapshotRequest struct{}

// SnapshotResponse holds every record of the answering node.
type SnapshotResponse struct {
	Records []Record `json:"records"`
}

type Event struct {
	Action             string  `json:"action"`
	ServiceName        string  `json:"service_name"`
	InstanceID         string  `json:"instance_id"`
	Record             *Record `json:"record,omitempty"`
	LastDirtyTimestamp uint64  `json:"last_dirty_timestamp"`
	OriginNode         string  `json:"origin_node"`
}

// Record is InstanceRecord on the wire. Lease duration travels in milliseconds.
// LeaseExpiryAt is not sent: the receiver computes its own local lease.
type Record struct {
	ServiceName          string            `json:"service_name"`
	InstanceID           string            `json:"instance_id"`
	Host                 string            `json:"host"`
	Port                 int               `json:"port"`
	Metadata             map[string]string `json:"metadata,omitempty"`
	Status               string            `json:"status"`
	RegisteredStatus     string            `json:"registered_status"`
	OverriddenStatus     string            `json:"overridden_status,omitempty"`
	LeaseDurationMs      int64             `json:"lease_duration_ms"`
	LeaseRenewalDisabled bool              `json:"lease_renewal_disabled,omitempty"`
	RegisteredAt         time.Time         `json:"registered_at"`
	LastRenewedAt        time.Time         `json:"last_renewed_at"`
	LastDirtyTimestamp   uint64            `json:"last_dirty_timestamp"`
	OriginNode           string            `json:"origin_node"`
}

func toWireRecord(r domain.InstanceRecord) Record {
	return Record{
		ServiceName:          r.ServiceName,
		InstanceID:           r.InstanceID,
		Host:                 r.Endpoint.Host,
		Port:                 r.Endpoint.Port,
		Metadata:             r.Endpoint.Metadata,
		Status:               string(r.Status),
		RegisteredStatus:     string(r.RegisteredStatus),
		OverriddenStatus:     string(r.OverriddenStatus),
		LeaseDurationMs:      r.LeaseDuration.Milliseconds(),
		LeaseRenewalDisabled: r.LeaseRenewalDisabled,
		RegisteredAt:         r.RegisteredAt,
		LastRenewedAt:        r.LastRenewedAt,
		LastDirtyTimestamp:   r.LastDirtyTimestamp,
		OriginNode:           r.OriginNode,
	}
}

func fromWireRecord(r Record) domain.InstanceRecord {
	return domain.InstanceRecord{
		ServiceName:          r.ServiceName,
		InstanceID:           r.InstanceID,
		Endpoint:             domain.Endpoint{Host: r.Host, Port: r.Port, Metadata: r.Metadata},
		Status:               domain.Status(r.Status),
		RegisteredStatus:     domain.Status(r.RegisteredStatus),
		OverriddenStatus:     domain.Status(r.OverriddenStatus),
		LeaseDuration:        time.Duration(r.LeaseDurationMs) * time.Millisecond,
		LeaseRenewalDisabled: r.LeaseRenewalDisabled,
		RegisteredAt:         r.RegisteredAt,
		LastRenewedAt:        r.LastRenewedAt,
		LastDirtyTimestamp:   r.LastDirtyTimestamp,
		OriginNode:           r.OriginNode,
	}
}

func toWireEvents(events []domain.ReplicationEvent) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		w := Event{
			Action:             string(ev.Action),
			ServiceName:        ev.ServiceName,
			InstanceID:         ev.InstanceID,
			LastDirtyTimestamp: ev.LastDirtyTimestamp,
			OriginNode:         ev.OriginNode,
		}
		if ev.Record != nil {
			rec := toWireRecord(*ev.Record)
			w.Record = &rec
		}
		out = append(out, w)
	}
	return out
}

// fromWireEvents converts a batch received from sender.
func fromWireEvents(sender string, events []Event) []domain.ReplicationEvent {
	out := make([]domain.ReplicationEvent, 0, len(events))
	for _, w := range events {
		ev := domain.ReplicationEvent{
			Action:             domain.Action(w.Action),
			ServiceName:        w.ServiceName,
			InstanceID:         w.InstanceID,
			LastDirtyTimestamp: w.LastDirtyTimestamp,
			OriginNode:         w.OriginNode,
			Sender:             sender,
		}
		if w.Record != nil {
			rec := fromWireRecord(*w.Record)
			ev.Record = &rec
		}
		out = append(out, ev)
	}
	return out
}

func toWireRecords(records []domain.InstanceRecord) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, toWireRecord(r))
	}
	return out
}

func fromWireRecords(records []Record) []domain.InstanceRecord {
	out := make([]domain.InstanceRecord, 0, len(records))
	for _, r := range records {
		out = append(out, fromWireRecord(r))
	}
	return out
}
