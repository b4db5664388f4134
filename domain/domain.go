package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the availability state an instance advertises.
type Status string

const (
	StatusUp           Status = "UP"
	StatusDown         Status = "DOWN"
	StatusStarting     Status = "STARTING"
	StatusOutOfService Status = "OUT_OF_SERVICE"
	StatusUnknown      Status = "UNKNOWN"
)

// ParseStatus converts a case-insensitive status name to Status.
// Returns an error for anything outside the known set.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusUp, StatusDown, StatusStarting, StatusOutOfService, StatusUnknown:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// Endpoint is where an instance can be reached. Metadata is opaque to the registry.
type Endpoint struct {
	Host     string
	Port     int
	Metadata map[string]string
}

// Key identifies one instance within a registry node.
type Key struct {
	ServiceName string
	InstanceID  string
}

func (k Key) String() string {
	return k.ServiceName + "/" + k.InstanceID
}

// Registration is the input of a register call.
type Registration struct {
	ServiceName string
	InstanceID  string
	Endpoint    Endpoint
	// Status defaults to UP when empty.
	Status Status
	// LeaseDuration of zero means the configured default.
	LeaseDuration        time.Duration
	LeaseRenewalDisabled bool
}

// InstanceRecord is one registered instance together with its lease state.
type InstanceRecord struct {
	ServiceName string
	InstanceID  string
	Endpoint    Endpoint
	// Status is the effective status: OverriddenStatus when set, RegisteredStatus otherwise.
	Status           Status
	RegisteredStatus Status
	OverriddenStatus Status

	LeaseDuration        time.Duration
	LeaseRenewalDisabled bool
	LeaseExpiryAt        time.Time
	RegisteredAt         time.Time
	LastRenewedAt        time.Time

	// LastDirtyTimestamp is a logical version, not wall time.
	LastDirtyTimestamp uint64
	OriginNode         string
}

// Key returns the record's identity.
func (r InstanceRecord) Key() Key {
	return Key{ServiceName: r.ServiceName, InstanceID: r.InstanceID}
}

// IsEvictable reports whether lease expiry may remove the record.
func (r InstanceRecord) IsEvictable() bool {
	return !r.LeaseRenewalDisabled
}

// IsExpired reports whether the lease ran out strictly before now.
func (r InstanceRecord) IsExpired(now time.Time) bool {
	return r.IsEvictable() && r.LeaseExpiryAt.Before(now)
}

// HasOverride reports whether an administrative status override is in effect.
func (r InstanceRecord) HasOverride() bool {
	return r.OverriddenStatus != "" && r.OverriddenStatus != StatusUnknown
}

// EffectiveStatus resolves the override against the registered status.
func (r InstanceRecord) EffectiveStatus() Status {
	if r.HasOverride() {
		return r.OverriddenStatus
	}
	if r.RegisteredStatus == "" {
		return StatusUnknown
	}
	return r.RegisteredStatus
}

// Clone returns a deep copy so callers never share the metadata map with the store.
func (r InstanceRecord) Clone() InstanceRecord {
	out := r
	if r.Endpoint.Metadata != nil {
		out.Endpoint.Metadata = make(map[string]string, len(r.Endpoint.Metadata))
		for k, v := range r.Endpoint.Metadata {
			out.Endpoint.Metadata[k] = v
		}
	}
	return out
}

// PeerNode is another registry node of the cluster.
type PeerNode struct {
	ID      string
	Address string
}
