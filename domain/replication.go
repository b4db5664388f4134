package domain

import "time"

// Action names the mutation a replication event carries.
type Action string

const (
	ActionRegister             Action = "register"
	ActionRenew                Action = "renew"
	ActionCancel               Action = "cancel"
	ActionStatusUpdate         Action = "status_update"
	ActionDeleteStatusOverride Action = "delete_status_override"
	ActionEvict                Action = "evict"
)

// IsRemoval reports whether the action deletes the instance.
func (a Action) IsRemoval() bool {
	return a == ActionCancel || a == ActionEvict
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionRegister, ActionRenew, ActionCancel, ActionStatusUpdate, ActionDeleteStatusOverride, ActionEvict:
		return true
	default:
		return false
	}
}

// ReplicationEvent is a local mutation as shipped to peers.
// Record is nil for removals (tombstones).
//
// LastDirtyTimestamp and OriginNode are the version of the record the event carries.
// Sender is the node that handled the client call; it differs from OriginNode when a node
// renews a record that was last written elsewhere.
type ReplicationEvent struct {
	Action             Action
	ServiceName        string
	InstanceID         string
	Record             *InstanceRecord
	LastDirtyTimestamp uint64
	OriginNode         string
	Sender             string
}

// Key returns the identity of the instance the event is about.
func (e ReplicationEvent) Key() Key {
	return Key{ServiceName: e.ServiceName, InstanceID: e.InstanceID}
}

// IsTombstone reports whether the event removes the instance.
func (e ReplicationEvent) IsTombstone() bool {
	return e.Action.IsRemoval()
}

// Tombstone remembers a removal so stale writes cannot resurrect the instance
// and delta clients learn about the deletion.
type Tombstone struct {
	ServiceName        string
	InstanceID         string
	Reason             Action
	LastDirtyTimestamp uint64
	OriginNode         string
	DeletedAt          time.Time
}

// Key returns the identity of the removed instance.
func (t Tombstone) Key() Key {
	return Key{ServiceName: t.ServiceName, InstanceID: t.InstanceID}
}

// Delta is the incremental change set returned to polling clients.
type Delta struct {
	// Version is the value to pass as since on the next poll.
	Version uint64
	// Full means Changed holds the complete registry and the client must reset its view.
	Full     bool
	Changed  []InstanceRecord
	Deleted  []Tombstone
	HashCode string
}

// RegistryStatus describes the node and its self-preservation state.
type RegistryStatus struct {
	NodeID                 string
	Instances              int
	Services               int
	SelfPreservationActive bool
	ExpectedRenewsPerMin   float64
	ObservedRenewsPerMin   float64
	RenewalThreshold       float64
	Version                uint64
}
