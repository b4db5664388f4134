package interfaces

import (
	"context"

	"myregistry/domain"
)

// EventSink accepts replication events produced by local mutations.
// Enqueue must not block on network I/O.
//
// Implemented by service.Replicator.
//
//go:generate moq -stub -out mock/event_sink.go -pkg mock . EventSink
type EventSink interface {
	Enqueue(event domain.ReplicationEvent)
}

// PeerClient is the sending side of replication towards one peer
// (another registry node or the redis mirror).
//
// Implemented by adapters/peergrpc.Client and adapters/myredis.Mirror.
//
//go:generate moq -stub -out mock/peer_client.go -pkg mock . PeerClient
type PeerClient interface {
	// Replicate delivers a batch of events produced on origin.
	Replicate(ctx context.Context, origin string, events []domain.ReplicationEvent) error

	// Snapshot returns every record the peer holds, used when (re)joining the cluster.
	Snapshot(ctx context.Context) ([]domain.InstanceRecord, error)

	Close() error
}

// PeerReceiver is the receiving side of replication.
//
// Implemented by service.Registry, served by adapters/peergrpc.Server.
//
//go:generate moq -stub -out mock/peer_receiver.go -pkg mock . PeerReceiver
type PeerReceiver interface {
	// ApplyReplication applies events with last-writer-wins and returns how many changed local state.
	ApplyReplication(ctx context.Context, events []domain.ReplicationEvent) int

	// Snapshot returns copies of all records regardless of status.
	Snapshot(ctx context.Context) []domain.InstanceRecord
}
