package myredis

import (
	"context"
	"errors"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
)

// MirrorPrefix is the key prefix of mirrored records.
const MirrorPrefix = "myregistry:instance"

// Mirror keeps a copy of this node's records in redis. It is fed like any peer by the
// replicator and serves the copy as a snapshot when a node starts without reachable peers.
// Mirrored entries expire with their lease, so a stopped cluster does not warm-start with
// instances that have long gone. The mirror is never a source of truth.
type Mirror struct {
	cache interfaces.Cache[domain.InstanceRecord]
}

var _ interfaces.PeerClient = (*Mirror)(nil)

// NewMirror creates a mirror over cache.
func NewMirror(cache interfaces.Cache[domain.InstanceRecord]) *Mirror {
	return &Mirror{cache: helpers.NilPanic(cache, "myredis.mirror.go: cache is required")}
}

// Replicate writes records and deletes tombstoned instances. All events are attempted;
// the returned error joins the failures.
func (m *Mirror) Replicate(ctx context.Context, origin string, events []domain.ReplicationEvent) error {
	var errs []error
	for _, ev := range events {
		key := ev.Key().String()
		if ev.IsTombstone() {
			errs = append(errs, m.cache.DeleteValue(ctx, key))
			continue
		}
		if ev.Record == nil {
			continue
		}
		errs = append(errs, m.cache.WriteValue(ctx, key, *ev.Record, ttlMs(*ev.Record)))
	}
	return errors.Join(errs...)
}

func ttlMs(r domain.InstanceRecord) int {
	if !r.IsEvictable() {
		return 0
	}
	return int(r.LeaseDuration.Milliseconds())
}

// Snapshot returns the mirrored records. An empty mirror is entity_not_found.
func (m *Mirror) Snapshot(ctx context.Context) ([]domain.InstanceRecord, error) {
	return m.cache.ListAllValues(ctx)
}

// Close is a no-op: the redis client is owned by the caller.
func (m *Mirror) Close() error {
	return nil
}
