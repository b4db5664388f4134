package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/interfaces/mock"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotSource(id string, records []domain.InstanceRecord, err error) ReplicationTarget {
	return ReplicationTarget{ID: id, Client: &mock.PeerClientMock{
		SnapshotFunc: func(ctx context.Context) ([]domain.InstanceRecord, error) {
			return records, err
		},
	}}
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	peerRecord := testRecord("orders", "a", 30*time.Second)
	peerRecord.LastDirtyTimestamp = 42
	peerRecord.OriginNode = "n2"

	t.Run("first reachable source wins", func(t *testing.T) {
		r, sink := newTestRegistry(clock, testRegistryConfig("n1"))
		down := snapshotSource("down", nil, errors.New("connection refused"))
		up := snapshotSource("n2", []domain.InstanceRecord{peerRecord}, nil)
		unused := snapshotSource("n3", nil, nil)

		used := Bootstrap(ctx, r, []ReplicationTarget{down, up, unused}, time.Second, log.NewNopLogger())
		assert.Equal(t, "n2", used)
		assert.Len(t, down.Client.(*mock.PeerClientMock).SnapshotCalls(), bootstrapAttempts)
		assert.Empty(t, unused.Client.(*mock.PeerClientMock).SnapshotCalls())

		got, _ := r.Query(ctx, "orders", false)
		require.Len(t, got, 1)
		assert.Equal(t, uint64(42), got[0].LastDirtyTimestamp)
		assert.Equal(t, clock.Now().Add(30*time.Second), got[0].LeaseExpiryAt)
		assert.Empty(t, sink.EnqueueCalls(), "snapshot records are not re-replicated")
	})

	t.Run("empty mirror counts as a snapshot", func(t *testing.T) {
		r, _ := newTestRegistry(clock, testRegistryConfig("n1"))
		mirror := snapshotSource("redis", nil, NewEntityNotFoundError("no values", nil))
		assert.Equal(t, "redis", Bootstrap(ctx, r, []ReplicationTarget{mirror}, time.Second, log.NewNopLogger()))
		assert.Len(t, mirror.Client.(*mock.PeerClientMock).SnapshotCalls(), 1)
	})

	t.Run("no source", func(t *testing.T) {
		r, _ := newTestRegistry(clock, testRegistryConfig("n1"))
		assert.Equal(t, "", Bootstrap(ctx, r, nil, time.Second, log.NewNopLogger()))
		down := snapshotSource("down", nil, errors.New("connection refused"))
		assert.Equal(t, "", Bootstrap(ctx, r, []ReplicationTarget{down}, time.Second, log.NewNopLogger()))
		assert.Zero(t, r.store.Count())
	})

	t.Run("local newer record is kept", func(t *testing.T) {
		r, _ := newTestRegistry(clock, testRegistryConfig("n1"))
		local, err := r.Register(ctx, registration("orders", "a", time.Minute))
		require.NoError(t, err)
		Bootstrap(ctx, r, []ReplicationTarget{snapshotSource("n2", []domain.InstanceRecord{peerRecord}, nil)}, time.Second, log.NewNopLogger())

		got, _ := r.Query(ctx, "orders", false)
		require.Len(t, got, 1)
		assert.Equal(t, local.LastDirtyTimestamp, got[0].LastDirtyTimestamp)
	})
}
