package handlers

import (
	"testing"
	"time"

	"myregistry/domain"
	"myregistry/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInstance(t *testing.T) {
	rec := storedRecord()
	got := toInstance(rec)
	assert.Equal(t, "orders", got.ServiceName)
	assert.Equal(t, "inst-1", got.InstanceId)
	assert.Equal(t, int64(30000), got.LeaseDurationMs)
	assert.Equal(t, InstanceStatusUP, got.Status)
	assert.Nil(t, got.OverriddenStatus)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, "a", (*got.Metadata)["zone"])

	rec.Endpoint.Metadata = nil
	rec.OverriddenStatus = domain.StatusOutOfService
	rec.Status = domain.StatusOutOfService
	got = toInstance(rec)
	assert.Nil(t, got.Metadata)
	require.NotNil(t, got.OverriddenStatus)
	assert.Equal(t, InstanceStatusOUTOFSERVICE, *got.OverriddenStatus)

	// UNKNOWN means no override.
	rec.OverriddenStatus = domain.StatusUnknown
	assert.Nil(t, toInstance(rec).OverriddenStatus)
}

func TestToInstancesResponse(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.InstanceRecord
		wantLen int
	}{
		{name: "nil", records: nil, wantLen: 0},
		{name: "empty", records: []domain.InstanceRecord{}, wantLen: 0},
		{name: "two", records: []domain.InstanceRecord{storedRecord(), storedRecord()}, wantLen: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toInstancesResponse(tt.records)
			require.NotNil(t, got.Instances)
			assert.Len(t, got.Instances, tt.wantLen)
		})
	}
}

func TestToDeltaResponse(t *testing.T) {
	got := toDeltaResponse(domain.Delta{Version: 3, Full: true})
	assert.NotNil(t, got.Changed)
	assert.NotNil(t, got.Deleted)
	assert.True(t, got.Full)

	deletedAt := helpers.TestNow().Add(time.Minute)
	got = toDeltaResponse(domain.Delta{Deleted: []domain.Tombstone{{ServiceName: "s", InstanceID: "i", Reason: domain.ActionCancel, LastDirtyTimestamp: 8, DeletedAt: deletedAt}}})
	assert.Equal(t, []DeletedInstance{{ServiceName: "s", InstanceId: "i", Reason: "cancel", LastDirtyTimestamp: 8, DeletedAt: deletedAt}}, got.Deleted)
}
