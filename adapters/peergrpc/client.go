package peergrpc

import (
	"context"
	"fmt"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client replicates to one peer node. Deadlines come from the caller's context.
type Client struct {
	conn *grpc.ClientConn
}

var _ interfaces.PeerClient = (*Client)(nil)

// NewClient creates a client for the peer listening on address (host:port).
// The connection is established lazily on the first call.
func NewClient(address string, opts ...grpc.DialOption) (*Client, error) {
	helpers.StrPanic(address, "peergrpc.client.go: address is required")
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("peer client for %s: %w", address, err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Replicate(ctx context.Context, origin string, events []domain.ReplicationEvent) error {
	req := &ReplicateRequest{Origin: origin, Events: toWireEvents(events)}
	resp := new(ReplicateResponse)
	if err := c.conn.Invoke(ctx, replicateMethod, req, resp); err != nil {
		return service.GRPCToMyError(err)
	}
	return nil
}

func (c *Client) Snapshot(ctx context.Context) ([]domain.InstanceRecord, error) {
	resp := new(SnapshotResponse)
	if err := c.conn.Invoke(ctx, snapshotMethod, &SnapshotRequest{}, resp); err != nil {
		return nil, service.GRPCToMyError(err)
	}
	return fromWireRecords(resp.Records), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
