package peergrpc

import (
	"context"

	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc"
)

const (
	ServiceName     = "myregistry.v1.Peer"
	replicateMethod = "/" + ServiceName + "/Replicate"
	snapshotMethod  = "/" + ServiceName + "/Snapshot"
)

// PeerServer is the server API of myregistry.v1.Peer.
type PeerServer interface {
	Replicate(ctx context.Context, req *ReplicateRequest) (*ReplicateResponse, error)
	Snapshot(ctx context.Context, req *SnapshotRequest) (*SnapshotResponse, error)
}

// RegisterPeerServer registers srv on s.
func RegisterPeerServer(s grpc.ServiceRegistrar, srv PeerServer) {
	s.RegisterService(&peerServiceDesc, srv)
}

var peerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PeerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Replicate", Handler: replicateHandler},
		{MethodName: "Snapshot", Handler: snapshotHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func replicateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReplicateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PeerServer).Replicate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: replicateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PeerServer).Replicate(ctx, req.(*ReplicateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func snapshotHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SnapshotRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PeerServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: snapshotMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PeerServer).Snapshot(ctx, req.(*SnapshotRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// grpcServer serves peer calls from the local registry.
type grpcServer struct {
	receiver interfaces.PeerReceiver
	logger   log.Logger
}

var _ PeerServer = (*grpcServer)(nil)

// NewServer creates the peer service implementation over receiver.
func NewServer(receiver interfaces.PeerReceiver, logger log.Logger) *grpcServer {
	return &grpcServer{
		receiver: helpers.NilPanic(receiver, "peergrpc.server.go: receiver is required"),
		logger:   helpers.NilPanic(logger, "peergrpc.server.go: logger is required"),
	}
}

func (s *grpcServer) Replicate(ctx context.Context, req *ReplicateRequest) (*ReplicateResponse, error) {
	if req == nil {
		return nil, service.NewBadParameterError("request is nil", nil)
	}
	if req.Origin == "" {
		return nil, service.NewBadParameterError("origin is required", nil)
	}
	applied := s.receiver.ApplyReplication(ctx, fromWireEvents(req.Origin, req.Events))
	level.Debug(s.logger).Log("msg", "Replication batch received", "origin", req.Origin, "events", len(req.Events), "applied", applied)
	return &ReplicateResponse{Applied: applied}, nil
}

func (s *grpcServer) Snapshot(ctx context.Context, _ *SnapshotRequest) (*SnapshotResponse, error) {
	return &SnapshotResponse{Records: toWireRecords(s.receiver.Snapshot(ctx))}, nil
}
