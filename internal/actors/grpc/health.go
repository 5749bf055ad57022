package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthServer reports the serving status of the process over grpc.health.v1.
type HealthServer struct {
	*health.Server
	pinger Pinger
}

// NewHealthServer creates a health server whose status follows pinger.
func NewHealthServer(pinger Pinger) *HealthServer {
	return &HealthServer{Server: health.NewServer(), pinger: pinger}
}

// Refresh pings the dependency and updates the overall serving status.
func (h *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.pinger.Ping(ctx); err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.SetServingStatus("", status)
	return status
}

// NewServer builds a grpc server exposing the health service and reflection.
func NewServer(h *HealthServer, opts ...grpc.ServerOption) *grpc.Server {
	server := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(server, h)
	reflection.Register(server)
	return server
}
