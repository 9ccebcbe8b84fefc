// Package grpcserver serves the gRPC health protocol for orchestrators that
// probe over gRPC instead of HTTP.
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the overall ("") health status.
const ServiceName = "notekeeper"

// Pinger is a dependency whose failure marks the service NOT_SERVING.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health owns a gRPC server exposing grpc.health.v1.Health.
type Health struct {
	srv    *grpc.Server
	hs     *health.Server
	checks map[string]Pinger
	log    *zap.Logger
}

// New builds the server with logging and panic recovery interceptors. The
// status starts as NOT_SERVING until the first Probe.
func New(checks map[string]Pinger, log *zap.Logger, opts ...grpc.ServerOption) *Health {
	if log == nil {
		log = zap.NewNop()
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(
		RecoverUnary(log),
		LoggingUnary(log),
	))
	h := &Health{
		srv:    grpc.NewServer(opts...),
		hs:     health.NewServer(),
		checks: checks,
		log:    log,
	}
	healthpb.RegisterHealthServer(h.srv, h.hs)
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

func (h *Health) set(st healthpb.HealthCheckResponse_ServingStatus) {
	h.hs.SetServingStatus("", st)
	h.hs.SetServingStatus(ServiceName, st)
}

// Probe pings every dependency once and publishes the result.
func (h *Health) Probe(ctx context.Context) bool {
	ok := true
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.log.Warn("health check failed", zap.String("check", name), zap.Error(err))
			ok = false
		}
	}
	if ok {
		h.set(healthpb.HealthCheckResponse_SERVING)
	} else {
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return ok
}

// Watch probes every interval until ctx is done.
func (h *Health) Watch(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		pctx, cancel := context.WithTimeout(ctx, interval)
		h.Probe(pctx)
		cancel()
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Serve blocks serving lis.
func (h *Health) Serve(lis net.Listener) error {
	return h.srv.Serve(lis)
}

// Shutdown marks the service NOT_SERVING and stops gracefully, forcing the
// stop once timeout elapses.
func (h *Health) Shutdown(timeout time.Duration) {
	h.hs.Shutdown()
	done := make(chan struct{})
	go func() {
		h.srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		h.srv.Stop()
	}
}
