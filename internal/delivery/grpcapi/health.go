package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "deal-service"

// Probe returns nil while the service's dependencies are reachable.
type Probe func(ctx context.Context) error

// HealthMonitor keeps the grpc.health.v1 status of the overall server ("")
// and of ServiceName in line with Probe.
type HealthMonitor struct {
	Server   *health.Server
	Probe    Probe
	Interval time.Duration
	Timeout  time.Duration
}

func NewHealthMonitor(probe Probe, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthMonitor{
		Server:   hs,
		Probe:    probe,
		Interval: interval,
		Timeout:  2 * time.Second,
	}
}

// NewServer returns a gRPC server with the health service registered.
func NewServer(m *HealthMonitor, opts ...grpc.ServerOption) *grpc.Server {
	s := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(s, m.Server)
	return s
}

// Run probes once immediately and then every Interval until ctx is done.
func (m *HealthMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for {
		m.Check(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (m *HealthMonitor) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if m.Probe != nil {
		probeCtx, cancel := context.WithTimeout(ctx, m.Timeout)
		err := m.Probe(probeCtx)
		cancel()
		if err != nil {
			slog.Warn("health probe failed", "error", err.Error())
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	m.Server.SetServingStatus("", status)
	m.Server.SetServingStatus(ServiceName, status)
	return status
}

// Shutdown reports NOT_SERVING from now on, whatever the probe says.
func (m *HealthMonitor) Shutdown() {
	m.Server.Shutdown()
}
