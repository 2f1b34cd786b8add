package grpcapi

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func servingStatus(t *testing.T, m *HealthMonitor, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := m.Server.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestHealthMonitor_FollowsProbe(t *testing.T) {
	var probeErr error
	m := NewHealthMonitor(func(context.Context) error { return probeErr }, 0)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, m, ServiceName))

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, m.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, m, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, m, ServiceName))

	probeErr = errors.New("database unreachable")
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, m.Check(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, m, ServiceName))
}

func TestHealthMonitor_ShutdownSticks(t *testing.T) {
	m := NewHealthMonitor(nil, 0)
	m.Check(context.Background())
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, servingStatus(t, m, ""))

	m.Shutdown()
	m.Check(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, servingStatus(t, m, ""))
}
