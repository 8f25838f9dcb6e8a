package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClientCounter int

func (f fixedClientCounter) ClientCount() int { return int(f) }

func TestHealthService_Check(t *testing.T) {
	paths, _ := testServiceDeps(t)
	svc := NewHealthService("1.2.3", "2025-08-25T12:00:00Z", paths, func() int { return 4 }, fixedClientCounter(2), discardLogger())

	status := svc.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
	assert.Equal(t, "2025-08-25T12:00:00Z", status.Runtime["build_time"])
	assert.NotEmpty(t, status.Runtime["go_version"])

	storeInfo, ok := status.Services["store"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "healthy", storeInfo["status"])
	assert.Equal(t, paths.DataDir, storeInfo["path"])

	sessionInfo, ok := status.Services["sessions"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 4, sessionInfo["count"])

	wsInfo, ok := status.Services["websocket"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 2, wsInfo["clients"])
}

func TestHealthService_Check_NilCollaborators(t *testing.T) {
	paths, _ := testServiceDeps(t)
	svc := NewHealthService("dev", "", paths, nil, nil, discardLogger())

	status := svc.Check(context.Background())

	assert.Equal(t, "healthy", status.Status)
	assert.NotContains(t, status.Runtime, "build_time")
	assert.NotContains(t, status.Services, "sessions")
	assert.NotContains(t, status.Services, "websocket")
}

func TestHealthService_Ready(t *testing.T) {
	paths, _ := testServiceDeps(t)
	svc := NewHealthService("dev", "", paths, nil, nil, discardLogger())

	assert.True(t, svc.Ready(context.Background()))
}
