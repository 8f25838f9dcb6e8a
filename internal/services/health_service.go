package services

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"gexcli/internal/config"
)

// ClientCounter reports connected websocket clients.
// The websocket hub implements it.
type ClientCounter interface {
	ClientCount() int
}

// HealthService provides health check functionality
type HealthService struct {
	version      string
	buildTime    string
	paths        *config.Paths
	sessionCount func() int
	clients      ClientCounter
	startTime    time.Time
	logger       *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// NewHealthService creates a health service. clients may be nil when no
// websocket hub is running; sessionCount may be nil when no store is wired.
func NewHealthService(version, buildTime string, paths *config.Paths, sessionCount func() int, clients ClientCounter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		version:      version,
		buildTime:    buildTime,
		paths:        paths,
		sessionCount: sessionCount,
		clients:      clients,
		startTime:    time.Now(),
		logger:       logger.With(slog.String("service", "health")),
	}
}

// Check returns the current health status
func (h *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(h.startTime).Seconds(),
		},
		Services: map[string]interface{}{},
	}

	if h.buildTime != "" {
		status.Runtime["build_time"] = h.buildTime
	}

	// Store health: the data directory must be writable
	storeStatus := "healthy"
	if err := h.checkDataDir(); err != nil {
		storeStatus = "degraded"
		status.Status = "degraded"
		h.logger.WarnContext(ctx, "data directory check failed",
			slog.String("dir", h.paths.DataDir),
			slog.String("error", err.Error()))
	}
	status.Services["store"] = map[string]interface{}{
		"status": storeStatus,
		"path":   h.paths.DataDir,
	}

	if h.sessionCount != nil {
		status.Services["sessions"] = map[string]interface{}{
			"status": "healthy",
			"count":  h.sessionCount(),
		}
	}

	if h.clients != nil {
		status.Services["websocket"] = map[string]interface{}{
			"status":  "healthy",
			"clients": h.clients.ClientCount(),
		}
	}

	return status
}

// Ready reports whether the service can accept traffic
func (h *HealthService) Ready(ctx context.Context) bool {
	return h.checkDataDir() == nil
}

func (h *HealthService) checkDataDir() error {
	if err := os.MkdirAll(h.paths.DataDir, 0755); err != nil {
		return err
	}
	probe := h.paths.DataDir + string(os.PathSeparator) + ".health"
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}
