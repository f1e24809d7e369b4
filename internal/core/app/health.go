package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app == nil || s.app.Graph == nil {
		status.Status = "degraded"
		status.Components["graph"] = "missing"
		return status
	}

	stats := s.app.Graph.Stats()
	nodes := 0
	for _, count := range stats.Nodes {
		nodes += count
	}
	edges := 0
	for _, count := range stats.Edges {
		edges += count
	}
	status.Components["graph"] = fmt.Sprintf("ok (%d nodes, %d edges)", nodes, edges)

	if s.app.changeStore != nil {
		if _, err := s.app.changeStore.Count(ctx); err != nil {
			status.Status = "degraded"
			status.Components["changelog"] = fmt.Sprintf("unreachable: %v", err)
		} else {
			status.Components["changelog"] = fmt.Sprintf("ok (queue depth %d)", s.app.changeQueue.Len())
		}
	} else if s.app.Config != nil && s.app.Config.Changelog.Enabled {
		status.Status = "degraded"
		status.Components["changelog"] = "missing but enabled in config"
	}

	if s.app.seedWatcher != nil {
		status.Components["seed_watcher"] = "ok"
	}

	return status
}
