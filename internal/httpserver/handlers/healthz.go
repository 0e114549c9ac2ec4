package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/jobboard/internal/httpserver/deps"
)

type buildInfo struct {
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type healthzResponse struct {
	Status        string    `json:"status"`
	Store         string    `json:"store,omitempty"`
	StartedAt     string    `json:"started_at"`
	UptimeSeconds float64   `json:"uptime_seconds"`
	Build         buildInfo `json:"build"`
}

// Healthz reports liveness and build info without touching the store.
func Healthz(d deps.Deps) http.HandlerFunc {
	build := buildInfo{
		Version:   d.Version,
		Commit:    d.Commit,
		BuildDate: d.BuildDate,
		GoVersion: d.GoVersion,
	}
	started := d.StartTime.UTC().Format(time.RFC3339)

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			Store:         d.StoreKind,
			StartedAt:     started,
			UptimeSeconds: time.Since(d.StartTime).Round(time.Millisecond).Seconds(),
			Build:         build,
		})
	}
}
