package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/mw"
)

type storeStatus struct {
	OK           bool           `json:"ok"`
	Backend      string         `json:"backend,omitempty"`
	Applications *int           `json:"applications,omitempty"`
	ByStatus     map[string]int `json:"by_status,omitempty"`
	LastUpdated  string         `json:"last_updated,omitempty"`
	Error        string         `json:"error,omitempty"`
}

type infraResponse struct {
	Components map[string]storeStatus `json:"components"`
	RateLimit  *mw.LimiterStats       `json:"rate_limit,omitempty"`
}

// Infra reports the state of the record store, including per-column counts,
// and the write limiter counters when one is configured.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := checkStore(r.Context(), d)
		code := http.StatusOK
		if !status.OK {
			code = http.StatusServiceUnavailable
		}
		resp := infraResponse{
			Components: map[string]storeStatus{"store": status},
		}
		if d.WriteLimiter != nil {
			stats := d.WriteLimiter.Stats()
			resp.RateLimit = &stats
		}
		writeJSON(w, code, resp)
	}
}

func checkStore(ctx context.Context, d deps.Deps) storeStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	st := storeStatus{Backend: d.StoreKind}
	if err := d.Store.Ping(ctx); err != nil {
		st.Error = err.Error()
		return st
	}

	jobs, err := d.Store.List(ctx)
	if err != nil {
		st.Error = err.Error()
		return st
	}

	st.OK = true
	n := len(jobs)
	st.Applications = &n
	st.ByStatus = make(map[string]int, len(domain.Statuses))
	for _, s := range domain.Statuses {
		st.ByStatus[s.String()] = 0
	}
	for _, j := range jobs {
		st.ByStatus[j.Status.String()]++
	}
	if n > 0 {
		st.LastUpdated = jobs[0].UpdatedAt.Format(time.RFC3339)
	}
	return st
}
