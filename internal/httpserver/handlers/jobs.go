package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
)

type deleteResponse struct {
	Message string `json:"message"`
}

// ListJobs returns every application, most recently updated first.
func ListJobs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := d.Store.List(r.Context())
		if err != nil {
			writeStoreError(w, r, d, "list", err)
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func CreateJob(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f domain.Fields
		if err := decodeStrict(w, r, &f); err != nil {
			writeStoreError(w, r, d, "create", err)
			return
		}

		f, err := f.Prepare()
		if err != nil {
			writeStoreError(w, r, d, "create", err)
			return
		}

		job, err := d.Store.Create(r.Context(), f)
		if err != nil {
			writeStoreError(w, r, d, "create", err)
			return
		}

		d.Logger.Info("application created",
			logger.String("id", job.ID),
			logger.String("status", job.Status.String()))
		writeJSON(w, http.StatusCreated, job)
	}
}

// UpdateJob applies a partial patch. An empty patch only refreshes updated_at.
func UpdateJob(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var p domain.Patch
		if err := decodeStrict(w, r, &p); err != nil {
			writeStoreError(w, r, d, "update", err)
			return
		}
		p.Normalize()
		if err := p.Validate(); err != nil {
			writeStoreError(w, r, d, "update", err)
			return
		}

		job, err := d.Store.Update(r.Context(), id, p)
		if err != nil {
			writeStoreError(w, r, d, "update", err)
			return
		}

		if p.OnlyStatus() {
			d.Logger.Info("application moved",
				logger.String("id", job.ID),
				logger.String("status", job.Status.String()))
		} else {
			d.Logger.Debug("application updated", logger.String("id", job.ID))
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func DeleteJob(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := d.Store.Delete(r.Context(), id); err != nil {
			writeStoreError(w, r, d, "delete", err)
			return
		}

		d.Logger.Info("application deleted", logger.String("id", id))
		writeJSON(w, http.StatusOK, deleteResponse{Message: "Job deleted successfully"})
	}
}
