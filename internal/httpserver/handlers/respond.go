package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/jobboard/internal/domain"
	"github.com/MrSnakeDoc/jobboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/jobboard/internal/logger"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	writeJSON(w, status, errorResponse{Error: msg, Field: field})
}

// writeStoreError maps store and validation errors onto status codes.
func writeStoreError(w http.ResponseWriter, r *http.Request, d deps.Deps, op string, err error) {
	if ve, ok := domain.AsValidation(err); ok {
		writeError(w, http.StatusBadRequest, ve.Reason, ve.Field)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Job not found", "")
		return
	}

	d.Logger.Error("store operation failed",
		logger.String("op", op),
		logger.String("request_id", middleware.GetReqID(r.Context())),
		logger.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error(), "")
}

// decodeStrict reads exactly one JSON object and refuses unknown keys.
func decodeStrict(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &domain.ValidationError{Reason: "request body is empty"}
		}
		return &domain.ValidationError{Reason: fmt.Sprintf("invalid JSON body: %v", err)}
	}
	if dec.More() {
		return &domain.ValidationError{Reason: "request body must contain a single JSON object"}
	}
	return nil
}
