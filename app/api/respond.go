package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
)

const (
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 16 << 20
)

type errorBody struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	kind := apperr.KindOf(err)
	reason := apperr.Reason(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed",
			attr.String("path", r.URL.Path),
			attr.String("kind", kind.String()),
			attr.Error(err),
		)
		// Infrastructure details stay in the log.
		if kind == apperr.KindTransaction || kind == apperr.KindUnknown {
			reason = "storage operation failed"
		}
	}
	writeJSON(w, status, errorBody{Kind: kind.String(), Reason: reason})
}

// decodeJSON reads a single JSON document into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validationf("api.decode", "malformed request body: %v", err)
	}
	if dec.More() {
		return apperr.Validationf("api.decode", "request body must hold a single JSON document")
	}
	return nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validationf("api.path", "%s %q is not a valid uuid", name, raw)
	}
	return id, nil
}

