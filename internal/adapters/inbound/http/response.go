package httpin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"catering_ops/internal/core/domain"
)

type errorResponse struct {
	Error    string                `json:"error"`
	Problems []domain.FieldProblem `json:"problems,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, errorResponse{Error: msg}, status)
}

// writeError maps domain errors to status codes. Unknown errors are logged
// and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, errorResponse{Error: "validation failed", Problems: verr.Problems}, http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrInvalid):
		writeErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "order not found")
	case errors.Is(err, domain.ErrExpired):
		writeErrorMessage(w, http.StatusGone, "link expired")
	default:
		log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON answers 400 itself and reports whether the handler may go on.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}
