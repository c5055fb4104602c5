package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"fieldops/internal/core"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error     string   `json:"error"`
	Code      string   `json:"code"`
	Field     string   `json:"field,omitempty"`
	Applied   []string `json:"applied,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorResponse(w, r, errorResponse{Error: message, Code: code}, status)
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, resp errorResponse, status int) {
	resp.RequestID = requestIDFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeCreated writes a JSON response with status 201.
func writeCreated(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps an ApplicationService error onto a status code and
// an operator-facing message. Store and unexpected errors are logged with the
// request id; validation failures are not.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		valErr     *core.ValidationError
		partialErr *core.PartialEffectError
		storeErr   *core.StoreError
	)

	switch {
	case errors.As(err, &partialErr):
		h.logger.Error("partial effect",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Strings("applied", partialErr.Applied),
			zap.Error(err))
		writeErrorResponse(w, r, errorResponse{
			Error:   "operation stopped part way: " + userMessage(partialErr.Err),
			Code:    "PARTIAL_EFFECT",
			Applied: partialErr.Applied,
		}, http.StatusInternalServerError)
		return
	case errors.As(err, &valErr):
		writeErrorResponse(w, r, errorResponse{Error: valErr.Error(), Code: "VALIDATION_ERROR", Field: valErr.Field}, http.StatusBadRequest)
		return
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, userMessage(err), "NOT_FOUND", http.StatusNotFound)
		return
	case errors.Is(err, core.ErrBusy):
		writeError(w, r, core.ErrBusy.Error(), "CONFLICT", http.StatusConflict)
		return
	}

	h.logger.Error("request failed",
		zap.String("request_id", requestIDFromContext(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err))

	if errors.As(err, &storeErr) {
		switch storeErr.Code {
		case core.CodeUniqueViolation:
			writeError(w, r, storeErr.UserMessage(), "CONFLICT", http.StatusConflict)
		case core.CodeCheckViolation, core.CodeNotNullViolation:
			writeError(w, r, storeErr.UserMessage(), "UNPROCESSABLE", http.StatusUnprocessableEntity)
		case core.CodeUnavailable:
			writeError(w, r, storeErr.UserMessage(), "UNAVAILABLE", http.StatusServiceUnavailable)
		default:
			writeError(w, r, storeErr.UserMessage(), "INTERNAL_ERROR", http.StatusInternalServerError)
		}
		return
	}
	writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
}

// userMessage returns the safe text for err: a StoreError's user message, a
// validation message, or a generic fallback.
func userMessage(err error) string {
	var storeErr *core.StoreError
	if errors.As(err, &storeErr) {
		return storeErr.UserMessage()
	}
	var valErr *core.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error()
	}
	if errors.Is(err, core.ErrBusy) {
		return core.ErrBusy.Error()
	}
	return "Operation failed. Please try again"
}
