package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Dan9191/bank-ledger/internal/service"
)

// envelope is the uniform response body of every endpoint
type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) success(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, envelope{Status: true, Message: message, Data: data})
}

func (h *Handler) invalid(w http.ResponseWriter, fields []FieldError) {
	writeJSON(w, http.StatusBadRequest, envelope{Message: "Validation failed", Data: fields})
}

func (h *Handler) badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, envelope{Message: message})
}

// failure maps a service error onto an HTTP status
func (h *Handler) failure(w http.ResponseWriter, err error) {
	svcErr := service.AsError(err)
	writeJSON(w, statusFor(svcErr.Kind), envelope{Message: svcErr.Message})
}

func statusFor(kind service.ErrorKind) int {
	switch kind {
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
