package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/shop-service-go/internal/apperror"
)

const msgInternal = "Error Occurred!"

// apiResponse is the envelope every endpoint answers with.
type apiResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, msg string, data any) {
	writeJSON(w, http.StatusOK, apiResponse{Message: msg, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiResponse{Message: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrInvalidState), errors.Is(err, apperror.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a workflow error to its status. Errors without a
// caller-facing message are logged and answered generically.
func writeError(w http.ResponseWriter, logger *log.Logger, r *http.Request, err error) {
	status := statusFor(err)
	msg, ok := apperror.Message(err)
	if !ok || status == http.StatusInternalServerError {
		logger.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		msg = msgInternal
	}
	writeMessage(w, status, msg)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidInput(fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.InvalidInput("invalid json")
	}
	return nil
}
