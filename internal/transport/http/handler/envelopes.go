package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Ernie1234/e-commerce-microrepo/internal/domain"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

const internalErrorMessage = "Something went wrong, please try again later!"

// Envelope is the success response wrapper.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorEnvelope is the error response wrapper.
type ErrorEnvelope struct {
	Status           string      `json:"status"`
	Message          string      `json:"message"`
	Details          interface{} `json:"details,omitempty"`
	DeveloperMessage string      `json:"developer_message,omitempty"`
}

// Options carries the environment-dependent response settings.
type Options struct {
	// SecureCookies marks auth cookies Secure; set in production.
	SecureCookies bool
	// Debug exposes the underlying error of a 500 as developer_message.
	Debug bool
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Envelope{Status: "success", Message: message, Data: data})
}

// writeError maps err to a status and a client-safe body. Only *domain.Error
// messages reach the client; anything else is logged and reported as a 500.
func (o Options) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		writeJSON(w, statusFor(de.Kind), ErrorEnvelope{Status: "error", Message: de.Message, Details: de.Details})
		return
	}
	slog.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", chimiddleware.GetReqID(r.Context()),
		"err", err,
	)
	body := ErrorEnvelope{Status: "error", Message: internalErrorMessage}
	if o.Debug {
		body.DeveloperMessage = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(kind, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(kind, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(kind, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(kind, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(kind, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validation("Invalid request body.")
	}
	return nil
}
