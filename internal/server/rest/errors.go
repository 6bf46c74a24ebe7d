package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophjournal/internal/common"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// statusFor maps a service error to its HTTP status and client-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "Invalid credentials"
	case common.IsUnauthenticated(err):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrorExportDisabled):
		return http.StatusServiceUnavailable, "Export is not configured"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// writeError answers with the status mapped from err. Unexpected errors are
// logged; their details never reach the client.
func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeMessage(w, status, msg)
}

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", common.ErrorValidation, tooLarge.Limit)
		}
		return fmt.Errorf("%w: malformed JSON body", common.ErrorValidation)
	}
	return nil
}
