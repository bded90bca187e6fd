package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const (
	genericErrorMessage  = "Something went wrong!"
	missingFieldsMessage = "Missing required fields"

	// huma rejects an empty body before the handler runs.
	emptyBodyMessage = "request body is required"
)

// APIError is the single error body of the API: {"error": "..."}.
type APIError struct {
	status  int
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) GetStatus() int {
	return e.status
}

func newAPIError(status int, message string) *APIError {
	return &APIError{status: status, Message: message}
}

func init() {
	// Framework-generated 5xx details never reach clients.
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		switch {
		case status >= http.StatusInternalServerError:
			message = genericErrorMessage
		case status == http.StatusBadRequest && message == emptyBodyMessage:
			message = missingFieldsMessage
		}
		return newAPIError(status, message)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(newAPIError(status, message))
}
