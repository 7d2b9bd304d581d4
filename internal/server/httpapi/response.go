package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func WriteJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Status:  status,
		Message: message,
	})
}

// writeError maps domain errors to HTTP status codes. Anything unrecognized
// is reported as a generic 500 without leaking internals to the client.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrUnauthorized):
		WriteJSONError(w, http.StatusForbidden, "access denied")
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		WriteJSONError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, common.ErrUsernameTaken):
		WriteJSONError(w, http.StatusConflict, "username already taken")
	case errors.Is(err, common.ErrPayloadTooLarge):
		WriteJSONError(w, http.StatusRequestEntityTooLarge, "payload too large")
	case errors.Is(err, common.ErrEmptyPayload):
		WriteJSONError(w, http.StatusBadRequest, "empty payload")
	case errors.Is(err, common.ErrExtensionDenied):
		WriteJSONError(w, http.StatusBadRequest, "file extension not allowed")
	case errors.Is(err, common.ErrSelfShare):
		WriteJSONError(w, http.StatusBadRequest, "cannot share a file with its owner")
	case errors.Is(err, common.ErrPathViolation):
		WriteJSONError(w, http.StatusBadRequest, "invalid file name")
	default:
		WriteJSONError(w, http.StatusInternalServerError, "internal error")
	}
}
