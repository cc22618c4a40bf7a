package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
)

// apiResponse is the success envelope every 2xx reply uses.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// apiError is the failure envelope. Success is always false and Errors
// carries optional field-level details.
type apiError struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondOK(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, &apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, &apiError{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	})
}

// respondServiceError maps the service-layer sentinel errors onto HTTP
// statuses. Anything unrecognized is a 500 with a generic message so
// internals never leak to the client.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		respondError(w, http.StatusConflict, "user with email or username already exists")
	case errors.Is(err, common.ErrorNotFound):
		respondError(w, http.StatusNotFound, "user does not exist")
	case errors.Is(err, common.ErrorInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid user credentials")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		respondError(w, http.StatusUnauthorized, "refresh token expired")
	case errors.Is(err, common.ErrTokenReused):
		respondError(w, http.StatusUnauthorized, "refresh token expired or already used")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized request")
	case errors.Is(err, common.ErrorUploadFailed):
		respondError(w, http.StatusInternalServerError, "file upload failed")
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
