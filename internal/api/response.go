package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/omara/internal/closet"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response failed", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

type validationResponse struct {
	Error  string              `json:"error"`
	Fields []closet.FieldError `json:"fields"`
}

// statusErrors maps service errors to status codes, most specific first.
// The matched error's own message is sent to the client.
var statusErrors = []struct {
	err    error
	status int
}{
	{closet.ErrMissingPrerequisite, http.StatusUnprocessableEntity},

	{closet.ErrPieceNotFound, http.StatusNotFound},
	{closet.ErrInfoNotFound, http.StatusNotFound},
	{closet.ErrListNotFound, http.StatusNotFound},
	{closet.ErrLocationNotFound, http.StatusNotFound},
	{closet.ErrImageNotFound, http.StatusNotFound},

	{closet.ErrEmptyOperation, http.StatusBadRequest},
	{closet.ErrInvalidQuantity, http.StatusBadRequest},

	{closet.ErrAlreadyLost, http.StatusConflict},
	{closet.ErrNotLost, http.StatusConflict},
	{closet.ErrListExpired, http.StatusConflict},
	{closet.ErrUploadConsumed, http.StatusConflict},
	{closet.ErrUploadIncomplete, http.StatusConflict},

	{closet.ErrUnauthenticated, http.StatusUnauthorized},
	{closet.ErrNotFound, http.StatusNotFound},
	{closet.ErrValidation, http.StatusBadRequest},
	{closet.ErrConflict, http.StatusConflict},
}

// writeError maps a service error to a JSON error response. Unknown errors
// are logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *closet.ValidationError
	if errors.As(err, &verr) {
		jsonResponse(w, http.StatusBadRequest, validationResponse{Error: verr.Error(), Fields: verr.Errors})
		return
	}

	for _, se := range statusErrors {
		if errors.Is(err, se.err) {
			jsonError(w, se.status, se.err.Error())
			return
		}
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	jsonError(w, http.StatusInternalServerError, "internal error")
}
