package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/relic-eclipse/internal/auth"
	"github.com/freeeve/relic-eclipse/internal/logger"
	"github.com/freeeve/relic-eclipse/internal/service"
	"github.com/freeeve/relic-eclipse/pkg/eclipse"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Error encoding response")
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeRejection writes a rule rejection with its reason code.
func writeRejection(w http.ResponseWriter, ve *eclipse.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
		"error":  ve.Message,
		"reason": string(ve.Reason),
	})
}

// writeServiceError maps service and engine errors to HTTP statuses.
// Unexpected errors are logged with the request's ids.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *eclipse.ValidationError
	switch {
	case errors.As(err, &ve):
		writeRejection(w, ve)
	case errors.Is(err, service.ErrGameNotFound):
		writeError(w, http.StatusNotFound, "game not found")
	case errors.Is(err, service.ErrNotHumanSeat), errors.Is(err, auth.ErrSeatMismatch):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrMissingToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		l := logger.ForRequest(r.Context())
		l.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled service error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads and decodes JSON from a request body.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
