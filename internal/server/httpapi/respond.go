package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/phoneauth/internal/common"
	"github.com/dmitrijs2005/phoneauth/internal/logging"
	"github.com/dmitrijs2005/phoneauth/internal/server/validation"
)

// Error bodies.
const (
	errUnauthorized  = "Unauthorized"
	errTokenInvalid  = "Token is invalid"
	errUserNotFound  = "User not found"
	errAlreadyExists = "phone or email already registered"
	errBadBody       = "invalid request body"
)

type errorBody struct {
	Error string `json:"error"`
}

type validationBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeServiceError maps a service error onto its status and body. Anything
// unrecognised is logged and answered with 500.
func writeServiceError(ctx context.Context, w http.ResponseWriter, logger logging.Logger, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Message: validation.Message, Errors: verr.Errors})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, errAlreadyExists)
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, errTokenInvalid)
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, errUnauthorized)
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, errUserNotFound)
	default:
		logger.Error(ctx, "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
	}
}
