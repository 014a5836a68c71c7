package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/nwslgate/nwslgate/core/infrastructure/logging"
	"github.com/nwslgate/nwslgate/core/infrastructure/transport/http/dto"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	logger logging.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(tag string) *BaseHandler {
	return &BaseHandler{
		logger: logging.New(tag),
	}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// WriteError writes an error in the uniform envelope. Messages on 5xx
// responses stay generic so upstream URLs, connection strings, and token
// names never leak to clients; the full error goes to the log instead.
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewAppError(errors.ErrCodeInternalError, "Internal server error", err)
	}

	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Errorf("%s: %v", appErr.Code, err)
	} else {
		h.logger.Warnf("%s: %s", appErr.Code, appErr.Message)
	}

	h.WriteJSON(w, appErr.Status, dto.ErrorResponse{Error: appErr.Message})
}

// WriteValidationError writes a 400 with field-level detail
func (h *BaseHandler) WriteValidationError(w http.ResponseWriter, details []string) {
	h.logger.Warnf("Validation failed: %v", details)
	h.WriteJSON(w, http.StatusBadRequest, dto.ValidationErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}
