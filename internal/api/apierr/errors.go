package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeRoomNotFound         = "ROOM_NOT_FOUND"
	CodeRoomFull             = "ROOM_FULL"
	CodeGameAlreadyStarted   = "GAME_ALREADY_STARTED"
	CodeGameFinished         = "GAME_FINISHED"
	CodeGameInProgress       = "GAME_IN_PROGRESS"
	CodeNoGameInProgress     = "NO_GAME_IN_PROGRESS"
	CodePermissionDenied     = "PERMISSION_DENIED"
	CodeInvalidPlayer        = "INVALID_PLAYER"
	CodeInvalidAction        = "INVALID_ACTION"
	CodeRepeatedProtection   = "REPEATED_PROTECTION"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeArchiveNotFound      = "ARCHIVE_NOT_FOUND"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrGameAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeGameAlreadyStarted, "Game has already started"}}
	case errors.Is(err, model.ErrGameFinished):
		return &httpError{http.StatusConflict, APIError{CodeGameFinished, "Game has finished"}}
	case errors.Is(err, model.ErrGameInProgress):
		return &httpError{http.StatusConflict, APIError{CodeGameInProgress, "Game is in progress"}}
	case errors.Is(err, model.ErrNoGameInProgress):
		return &httpError{http.StatusNotFound, APIError{CodeNoGameInProgress, "No game in progress"}}
	case errors.Is(err, model.ErrPermissionDenied):
		return &httpError{http.StatusForbidden, APIError{CodePermissionDenied, "Permission denied"}}
	case errors.Is(err, model.ErrInvalidPlayer):
		return &httpError{http.StatusForbidden, APIError{CodeInvalidPlayer, "Player cannot perform this action"}}
	case errors.Is(err, model.ErrInvalidAction):
		return &httpError{http.StatusConflict, APIError{CodeInvalidAction, "Action is not legal right now"}}
	case errors.Is(err, model.ErrRepeatedProtection):
		return &httpError{http.StatusConflict, APIError{CodeRepeatedProtection, "Cannot protect the same player on consecutive nights"}}
	case errors.Is(err, model.ErrInvalidConfiguration):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidConfiguration, "Invalid role configuration"}}
	case errors.Is(err, model.ErrArchiveNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeArchiveNotFound, "Archive not found"}}

	// Map session errors
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid session"}}
	case errors.Is(err, model.ErrSessionExpired):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Session expired"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
