package handler

import (
	"net/http"

	"github.com/quailholm/wolfgame-go/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest       = apierr.CodeInvalidRequest
	CodeUnauthorized         = apierr.CodeUnauthorized
	CodeRoomNotFound         = apierr.CodeRoomNotFound
	CodeRoomFull             = apierr.CodeRoomFull
	CodeGameAlreadyStarted   = apierr.CodeGameAlreadyStarted
	CodeGameFinished         = apierr.CodeGameFinished
	CodeGameInProgress       = apierr.CodeGameInProgress
	CodeNoGameInProgress     = apierr.CodeNoGameInProgress
	CodePermissionDenied     = apierr.CodePermissionDenied
	CodeInvalidPlayer        = apierr.CodeInvalidPlayer
	CodeInvalidAction        = apierr.CodeInvalidAction
	CodeRepeatedProtection   = apierr.CodeRepeatedProtection
	CodeInvalidConfiguration = apierr.CodeInvalidConfiguration
	CodeArchiveNotFound      = apierr.CodeArchiveNotFound
	CodeInternalError        = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
