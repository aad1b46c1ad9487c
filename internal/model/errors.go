package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrGameAlreadyStarted = errors.New("game has already started")
	ErrGameFinished       = errors.New("game has finished")
	ErrGameInProgress     = errors.New("game is in progress")
	ErrNoGameInProgress   = errors.New("no game in progress")

	// Player / action errors
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidPlayer        = errors.New("invalid player for this action")
	ErrInvalidAction        = errors.New("invalid action")
	ErrRepeatedProtection   = errors.New("cannot protect the same player on consecutive nights")
	ErrInvalidConfiguration = errors.New("invalid role configuration")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Archive errors
	ErrArchiveNotFound = errors.New("archive not found")
)
