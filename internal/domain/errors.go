package domain

import "errors"

var (
	ErrAlreadyRegistered   = errors.New("player already registered")
	ErrNotRegistered       = errors.New("player not registered")
	ErrNameTaken           = errors.New("display name already taken")
	ErrPlayerNotRegistered = errors.New("no registered player with that name")
	ErrMatchNotFound       = errors.New("match not found")
	ErrInvalidMatchNumber  = errors.New("invalid match number")
	ErrInvalidScore        = errors.New("scores must be non-negative")
	ErrSamePlayer          = errors.New("a match needs two distinct players")
)
