package domain

import "errors"

var (
	ErrNoUserTurn     = errors.New("transcript does not end with a user turn")
	ErrEmptyMessage   = errors.New("message is empty")
	ErrUnknownMode    = errors.New("unknown mode")
	ErrEmptyReply     = errors.New("empty reply")
	ErrNoAudio        = errors.New("no audio returned")
	ErrNoImage        = errors.New("no image returned")
	ErrSecretNotFound = errors.New("secret not found")
)
