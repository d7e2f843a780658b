package game

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room full")
	ErrRoomNotJoinable = errors.New("room already started")

	// ErrRejected marks a turn or card-state violation from a stale or
	// misbehaving client. The gateway drops these without answering.
	ErrRejected = errors.New("action rejected")
)
