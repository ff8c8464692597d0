package game

import "errors"

var (
	ErrRoomNotFound     = errors.New("Room not found")
	ErrRoomFull         = errors.New("Room is full")
	ErrNameTaken        = errors.New("Player name already taken")
	ErrMalformedRequest = errors.New("Malformed request")
)
