package game

import "errors"

var (
	ErrRoomClosed     = errors.New("room-closed")
	ErrSendBufferFull = errors.New("send-buffer-full")
	ErrMalformedFrame = errors.New("malformed-frame")
)
