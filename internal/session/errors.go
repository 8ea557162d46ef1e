package session

import "errors"

var (
	ErrGameFull      = errors.New("game is full")
	ErrNotInGame     = errors.New("player not in game")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNotAITurn     = errors.New("not the computer's turn")
	ErrUnknownMode   = errors.New("unknown game mode")
	ErrAlreadyQueued = errors.New("player already in queue")
	ErrNotAuthorized = errors.New("not authorized to join this game")
	ErrPositionMoved = errors.New("position changed while thinking")
	ErrInvalidColor  = errors.New("invalid color")
)
