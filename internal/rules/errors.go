package rules

import "errors"

// Errors returned by ApplyMove. Use errors.Is to test for them.
var (
	ErrNoPiece          = errors.New("no piece at from square")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrIllegalMove      = errors.New("illegal move")
	ErrInvalidPromotion = errors.New("invalid promotion piece")
	ErrGameOver         = errors.New("game is over")
	ErrInvalidFEN       = errors.New("invalid FEN")
)
