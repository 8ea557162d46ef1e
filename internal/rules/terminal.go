package rules

import "github.com/benbeisheim/chessmate-backend/internal/model"

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
	StatusDraw      Status = "draw"
)

// fiftyMoveLimit is counted in half-moves.
const fiftyMoveLimit = 100

// IsCheckmate reports whether the side to move is in check with no legal move.
func IsCheckmate(state *model.GameState) bool {
	return IsInCheck(&state.Board, state.CurrentPlayer) && !HasLegalMoves(state)
}

// IsStalemate reports whether the side to move is not in check and has no legal move.
func IsStalemate(state *model.GameState) bool {
	return !IsInCheck(&state.Board, state.CurrentPlayer) && !HasLegalMoves(state)
}

func IsFiftyMoveDraw(state *model.GameState) bool {
	return state.HalfMoveClock >= fiftyMoveLimit
}

// HasInsufficientMaterial reports bare kings, a single minor piece, or exactly two
// bishops beside the kings. The square colours of the two bishops are not compared.
func HasInsufficientMaterial(board *model.Board) bool {
	pieces := []model.PieceType{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := board[row][col]; p != nil && p.Type != model.King {
				pieces = append(pieces, p.Type)
			}
		}
	}

	switch len(pieces) {
	case 0:
		return true
	case 1:
		return pieces[0] == model.Bishop || pieces[0] == model.Knight
	case 2:
		return pieces[0] == model.Bishop && pieces[1] == model.Bishop
	}
	return false
}

// GameStatus classifies a state whose flags were derived by UpdateStatus.
func GameStatus(state model.GameState) Status {
	switch {
	case state.IsCheckmate:
		return StatusCheckmate
	case state.IsStalemate:
		return StatusStalemate
	case state.IsDraw:
		return StatusDraw
	}
	return StatusOngoing
}

// Winner returns the side that delivered mate, if any.
func Winner(state model.GameState) (model.Color, bool) {
	if !state.IsCheckmate {
		return "", false
	}
	return state.CurrentPlayer.Opposite(), true
}
