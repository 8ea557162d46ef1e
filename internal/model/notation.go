package model

import "strings"

// MoveToNotation renders a move in short algebraic notation without check suffixes.
// The board argument is the position before the move; it is unused today because
// disambiguation between identical pieces is not emitted.
func MoveToNotation(move Move, board Board) string {
	if move.IsCastling {
		if move.To.Col > move.From.Col {
			return "O-O"
		}
		return "O-O-O"
	}

	var sb strings.Builder
	sb.WriteString(move.Piece.Type.Letter())
	if move.IsCapture() {
		if move.Piece.Type == Pawn {
			sb.WriteString(move.From.File())
		}
		sb.WriteString("x")
	}
	sb.WriteString(move.To.Square())
	if move.IsPromotion && move.PromotedTo != "" {
		sb.WriteString("=")
		sb.WriteString(move.PromotedTo.Letter())
	}
	return sb.String()
}
