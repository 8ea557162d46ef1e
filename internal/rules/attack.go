package rules

import "github.com/benbeisheim/chessmate-backend/internal/model"

// attacks returns the squares the piece on from strikes: its pseudo-moves minus
// castling, en passant and pawn pushes. It must never consult LegalMoves.
func attacks(board *model.Board, from model.Position) []model.Position {
	piece := board.At(from)
	if piece == nil {
		return []model.Position{}
	}

	switch piece.Type {
	case model.Pawn:
		return pawnAttacks(from, piece.Color)
	case model.Knight:
		return stepMoves(board, from, piece, knightDirs)
	case model.Bishop:
		return slideMoves(board, from, piece, bishopDirs)
	case model.Rook:
		return slideMoves(board, from, piece, rookDirs)
	case model.Queen:
		return slideMoves(board, from, piece, queenDirs)
	case model.King:
		return stepMoves(board, from, piece, kingDirs)
	}
	return []model.Position{}
}

func pawnAttacks(from model.Position, color model.Color) []model.Position {
	squares := make([]model.Position, 0, 2)
	dir := pawnDirection(color)
	for _, dCol := range []int{-1, 1} {
		if target := from.Offset(dir, dCol); target.InBounds() {
			squares = append(squares, target)
		}
	}
	return squares
}

// IsSquareAttacked reports whether any piece of byColor attacks square.
func IsSquareAttacked(board *model.Board, square model.Position, byColor model.Color) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := board[row][col]
			if piece == nil || piece.Color != byColor {
				continue
			}
			for _, target := range attacks(board, model.Position{Row: row, Col: col}) {
				if target == square {
					return true
				}
			}
		}
	}
	return false
}

// IsInCheck reports whether color's king is attacked. A board without that king is
// never in check.
func IsInCheck(board *model.Board, color model.Color) bool {
	king, ok := board.FindKing(color)
	if !ok {
		return false
	}
	return IsSquareAttacked(board, king, color.Opposite())
}
