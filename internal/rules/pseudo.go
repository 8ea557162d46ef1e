// Package rules implements chess move generation, legality and game termination
// on top of the board model.
//
// Generation is split in two tiers. PseudoMoves and the attack geometry it is built
// from ignore the safety of the mover's king; LegalMoves filters pseudo-moves by
// simulating them. Attack detection only ever uses the first tier.
package rules

import "github.com/benbeisheim/chessmate-backend/internal/model"

type direction struct {
	dRow, dCol int
}

var (
	rookDirs   = []direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	bishopDirs = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	queenDirs  = []direction{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	kingDirs   = queenDirs
	knightDirs = []direction{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
)

// PseudoMoves returns every square the piece on from could geometrically reach,
// including castling and en passant, without checking whether its own king is left
// attacked. An empty or out-of-bounds origin yields no moves.
func PseudoMoves(board *model.Board, from model.Position, enPassantTarget *model.Position) []model.Position {
	piece := board.At(from)
	if piece == nil {
		return []model.Position{}
	}

	switch piece.Type {
	case model.Pawn:
		return pawnMoves(board, from, piece, enPassantTarget)
	case model.King:
		return append(stepMoves(board, from, piece, kingDirs), castlingMoves(board, from, piece)...)
	default:
		return attacks(board, from)
	}
}

// pawnDirection returns the row delta a pawn of the given color advances by.
func pawnDirection(color model.Color) int {
	if color == model.White {
		return -1
	}
	return 1
}

func pawnStartRow(color model.Color) int {
	if color == model.White {
		return 6
	}
	return 1
}

func pawnMoves(board *model.Board, from model.Position, piece *model.Piece, enPassantTarget *model.Position) []model.Position {
	moves := []model.Position{}
	dir := pawnDirection(piece.Color)

	oneForward := from.Offset(dir, 0)
	if oneForward.InBounds() && board.At(oneForward) == nil {
		moves = append(moves, oneForward)

		twoForward := from.Offset(2*dir, 0)
		if from.Row == pawnStartRow(piece.Color) && board.At(twoForward) == nil {
			moves = append(moves, twoForward)
		}
	}

	for _, dCol := range []int{-1, 1} {
		target := from.Offset(dir, dCol)
		if !target.InBounds() {
			continue
		}
		if occupant := board.At(target); occupant != nil {
			if occupant.Color != piece.Color {
				moves = append(moves, target)
			}
			continue
		}
		if enPassantTarget != nil && *enPassantTarget == target {
			moves = append(moves, target)
		}
	}
	return moves
}

// slideMoves casts rays until the board edge, stopping before a friendly piece and
// on (inclusive) an enemy piece.
func slideMoves(board *model.Board, from model.Position, piece *model.Piece, dirs []direction) []model.Position {
	moves := []model.Position{}
	for _, d := range dirs {
		target := from.Offset(d.dRow, d.dCol)
		for target.InBounds() {
			occupant := board.At(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.Offset(d.dRow, d.dCol)
		}
	}
	return moves
}

func stepMoves(board *model.Board, from model.Position, piece *model.Piece, dirs []direction) []model.Position {
	moves := []model.Position{}
	for _, d := range dirs {
		target := from.Offset(d.dRow, d.dCol)
		if !target.InBounds() {
			continue
		}
		if occupant := board.At(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

// castlingMoves offers O-O and O-O-O when the king and the matching rook are unmoved
// and the squares between them are empty. Whether the king passes through an
// attacked square is not checked.
func castlingMoves(board *model.Board, from model.Position, king *model.Piece) []model.Position {
	moves := []model.Position{}
	if king.HasMoved {
		return moves
	}
	row := from.Row

	if unmovedRook(board, model.Position{Row: row, Col: 7}, king.Color) &&
		emptyBetween(board, row, from.Col, 7) {
		moves = append(moves, model.Position{Row: row, Col: 6})
	}
	if unmovedRook(board, model.Position{Row: row, Col: 0}, king.Color) &&
		emptyBetween(board, row, 0, from.Col) {
		moves = append(moves, model.Position{Row: row, Col: 2})
	}
	return moves
}

func unmovedRook(board *model.Board, pos model.Position, color model.Color) bool {
	rook := board.At(pos)
	return rook != nil && rook.Type == model.Rook && rook.Color == color && !rook.HasMoved
}

// emptyBetween reports whether every square strictly between columns lo and hi on row is empty.
func emptyBetween(board *model.Board, row, lo, hi int) bool {
	if lo > hi {
		lo, hi = hi, lo
	}
	for col := lo + 1; col < hi; col++ {
		if board[row][col] != nil {
			return false
		}
	}
	return true
}
