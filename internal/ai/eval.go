// Package ai picks moves for the computer opponent: a static evaluator, move
// ordering, a fixed-depth alpha-beta search and the difficulty tiers built on them.
package ai

import "github.com/benbeisheim/chessmate-backend/internal/model"

// endgameMaterial is the combined non-king material below which kings switch to the
// endgame table.
const endgameMaterial = 1000

// Evaluate scores a position statically. Positive scores favour white.
func Evaluate(state *model.GameState) int {
	endgame := nonKingMaterial(&state.Board) < endgameMaterial

	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := state.Board[row][col]
			if piece == nil {
				continue
			}
			value := PieceValues[piece.Type] + squareValue(piece, row, col, endgame)
			if piece.Color == model.White {
				score += value
			} else {
				score -= value
			}
		}
	}
	return score
}

func squareValue(piece *model.Piece, row, col int, endgame bool) int {
	var table *pieceSquareTable
	switch piece.Type {
	case model.Pawn:
		table = &pawnTable
	case model.Knight:
		table = &knightTable
	case model.Bishop:
		table = &bishopTable
	case model.Rook:
		table = &rookTable
	case model.Queen:
		table = &queenTable
	case model.King:
		table = &kingOpeningTable
		if endgame {
			table = &kingEndgameTable
		}
	default:
		return 0
	}

	if piece.Color == model.White {
		row = 7 - row
	}
	return table[row][col]
}

// nonKingMaterial sums the material of both sides, kings excluded.
func nonKingMaterial(board *model.Board) int {
	total := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if piece := board[row][col]; piece != nil && piece.Type != model.King {
				total += PieceValues[piece.Type]
			}
		}
	}
	return total
}

// scoreFor returns the static score from color's point of view.
func scoreFor(state *model.GameState, color model.Color) int {
	if color == model.Black {
		return -Evaluate(state)
	}
	return Evaluate(state)
}
