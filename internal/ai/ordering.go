package ai

import (
	"sort"

	"github.com/benbeisheim/chessmate-backend/internal/model"
)

// baseOrderingBonus is added to every move; it shifts all scores equally.
const baseOrderingBonus = 200

// ScoreMove is the ordering heuristic: captures of valuable pieces by cheap ones first,
// then promotions, then moves towards the centre.
func ScoreMove(move model.Move) int {
	score := 0
	if move.Captured != nil {
		score += PieceValues[move.Captured.Type]*10 - PieceValues[move.Piece.Type]
	}
	if move.Piece.Type == model.Pawn && (move.To.Row == 0 || move.To.Row == 7) {
		score += 900
	}
	score += (7 - centreDistance(move.To)) * 5
	score += baseOrderingBonus
	return score
}

// centreDistance is the Manhattan distance from the square to the point (3.5, 3.5).
// Both half-offsets are odd, so the sum is always whole.
func centreDistance(pos model.Position) int {
	return (abs(2*pos.Col-7) + abs(2*pos.Row-7)) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// OrderMoves returns a copy of moves sorted by descending ScoreMove. Equal scores
// keep their generation order.
func OrderMoves(moves []model.Move) []model.Move {
	type scored struct {
		move  model.Move
		score int
	}
	ranked := make([]scored, len(moves))
	for i, m := range moves {
		ranked[i] = scored{move: m, score: ScoreMove(m)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	ordered := make([]model.Move, len(moves))
	for i, r := range ranked {
		ordered[i] = r.move
	}
	return ordered
}
