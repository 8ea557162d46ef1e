package ai

import (
	"math"

	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/rules"
)

const infinity = math.MaxInt32

// Searcher runs a fixed-depth minimax with alpha-beta pruning on behalf of Color.
// Scores are always from Color's point of view, so Color is the maximizing player.
//
// Internal nodes without legal moves fall back to the static score: checkmate and
// stalemate are not told apart below the root.
type Searcher struct {
	Color model.Color
	// Nodes counts Minimax calls since the searcher was created.
	Nodes int
}

func NewSearcher(color model.Color) *Searcher {
	return &Searcher{Color: color}
}

// Minimax scores state searching depth more plies. The side to move is derived
// from maximizing: the searcher's color when true, its opponent otherwise.
func (s *Searcher) Minimax(state model.GameState, depth, alpha, beta int, maximizing bool) int {
	s.Nodes++
	if depth == 0 {
		return scoreFor(&state, s.Color)
	}

	state.CurrentPlayer = s.sideToMove(maximizing)
	moves := rules.AllLegalMoves(&state)
	if len(moves) == 0 {
		return scoreFor(&state, s.Color)
	}
	moves = OrderMoves(moves)

	if maximizing {
		best := -infinity
		for _, move := range moves {
			eval := s.Minimax(rules.Play(state, move), depth-1, alpha, beta, false)
			best = max(best, eval)
			alpha = max(alpha, eval)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := infinity
	for _, move := range moves {
		eval := s.Minimax(rules.Play(state, move), depth-1, alpha, beta, true)
		best = min(best, eval)
		beta = min(beta, eval)
		if beta <= alpha {
			break
		}
	}
	return best
}

func (s *Searcher) sideToMove(maximizing bool) model.Color {
	if maximizing {
		return s.Color
	}
	return s.Color.Opposite()
}

// BestMove plays each ordered root move and searches the reply tree depth plies deep.
// The first move with the strictly highest score wins. It reports false when the
// side to move has no legal move.
func (s *Searcher) BestMove(state model.GameState, depth int) (model.Move, bool) {
	state.CurrentPlayer = s.Color
	moves := OrderMoves(rules.AllLegalMoves(&state))
	if len(moves) == 0 {
		return model.Move{}, false
	}

	bestMove := moves[0]
	bestValue := math.MinInt
	for _, move := range moves {
		value := s.Minimax(rules.Play(state, move), depth, -infinity, infinity, false)
		if value > bestValue {
			bestValue = value
			bestMove = move
		}
	}
	return bestMove, true
}
