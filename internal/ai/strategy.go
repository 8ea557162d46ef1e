package ai

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/rules"
)

// captureBias is the probability that the easy tier restricts itself to captures
// when one is available.
const captureBias = 0.7

// Strategy picks a move for the side to move. BestMove reports false when there is
// no legal move.
type Strategy interface {
	BestMove(state model.GameState) (model.Move, bool)
	Name() string
}

// RandomStrategy plays a uniformly random legal move.
type RandomStrategy struct {
	rng *rand.Rand
}

func NewRandomStrategy(rng *rand.Rand) *RandomStrategy {
	return &RandomStrategy{rng: rng}
}

func (r *RandomStrategy) BestMove(state model.GameState) (model.Move, bool) {
	moves := rules.AllLegalMoves(&state)
	if len(moves) == 0 {
		return model.Move{}, false
	}
	return moves[r.rng.Intn(len(moves))], true
}

func (r *RandomStrategy) Name() string {
	return "random"
}

// CaptureStrategy prefers captures: when one exists it picks among captures with
// probability captureBias, otherwise among all legal moves.
type CaptureStrategy struct {
	rng *rand.Rand
}

func NewCaptureStrategy(rng *rand.Rand) *CaptureStrategy {
	return &CaptureStrategy{rng: rng}
}

func (c *CaptureStrategy) BestMove(state model.GameState) (model.Move, bool) {
	moves := rules.AllLegalMoves(&state)
	if len(moves) == 0 {
		return model.Move{}, false
	}

	captures := []model.Move{}
	for _, m := range moves {
		if m.Captured != nil {
			captures = append(captures, m)
		}
	}
	if len(captures) > 0 && c.rng.Float64() < captureBias {
		return captures[c.rng.Intn(len(captures))], true
	}
	return moves[c.rng.Intn(len(moves))], true
}

func (c *CaptureStrategy) Name() string {
	return "capture-first"
}

// MinimaxStrategy searches a fixed number of plies with alpha-beta pruning.
type MinimaxStrategy struct {
	Depth int
}

func (m *MinimaxStrategy) BestMove(state model.GameState) (model.Move, bool) {
	return NewSearcher(state.CurrentPlayer).BestMove(state, m.Depth)
}

func (m *MinimaxStrategy) Name() string {
	return fmt.Sprintf("minimax (depth %d)", m.Depth)
}

// NewStrategy returns the strategy for a difficulty tier. A nil rng is replaced by
// a time-seeded source owned by the returned strategy.
func NewStrategy(difficulty Difficulty, rng *rand.Rand) (Strategy, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch difficulty {
	case Beginner:
		return NewRandomStrategy(rng), nil
	case Easy:
		return NewCaptureStrategy(rng), nil
	}
	if depth, ok := difficulty.SearchDepth(); ok {
		return &MinimaxStrategy{Depth: depth}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
}

// GetAIMove selects a move for the side to move at the given difficulty. It reports
// false when that side has no legal move.
func GetAIMove(state model.GameState, difficulty Difficulty, rng *rand.Rand) (model.Move, bool, error) {
	strategy, err := NewStrategy(difficulty, rng)
	if err != nil {
		return model.Move{}, false, err
	}
	move, ok := strategy.BestMove(state)
	return move, ok, nil
}
