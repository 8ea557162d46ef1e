package ai

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/rules"
	"github.com/benbeisheim/chessmate-backend/internal/testutil"
)

func isLegal(state model.GameState, move model.Move) bool {
	for _, m := range rules.AllLegalMoves(&state) {
		if m.From == move.From && m.To == move.To {
			return true
		}
	}
	return false
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range Difficulties {
		got, err := ParseDifficulty(string(d))
		testutil.AssertNoError(t, err)
		if got != d {
			t.Errorf("ParseDifficulty(%q) = %q", d, got)
		}
	}

	for _, bad := range []string{"", "Normal", "impossible"} {
		_, err := ParseDifficulty(bad)
		testutil.AssertErrorIs(t, err, ErrUnknownDifficulty, fmt.Sprintf("ParseDifficulty(%q)", bad))
	}
}

func TestSearchDepth(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		depth      int
		ok         bool
	}{
		{Beginner, 0, false},
		{Easy, 0, false},
		{Normal, 2, true},
		{Hard, 3, true},
		{Expert, 4, true},
		{Master, 5, true},
	}
	for _, tt := range tests {
		depth, ok := tt.difficulty.SearchDepth()
		if depth != tt.depth || ok != tt.ok {
			t.Errorf("%s.SearchDepth() = %d, %v, want %d, %v", tt.difficulty, depth, ok, tt.depth, tt.ok)
		}
	}
}

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		name       string
	}{
		{Beginner, "random"},
		{Easy, "capture-first"},
		{Normal, "minimax (depth 2)"},
		{Master, "minimax (depth 5)"},
	}
	for _, tt := range tests {
		strategy, err := NewStrategy(tt.difficulty, nil)
		testutil.AssertNoError(t, err)
		if strategy.Name() != tt.name {
			t.Errorf("NewStrategy(%s).Name() = %q, want %q", tt.difficulty, strategy.Name(), tt.name)
		}
	}

	_, err := NewStrategy("grandmaster", nil)
	testutil.AssertErrorIs(t, err, ErrUnknownDifficulty)
}

func TestBeginnerIsReproducible(t *testing.T) {
	state := model.NewGameState()

	first, ok, err := GetAIMove(state, Beginner, rand.New(rand.NewSource(42)))
	testutil.AssertNoError(t, err)
	if !ok {
		t.Fatal("no move from the initial position")
	}
	second, _, _ := GetAIMove(state, Beginner, rand.New(rand.NewSource(42)))

	testutil.AssertEqual(t, second, first, "same seed")
	if !isLegal(state, first) {
		t.Errorf("move %s is not legal", first.Notation)
	}
}

func TestEasyPrefersCaptures(t *testing.T) {
	state := model.NewGameState()
	for _, m := range [][2]string{{"e2", "e4"}, {"d7", "d5"}} {
		var err error
		state, _, err = rules.ApplyMove(state, testutil.Sq(m[0]), testutil.Sq(m[1]), "")
		testutil.AssertNoError(t, err)
	}

	strategy := NewCaptureStrategy(rand.New(rand.NewSource(1)))
	const trials = 400
	captures := 0
	for i := 0; i < trials; i++ {
		move, ok := strategy.BestMove(state)
		if !ok {
			t.Fatal("no move")
		}
		if move.Captured != nil {
			captures++
		}
	}

	// Expected rate is captureBias plus the chance of drawing exd5 from all moves.
	if rate := float64(captures) / trials; rate < 0.6 {
		t.Errorf("capture rate = %.2f, want at least 0.6", rate)
	}
}

func TestEasyWithoutCapturesPlaysAnyMove(t *testing.T) {
	state := model.NewGameState()
	move, ok := NewCaptureStrategy(rand.New(rand.NewSource(3))).BestMove(state)
	if !ok || !isLegal(state, move) {
		t.Errorf("BestMove = %+v, %v, want a legal move", move, ok)
	}
}

func TestGetAIMoveWithoutLegalMoves(t *testing.T) {
	positions := map[string]string{
		"stalemate": "8/8/8/8/8/1q6/2k5/K7 w - - 0 1",
		"checkmate": "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
	}

	for name, fen := range positions {
		state := mustFEN(t, fen)
		for _, d := range Difficulties {
			_, ok, err := GetAIMove(state, d, rand.New(rand.NewSource(1)))
			testutil.AssertNoError(t, err)
			if ok {
				t.Errorf("%s/%s: GetAIMove reported a move", name, d)
			}
		}
	}
}

func TestGetAIMoveUnknownDifficulty(t *testing.T) {
	_, ok, err := GetAIMove(model.NewGameState(), "impossible", nil)
	testutil.AssertErrorIs(t, err, ErrUnknownDifficulty)
	if ok {
		t.Error("GetAIMove reported a move for an unknown difficulty")
	}
}

func TestSearchingTiersPlayForSideToMove(t *testing.T) {
	state := mustFEN(t, "3rk3/8/8/3Q4/8/8/8/7K b - - 0 1")
	for _, d := range []Difficulty{Normal, Hard} {
		move, ok, err := GetAIMove(state, d, nil)
		testutil.AssertNoError(t, err)
		if !ok || move.Piece.Color != model.Black || move.To.Square() != "d5" {
			t.Errorf("%s: GetAIMove = %+v, want black rook capturing on d5", d, move)
		}
	}
}
