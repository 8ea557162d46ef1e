package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/benbeisheim/chessmate-backend/internal/ai"
	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/session"
	"github.com/benbeisheim/chessmate-backend/internal/testutil"
	"github.com/benbeisheim/chessmate-backend/internal/ws"
)

func newTestService(t *testing.T) (*GameService, *GameManager) {
	t.Helper()
	gm := NewGameManager(ManagerConfig{Seed: 1})
	t.Cleanup(gm.Close)
	return NewGameService(gm, ai.Beginner), gm
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCreateGameDefaults(t *testing.T) {
	gs, gm := newTestService(t)

	gameID, color, err := gs.CreateGame("alice", CreateGameRequest{})
	testutil.AssertNoError(t, err)
	if color != model.White {
		t.Errorf("color = %s, want white", color)
	}
	if gm.GameCount() != 1 {
		t.Errorf("GameCount = %d, want 1", gm.GameCount())
	}

	view, err := gs.GetGame(gameID)
	testutil.AssertNoError(t, err)
	if view.Mode != session.ModeSingle || view.Difficulty != ai.Beginner {
		t.Errorf("mode = %q, difficulty = %q, want single at the default difficulty", view.Mode, view.Difficulty)
	}
	if !view.Players.Black.IsAI {
		t.Error("black seat should belong to the computer")
	}
}

func TestCreateGameErrors(t *testing.T) {
	gs, gm := newTestService(t)

	_, _, err := gs.CreateGame("alice", CreateGameRequest{Mode: "blitz"})
	testutil.AssertErrorIs(t, err, session.ErrUnknownMode)

	_, _, err = gs.CreateGame("alice", CreateGameRequest{Difficulty: "impossible"})
	testutil.AssertErrorIs(t, err, ai.ErrUnknownDifficulty)

	_, _, err = gs.CreateGame("alice", CreateGameRequest{Color: "green"})
	testutil.AssertErrorIs(t, err, session.ErrInvalidColor)

	if gm.GameCount() != 1 {
		t.Errorf("GameCount = %d, want 1 (only the game with the bad color was created)", gm.GameCount())
	}
}

func TestComputerReplies(t *testing.T) {
	gs, _ := newTestService(t)

	gameID, _, err := gs.CreateGame("alice", CreateGameRequest{Mode: session.ModeSingle, Difficulty: ai.Normal})
	testutil.AssertNoError(t, err)

	view, err := gs.HandleMove(gameID, "alice", model.SimpleMove{From: testutil.Sq("e2"), To: testutil.Sq("e4")})
	testutil.AssertNoError(t, err)
	if len(view.State.MoveHistory) < 1 {
		t.Fatal("human move missing from history")
	}

	waitFor(t, "the computer reply", func() bool {
		v, err := gs.GetGame(gameID)
		return err == nil && len(v.State.MoveHistory) == 2
	})

	v, _ := gs.GetGame(gameID)
	if v.State.CurrentPlayer != model.White || v.AIThinking {
		t.Errorf("after reply: %s to move, thinking = %v", v.State.CurrentPlayer, v.AIThinking)
	}
}

func TestComputerOpensAsWhite(t *testing.T) {
	gs, _ := newTestService(t)

	gameID, color, err := gs.CreateGame("alice", CreateGameRequest{Color: model.Black})
	testutil.AssertNoError(t, err)
	if color != model.Black {
		t.Fatalf("color = %s, want black", color)
	}

	waitFor(t, "the computer's first move", func() bool {
		v, err := gs.GetGame(gameID)
		return err == nil && len(v.State.MoveHistory) == 1
	})
}

func TestTwoPlayerFlow(t *testing.T) {
	gs, _ := newTestService(t)

	gameID, color, err := gs.CreateGame("alice", CreateGameRequest{Mode: session.ModeTwoPlayer})
	testutil.AssertNoError(t, err)
	if color != model.White {
		t.Fatalf("creator color = %s, want white", color)
	}

	color, err = gs.JoinGame(gameID, "bob")
	testutil.AssertNoError(t, err)
	if color != model.Black {
		t.Fatalf("joiner color = %s, want black", color)
	}

	_, err = gs.JoinGame(gameID, "carol")
	testutil.AssertErrorIs(t, err, session.ErrGameFull)

	_, err = gs.HandleMove(gameID, "alice", model.SimpleMove{From: testutil.Sq("e2"), To: testutil.Sq("e4")})
	testutil.AssertNoError(t, err)

	moves, err := gs.LegalMoves(gameID, testutil.Sq("e7"))
	testutil.AssertNoError(t, err)
	testutil.AssertSamePositions(t, moves, []model.Position{testutil.Sq("e6"), testutil.Sq("e5")})

	view, err := gs.Undo(gameID, "bob")
	testutil.AssertNoError(t, err)
	if len(view.State.MoveHistory) != 0 {
		t.Errorf("history after undo = %d moves, want 0", len(view.State.MoveHistory))
	}

	_, err = gs.Reset(gameID, "alice")
	testutil.AssertNoError(t, err)
}

func TestUnknownGame(t *testing.T) {
	gs, _ := newTestService(t)

	_, err := gs.GetGame("missing")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, err = gs.JoinGame("missing", "alice")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, err = gs.HandleMove("missing", "alice", model.SimpleMove{})
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, err = gs.LegalMoves("missing", model.Position{})
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, err = gs.Undo("missing", "alice")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, err = gs.Reset("missing", "alice")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	testutil.AssertErrorIs(t, gs.RegisterConnection("missing", "alice", nil), ErrGameNotFound)
}

func TestMatchmakingPairsPlayers(t *testing.T) {
	gs, gm := newTestService(t)

	channels := map[string]chan ws.Message{}
	for _, id := range []string{"alice", "bob"} {
		ch := make(chan ws.Message, 1)
		channels[id] = ch
		gs.RegisterMatchmakingChannel(id, ch)
		testutil.AssertNoError(t, gs.JoinMatchmaking(id))
	}
	testutil.AssertErrorIs(t, gs.JoinMatchmaking("alice"), session.ErrAlreadyQueued)

	gm.matchPlayers()

	payloads := map[string]ws.MatchFoundPayload{}
	for id, ch := range channels {
		msg, ok := <-ch
		if !ok || msg.Type != ws.MessageTypeMatchFound {
			t.Fatalf("%s: message = %+v, open = %v", id, msg, ok)
		}
		var p ws.MatchFoundPayload
		testutil.AssertNoError(t, json.Unmarshal(msg.Payload, &p))
		payloads[id] = p

		if _, open := <-ch; open {
			t.Errorf("%s: channel left open after the match", id)
		}
	}

	if payloads["alice"].GameID != payloads["bob"].GameID {
		t.Errorf("players matched into different games: %+v", payloads)
	}
	if payloads["alice"].Color != string(model.White) || payloads["bob"].Color != string(model.Black) {
		t.Errorf("colors = %+v, want alice white and bob black", payloads)
	}

	view, err := gs.GetGame(payloads["alice"].GameID)
	testutil.AssertNoError(t, err)
	if view.Mode != session.ModeTwoPlayer {
		t.Errorf("matched game mode = %q", view.Mode)
	}
}

func TestLeaveMatchmaking(t *testing.T) {
	gs, gm := newTestService(t)

	testutil.AssertNoError(t, gs.JoinMatchmaking("alice"))
	if !gs.LeaveMatchmaking("alice") {
		t.Error("LeaveMatchmaking = false for a queued player")
	}
	if gs.LeaveMatchmaking("alice") {
		t.Error("LeaveMatchmaking = true twice")
	}

	testutil.AssertNoError(t, gs.JoinMatchmaking("bob"))
	gm.matchPlayers()
	if gm.GameCount() != 0 {
		t.Errorf("GameCount = %d, want 0 with a single queued player", gm.GameCount())
	}
}

func TestMatchmakingLoop(t *testing.T) {
	gm := NewGameManager(ManagerConfig{MatchmakingInterval: 10 * time.Millisecond, Seed: 1})
	t.Cleanup(gm.Close)

	ch := make(chan ws.Message, 1)
	gm.RegisterMatchmakingChannel("alice", ch)
	testutil.AssertNoError(t, gm.JoinMatchmaking("alice"))
	testutil.AssertNoError(t, gm.JoinMatchmaking("bob"))

	select {
	case msg := <-ch:
		if msg.Type != ws.MessageTypeMatchFound {
			t.Errorf("message type = %q", msg.Type)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("matchmaking loop never paired the players")
	}
}
