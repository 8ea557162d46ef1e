package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/chessmate-backend/internal/ai"
	"github.com/benbeisheim/chessmate-backend/internal/config"
	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/rules"
	"github.com/benbeisheim/chessmate-backend/internal/service"
	"github.com/benbeisheim/chessmate-backend/internal/session"
	"github.com/benbeisheim/chessmate-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	gm := service.NewGameManager(service.ManagerConfig{Seed: 1})
	t.Cleanup(gm.Close)
	return NewApp(config.Default(), service.NewGameService(gm, ai.Beginner))
}

func do(t *testing.T, app *fiber.App, method, path, player, body string) (int, map[string]json.RawMessage) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}

	resp, err := app.Test(req, -1)
	testutil.AssertNoError(t, err, method+" "+path)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	testutil.AssertNoError(t, err)
	out := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("%s %s: decoding %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	testutil.AssertNoError(t, json.Unmarshal(raw, &v))
	return v
}

func createTwoPlayer(t *testing.T, app *fiber.App) string {
	t.Helper()
	code, body := do(t, app, http.MethodPost, "/api/game/create", "alice", `{"mode":"two-player"}`)
	if code != fiber.StatusOK {
		t.Fatalf("create status = %d", code)
	}
	gameID := decode[string](t, body["game_id"])

	code, body = do(t, app, http.MethodPost, "/api/game/join/"+gameID, "bob", "")
	if code != fiber.StatusOK || decode[model.Color](t, body["color"]) != model.Black {
		t.Fatalf("join status = %d, body = %v", code, body)
	}
	return gameID
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	code, body := do(t, app, http.MethodGet, "/healthz", "", "")
	if code != fiber.StatusOK || decode[string](t, body["status"]) != "ok" {
		t.Errorf("healthz = %d %v", code, body)
	}
}

func TestPlayerIDRequired(t *testing.T) {
	app := newTestApp(t)
	code, body := do(t, app, http.MethodPost, "/api/game/create", "", "")
	if code != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
	if _, ok := body["error"]; !ok {
		t.Errorf("body = %v, want an error message", body)
	}
}

func TestCreateSingleGame(t *testing.T) {
	app := newTestApp(t)

	code, body := do(t, app, http.MethodPost, "/api/game/create", "alice", `{"difficulty":"hard","color":"white"}`)
	if code != fiber.StatusOK {
		t.Fatalf("status = %d, body = %v", code, body)
	}
	if got := decode[model.Color](t, body["color"]); got != model.White {
		t.Errorf("color = %s, want white", got)
	}

	gameID := decode[string](t, body["game_id"])
	code, body = do(t, app, http.MethodGet, "/api/game/"+gameID, "alice", "")
	if code != fiber.StatusOK {
		t.Fatalf("state status = %d", code)
	}
	if got := decode[session.GameMode](t, body["mode"]); got != session.ModeSingle {
		t.Errorf("mode = %q", got)
	}
	if got := decode[ai.Difficulty](t, body["difficulty"]); got != ai.Hard {
		t.Errorf("difficulty = %q", got)
	}
	if got := decode[string](t, body["fen"]); got != rules.InitialFEN {
		t.Errorf("fen = %q", got)
	}
}

func TestCreateGameValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed body", `{"mode":`, fiber.StatusBadRequest},
		{"unknown mode", `{"mode":"blitz"}`, fiber.StatusBadRequest},
		{"unknown difficulty", `{"difficulty":"impossible"}`, fiber.StatusBadRequest},
		{"unknown color", `{"color":"green"}`, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, body := do(t, app, http.MethodPost, "/api/game/create", "alice", tt.body); code != tt.want {
				t.Errorf("status = %d, want %d (%v)", code, tt.want, body)
			}
		})
	}
}

func TestMoveFlow(t *testing.T) {
	app := newTestApp(t)
	gameID := createTwoPlayer(t, app)
	movePath := "/api/game/" + gameID + "/move"

	tests := []struct {
		name   string
		player string
		body   string
		want   int
	}{
		{"spectator", "mallory", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`, fiber.StatusForbidden},
		{"wrong turn", "bob", `{"from":{"row":1,"col":4},"to":{"row":3,"col":4}}`, fiber.StatusConflict},
		{"illegal", "alice", `{"from":{"row":6,"col":4},"to":{"row":3,"col":4}}`, fiber.StatusBadRequest},
		{"empty square", "alice", `{"from":{"row":4,"col":4},"to":{"row":3,"col":4}}`, fiber.StatusBadRequest},
		{"malformed", "alice", `{"from":`, fiber.StatusBadRequest},
		{"legal", "alice", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`, fiber.StatusOK},
	}
	for _, tt := range tests {
		code, body := do(t, app, http.MethodPost, movePath, tt.player, tt.body)
		if code != tt.want {
			t.Errorf("%s: status = %d, want %d (%v)", tt.name, code, tt.want, body)
		}
	}

	code, body := do(t, app, http.MethodGet, "/api/game/"+gameID+"/fen", "alice", "")
	if code != fiber.StatusOK {
		t.Fatalf("fen status = %d", code)
	}
	if got := decode[string](t, body["fen"]); got != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Errorf("fen = %q", got)
	}

	code, body = do(t, app, http.MethodPost, "/api/game/"+gameID+"/undo", "bob", "")
	if code != fiber.StatusOK {
		t.Fatalf("undo status = %d (%v)", code, body)
	}
	if got := decode[string](t, body["fen"]); got != rules.InitialFEN {
		t.Errorf("fen after undo = %q", got)
	}

	code, _ = do(t, app, http.MethodPost, "/api/game/"+gameID+"/undo", "bob", "")
	if code != fiber.StatusConflict {
		t.Errorf("second undo status = %d, want 409", code)
	}

	code, _ = do(t, app, http.MethodPost, "/api/game/"+gameID+"/reset", "mallory", "")
	if code != fiber.StatusForbidden {
		t.Errorf("reset by spectator status = %d, want 403", code)
	}
}

func TestLegalMovesEndpoint(t *testing.T) {
	app := newTestApp(t)
	gameID := createTwoPlayer(t, app)

	code, body := do(t, app, http.MethodGet, fmt.Sprintf("/api/game/%s/moves?row=6&col=4", gameID), "alice", "")
	if code != fiber.StatusOK {
		t.Fatalf("status = %d", code)
	}
	moves := decode[[]model.Position](t, body["moves"])
	testutil.AssertSamePositions(t, moves, []model.Position{{Row: 5, Col: 4}, {Row: 4, Col: 4}})

	code, _ = do(t, app, http.MethodGet, "/api/game/"+gameID+"/moves?row=9&col=0", "alice", "")
	if code != fiber.StatusBadRequest {
		t.Errorf("out of range status = %d, want 400", code)
	}
}

func TestUnknownGameIsNotFound(t *testing.T) {
	app := newTestApp(t)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/game/missing"},
		{http.MethodGet, "/api/game/missing/fen"},
		{http.MethodGet, "/api/game/missing/moves?row=0&col=0"},
		{http.MethodPost, "/api/game/join/missing"},
		{http.MethodPost, "/api/game/missing/undo"},
		{http.MethodPost, "/api/game/missing/reset"},
	}
	for _, p := range paths {
		if code, _ := do(t, app, p.method, p.path, "alice", ""); code != fiber.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", p.method, p.path, code)
		}
	}
}

func TestMatchmakingEndpoints(t *testing.T) {
	app := newTestApp(t)

	code, body := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")
	if code != fiber.StatusOK || decode[string](t, body["status"]) != "queued" {
		t.Errorf("join = %d %v", code, body)
	}
	code, _ = do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")
	if code != fiber.StatusConflict {
		t.Errorf("second join status = %d, want 409", code)
	}

	_, body = do(t, app, http.MethodPost, "/api/game/matchmaking/leave", "alice", "")
	if !decode[bool](t, body["removed"]) {
		t.Error("leave did not remove the player")
	}
}

func TestWebSocketRoutesRequireUpgrade(t *testing.T) {
	app := newTestApp(t)

	code, _ := do(t, app, http.MethodGet, "/ws/game/abc?playerId=alice", "", "")
	if code != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrGameNotFound, fiber.StatusNotFound},
		{session.ErrNotInGame, fiber.StatusForbidden},
		{fmt.Errorf("wrapped: %w", session.ErrGameFull), fiber.StatusConflict},
		{rules.ErrGameOver, fiber.StatusConflict},
		{rules.ErrInvalidPromotion, fiber.StatusBadRequest},
		{ai.ErrUnknownDifficulty, fiber.StatusBadRequest},
		{io.ErrUnexpectedEOF, fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
