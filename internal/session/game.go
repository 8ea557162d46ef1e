package session

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/benbeisheim/chessmate-backend/internal/ai"
	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/rules"
	"github.com/benbeisheim/chessmate-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
)

// Game is one running game: its seats, the stack of positions played so far and the
// sockets watching it. The last entry of history is the current position.
type Game struct {
	ID          string
	mu          sync.Mutex
	mode        GameMode
	difficulty  ai.Difficulty
	players     Players
	history     []model.GameState
	version     int
	thinking    bool
	rng         *rand.Rand
	connections *Connections
}

// View is the JSON shape of a game sent to clients.
type View struct {
	ID         string          `json:"id"`
	Mode       GameMode        `json:"mode"`
	Difficulty ai.Difficulty   `json:"difficulty,omitempty"`
	Players    Players         `json:"players"`
	State      model.GameState `json:"state"`
	FEN        string          `json:"fen"`
	Status     rules.Status    `json:"status"`
	Winner     model.Color     `json:"winner,omitempty"`
	AIThinking bool            `json:"aiThinking"`
}

// NewGame creates a game in the starting position. difficulty is ignored for
// two-player games; rng drives the random difficulty tiers.
func NewGame(id string, mode GameMode, difficulty ai.Difficulty, rng *rand.Rand) (*Game, error) {
	if _, ok := ParseMode(string(mode)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if mode == ModeSingle {
		if _, err := ai.ParseDifficulty(string(difficulty)); err != nil {
			return nil, err
		}
	} else {
		difficulty = ""
	}

	return &Game{
		ID:          id,
		mode:        mode,
		difficulty:  difficulty,
		history:     []model.GameState{model.NewGameState()},
		rng:         rng,
		connections: NewConnections(),
	}, nil
}

func (g *Game) Mode() GameMode {
	return g.mode
}

func (g *Game) current() model.GameState {
	return g.history[len(g.history)-1]
}

func (g *Game) push(state model.GameState) {
	g.history = append(g.history, state)
	g.version++
}

// AddPlayer seats playerID and returns its color. In single-player games the human
// takes preferred (white when empty) and the computer takes the other side.
// Re-joining returns the seat already held.
func (g *Game) AddPlayer(playerID string, preferred model.Color) (model.Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.players.colorOf(playerID); ok {
		return color, nil
	}

	switch g.mode {
	case ModeSingle:
		if g.players.White.ID != "" || g.players.Black.ID != "" {
			return "", ErrGameFull
		}
		if preferred == "" {
			preferred = model.White
		}
		if !preferred.Valid() {
			return "", fmt.Errorf("%w: %q", ErrInvalidColor, preferred)
		}
		*g.players.byColor(preferred) = Player{ID: playerID, Color: preferred}
		*g.players.byColor(preferred.Opposite()) = Player{ID: AIPlayerID, Color: preferred.Opposite(), IsAI: true}
		log.Infow("player joined", "game", g.ID, "player", playerID, "color", preferred, "difficulty", g.difficulty)
		return preferred, nil
	default:
		for _, color := range []model.Color{model.White, model.Black} {
			seat := g.players.byColor(color)
			if seat.ID == "" {
				*seat = Player{ID: playerID, Color: color}
				log.Infow("player joined", "game", g.ID, "player", playerID, "color", color)
				return color, nil
			}
		}
		return "", ErrGameFull
	}
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.players.colorOf(playerID)
	return ok
}

// CanSpectate reports whether the game still has an open seat.
func (g *Game) CanSpectate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.players.White.ID == "" || g.players.Black.ID == ""
}

func (g *Game) State() model.GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.current().Clone()
}

func (g *Game) View() View {
	g.mu.Lock()
	defer g.mu.Unlock()

	state := g.current().Clone()
	view := View{
		ID:         g.ID,
		Mode:       g.mode,
		Difficulty: g.difficulty,
		Players:    g.players,
		State:      state,
		FEN:        rules.ToFEN(state),
		Status:     rules.GameStatus(state),
		AIThinking: g.thinking,
	}
	if winner, ok := rules.Winner(state); ok {
		view.Winner = winner
	}
	return view
}

// LegalMoves lists the destinations of the piece on from for the side to move.
func (g *Game) LegalMoves(from model.Position) []model.Position {
	state := g.State()
	if state.IsOver() {
		return []model.Position{}
	}
	return rules.LegalMoves(&state.Board, from, state.CurrentPlayer, state.EnPassantTarget)
}

// MakeMove applies a move submitted by a seated human player.
func (g *Game) MakeMove(playerID string, move model.SimpleMove) (model.Move, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.players.colorOf(playerID)
	if !ok {
		return model.Move{}, ErrNotInGame
	}
	state := g.current()
	if color != state.CurrentPlayer {
		return model.Move{}, rules.ErrNotYourTurn
	}

	next, applied, err := rules.ApplyMove(state, move.From, move.To, move.Promotion)
	if err != nil {
		return model.Move{}, err
	}
	g.push(next)
	log.Infow("move played", "game", g.ID, "player", playerID, "move", applied.Notation, "status", rules.GameStatus(next))
	return applied, nil
}

// AITurn reports whether the computer should move now.
func (g *Game) AITurn() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.aiTurnLocked()
}

func (g *Game) aiTurnLocked() bool {
	if g.mode != ModeSingle || g.thinking {
		return false
	}
	state := g.current()
	return !state.IsOver() && g.players.byColor(state.CurrentPlayer).IsAI
}

// PlayAIMove searches the current position without holding the lock and applies the
// chosen move. If the position changed meanwhile (undo or reset) the result is
// discarded with ErrPositionMoved.
func (g *Game) PlayAIMove() (model.Move, error) {
	g.mu.Lock()
	if !g.aiTurnLocked() {
		g.mu.Unlock()
		return model.Move{}, ErrNotAITurn
	}
	g.thinking = true
	snapshot := g.current().Clone()
	version := g.version
	difficulty := g.difficulty
	g.mu.Unlock()

	move, found, err := ai.GetAIMove(snapshot, difficulty, g.rng)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.thinking = false

	if err != nil {
		return model.Move{}, err
	}
	if g.version != version {
		return model.Move{}, ErrPositionMoved
	}
	if !found {
		return model.Move{}, rules.ErrGameOver
	}

	next, applied, err := rules.ApplyMove(g.current(), move.From, move.To, move.PromotedTo)
	if err != nil {
		return model.Move{}, fmt.Errorf("computer move %s%s: %w", move.From.Square(), move.To.Square(), err)
	}
	g.push(next)
	log.Infow("computer moved", "game", g.ID, "difficulty", difficulty, "move", applied.Notation, "status", rules.GameStatus(next))
	return applied, nil
}

// Undo takes back the last ply in two-player games. In single-player games it takes
// back plies until it is the human's turn again, normally the computer's reply and
// the human's move.
func (g *Game) Undo(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.players.colorOf(playerID)
	if !ok {
		return ErrNotInGame
	}
	if len(g.history) == 1 {
		return ErrNothingToUndo
	}

	g.history = g.history[:len(g.history)-1]
	if g.mode == ModeSingle {
		for len(g.history) > 1 && g.current().CurrentPlayer != color {
			g.history = g.history[:len(g.history)-1]
		}
	}
	g.version++
	log.Infow("move undone", "game", g.ID, "player", playerID, "plies", len(g.history)-1)
	return nil
}

// Reset starts the game over from the initial position, keeping the seats.
func (g *Game) Reset(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.players.colorOf(playerID); !ok {
		return ErrNotInGame
	}
	g.history = []model.GameState{model.NewGameState()}
	g.version++
	log.Infow("game reset", "game", g.ID, "player", playerID)
	return nil
}

// RegisterConnection attaches a socket for a seated player, or for a spectator
// while a seat is still open.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	if !g.IsPlayerInGame(playerID) && !g.CanSpectate() {
		return ErrNotAuthorized
	}
	if g.connections.Register(playerID, conn) {
		g.Broadcast()
	}
	return nil
}

func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.Unregister(playerID, conn)
}

// Broadcast pushes the current view to every socket of the game.
func (g *Game) Broadcast() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.View())
	if err != nil {
		log.Errorw("failed to marshal game state", "game", g.ID, "error", err)
		return
	}
	g.connections.Broadcast(msg)
}
