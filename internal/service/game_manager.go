// service/game_manager.go
package service

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/benbeisheim/chessmate-backend/internal/ai"
	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/session"
	"github.com/benbeisheim/chessmate-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var ErrGameNotFound = errors.New("game not found")

type ManagerConfig struct {
	AIDelay             time.Duration
	MatchmakingInterval time.Duration
	// Seed seeds the per-game random sources. Zero means time-based.
	Seed int64
}

type GameManager struct {
	games            map[string]*session.Game
	queue            *session.Queue
	matchingChannels map[string]chan ws.Message
	cfg              ManagerConfig
	seeds            *rand.Rand
	done             chan struct{}
	closeOnce        sync.Once
	mu               sync.RWMutex
}

func NewGameManager(cfg ManagerConfig) *GameManager {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gm := &GameManager{
		games:            make(map[string]*session.Game),
		queue:            session.NewQueue(),
		matchingChannels: make(map[string]chan ws.Message),
		cfg:              cfg,
		seeds:            rand.New(rand.NewSource(seed)),
		done:             make(chan struct{}),
	}

	if cfg.MatchmakingInterval > 0 {
		go gm.processMatchmaking()
	}

	return gm
}

// Close stops the matchmaking loop.
func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() { close(gm.done) })
}

// newRand hands every game its own source so no two games share random state.
// Callers hold gm.mu.
func (gm *GameManager) newRand() *rand.Rand {
	return rand.New(rand.NewSource(gm.seeds.Int63()))
}

func (gm *GameManager) CreateGame(gameID string, mode session.GameMode, difficulty ai.Difficulty) (*session.Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, errors.New("game already exists")
	}

	game, err := session.NewGame(gameID, mode, difficulty, gm.newRand())
	if err != nil {
		return nil, err
	}
	gm.games[gameID] = game
	log.Infow("game created", "game", gameID, "mode", mode, "difficulty", difficulty)
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*session.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.games)
}

// AfterChange broadcasts the game and, when the computer is to move, schedules its
// reply after the configured delay.
func (gm *GameManager) AfterChange(game *session.Game) {
	game.Broadcast()
	if game.AITurn() {
		time.AfterFunc(gm.cfg.AIDelay, func() { gm.playAI(game) })
	}
}

func (gm *GameManager) playAI(game *session.Game) {
	select {
	case <-gm.done:
		return
	default:
	}

	move, err := game.PlayAIMove()
	switch {
	case errors.Is(err, session.ErrNotAITurn):
		return
	case errors.Is(err, session.ErrPositionMoved):
		log.Debugw("discarded stale computer move", "game", game.ID)
		gm.AfterChange(game)
		return
	case err != nil:
		log.Errorw("computer move failed", "game", game.ID, "error", err)
		return
	}
	log.Debugw("computer move applied", "game", game.ID, "move", move.Notation)
	gm.AfterChange(game)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if err := gm.queue.AddPlayer(playerID); err != nil {
		log.Warnw("error adding player to matchmaking queue", "player", playerID, "error", err)
		return err
	}
	log.Infow("player queued", "player", playerID, "queued", gm.queue.Size())
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan ws.Message) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, exists := gm.matchingChannels[playerID]; exists {
		log.Debugw("replacing matchmaking channel", "player", playerID)
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel drops ch if it is still the registered channel
// without closing it. The manager closes a channel only when it is replaced or
// when a match is delivered on it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan ws.Message) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, exists := gm.matchingChannels[playerID]; exists && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

func (gm *GameManager) processMatchmaking() {
	ticker := time.NewTicker(gm.cfg.MatchmakingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

// matchPlayers pairs queued players into new two-player games and notifies them.
func (gm *GameManager) matchPlayers() {
	for {
		first, second, ok := gm.queue.NextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game, err := gm.CreateGame(gameID, session.ModeTwoPlayer, "")
		if err != nil {
			log.Errorw("error creating matched game", "error", err)
			return
		}

		for _, playerID := range []string{first, second} {
			color, err := game.AddPlayer(playerID, "")
			if err != nil {
				log.Errorw("error adding player to game", "game", gameID, "player", playerID, "error", err)
				continue
			}
			gm.notifyMatch(playerID, gameID, color)
		}
	}
}

func (gm *GameManager) notifyMatch(playerID, gameID string, color model.Color) {
	msg, err := ws.NewMessage(ws.MessageTypeMatchFound, ws.MatchFoundPayload{GameID: gameID, Color: string(color)})
	if err != nil {
		log.Errorw("failed to marshal match event", "error", err)
		return
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Warnw("no matchmaking channel for player", "player", playerID, "game", gameID)
		return
	}
	select {
	case ch <- msg:
		log.Infow("sent match found event", "player", playerID, "game", gameID, "color", color)
		delete(gm.matchingChannels, playerID)
		close(ch)
	default:
		log.Warnw("failed to send match event", "player", playerID, "game", gameID)
	}
}
