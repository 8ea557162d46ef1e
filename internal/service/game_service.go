package service

import (
	"fmt"

	"github.com/benbeisheim/chessmate-backend/internal/ai"
	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/session"
	"github.com/benbeisheim/chessmate-backend/internal/ws"
	"github.com/google/uuid"
)

type CreateGameRequest struct {
	Mode       session.GameMode `json:"mode"`
	Difficulty ai.Difficulty    `json:"difficulty"`
	Color      model.Color      `json:"color"`
}

type GameService struct {
	gameManager       *GameManager
	defaultDifficulty ai.Difficulty
}

func NewGameService(gameManager *GameManager, defaultDifficulty ai.Difficulty) *GameService {
	return &GameService{
		gameManager:       gameManager,
		defaultDifficulty: defaultDifficulty,
	}
}

// CreateGame creates a game and seats playerID in it.
func (gs *GameService) CreateGame(playerID string, req CreateGameRequest) (string, model.Color, error) {
	if req.Mode == "" {
		req.Mode = session.ModeSingle
	}
	if req.Mode == session.ModeSingle && req.Difficulty == "" {
		req.Difficulty = gs.defaultDifficulty
	}

	gameID := uuid.New().String()
	game, err := gs.gameManager.CreateGame(gameID, req.Mode, req.Difficulty)
	if err != nil {
		return "", "", fmt.Errorf("failed to create game: %w", err)
	}

	color, err := game.AddPlayer(playerID, req.Color)
	if err != nil {
		return "", "", fmt.Errorf("failed to join created game: %w", err)
	}
	gs.gameManager.AfterChange(game)
	return gameID, color, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	color, err := game.AddPlayer(playerID, "")
	if err != nil {
		return "", err
	}
	gs.gameManager.AfterChange(game)
	return color, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) GetGame(gameID string) (session.View, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return session.View{}, err
	}
	return game.View(), nil
}

func (gs *GameService) LegalMoves(gameID string, from model.Position) ([]model.Position, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(from), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.SimpleMove) (session.View, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return session.View{}, err
	}
	if _, err := game.MakeMove(playerID, move); err != nil {
		return session.View{}, err
	}
	gs.gameManager.AfterChange(game)
	return game.View(), nil
}

func (gs *GameService) Undo(gameID string, playerID string) (session.View, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return session.View{}, err
	}
	if err := game.Undo(playerID); err != nil {
		return session.View{}, err
	}
	gs.gameManager.AfterChange(game)
	return game.View(), nil
}

func (gs *GameService) Reset(gameID string, playerID string) (session.View, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return session.View{}, err
	}
	if err := game.Reset(playerID); err != nil {
		return session.View{}, err
	}
	gs.gameManager.AfterChange(game)
	return game.View(), nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn session.Conn) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn session.Conn) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan ws.Message) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan ws.Message) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
