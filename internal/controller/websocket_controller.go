package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/service"
	"github.com/benbeisheim/chessmate-backend/internal/session"
	"github.com/benbeisheim/chessmate-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals("playerID").(string)
	log.Debugw("websocket connected", "game", gameID, "player", playerID)

	// Broadcasts from other goroutines write to this socket too; every write
	// goes through conn.
	conn := session.NewLockedConn(c)
	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warnw("failed to register connection", "game", gameID, "player", playerID, "error", err)
		conn.WriteJSON(ws.NewErrorMessage(err.Error()))
		conn.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugw("websocket read ended", "game", gameID, "player", playerID, "error", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugw("websocket parse error", "game", gameID, "error", err)
			conn.WriteJSON(ws.NewErrorMessage("malformed message"))
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugw("websocket handle error", "game", gameID, "type", msg.Type, "error", err)
			conn.WriteJSON(ws.NewErrorMessage(err.Error()))
		}
	}
}

// handleMessage dispatches one inbound message. Successful commands reach every
// socket through the game's broadcast, so nothing is written back here.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.SimpleMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err
	case ws.MessageTypeUndo:
		_, err := wsc.gameService.Undo(gameID, playerID)
		return err
	case ws.MessageTypeReset:
		_, err := wsc.gameService.Reset(gameID, playerID)
		return err
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking waits on a matchmaking socket until the player is paired, then
// sends the matchFound event and closes.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("playerID").(string)

	ch := make(chan ws.Message, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case msg, ok := <-ch:
		if ok {
			c.WriteJSON(msg)
		}
	case <-closed:
		wsc.gameService.LeaveMatchmaking(playerID)
	}
	c.Close()
}
