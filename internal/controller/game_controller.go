package controller

import (
	"github.com/benbeisheim/chessmate-backend/internal/model"
	"github.com/benbeisheim/chessmate-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Register mounts the game routes on router.
func (gc *GameController) Register(router fiber.Router) {
	router.Post("/matchmaking/join", gc.JoinMatchmaking)
	router.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	router.Post("/create", gc.CreateGame)
	router.Post("/join/:gameId", gc.JoinGame)
	router.Get("/:gameId", gc.GetGameState)
	router.Get("/:gameId/fen", gc.GetFEN)
	router.Get("/:gameId/moves", gc.LegalMoves)
	router.Post("/:gameId/move", gc.MakeMove)
	router.Post("/:gameId/undo", gc.Undo)
	router.Post("/:gameId/reset", gc.Reset)
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req service.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	gameID, color, err := gc.gameService.CreateGame(playerID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"color":   color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	color, err := gc.gameService.JoinGame(gameID, playerID(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	view, err := gc.gameService.GetGame(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) GetFEN(c *fiber.Ctx) error {
	view, err := gc.gameService.GetGame(c.Params("gameId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"fen": view.FEN,
	})
}

// LegalMoves answers ?row=&col= with the destinations of the piece on that square.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	from := model.Position{Row: c.QueryInt("row", -1), Col: c.QueryInt("col", -1)}
	if !from.InBounds() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "row and col must be between 0 and 7",
		})
	}

	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), from)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"from":  from,
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move model.SimpleMove
	if err := c.BodyParser(&move); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid move body",
		})
	}

	view, err := gc.gameService.HandleMove(c.Params("gameId"), playerID(c), move)
	if err != nil {
		log.Debugw("move rejected", "game", c.Params("gameId"), "player", playerID(c), "error", err)
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	view, err := gc.gameService.Undo(c.Params("gameId"), playerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) Reset(c *fiber.Ctx) error {
	view, err := gc.gameService.Reset(c.Params("gameId"), playerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(view)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerID(c)); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	removed := gc.gameService.LeaveMatchmaking(playerID(c))
	return c.JSON(fiber.Map{
		"removed": removed,
	})
}
