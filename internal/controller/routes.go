package controller

import (
	"github.com/benbeisheim/chessmate-backend/internal/config"
	"github.com/benbeisheim/chessmate-backend/internal/middleware"
	"github.com/benbeisheim/chessmate-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
)

// NewApp builds the fiber application with every REST and websocket route.
func NewApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "chessmate",
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	wsConfig := websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         cfg.Origins(),
	}
	wsRoutes := app.Group("/ws", middleware.EnsurePlayerID())
	wsRoutes.Get("/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, wsConfig))
	wsRoutes.Get("/matchmaking", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleMatchmaking, wsConfig))

	api := app.Group("/api", middleware.EnsurePlayerID())
	gameController.Register(api.Group("/game"))

	return app
}
