package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/chessmate-backend/internal/config"
	"github.com/benbeisheim/chessmate-backend/internal/controller"
	"github.com/benbeisheim/chessmate-backend/internal/service"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load configuration", "error", err)
	}
	log.SetLevel(cfg.LogLevel)

	// Initialize services
	gameManager := service.NewGameManager(service.ManagerConfig{
		AIDelay:             cfg.AIDelay,
		MatchmakingInterval: cfg.MatchmakingInterval,
	})
	defer gameManager.Close()
	gameService := service.NewGameService(gameManager, cfg.DefaultDifficulty)

	app := controller.NewApp(cfg, gameService)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorw("shutdown failed", "error", err)
		}
	}()

	log.Infow("listening", "addr", cfg.Addr, "origins", cfg.AllowedOrigins)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
