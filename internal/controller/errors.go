package controller

import (
	"errors"

	"github.com/benbeisheim/chessmate-backend/internal/ai"
	"github.com/benbeisheim/chessmate-backend/internal/rules"
	"github.com/benbeisheim/chessmate-backend/internal/service"
	"github.com/benbeisheim/chessmate-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrNotInGame), errors.Is(err, session.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, session.ErrGameFull),
		errors.Is(err, session.ErrAlreadyQueued),
		errors.Is(err, rules.ErrNotYourTurn),
		errors.Is(err, rules.ErrGameOver),
		errors.Is(err, session.ErrNothingToUndo):
		return fiber.StatusConflict
	case errors.Is(err, rules.ErrIllegalMove),
		errors.Is(err, rules.ErrNoPiece),
		errors.Is(err, rules.ErrInvalidPromotion),
		errors.Is(err, session.ErrUnknownMode),
		errors.Is(err, session.ErrInvalidColor),
		errors.Is(err, ai.ErrUnknownDifficulty):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// ErrorHandler renders errors that escape handlers in the same shape as respondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
