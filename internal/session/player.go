package session

import "github.com/benbeisheim/chessmate-backend/internal/model"

// AIPlayerID identifies the computer side of a single-player game.
const AIPlayerID = "computer"

type Player struct {
	ID    string      `json:"id"`
	Color model.Color `json:"color"`
	IsAI  bool        `json:"isAI"`
}

type Players struct {
	White Player `json:"white"`
	Black Player `json:"black"`
}

func (p *Players) byColor(color model.Color) *Player {
	if color == model.White {
		return &p.White
	}
	return &p.Black
}

// colorOf returns the seat a human player occupies.
func (p *Players) colorOf(playerID string) (model.Color, bool) {
	if playerID == "" {
		return "", false
	}
	if p.White.ID == playerID && !p.White.IsAI {
		return model.White, true
	}
	if p.Black.ID == playerID && !p.Black.IsAI {
		return model.Black, true
	}
	return "", false
}

type GameMode string

const (
	ModeSingle    GameMode = "single"
	ModeTwoPlayer GameMode = "two-player"
)

func ParseMode(s string) (GameMode, bool) {
	switch GameMode(s) {
	case ModeSingle, ModeTwoPlayer:
		return GameMode(s), true
	}
	return "", false
}
