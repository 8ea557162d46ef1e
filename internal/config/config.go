// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/benbeisheim/chessmate-backend/internal/ai"
	"github.com/gofiber/fiber/v2/log"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	// Addr is the address the HTTP server listens on.
	Addr string
	// AllowedOrigins is the comma separated CORS and websocket origin list.
	AllowedOrigins string
	// AIDelay is how long the computer waits before answering a move.
	AIDelay             time.Duration
	MatchmakingInterval time.Duration
	LogLevel            log.Level
	DefaultDifficulty   ai.Difficulty
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowedOrigins:      "http://localhost:5173",
		AIDelay:             500 * time.Millisecond,
		MatchmakingInterval: time.Second,
		LogLevel:            log.LevelInfo,
		DefaultDifficulty:   ai.Normal,
	}
}

// Load reads CHESS_* variables on top of Default.
func Load() (Config, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup("CHESS_ADDR"); ok && v != "" {
		cfg.Addr = v
	}
	if v, ok := lookup("CHESS_ALLOWED_ORIGINS"); ok && v != "" {
		cfg.AllowedOrigins = v
	}
	if v, ok := lookup("CHESS_AI_DELAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("%w: CHESS_AI_DELAY=%q", ErrInvalidConfig, v)
		}
		cfg.AIDelay = d
	}
	if v, ok := lookup("CHESS_MATCHMAKING_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("%w: CHESS_MATCHMAKING_INTERVAL=%q", ErrInvalidConfig, v)
		}
		cfg.MatchmakingInterval = d
	}
	if v, ok := lookup("CHESS_LOG_LEVEL"); ok {
		level, err := parseLevel(v)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}
	if v, ok := lookup("CHESS_DEFAULT_DIFFICULTY"); ok {
		d, err := ai.ParseDifficulty(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		cfg.DefaultDifficulty = d
	}
	return cfg, nil
}

func parseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return log.LevelTrace, nil
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	}
	return 0, fmt.Errorf("%w: CHESS_LOG_LEVEL=%q", ErrInvalidConfig, s)
}

// Origins splits AllowedOrigins for the websocket upgrader.
func (c Config) Origins() []string {
	origins := []string{}
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
