package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeUndo       MessageType = "undo"
	MessageTypeReset      MessageType = "reset"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeMatchFound MessageType = "matchFound"
	MessageTypeError      MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type MatchFoundPayload struct {
	GameID string `json:"gameId"`
	Color  string `json:"color"`
}

// NewMessage marshals payload into a message envelope.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

func NewErrorMessage(errorMsg string) Message {
	raw, _ := json.Marshal(ErrorPayload{Error: errorMsg})
	return Message{Type: MessageTypeError, Payload: raw}
}
