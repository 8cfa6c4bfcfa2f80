package in

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message is the envelope for every websocket frame.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func NewMessage(msgType string, payload any, at time.Time) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return Message{Type: msgType, Payload: data, Timestamp: at.UTC()}, nil
}

// Server to client.
const (
	TypeSnapshot   = "session.snapshot"
	TypeTransition = "session.transition"
	TypeError      = "error"
)

// Client to server.
const (
	TypeStart           = "session.start"
	TypeTogglePause     = "session.togglePause"
	TypeSkipAutoStart   = "session.skipAutoStart"
	TypeChangeExercise  = "session.changeExercise"
	TypeChangeImageSide = "session.changeImageSide"
	TypeReset           = "session.reset"
)

// Error codes.
const (
	ErrInvalidMessage = "INVALID_MESSAGE"
	ErrUnknownType    = "UNKNOWN_TYPE"
)

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
