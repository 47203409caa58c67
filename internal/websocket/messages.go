package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/csmith/lingotutor/domain/entities"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeTextChat MessageType = "text_chat"
	MessageTypeTurn     MessageType = "turn"
	MessageTypePing     MessageType = "ping"
	MessageTypePong     MessageType = "pong"
	MessageTypeError    MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// TextChatMessage is a chat turn request from the client.
type TextChatMessage struct {
	BaseMessage
	Message  string `json:"message"`
	Language string `json:"language"`
}

// TurnMessage is the server's reply to a completed chat turn.
type TurnMessage struct {
	BaseMessage
	TranslatedUserText string `json:"translatedUserText"`
	BotResponse        string `json:"botResponse"`
	BotResponseEnglish string `json:"botResponseEnglish"`
	AudioID            string `json:"audioId"`
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// ParseClientMessage validates an incoming client message and returns the
// typed form.
func ParseClientMessage(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeTextChat:
		var msg TextChatMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid text chat message: %w", err)
		}
		if msg.Message == "" {
			return nil, fmt.Errorf("message is required")
		}
		if msg.Language == "" {
			return nil, fmt.Errorf("language is required")
		}
		return &msg, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// CreateTurnMessage builds the reply message for a completed turn.
func CreateTurnMessage(turn *entities.Turn) *TurnMessage {
	return &TurnMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeTurn,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		TranslatedUserText: turn.TranslatedUserText,
		BotResponse:        turn.BotReply,
		BotResponseEnglish: turn.BotReplyEnglish,
		AudioID:            turn.AudioID,
	}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeError,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Code:    code,
		Message: message,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypePong,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Data: data,
	}
}
