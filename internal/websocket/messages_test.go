package websocket

import (
	"encoding/json"
	"testing"

	"github.com/csmith/lingotutor/domain/entities"
)

func TestParseClientMessage_TextChat(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{
			name:    "valid text chat",
			message: `{"type": "text_chat", "message": "你好", "language": "chinese"}`,
			wantErr: false,
		},
		{
			name:    "missing message",
			message: `{"type": "text_chat", "language": "chinese"}`,
			wantErr: true,
		},
		{
			name:    "missing language",
			message: `{"type": "text_chat", "message": "你好"}`,
			wantErr: true,
		},
		{
			name:    "unsupported type",
			message: `{"type": "audio_chunk"}`,
			wantErr: true,
		},
		{
			name:    "invalid JSON",
			message: `{"type": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClientMessage([]byte(tt.message))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseClientMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseClientMessage_Ping(t *testing.T) {
	parsed, err := ParseClientMessage([]byte(`{"type": "ping", "data": "hello"}`))
	if err != nil {
		t.Fatalf("ParseClientMessage() failed: %v", err)
	}

	ping, ok := parsed.(*PingMessage)
	if !ok {
		t.Fatalf("Expected *PingMessage, got %T", parsed)
	}
	if ping.Data != "hello" {
		t.Errorf("Unexpected ping data: %q", ping.Data)
	}
}

func TestCreateTurnMessage(t *testing.T) {
	turn := &entities.Turn{
		TranslatedUserText: "hello",
		BotReplyEnglish:    "hi there",
		BotReply:           "你好呀",
		AudioID:            "abc-123",
	}

	msg := CreateTurnMessage(turn)
	if msg.Type != MessageTypeTurn {
		t.Errorf("Unexpected message type: %s", msg.Type)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Failed to marshal turn message: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal turn message: %v", err)
	}
	if decoded["botResponse"] != "你好呀" {
		t.Errorf("Unexpected botResponse: %v", decoded["botResponse"])
	}
	if decoded["audioId"] != "abc-123" {
		t.Errorf("Unexpected audioId: %v", decoded["audioId"])
	}
}

func TestCreateErrorMessage(t *testing.T) {
	msg := CreateErrorMessage("generation_failed", "Failed to process chat turn")
	if msg.Type != MessageTypeError {
		t.Errorf("Unexpected message type: %s", msg.Type)
	}
	if msg.Code != "generation_failed" {
		t.Errorf("Unexpected code: %s", msg.Code)
	}
}
