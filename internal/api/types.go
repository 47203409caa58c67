package api

import "time"

// TextChatRequest is the payload for a text conversation turn.
type TextChatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
}

// TurnResponse is the outcome of a conversation turn, shared by the text and
// voice endpoints. TranscribedText is only set on the voice path.
type TurnResponse struct {
	TranslatedUserText string `json:"translatedUserText"`
	BotResponse        string `json:"botResponse"`
	BotResponseEnglish string `json:"botResponseEnglish"`
	AudioID            string `json:"audioId"`
	TranscribedText    string `json:"transcribedText,omitempty"`
}

// SessionResponse is returned when a conversation session is created.
type SessionResponse struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GuessResponse carries the annotated image for one image-guess round.
type GuessResponse struct {
	Image string `json:"image"`
	Label string `json:"label"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
