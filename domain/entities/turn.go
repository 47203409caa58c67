package entities

// Turn is the result of one completed conversation exchange. It is built by
// the conversation pipeline and lives only for the duration of the response;
// the synthesized audio file referenced by AudioID is its only artifact.
type Turn struct {
	// UserInput is the user's message in the target language.
	UserInput string `json:"user_input"`

	// Language is the target language of the exchange.
	Language Language `json:"language"`

	// TranscribedText is the raw transcription of uploaded audio. Only set
	// on the voice path; may be empty when the recording contained no
	// recognizable speech.
	TranscribedText string `json:"transcribed_text,omitempty"`

	// TranslatedUserText is the English translation of UserInput. Non-empty
	// whenever the pipeline completes without error.
	TranslatedUserText string `json:"translated_user_text"`

	// BotReplyEnglish is the dialogue engine's reply before translation.
	BotReplyEnglish string `json:"bot_reply_english"`

	// BotReply is the reply translated into the target language. Non-empty
	// whenever the pipeline completes without error.
	BotReply string `json:"bot_reply"`

	// AudioID identifies the synthesized speech for BotReply.
	AudioID string `json:"audio_id"`
}

// Exchange is one user/bot line pair of rolling conversation history, fed
// back into the dialogue engine for context.
type Exchange struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}
