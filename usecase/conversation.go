// Package usecase orchestrates the conversation and image-guess pipelines
// over the capability interfaces in domain/repositories.
package usecase

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
	"github.com/csmith/lingotutor/internal/audio"
	"github.com/csmith/lingotutor/internal/audiostore"
	"github.com/csmith/lingotutor/internal/session"
)

// fallbackReply is used when a voice recording contains no recognizable
// speech. The turn still completes so the client gets audio to play;
// fallbackUserText stands in for the missing translation so the turn is
// fully formed and the exchange reads sensibly in session history.
const (
	fallbackReply    = "I didn't catch that. Could you say it again?"
	fallbackUserText = "(no recognizable speech)"
)

// ConversationService runs a full conversation turn: transcription (voice
// path), translation, dialogue generation, translation back, and speech
// synthesis. Any stage failure aborts the turn; no partial turn is ever
// returned.
type ConversationService struct {
	transcriber repositories.SpeechToText
	translator  repositories.Translator
	dialogue    repositories.DialogueEngine
	store       *audiostore.Store
	sessions    *session.Store
	logger      *zap.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(
	transcriber repositories.SpeechToText,
	translator repositories.Translator,
	dialogue repositories.DialogueEngine,
	store *audiostore.Store,
	sessions *session.Store,
	logger *zap.Logger,
) *ConversationService {
	return &ConversationService{
		transcriber: transcriber,
		translator:  translator,
		dialogue:    dialogue,
		store:       store,
		sessions:    sessions,
		logger:      logger,
	}
}

// Text processes a text-chat turn. sessionID may be empty for a stateless
// turn; when set, the session's bounded history conditions the reply and
// the completed exchange is appended afterwards.
func (s *ConversationService) Text(ctx context.Context, sessionID, message string, language entities.Language) (*entities.Turn, error) {
	if message == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", domain.ErrGeneration)
	}

	translatedUser, err := s.translator.TranslateToEnglish(ctx, message, language)
	if err != nil {
		return nil, err
	}

	var history []entities.Exchange
	if sessionID != "" {
		history = s.sessions.History(sessionID)
	}

	replyEnglish, err := s.dialogue.Reply(ctx, history, translatedUser)
	if err != nil {
		return nil, err
	}

	return s.finishTurn(ctx, sessionID, message, translatedUser, replyEnglish, language)
}

// Voice processes a voice-chat turn. The uploaded recording is persisted
// for the transcriber and removed again whether or not the turn succeeds.
func (s *ConversationService) Voice(ctx context.Context, sessionID string, audioData []byte, language entities.Language) (*entities.Turn, error) {
	inputPath, err := s.store.SaveUpload(audioData)
	if err != nil {
		return nil, fmt.Errorf("failed to persist uploaded audio: %w", err)
	}
	defer func() {
		if removeErr := os.Remove(inputPath); removeErr != nil {
			s.logger.Warn("Failed to clean up uploaded audio",
				zap.String("path", inputPath),
				zap.Error(removeErr))
		}
	}()

	if _, err := audio.ValidateWAV(inputPath); err != nil {
		return nil, err
	}

	transcribed, err := s.transcriber.TranscribeAudio(ctx, inputPath, language)
	if err != nil {
		return nil, err
	}

	var turn *entities.Turn
	if transcribed == "" {
		// Silence or unintelligible audio: answer with a fixed prompt
		// rather than failing the whole turn.
		s.logger.Info("Empty transcription, using fallback reply",
			zap.String("language", language.String()))
		turn, err = s.finishTurn(ctx, sessionID, "", fallbackUserText, fallbackReply, language)
	} else {
		turn, err = s.Text(ctx, sessionID, transcribed, language)
	}
	if err != nil {
		return nil, err
	}

	turn.TranscribedText = transcribed
	return turn, nil
}

// finishTurn runs the shared tail of a turn: translate the English reply
// into the target language, synthesize it under a fresh id, and record the
// exchange on the session.
func (s *ConversationService) finishTurn(ctx context.Context, sessionID, message, translatedUser, replyEnglish string, language entities.Language) (*entities.Turn, error) {
	reply, err := s.translator.TranslateFromEnglish(ctx, replyEnglish, language)
	if err != nil {
		return nil, err
	}

	audioID, _, err := s.store.CreateUnique(ctx, reply, language)
	if err != nil {
		return nil, err
	}

	if sessionID != "" {
		s.sessions.Append(sessionID, entities.Exchange{User: translatedUser, Bot: replyEnglish})
	}

	s.logger.Info("Conversation turn completed",
		zap.String("language", language.String()),
		zap.String("audioID", audioID),
		zap.Bool("sessionScoped", sessionID != ""))

	return &entities.Turn{
		UserInput:          message,
		Language:           language,
		TranslatedUserText: translatedUser,
		BotReplyEnglish:    replyEnglish,
		BotReply:           reply,
		AudioID:            audioID,
	}, nil
}
