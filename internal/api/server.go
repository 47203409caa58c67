// Package api exposes the HTTP surface: rendered practice pages, the chat
// and image-guess endpoints, and the websocket entry point.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/internal/audiostore"
	"github.com/csmith/lingotutor/internal/auth"
	"github.com/csmith/lingotutor/internal/session"
	"github.com/csmith/lingotutor/internal/websocket"
	"github.com/csmith/lingotutor/usecase"
)

// maxUploadSize bounds uploaded audio recordings.
const maxUploadSize = 10 << 20

// greetings is the per-language prompt spoken when the image game page
// loads. Synthesized once and cached under a per-language key.
var greetings = map[entities.Language]string{
	entities.LanguageChinese:  "你在图片里看到了什么？",
	entities.LanguageJapanese: "写真に何が見えますか？",
}

// Server wires the pipelines to their HTTP endpoints. guess may be nil when
// no object detector is configured; the image game endpoints then return 503.
type Server struct {
	conversation *usecase.ConversationService
	guess        *usecase.ImageGuessService
	store        *audiostore.Store
	sessions     *session.Store
	issuer       *auth.TokenIssuer
	hub          *websocket.Hub
	logger       *zap.Logger
}

// NewServer creates the HTTP server facade.
func NewServer(
	conversation *usecase.ConversationService,
	guess *usecase.ImageGuessService,
	store *audiostore.Store,
	sessions *session.Store,
	issuer *auth.TokenIssuer,
	hub *websocket.Hub,
	logger *zap.Logger,
) *Server {
	return &Server{
		conversation: conversation,
		guess:        guess,
		store:        store,
		sessions:     sessions,
		issuer:       issuer,
		hub:          hub,
		logger:       logger,
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "lingotutor",
	})
}

func (s *Server) handleCreateSession(c echo.Context) error {
	sess := s.sessions.Create()

	token, err := s.issuer.IssueSessionToken(sess.ID)
	if err != nil {
		s.logger.Error("Failed to issue session token",
			zap.String("sessionID", sess.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate session token",
		})
	}

	s.logger.Info("Conversation session created", zap.String("sessionID", sess.ID))

	return c.JSON(http.StatusOK, SessionResponse{
		SessionID: sess.ID,
		Token:     token,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (s *Server) handleTextChat(c echo.Context) error {
	var req TextChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Message is required",
		})
	}

	language, err := entities.ParseLanguage(req.Language)
	if err != nil {
		return s.mapError(c, err)
	}

	turn, err := s.conversation.Text(c.Request().Context(), s.sessionID(c), req.Message, language)
	if err != nil {
		return s.mapError(c, err)
	}

	return c.JSON(http.StatusOK, turnResponse(turn))
}

func (s *Server) handleVoiceChat(c echo.Context) error {
	audioData, ok := s.readUpload(c)
	if !ok {
		return nil
	}

	language, err := entities.ParseLanguage(c.FormValue("language"))
	if err != nil {
		return s.mapError(c, err)
	}

	turn, err := s.conversation.Voice(c.Request().Context(), s.sessionID(c), audioData, language)
	if err != nil {
		return s.mapError(c, err)
	}

	return c.JSON(http.StatusOK, turnResponse(turn))
}

func (s *Server) handleAudio(c echo.Context) error {
	id := c.Param("audioId")
	if !audiostore.ValidateID(id) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_identifier",
			Message: "Invalid audio identifier",
		})
	}

	path := s.store.ResolvePath(id)
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Audio not found",
		})
	}

	return c.File(path)
}

func (s *Server) handleImageGuess(c echo.Context) error {
	if s.guess == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "detector_unavailable",
			Message: "Object detection is not configured",
		})
	}

	audioData, ok := s.readUpload(c)
	if !ok {
		return nil
	}

	language, err := entities.ParseLanguage(c.FormValue("language"))
	if err != nil {
		return s.mapError(c, err)
	}

	imageURL := c.FormValue("image_url")
	if imageURL == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "image_url is required",
		})
	}

	result, err := s.guess.Guess(c.Request().Context(), audioData, language, imageURL)
	if err != nil {
		return s.mapError(c, err)
	}

	return c.JSON(http.StatusOK, GuessResponse{
		Image: result.ImageBase64,
		Label: result.Label,
	})
}

// handleWebSocket authenticates the session token and hands the connection
// to the hub. Unlike the REST endpoints, a live channel without a valid
// session is useless, so a missing or bad token is rejected.
func (s *Server) handleWebSocket(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		token = c.QueryParam("token")
	}
	if token == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "Session token is required",
		})
	}

	claims, err := s.issuer.ValidateToken(token)
	if err != nil {
		s.logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired session token",
		})
	}

	if !s.sessions.Exists(claims.SessionID) {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unknown_session",
			Message: "Session does not exist or has expired",
		})
	}

	return websocket.HandleWebSocket(s.hub, c, claims.SessionID, s.logger)
}

// sessionID resolves the optional session token on chat requests. Absent or
// invalid tokens fall back to a stateless turn, never an error.
func (s *Server) sessionID(c echo.Context) string {
	token := bearerToken(c)
	if token == "" {
		return ""
	}

	claims, err := s.issuer.ValidateToken(token)
	if err != nil {
		s.logger.Warn("Ignoring invalid session token", zap.Error(err))
		return ""
	}
	if !s.sessions.Exists(claims.SessionID) {
		return ""
	}
	return claims.SessionID
}

// readUpload extracts the uploaded audio file from a multipart request. On
// failure it writes the error response itself and returns false; the caller
// must stop without touching the pipeline or the response again.
func (s *Server) readUpload(c echo.Context) ([]byte, bool) {
	header, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "Audio file is required",
		})
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to read audio file",
		})
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to read audio file",
		})
		return nil, false
	}
	if len(data) > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "payload_too_large",
			Message: fmt.Sprintf("Audio exceeds %d bytes", maxUploadSize),
		})
		return nil, false
	}

	return data, true
}

// mapError translates pipeline errors to HTTP status codes.
func (s *Server) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnsupportedLanguage):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "unsupported_language",
			Message: "Language must be chinese or japanese",
		})
	case errors.Is(err, domain.ErrInvalidAudioFormat):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_audio_format",
			Message: "Audio must be mono 16-bit PCM WAV at a supported sample rate",
		})
	case errors.Is(err, domain.ErrNoSpeech):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "no_speech",
			Message: "Could not understand the audio",
		})
	case errors.Is(err, domain.ErrTranscription):
		s.logger.Error("Transcription failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "transcription_failed",
			Message: "Speech recognition failed",
		})
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_identifier",
			Message: "Invalid identifier",
		})
	case errors.Is(err, domain.ErrDetectionUnavailable):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "detector_unavailable",
			Message: "Object detection is temporarily unavailable",
		})
	case errors.Is(err, domain.ErrImageFetch):
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "image_fetch_failed",
			Message: "Failed to fetch the image",
		})
	default:
		s.logger.Error("Request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong",
		})
	}
}

func turnResponse(turn *entities.Turn) TurnResponse {
	return TurnResponse{
		TranslatedUserText: turn.TranslatedUserText,
		BotResponse:        turn.BotReply,
		BotResponseEnglish: turn.BotReplyEnglish,
		AudioID:            turn.AudioID,
		TranscribedText:    turn.TranscribedText,
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
