package api

import (
	"github.com/labstack/echo/v4"

	"github.com/csmith/lingotutor/domain/entities"
)

// RegisterRoutes attaches every endpoint and the page renderer to e.
func (s *Server) RegisterRoutes(e *echo.Echo) error {
	r, err := newRenderer()
	if err != nil {
		return err
	}
	e.Renderer = r

	// Health check
	e.GET("/healthz", s.handleHealth)

	// Practice pages
	e.GET("/", s.handleIndex)
	e.GET("/chinese", s.handleChatPage(entities.LanguageChinese))
	e.GET("/japanese", s.handleChatPage(entities.LanguageJapanese))
	e.GET("/:language/image", s.handleImagePage)

	// Conversation APIs
	api := e.Group("/api")
	api.POST("/session", s.handleCreateSession)
	api.POST("/text-chat", s.handleTextChat)
	api.POST("/voice-chat", s.handleVoiceChat)
	api.GET("/audio/:audioId", s.handleAudio)
	api.POST("/image_guess", s.handleImageGuess)

	// WebSocket endpoint with session token validation
	e.GET("/ws", s.handleWebSocket)

	return nil
}
