package api

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/csmith/lingotutor/domain/entities"
)

//go:embed templates/*.html
var templatesFS embed.FS

type renderer struct {
	templates *template.Template
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

func newRenderer() (*renderer, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &renderer{templates: templates}, nil
}

type chatPageData struct {
	Language string
	Title    string
}

type imagePageData struct {
	Language        string
	ImageURL        string
	GreetingAudioID string
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", nil)
}

func (s *Server) handleChatPage(language entities.Language) echo.HandlerFunc {
	titles := map[entities.Language]string{
		entities.LanguageChinese:  "Chinese Practice",
		entities.LanguageJapanese: "Japanese Practice",
	}
	return func(c echo.Context) error {
		return c.Render(http.StatusOK, "chat.html", chatPageData{
			Language: language.String(),
			Title:    titles[language],
		})
	}
}

func (s *Server) handleImagePage(c echo.Context) error {
	language, err := entities.ParseLanguage(c.Param("language"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "unsupported_language",
			Message: "No such language",
		})
	}

	if s.guess == nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "detector_unavailable",
			Message: "Object detection is not configured",
		})
	}

	ctx := c.Request().Context()

	// The spoken greeting is synthesized once per language and reused.
	greetingID := fmt.Sprintf("%s_image", language)
	if _, err := s.store.GetOrCreate(ctx, greetingID, greetings[language], language); err != nil {
		s.logger.Warn("Failed to prepare greeting audio",
			zap.String("language", language.String()),
			zap.Error(err))
		greetingID = ""
	}

	imageURL, err := s.guess.RandomImageURL(ctx)
	if err != nil {
		return s.mapError(c, err)
	}

	return c.Render(http.StatusOK, "image_game.html", imagePageData{
		Language:        language.String(),
		ImageURL:        imageURL,
		GreetingAudioID: greetingID,
	})
}
