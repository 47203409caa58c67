package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/csmith/lingotutor/adapters/detector"
	"github.com/csmith/lingotutor/adapters/llm"
	"github.com/csmith/lingotutor/adapters/stt"
	"github.com/csmith/lingotutor/adapters/translate"
	"github.com/csmith/lingotutor/adapters/tts"
	"github.com/csmith/lingotutor/domain/repositories"
	"github.com/csmith/lingotutor/internal/api"
	"github.com/csmith/lingotutor/internal/audiostore"
	"github.com/csmith/lingotutor/internal/auth"
	"github.com/csmith/lingotutor/internal/config"
	"github.com/csmith/lingotutor/internal/session"
	"github.com/csmith/lingotutor/internal/websocket"
	"github.com/csmith/lingotutor/usecase"
)

const janitorInterval = time.Minute

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	// Initialize adapters; each falls back to its mock when unconfigured so
	// the server stays runnable in development.
	transcriber := newTranscriber(logger)
	synthesizer := newSynthesizer(logger)
	translator := newTranslator(logger)
	dialogue := newDialogue(ctx, logger)

	// Audio store, purged on startup: every id handed to clients is from
	// this process's lifetime.
	store, err := audiostore.NewStore(cfg.AudioDir, synthesizer, logger)
	if err != nil {
		logger.Fatal("Failed to initialize audio store", zap.Error(err))
	}
	if err := store.PurgeAll(); err != nil {
		logger.Warn("Startup audio purge incomplete", zap.Error(err))
	}

	// Sessions and their tokens
	secret := cfg.JWTSecret
	if len(secret) == 0 {
		secret = []byte(uuid.New().String())
		logger.Warn("SESSION_JWT_SECRET not set, using ephemeral secret; sessions will not survive restarts")
	}
	issuer, err := auth.NewTokenIssuer(secret, cfg.SessionTTL)
	if err != nil {
		logger.Fatal("Failed to initialize token issuer", zap.Error(err))
	}

	sessions := session.NewStore(cfg.HistoryMaxTurns, cfg.HistoryMaxChars, cfg.SessionTTL, logger)
	sessions.StartJanitor(janitorInterval)
	defer sessions.StopJanitor()

	// Initialize usecase services
	conversation := usecase.NewConversationService(transcriber, translator, dialogue, store, sessions, logger)

	var guess *usecase.ImageGuessService
	if det := newDetector(logger); det != nil {
		guess = usecase.NewImageGuessService(transcriber, translator, det, store, cfg.ScoreThreshold, cfg.FetchTimeout, logger)
	} else {
		logger.Warn("HF_TOKEN not set, image guessing disabled")
	}

	// Initialize WebSocket hub with conversation service
	hub := websocket.NewHub(conversation, logger)
	go hub.Run()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := api.NewServer(conversation, guess, store, sessions, issuer, hub, logger)
	if err := server.RegisterRoutes(e); err != nil {
		logger.Fatal("Failed to register routes", zap.Error(err))
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(cfg.Addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", cfg.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newTranscriber(logger *zap.Logger) repositories.SpeechToText {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" {
		return stt.NewGoogleSpeechToText(logger)
	}
	logger.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, using mock speech-to-text")
	return stt.NewMockSpeechToText(logger)
}

func newSynthesizer(logger *zap.Logger) repositories.TextToSpeech {
	synth, err := tts.NewElevenLabsTTS(tts.NewElevenLabsConfigFromEnv(), logger)
	if err != nil {
		logger.Warn("ElevenLabs not configured, using mock text-to-speech", zap.Error(err))
		return tts.NewMockTextToSpeech(logger)
	}
	return synth
}

func newTranslator(logger *zap.Logger) repositories.Translator {
	tr, err := translate.NewGoogleTranslate(translate.NewGoogleTranslateConfigFromEnv(), logger)
	if err != nil {
		logger.Warn("Google Translate not configured, using mock translator", zap.Error(err))
		return translate.NewMockTranslator(logger)
	}
	return tr
}

func newDialogue(ctx context.Context, logger *zap.Logger) repositories.DialogueEngine {
	engine, err := llm.NewGeminiEngine(ctx, logger)
	if err != nil {
		logger.Warn("Gemini not configured, using mock dialogue engine", zap.Error(err))
		return llm.NewMockEngine(logger)
	}
	return engine
}

func newDetector(logger *zap.Logger) repositories.ObjectDetector {
	det, err := detector.NewHuggingFaceDetector(detector.NewHuggingFaceConfigFromEnv(), logger)
	if err != nil {
		return nil
	}
	return det
}
