package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/csmith/lingotutor/domain"
	"github.com/csmith/lingotutor/domain/entities"
	"github.com/csmith/lingotutor/domain/repositories"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.7
	defaultMaxTokens   = 256
)

// systemPrompt keeps replies short and conversational; they are translated
// and synthesized afterwards, so walls of text make bad audio.
const systemPrompt = "You are a friendly conversation partner helping someone " +
	"practice a foreign language. Reply in English with one or two short, " +
	"natural sentences. Ask a simple follow-up question when it keeps the " +
	"conversation going."

// GeminiEngine implements DialogueEngine using Google's Gemini API.
type GeminiEngine struct {
	client      *genai.Client
	logger      *zap.Logger
	model       string
	temperature float32
	maxTokens   int32
}

var _ repositories.DialogueEngine = (*GeminiEngine)(nil)

// NewGeminiEngine creates a new Gemini dialogue engine. The API key comes
// from GEMINI_API_KEY; GEMINI_MODEL overrides the default model.
func NewGeminiEngine(ctx context.Context, logger *zap.Logger) (*GeminiEngine, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
		logger.Info("Using default model", zap.String("model", model))
	}

	return &GeminiEngine{
		client:      client,
		logger:      logger,
		model:       model,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}, nil
}

// Reply generates an English reply to userText conditioned on prior
// exchanges. History is caller-owned and already bounded.
func (g *GeminiEngine) Reply(ctx context.Context, history []entities.Exchange, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		return "", fmt.Errorf("%w: user input cannot be empty", domain.ErrGeneration)
	}

	contents := make([]*genai.Content, 0, len(history)*2+1)
	for _, exchange := range history {
		contents = append(contents,
			genai.NewContentFromText(exchange.User, genai.RoleUser),
			genai.NewContentFromText(exchange.Bot, genai.RoleModel),
		)
	}
	contents = append(contents, genai.NewContentFromText(userText, genai.RoleUser))

	temperature := g.temperature
	maxTokens := g.maxTokens
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temperature,
		MaxOutputTokens:   maxTokens,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", fmt.Errorf("%w: model returned an empty reply", domain.ErrGeneration)
	}

	g.logger.Info("Generated reply",
		zap.Int("historyTurns", len(history)),
		zap.Int("chars", len(reply)))

	return reply, nil
}
