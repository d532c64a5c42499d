package recognizer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini - распознавание через Gemini API
type Gemini struct {
	client      *genai.Client
	textModel   string
	visionModel string
	logger      *zap.Logger
}

func NewGemini(ctx context.Context, cfg Config, logger *zap.Logger) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{
		client:      client,
		textModel:   orDefault(cfg.TextModel, defaultGeminiModel),
		visionModel: orDefault(cfg.VisionModel, defaultGeminiModel),
		logger:      logger,
	}, nil
}

func (g *Gemini) AnalyzeText(ctx context.Context, description string) (*Analysis, error) {
	requestID := uuid.NewString()
	raw, err := g.generate(ctx, g.textModel, genai.NewPartFromText(buildAnalyzePrompt(description)))
	if err != nil {
		g.logger.Warn("gemini analyze failed", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}
	g.logger.Debug("gemini analyze output", zap.String("request_id", requestID), zap.String("raw", raw))
	return parseAnalysis(raw)
}

func (g *Gemini) DescribeImage(ctx context.Context, image []byte) (string, error) {
	requestID := uuid.NewString()
	raw, err := g.generate(ctx, g.visionModel,
		genai.NewPartFromBytes(image, "image/jpeg"),
		genai.NewPartFromText(describePrompt),
	)
	if err != nil {
		g.logger.Warn("gemini describe image failed", zap.String("request_id", requestID), zap.Error(err))
		return "", err
	}
	g.logger.Debug("gemini image description", zap.String("request_id", requestID), zap.String("raw", raw))
	return raw, nil
}

func (g *Gemini) generate(ctx context.Context, model string, parts ...*genai.Part) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](temperature),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}
