package recognizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Config struct {
	Provider    string // openai | gemini
	APIKey      string
	BaseURL     string
	TextModel   string
	VisionModel string
}

// New создаёт провайдера по имени
func New(ctx context.Context, cfg Config, logger *zap.Logger) (Recognizer, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAI(cfg, logger), nil
	case "gemini":
		return NewGemini(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown recognizer provider %q", cfg.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
