package recognizer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

const (
	defaultOpenAITextModel   = "gpt-4o-mini"
	defaultOpenAIVisionModel = "gpt-4o"
	temperature              = 0.3
)

// OpenAI - распознавание через Chat Completions
type OpenAI struct {
	client      openai.Client
	textModel   string
	visionModel string
	logger      *zap.Logger
}

func NewOpenAI(cfg Config, logger *zap.Logger) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{
		client:      openai.NewClient(opts...),
		textModel:   orDefault(cfg.TextModel, defaultOpenAITextModel),
		visionModel: orDefault(cfg.VisionModel, defaultOpenAIVisionModel),
		logger:      logger,
	}
}

func (o *OpenAI) AnalyzeText(ctx context.Context, description string) (*Analysis, error) {
	requestID := uuid.NewString()
	raw, err := o.complete(ctx, o.textModel, openai.UserMessage(buildAnalyzePrompt(description)))
	if err != nil {
		o.logger.Warn("openai analyze failed", zap.String("request_id", requestID), zap.Error(err))
		return nil, err
	}
	o.logger.Debug("openai analyze output", zap.String("request_id", requestID), zap.String("raw", raw))
	return parseAnalysis(raw)
}

func (o *OpenAI) DescribeImage(ctx context.Context, image []byte) (string, error) {
	requestID := uuid.NewString()
	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	msg := openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
		openai.TextContentPart(describePrompt),
	})

	raw, err := o.complete(ctx, o.visionModel, msg)
	if err != nil {
		o.logger.Warn("openai describe image failed", zap.String("request_id", requestID), zap.Error(err))
		return "", err
	}
	o.logger.Debug("openai image description", zap.String("request_id", requestID), zap.String("raw", raw))
	return raw, nil
}

func (o *OpenAI) complete(ctx context.Context, model string, msg openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    []openai.ChatCompletionMessageParamUnion{msg},
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
