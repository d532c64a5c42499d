// Package recognizer оценивает калорийность и БЖУ еды по описанию или фото
// с помощью языковой модели.
package recognizer

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// ErrNotRecognized - модель не дала пригодного результата
var ErrNotRecognized = errors.New("food not recognized")

// Nutrients - калории и макронутриенты в граммах
type Nutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

// Item - строка разбивки по продуктам
type Item struct {
	Name string `json:"item"`
	Nutrients
}

// Source - откуда взято описание, по которому считали
type Source string

const (
	SourceCaption         Source = "caption"
	SourcePhoto           Source = "photo"
	SourceCaptionFallback Source = "caption_fallback"
)

// Analysis - итог и разбивка по продуктам
type Analysis struct {
	Total     Nutrients `json:"total"`
	Breakdown []Item    `json:"breakdown"`

	Source      Source `json:"-"`
	Description string `json:"-"`
	// ImageDescription - что модель увидела на фото, пусто без фото
	ImageDescription string `json:"-"`
	// VisionErr - ошибка распознавания фото, после которой считали по подписи
	VisionErr error `json:"-"`
}

// Recognizer - провайдер модели
type Recognizer interface {
	// AnalyzeText считает калории по текстовому описанию
	AnalyzeText(ctx context.Context, description string) (*Analysis, error)
	// DescribeImage перечисляет продукты на фото с примерным весом
	DescribeImage(ctx context.Context, image []byte) (string, error)
}

var detailedRe = regexp.MustCompile(`\d{2,3}\s*(г|грам|ml|мл)`)

// IsDetailedDescription - есть ли в тексте количество в граммах или миллилитрах
func IsDetailedDescription(text string) bool {
	return detailedRe.MatchString(strings.ToLower(text))
}

// Recognize выбирает, что анализировать:
// подробная подпись, затем описание фото от модели, затем любая непустая подпись.
// Ошибка описания фото возвращается, только если подписи нет.
func Recognize(ctx context.Context, r Recognizer, caption string, image []byte) (*Analysis, error) {
	caption = strings.TrimSpace(caption)

	if IsDetailedDescription(caption) {
		return analyze(ctx, r, caption, SourceCaption)
	}

	var described string
	var visionErr error
	if len(image) > 0 {
		described, visionErr = r.DescribeImage(ctx, image)
		described = strings.TrimSpace(described)
		if visionErr == nil && IsDetailedDescription(described) {
			a, err := analyze(ctx, r, described, SourcePhoto)
			if err != nil {
				return nil, err
			}
			a.ImageDescription = described
			return a, nil
		}
	}

	if caption == "" {
		if visionErr != nil {
			return nil, visionErr
		}
		return nil, ErrNotRecognized
	}

	a, err := analyze(ctx, r, caption, SourceCaptionFallback)
	if err != nil {
		return nil, err
	}
	if visionErr == nil {
		a.ImageDescription = described
	}
	a.VisionErr = visionErr
	return a, nil
}

func analyze(ctx context.Context, r Recognizer, description string, source Source) (*Analysis, error) {
	a, err := r.AnalyzeText(ctx, description)
	if err != nil {
		return nil, err
	}
	a.Source = source
	a.Description = description
	return a, nil
}

// WithTimeout ограничивает каждый вызов модели отдельно, чтобы после
// таймаута описания фото на подпись осталось время
func WithTimeout(r Recognizer, d time.Duration) Recognizer {
	return timeoutRecognizer{next: r, timeout: d}
}

type timeoutRecognizer struct {
	next    Recognizer
	timeout time.Duration
}

func (t timeoutRecognizer) AnalyzeText(ctx context.Context, description string) (*Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.AnalyzeText(ctx, description)
}

func (t timeoutRecognizer) DescribeImage(ctx context.Context, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.DescribeImage(ctx, image)
}
