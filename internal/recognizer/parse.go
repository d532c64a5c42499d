package recognizer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

const analyzePrompt = `Ты нутрициолог. Проанализируй следующее описание еды и рассчитай:
- Калории (целое число, ккал)
- Белки (в граммах, 1 знак после запятой)
- Жиры (в граммах, 1 знак после запятой)
- Углеводы (в граммах, 1 знак после запятой)

Также составь таблицу по каждому продукту с расчётом:
- Название
- Калории
- Белки
- Жиры
- Углеводы

Описание еды:
%s

Ответ верни строго в виде JSON в следующем формате:
{
  "total": {"calories": 1234, "protein": 120.5, "fat": 60.2, "carbs": 150.1},
  "breakdown": [
    {"item": "картофель 200г", "calories": 170, "protein": 4.0, "fat": 0.4, "carbs": 40.0}
  ]
}`

const describePrompt = "Посмотри на фото и назови продукты с примерным весом. " +
	"Формат: название 100г, продукт 50г. Без пояснений."

// reconcileTolerance - допустимое расхождение итога и суммы разбивки
const reconcileTolerance = 0.05

var (
	fenceStart = regexp.MustCompile("^```[a-zA-Z]*\n?")
	fenceEnd   = regexp.MustCompile("\n?```$")
)

func buildAnalyzePrompt(description string) string {
	return fmt.Sprintf(analyzePrompt, description)
}

// parseAnalysis достаёт JSON из ответа модели, даже если он обёрнут в ``` или текст
func parseAnalysis(raw string) (*Analysis, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = fenceStart.ReplaceAllString(raw, "")
		raw = strings.TrimSpace(fenceEnd.ReplaceAllString(raw, ""))
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in model output", ErrNotRecognized)
	}

	var a Analysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotRecognized, err)
	}

	reconcile(&a)
	if a.Total.Calories <= 0 {
		return nil, fmt.Errorf("%w: empty result", ErrNotRecognized)
	}
	return &a, nil
}

// reconcile заменяет итог суммой разбивки, если они расходятся больше чем на 5%
func reconcile(a *Analysis) {
	if len(a.Breakdown) == 0 {
		return
	}
	var sum Nutrients
	for _, it := range a.Breakdown {
		sum.Calories += it.Calories
		sum.Protein += it.Protein
		sum.Fat += it.Fat
		sum.Carbs += it.Carbs
	}
	if math.Abs(sum.Calories-a.Total.Calories) > sum.Calories*reconcileTolerance {
		a.Total = sum
	}
}
