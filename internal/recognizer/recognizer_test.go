package recognizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	described   string
	describeErr error
	analyzed    []string
	describes   int
}

func (f *fakeRecognizer) AnalyzeText(_ context.Context, description string) (*Analysis, error) {
	f.analyzed = append(f.analyzed, description)
	return &Analysis{Total: Nutrients{Calories: 300, Protein: 10, Fat: 5, Carbs: 40}}, nil
}

func (f *fakeRecognizer) DescribeImage(context.Context, []byte) (string, error) {
	f.describes++
	return f.described, f.describeErr
}

func TestIsDetailedDescription(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"гречка 200г, курица 150 г", true},
		{"Молоко 250 МЛ", true},
		{"сок 330ml", true},
		{"рис 120 грамм", true},
		{"суп", false},
		{"2 яйца", false},
		{"5г масла", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDetailedDescription(tt.text))
		})
	}
}

func TestRecognizePathSelection(t *testing.T) {
	ctx := context.Background()
	img := []byte{0xff, 0xd8}

	t.Run("detailed caption skips vision", func(t *testing.T) {
		f := &fakeRecognizer{}
		a, err := Recognize(ctx, f, "омлет 150г", img)
		require.NoError(t, err)
		assert.Equal(t, SourceCaption, a.Source)
		assert.Equal(t, "омлет 150г", a.Description)
		assert.Zero(t, f.describes)
	})

	t.Run("photo description used when detailed", func(t *testing.T) {
		f := &fakeRecognizer{described: "паста 250г, соус 50г"}
		a, err := Recognize(ctx, f, "ужин", img)
		require.NoError(t, err)
		assert.Equal(t, SourcePhoto, a.Source)
		assert.Equal(t, []string{"паста 250г, соус 50г"}, f.analyzed)
	})

	t.Run("vague photo falls back to caption", func(t *testing.T) {
		f := &fakeRecognizer{described: "какая-то еда"}
		a, err := Recognize(ctx, f, "  ужин  ", img)
		require.NoError(t, err)
		assert.Equal(t, SourceCaptionFallback, a.Source)
		assert.Equal(t, []string{"ужин"}, f.analyzed)
		assert.Equal(t, "какая-то еда", a.ImageDescription)
		assert.NoError(t, a.VisionErr)
	})

	t.Run("nothing to analyze", func(t *testing.T) {
		f := &fakeRecognizer{described: "не понятно"}
		_, err := Recognize(ctx, f, " ", img)
		assert.ErrorIs(t, err, ErrNotRecognized)
		assert.Empty(t, f.analyzed)
	})

	t.Run("vision error falls back to caption", func(t *testing.T) {
		boom := errors.New("vision timeout")
		f := &fakeRecognizer{describeErr: boom}
		a, err := Recognize(ctx, f, "ужин", img)
		require.NoError(t, err)
		assert.Equal(t, SourceCaptionFallback, a.Source)
		assert.Equal(t, []string{"ужин"}, f.analyzed)
		assert.Empty(t, a.ImageDescription)
		assert.ErrorIs(t, a.VisionErr, boom)
	})

	t.Run("vision error without caption", func(t *testing.T) {
		boom := errors.New("vision timeout")
		f := &fakeRecognizer{describeErr: boom}
		_, err := Recognize(ctx, f, "", img)
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, f.analyzed)
	})

	t.Run("detailed photo keeps image description", func(t *testing.T) {
		f := &fakeRecognizer{described: "плов 300г"}
		a, err := Recognize(ctx, f, "", img)
		require.NoError(t, err)
		assert.Equal(t, "плов 300г", a.ImageDescription)
	})
}

// slowVision ждёт отмены контекста на фото и проверяет, что на текст контекст живой
type slowVision struct {
	textCtxErr error
}

func (s *slowVision) AnalyzeText(ctx context.Context, _ string) (*Analysis, error) {
	s.textCtxErr = ctx.Err()
	if s.textCtxErr != nil {
		return nil, s.textCtxErr
	}
	return &Analysis{Total: Nutrients{Calories: 200}}, nil
}

func (s *slowVision) DescribeImage(ctx context.Context, _ []byte) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestWithTimeoutLeavesTimeForCaption(t *testing.T) {
	s := &slowVision{}
	a, err := Recognize(context.Background(), WithTimeout(s, 20*time.Millisecond), "ужин", []byte{1})
	require.NoError(t, err)
	assert.NoError(t, s.textCtxErr)
	assert.Equal(t, SourceCaptionFallback, a.Source)
	assert.ErrorIs(t, a.VisionErr, context.DeadlineExceeded)
}

func TestParseAnalysis(t *testing.T) {
	raw := "```json\n" + `{
  "total": {"calories": 500, "protein": 30.5, "fat": 20, "carbs": 50},
  "breakdown": [
    {"item": "курица 150г", "calories": 250, "protein": 28, "fat": 5, "carbs": 0},
    {"item": "рис 200г", "calories": 260, "protein": 2.5, "fat": 15, "carbs": 50}
  ]
}` + "\n```"

	a, err := parseAnalysis(raw)
	require.NoError(t, err)
	// расхождение 10 ккал из 510 меньше 5%, итог модели сохраняется
	assert.Equal(t, 500.0, a.Total.Calories)
	require.Len(t, a.Breakdown, 2)
	assert.Equal(t, "курица 150г", a.Breakdown[0].Name)
}

func TestParseAnalysisSurroundingText(t *testing.T) {
	raw := `Вот расчёт: {"total": {"calories": 120, "protein": 1, "fat": 0, "carbs": 30}, "breakdown": []} Приятного аппетита!`
	a, err := parseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, 120.0, a.Total.Calories)
}

func TestParseAnalysisReconcile(t *testing.T) {
	raw := `{
  "total": {"calories": 900, "protein": 10, "fat": 10, "carbs": 10},
  "breakdown": [
    {"item": "a", "calories": 300, "protein": 10, "fat": 2, "carbs": 40},
    {"item": "b", "calories": 200, "protein": 5.5, "fat": 8, "carbs": 20}
  ]
}`
	a, err := parseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, Nutrients{Calories: 500, Protein: 15.5, Fat: 10, Carbs: 60}, a.Total)
}

func TestParseAnalysisGarbage(t *testing.T) {
	for _, raw := range []string{
		"",
		"не могу определить блюдо",
		"{broken",
		`{"total": {"calories": 0}, "breakdown": []}`,
	} {
		_, err := parseAnalysis(raw)
		assert.ErrorIs(t, err, ErrNotRecognized, raw)
	}
}
