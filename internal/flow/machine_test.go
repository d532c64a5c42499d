package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/charts"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/recognizer"
)

func TestOnboarding(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	assert.Equal(t, Result{State: StateAskWeight}, e.cmd(t, KindStart))
	assert.Equal(t, msgWelcomeNew, e.lastText(t))

	assert.Equal(t, Result{State: StateAskHeight}, e.text(t, "80,5"))
	assert.Equal(t, Result{State: StateAskHeight, Failure: FailureValidation}, e.text(t, "высокий"))
	assert.Equal(t, Result{State: StateAskGender}, e.text(t, "180"))

	// меню во время анкеты - неверный ввод
	assert.Equal(t, Result{State: StateAskGender, Failure: FailureValidation}, e.cmd(t, KindSummary))
	assert.Equal(t, msgReGender, e.lastText(t))
	assert.Equal(t, Result{State: StateAskFat}, e.cmd(t, KindFemale))

	assert.Equal(t, Result{State: StateAskFat, Failure: FailureValidation}, e.text(t, "60"))
	assert.Equal(t, msgFatRange, e.lastText(t))
	assert.Equal(t, Result{State: StateAskFat, Failure: FailureValidation}, e.text(t, "2.9"))
	assert.Equal(t, Result{State: StateAskDeficitMode}, e.text(t, "25"))

	exists, err := e.profiles.Exists(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, exists, "profile is written only when the mode is chosen")

	assert.Equal(t, Result{State: StateConfirmHelp}, e.cmd(t, KindModeLight))
	profile, err := e.profiles.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 80.5, profile.WeightKg)
	assert.Equal(t, 180, profile.HeightCm)
	assert.EqualValues(t, "female", profile.Gender)
	assert.EqualValues(t, "light", profile.DeficitMode)
	assert.Empty(t, e.registrar.calls)

	assert.Equal(t, Result{State: StateConfirmHelp, Failure: FailureValidation}, e.text(t, "ок"))
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindGotIt))
	assert.Equal(t, []int64{testUser}, e.registrar.calls)
	assert.Equal(t, 0, e.sessions.Len(), "session cleared after onboarding")

	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindStart))
	assert.Equal(t, msgWelcomeBack, e.lastText(t))
	assert.Equal(t, []int64{testUser, testUser}, e.registrar.calls, "/start re-registers reminders")
}

func TestStartRegistersRemindersForExistingProfile(t *testing.T) {
	e := newTestEnv(t)
	// профиль записан, но "Понял!" так и не нажали
	e.onboard(t)

	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindStart))
	assert.Equal(t, msgWelcomeBack, e.lastText(t))
	assert.Equal(t, []int64{testUser}, e.registrar.calls)
}

func TestOnboardingImages(t *testing.T) {
	images := Images{
		BodyFatMale:   "https://example.com/bodyfat_male.jpg",
		BodyFatFemale: "https://example.com/bodyfat_female.jpg",
		MealExample:   "https://example.com/buckwheat.jpg",
	}
	e := newTestEnv(t, withImages(images))

	e.cmd(t, KindStart)
	e.text(t, "80")
	e.text(t, "180")
	assert.Equal(t, Result{State: StateAskFat}, e.cmd(t, KindFemale))
	last, ok := e.sent.Last(testUser)
	require.True(t, ok)
	assert.Equal(t, notify.Message{PhotoURL: images.BodyFatFemale, Text: msgFatByPhoto, Keyboard: notify.KeyboardRemove}, last)

	e.text(t, "25")
	e.cmd(t, KindModeMedium)
	e.sent.Reset()
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindGotIt))

	var photos []notify.Message
	for _, s := range e.sent.Sent {
		if s.Message.PhotoURL != "" {
			photos = append(photos, s.Message)
		}
	}
	require.Len(t, photos, 1)
	assert.Equal(t, images.MealExample, photos[0].PhotoURL)
	assert.Equal(t, msgExampleCaption, photos[0].Text)
	assert.Equal(t, []string{msgExampleIntro, msgExampleCaption, msgReadyPhoto}, e.sent.Texts(testUser))
}

func TestOnboardingMaleImage(t *testing.T) {
	e := newTestEnv(t, withImages(Images{BodyFatMale: "https://example.com/bodyfat_male.jpg"}))

	e.cmd(t, KindStart)
	e.text(t, "80")
	e.text(t, "180")
	e.cmd(t, KindMale)
	last, ok := e.sent.Last(testUser)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/bodyfat_male.jpg", last.PhotoURL)
}

func TestOnboardingImagesFallBackToText(t *testing.T) {
	e := newTestEnv(t, withImages(Images{
		BodyFatFemale: "https://example.com/broken.jpg",
		MealExample:   "https://example.com/broken.jpg",
	}), rejectPhotos())

	e.cmd(t, KindStart)
	e.text(t, "80")
	e.text(t, "180")
	assert.Equal(t, Result{State: StateAskFat}, e.cmd(t, KindFemale))
	assert.Equal(t, msgAskFat, e.lastText(t))

	e.text(t, "25")
	e.cmd(t, KindModeMedium)
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindGotIt))
	assert.Equal(t, msgReady, e.lastText(t))
	for _, s := range e.sent.Sent {
		assert.Empty(t, s.Message.PhotoURL)
	}
}

func TestAskWeightRejectsNonNumeric(t *testing.T) {
	e := newTestEnv(t)
	e.cmd(t, KindStart)

	for _, input := range []string{"восемьдесят", "", "-5", "0", "80kg"} {
		res := e.text(t, input)
		assert.Equal(t, Result{State: StateAskWeight, Failure: FailureValidation}, res, input)
		assert.Equal(t, msgNumberWeight, e.lastText(t))
	}

	exists, err := e.profiles.Exists(context.Background(), testUser)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, string(StateAskWeight), e.sessionState(t))
}

func TestStartResetsFromAnyState(t *testing.T) {
	e := newTestEnv(t)
	e.onboard(t)

	e.cmd(t, KindTrackWeight)
	e.cmd(t, KindToday)
	require.Equal(t, string(StateInputWeightToday), e.sessionState(t))

	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindStart))
	assert.Equal(t, 0, e.sessions.Len())
}

func TestWeightTrendAcrossDays(t *testing.T) {
	e := newTestEnv(t)
	e.onboard(t)
	ctx := context.Background()

	assert.Equal(t, Result{State: StateWeightMenu}, e.cmd(t, KindTrackWeight))
	assert.Equal(t, Result{State: StateInputWeightToday}, e.cmd(t, KindToday))
	assert.Equal(t, Result{State: StateInputWeightToday, Failure: FailureValidation}, e.text(t, "много"))
	assert.Equal(t, Result{State: StateIdle}, e.text(t, "80.0"))
	assert.Equal(t, "⚖️ Вес 80 кг сохранён (сегодня).", e.lastText(t))

	e.now = e.now.AddDate(0, 0, 1)

	prev, ok, err := e.tracking.LastWeight(ctx, testUser, e.clock.Today())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 80.0, prev)

	e.cmd(t, KindTrackWeight)
	e.cmd(t, KindToday)
	assert.Equal(t, Result{State: StateIdle}, e.text(t, "79,5"))
	assert.Equal(t, "📉 Вес 79.5 кг сохранён (сегодня).\n\n"+weightLossMessages[0], e.lastText(t))

	profile, err := e.profiles.Get(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 79.5, profile.WeightKg)
}

func TestWeightYesterdayIncrease(t *testing.T) {
	e := newTestEnv(t)
	e.onboard(t)

	e.now = e.now.AddDate(0, 0, -2)
	e.cmd(t, KindTrackWeight)
	e.cmd(t, KindToday)
	e.text(t, "80")

	e.now = e.now.AddDate(0, 0, 2)
	e.cmd(t, KindTrackWeight)
	assert.Equal(t, Result{State: StateInputWeightYesterday}, e.cmd(t, KindYesterday))
	assert.Equal(t, Result{State: StateIdle}, e.text(t, "80.4"))
	assert.Equal(t, "📈 Вес 80.4 кг сохранён (вчера).\n\n"+weightGainMessages[0], e.lastText(t))

	profile, err := e.profiles.Get(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, 80.0, profile.WeightKg, "yesterday's weight does not touch the profile")
}

func TestStepsYesterdaySendsSummary(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, Result{State: StateStepsMenu}, e.cmd(t, KindTrackSteps))
	assert.Equal(t, Result{State: StateStepsMenu, Failure: FailureValidation}, e.text(t, "вчера"))
	assert.Equal(t, Result{State: StateInputStepsYesterday}, e.cmd(t, KindYesterday))
	assert.Equal(t, Result{State: StateInputStepsYesterday, Failure: FailureValidation}, e.text(t, "9к"))
	assert.Equal(t, Result{State: StateIdle}, e.text(t, "9000"))

	texts := e.sent.Texts(testUser)
	require.GreaterOrEqual(t, len(texts), 2)
	assert.Equal(t, "👍 Шаги за вчера сохранены: 9000.", texts[len(texts)-2])
	summary := texts[len(texts)-1]
	assert.True(t, strings.HasPrefix(summary, "📊 *Итоги за 01.05:*"), summary)
	assert.Contains(t, summary, "👟 Шаги: 9,000 | 🔥 От шагов: 221 ккал")

	has, err := e.tracking.StepsExist(context.Background(), testUser, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStepsTodayNoSummary(t *testing.T) {
	e := newTestEnv(t)
	e.cmd(t, KindTrackSteps)
	e.cmd(t, KindToday)
	assert.Equal(t, Result{State: StateIdle}, e.text(t, "12000"))
	assert.Equal(t, "👍 Шаги за сегодня сохранены: 12000.", e.lastText(t))
}

func TestBurnFlow(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, Result{State: StateInputBurn}, e.cmd(t, KindBurn))
	assert.Equal(t, Result{State: StateInputBurn, Failure: FailureValidation}, e.text(t, "-10"))
	assert.Equal(t, Result{State: StateIdle}, e.text(t, "250"))
	assert.Equal(t, "🔥 Учтено 250 ккал дополнительной активности", e.lastText(t))

	s, err := e.summary.Daily(context.Background(), testUser, e.clock.Today())
	require.NoError(t, err)
	assert.Equal(t, 250, s.ManualBurnKcal)
}

func TestDeleteConfirmCancelKeepsMeals(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.addMeal(t, "овсянка", 300)
	e.addMeal(t, "салат", 150)

	assert.Equal(t, Result{State: StateDeleteMenu}, e.cmd(t, KindDeleteMeal))
	assert.Equal(t, Result{State: StateDeleteMenu, Failure: FailureValidation}, e.text(t, "5"))
	assert.Equal(t, msgWrongNumber, e.lastText(t))
	assert.Equal(t, Result{State: StateDeleteConfirm}, e.text(t, "2"))
	assert.Contains(t, e.lastText(t), "салат")

	assert.Equal(t, Result{State: StateDeleteConfirm, Failure: FailureValidation}, e.text(t, "да"))
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindCancel))
	assert.Equal(t, msgDeleteCancel, e.lastText(t))

	meals, err := e.meals.MealsOn(ctx, testUser, e.clock.Today())
	require.NoError(t, err)
	assert.Len(t, meals, 2)
}

func TestDeleteMeal(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.addMeal(t, "овсянка", 300)
	e.addMeal(t, "салат", 150)

	e.cmd(t, KindDeleteMeal)
	e.text(t, "1")
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindConfirm))
	assert.True(t, strings.HasPrefix(e.lastText(t), "📊 *Итоги за 02.05:*"))

	meals, err := e.meals.MealsOn(ctx, testUser, e.clock.Today())
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "салат", meals[0].Description)
}

func TestDeleteMenuEmpty(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindDeleteMeal))
	assert.Equal(t, msgNoMealsToday, e.lastText(t))
}

func buckwheat() recognizer.Analysis {
	return recognizer.Analysis{
		Total: recognizer.Nutrients{Calories: 350.4, Protein: 12.04, Fat: 3.36, Carbs: 68.95},
		Breakdown: []recognizer.Item{
			{Name: "гречка 200г", Nutrients: recognizer.Nutrients{Calories: 350.4, Protein: 12.04, Fat: 3.36, Carbs: 68.95}},
		},
	}
}

func TestPhotoSaveAndReuseFavorite(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	e.recognizer.analysis = buckwheat()

	photo := Input{Kind: KindPhoto, Photo: []byte{1, 2, 3}, Caption: "гречка 200г"}
	assert.Equal(t, Result{State: StateSaveFavoriteMenu}, e.handle(t, photo))
	texts := e.sent.Texts(testUser)
	assert.Contains(t, strings.Join(texts, "\n"), "*Итого:* 350 ккал")
	assert.Contains(t, strings.Join(texts, "\n"), "Калории рассчитаны по описанию блюда")

	meals, err := e.meals.MealsOn(ctx, testUser, e.clock.Today())
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, 350, meals[0].Calories)
	assert.Equal(t, 12.0, meals[0].ProteinG)
	assert.Equal(t, "гречка 200г", meals[0].Description)

	assert.Equal(t, Result{State: StateSaveFavoriteMenu, Failure: FailureValidation}, e.text(t, "может быть"))
	assert.Equal(t, Result{State: StateSaveFavoriteName}, e.cmd(t, KindSaveFavorite))
	assert.Equal(t, Result{State: StateSaveFavoriteName, Failure: FailureValidation}, e.text(t, " к "))
	assert.Equal(t, Result{State: StateIdle}, e.text(t, "Гречка"))

	// второе блюдо с тем же именем не перезаписывает первое
	e.recognizer.analysis.Total.Calories = 999
	e.recognizer.analysis.Breakdown = nil
	e.handle(t, photo)
	e.cmd(t, KindSaveFavorite)
	assert.Equal(t, Result{State: StateSaveFavoriteName, Failure: FailureConflict}, e.text(t, "Гречка"))
	assert.Equal(t, msgFavDuplicate, e.lastText(t))
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindSkipFavorite))

	favs, err := e.meals.ListFavorites(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, 350, favs[0].Calories)

	assert.Equal(t, Result{State: StateFavoriteMealsMenu}, e.cmd(t, KindFavorites))
	assert.Contains(t, e.lastText(t), "*1.* Гречка (новое)")
	assert.Equal(t, Result{State: StateFavoriteMealsMenu, Failure: FailureValidation}, e.text(t, "гречку"))
	assert.Equal(t, msgFavNumber, e.lastText(t))
	assert.Equal(t, Result{State: StateFavoriteMealsMenu, Failure: FailureValidation}, e.text(t, "2"))
	assert.Equal(t, msgWrongNumber, e.lastText(t))
	assert.Equal(t, Result{State: StateIdle}, e.text(t, "1"))
	assert.Contains(t, e.lastText(t), "✅ Блюдо 'Гречка' добавлено в дневник!")

	favs, err = e.meals.ListFavorites(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 1, favs[0].UsageCount)

	meals, err = e.meals.MealsOn(ctx, testUser, e.clock.Today())
	require.NoError(t, err)
	assert.Len(t, meals, 3)
}

func TestFavoritesEmpty(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindFavorites))
	assert.Equal(t, msgNoFavorites, e.lastText(t))
}

func TestPhotoNotRecognized(t *testing.T) {
	e := newTestEnv(t)
	e.recognizer.description = "что-то вкусное"

	res := e.handle(t, Input{Kind: KindPhoto, Photo: []byte{1}})
	assert.Equal(t, Result{State: StateIdle, Failure: FailureCollaborator}, res)
	assert.Equal(t, msgNotRecognized, e.lastText(t))

	meals, err := e.meals.MealsOn(context.Background(), testUser, e.clock.Today())
	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestPhotoVisionErrorUsesCaption(t *testing.T) {
	e := newTestEnv(t)
	e.recognizer.describeErr = errors.New("vision: deadline exceeded")
	e.recognizer.analysis = buckwheat()
	e.recognizer.analysis.Source = recognizer.SourceCaptionFallback

	res := e.handle(t, Input{Kind: KindPhoto, Photo: []byte{1}, Caption: "ужин"})
	assert.Equal(t, Result{State: StateSaveFavoriteMenu}, res)
	assert.Contains(t, strings.Join(e.sent.Texts(testUser), "\n"), "Фото не удалось распознать")

	meals, err := e.meals.MealsOn(context.Background(), testUser, e.clock.Today())
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, "ужин", meals[0].Description)
}

func TestFavoriteKeepsPhotoDescription(t *testing.T) {
	e := newTestEnv(t)
	e.recognizer.description = "гречка с курицей и морковью"
	e.recognizer.analysis = buckwheat()
	e.recognizer.analysis.Description = "ужин"

	assert.Equal(t, Result{State: StateSaveFavoriteMenu}, e.handle(t, Input{Kind: KindPhoto, Photo: []byte{1}, Caption: "ужин"}))
	e.cmd(t, KindSaveFavorite)
	assert.Equal(t, Result{State: StateIdle}, e.text(t, "Ужин"))

	favs, err := e.meals.ListFavorites(context.Background(), testUser)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "гречка с курицей и морковью", favs[0].Description)
}

func TestDetailedTextIsAnalyzed(t *testing.T) {
	e := newTestEnv(t)
	e.recognizer.analysis = buckwheat()

	assert.Equal(t, Result{State: StateSaveFavoriteMenu}, e.text(t, "гречка 200г"))
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindSkipFavorite))

	assert.Equal(t, Result{State: StateIdle, Failure: FailureValidation}, e.text(t, "привет"))
	assert.Equal(t, msgIdleHint, e.lastText(t))
}

func TestPanicLeavesSessionAsIs(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, Result{State: StateChartsMenu}, e.cmd(t, KindCharts))
	e.charts.panics = true

	res := e.cmd(t, KindChartWeight)
	assert.Equal(t, Result{State: StateChartsMenu, Failure: FailureInternal}, res)
	assert.Equal(t, msgApology, e.lastText(t))
	assert.Equal(t, string(StateChartsMenu), e.sessionState(t))
}

func TestChartsFlow(t *testing.T) {
	e := newTestEnv(t)

	e.cmd(t, KindCharts)
	assert.Equal(t, Result{State: StateChartsMenu}, e.cmd(t, KindChartMacros))
	msg, ok := e.sent.Last(testUser)
	require.True(t, ok)
	assert.Equal(t, "/tmp/chart.png", msg.PhotoPath)
	assert.Equal(t, notify.KeyboardCharts, msg.Keyboard)

	e.charts.ok = false
	assert.Equal(t, Result{State: StateChartsMenu}, e.cmd(t, KindChartWeight))
	assert.Equal(t, msgChartsNoData, e.lastText(t))
	assert.Equal(t, []charts.Kind{charts.KindMacros, charts.KindWeight}, e.charts.kinds)

	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindBack))
}

func TestChartsUnavailable(t *testing.T) {
	e := newTestEnv(t, withoutCharts())
	assert.Equal(t, Result{State: StateIdle, Failure: FailureValidation}, e.cmd(t, KindCharts))
	assert.Equal(t, msgChartsOff, e.lastText(t))
}

func TestChangeMode(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, Result{State: StateIdle, Failure: FailureValidation}, e.cmd(t, KindChangeMode))
	assert.Equal(t, msgNeedProfile, e.lastText(t))

	e.onboard(t)
	assert.Equal(t, Result{State: StateChangeDeficitMode}, e.cmd(t, KindChangeMode))
	assert.Equal(t, Result{State: StateChangeDeficitMode, Failure: FailureValidation}, e.text(t, "жёсткий"))
	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindModeExtreme))
	assert.Equal(t, "✅ Режим изменён на «Экстремальный»\nНовая норма калорий: 1170 ккал (-250)\n(было 500 ккал дефицита, стало 750 ккал)", e.lastText(t))
}

func TestTrackCommand(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	assert.Equal(t, Result{State: StateIdle}, e.handle(t, Input{Kind: KindTrack, Text: "вес 81,2"}))
	assert.Equal(t, "⚖️ Вес 81.2 кг сохранён (сегодня).", e.lastText(t))

	assert.Equal(t, Result{State: StateIdle}, e.handle(t, Input{Kind: KindTrack, Text: "шаги вчера 12000"}))
	has, err := e.tracking.StepsExist(ctx, testUser, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, has)

	assert.Equal(t, Result{State: StateIdle, Failure: FailureValidation}, e.handle(t, Input{Kind: KindTrack, Text: "вес"}))
	assert.Equal(t, msgTrackBadWeigh, e.lastText(t))
	assert.Equal(t, Result{State: StateIdle, Failure: FailureValidation}, e.handle(t, Input{Kind: KindTrack, Text: "пульс 60"}))
	assert.Equal(t, msgTrackUsage, e.lastText(t))
}

func TestSummaryRequest(t *testing.T) {
	e := newTestEnv(t)
	e.addMeal(t, "борщ", 2500)

	assert.Equal(t, Result{State: StateIdle}, e.cmd(t, KindSummary))
	assert.Contains(t, e.lastText(t), "Баланс: ⚠️ Превышено на 500 ккал")
}
