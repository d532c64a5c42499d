package flow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/recognizer"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/session"
)

const photoMealName = "[Фото]"

func (t *turn) photo() (State, Failure) {
	t.reply(msgRecognizing, notify.KeyboardKeep)
	return t.analyzeMeal(t.in.Caption, t.in.Photo)
}

// idleText: текст с граммовкой считается описанием еды, остальное - подсказка
func (t *turn) idleText() (State, Failure) {
	if t.in.Kind == KindText && recognizer.IsDetailedDescription(t.in.Text) {
		return t.analyzeMeal(t.in.Text, nil)
	}
	return t.stay(msgIdleHint, notify.KeyboardMain)
}

func (t *turn) analyzeMeal(caption string, image []byte) (State, Failure) {
	rec := recognizer.WithTimeout(t.m.deps.Recognizer, t.m.deps.RecognizeTimeout)
	analysis, err := recognizer.Recognize(t.parent, rec, caption, image)
	if err != nil {
		if errors.Is(err, recognizer.ErrNotRecognized) {
			t.m.log.Info("food not recognized", zap.Int64("user_id", t.userID), zap.Error(err))
			t.reply(msgNotRecognized, notify.KeyboardMain)
			return StateIdle, FailureCollaborator
		}
		return t.fail("recognize food", err, StateIdle)
	}

	if analysis.VisionErr != nil {
		t.m.log.Warn("photo not described, using caption", zap.Int64("user_id", t.userID), zap.Error(analysis.VisionErr))
	}

	name := strings.TrimSpace(caption)
	if name == "" {
		name = photoMealName
	}

	ctx, cancel := t.store()
	defer cancel()
	meal, err := t.m.deps.Meals.AddMeal(ctx, service.MealDTO{
		UserID:      t.userID,
		Description: name,
		Calories:    analysis.Total.Calories,
		ProteinG:    analysis.Total.Protein,
		FatG:        analysis.Total.Fat,
		CarbsG:      analysis.Total.Carbs,
	})
	if err != nil {
		return t.fail("add meal", err, StateIdle)
	}

	t.replyMarkdown(formatAnalysis(analysis), notify.KeyboardKeep)

	t.sess.Reset(string(StateSaveFavoriteMenu))
	t.sess.Meal = &session.PendingMeal{
		Name:        name,
		Description: favoriteDescription(analysis),
		Calories:    meal.Calories,
		ProteinG:    meal.ProteinG,
		FatG:        meal.FatG,
		CarbsG:      meal.CarbsG,
	}
	t.reply(msgOfferFavorite, notify.KeyboardSaveFavorite)
	return StateSaveFavoriteMenu, FailureNone
}

// favoriteDescription: подробная подпись, иначе то, что модель увидела на фото
func favoriteDescription(a *recognizer.Analysis) string {
	if a.Source != recognizer.SourceCaption && a.ImageDescription != "" {
		return a.ImageDescription
	}
	return a.Description
}

func (t *turn) skipFavorite() (State, Failure) {
	return t.toIdle(msgSkipFavorite)
}

func (t *turn) saveFavoritePrompt() (State, Failure) {
	if t.sess.Meal == nil {
		t.reply(msgMealLost, notify.KeyboardMain)
		return StateIdle, FailureInternal
	}
	t.reply(msgAskFavName, notify.KeyboardRemove)
	return StateSaveFavoriteName, FailureNone
}

func (t *turn) saveFavoriteName() (State, Failure) {
	meal := t.sess.Meal
	if meal == nil {
		t.reply(msgMealLost, notify.KeyboardMain)
		return StateIdle, FailureInternal
	}
	name, err := service.NormalizeFavoriteName(t.in.Text)
	if err != nil {
		return t.stay(msgFavNameShort, notify.KeyboardKeep)
	}

	ctx, cancel := t.store()
	defer cancel()
	_, err = t.m.deps.Meals.SaveFavorite(ctx, service.FavoriteDTO{
		UserID:      t.userID,
		Name:        name,
		Description: meal.Description,
		Calories:    meal.Calories,
		ProteinG:    meal.ProteinG,
		FatG:        meal.FatG,
		CarbsG:      meal.CarbsG,
	})
	switch {
	case errors.Is(err, service.ErrDuplicateFavorite):
		t.reply(msgFavDuplicate, notify.KeyboardKeep)
		return StateSaveFavoriteName, FailureConflict
	case err != nil:
		return t.fail("save favorite", err, StateSaveFavoriteName)
	}

	return t.toIdle(fmt.Sprintf("✅ Блюдо '%s' сохранено в избранном!\nТеперь его можно быстро добавить через кнопку '🍎 Любимые блюда'.", name))
}

func (t *turn) showFavorites() (State, Failure) {
	ctx, cancel := t.store()
	defer cancel()

	favs, err := t.m.deps.Meals.ListFavorites(ctx, t.userID)
	if err != nil {
		return t.fail("list favorites", err, StateIdle)
	}
	if len(favs) == 0 {
		return t.toIdle(msgNoFavorites)
	}

	t.sess.Choices = make(map[int]uint, len(favs))
	for i, fav := range favs {
		t.sess.Choices[i+1] = fav.ID
	}
	t.replyMarkdown(formatFavorites(favs), notify.KeyboardBack)
	return StateFavoriteMealsMenu, FailureNone
}

// choice - номер из показанного списка
func (t *turn) choice() (uint, bool, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(t.in.Text))
	if err != nil {
		return 0, false, false
	}
	id, ok := t.sess.Choices[n]
	return id, true, ok
}

func (t *turn) useFavorite() (State, Failure) {
	id, numeric, ok := t.choice()
	if !numeric {
		return t.stay(msgFavNumber, notify.KeyboardKeep)
	}
	if !ok {
		return t.stay(msgWrongNumber, notify.KeyboardKeep)
	}

	ctx, cancel := t.store()
	defer cancel()
	meal, err := t.m.deps.Meals.UseFavorite(ctx, t.userID, id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		t.reply(msgFavoriteFailed, notify.KeyboardMain)
		return StateIdle, FailureConflict
	case err != nil:
		return t.fail("use favorite", err, StateIdle)
	}

	return t.toIdle(fmt.Sprintf("✅ Блюдо '%s' добавлено в дневник!\n🔥 %s",
		meal.Description, formatMealLine(meal.Calories, meal.ProteinG, meal.FatG, meal.CarbsG)))
}

func (t *turn) showDeleteMenu() (State, Failure) {
	ctx, cancel := t.store()
	defer cancel()

	meals, err := t.m.deps.Meals.MealsOn(ctx, t.userID, t.m.deps.Clock.Today())
	if err != nil {
		return t.fail("list meals", err, StateIdle)
	}
	if len(meals) == 0 {
		return t.toIdle(msgNoMealsToday)
	}

	t.sess.Choices = make(map[int]uint, len(meals))
	for i, meal := range meals {
		t.sess.Choices[i+1] = meal.ID
	}
	t.replyMarkdown(formatMealsForDelete(meals, t.m.deps.Clock.Location()), notify.KeyboardRemove)
	return StateDeleteMenu, FailureNone
}

func (t *turn) selectMealToDelete() (State, Failure) {
	id, numeric, ok := t.choice()
	if !numeric {
		return t.stay(msgDeleteNumber, notify.KeyboardKeep)
	}
	if !ok {
		return t.stay(msgWrongNumber, notify.KeyboardKeep)
	}

	ctx, cancel := t.store()
	defer cancel()
	meal, err := t.m.deps.Meals.GetMeal(ctx, t.userID, id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		t.reply(msgMealNotFound, notify.KeyboardMain)
		return StateIdle, FailureConflict
	case err != nil:
		return t.fail("get meal", err, StateDeleteMenu)
	}

	t.sess.SelectedID = meal.ID
	t.replyMarkdown(formatDeleteConfirm(meal), notify.KeyboardDeleteConfirm)
	return StateDeleteConfirm, FailureNone
}

func (t *turn) cancelDelete() (State, Failure) {
	return t.toIdle(msgDeleteCancel)
}

func (t *turn) confirmDelete() (State, Failure) {
	if t.sess.SelectedID == 0 {
		t.reply(msgMealNotFound, notify.KeyboardMain)
		return StateIdle, FailureInternal
	}

	ctx, cancel := t.store()
	defer cancel()
	err := t.m.deps.Meals.DeleteMeal(ctx, t.userID, t.sess.SelectedID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		t.reply(msgMealNotFound, notify.KeyboardMain)
		return StateIdle, FailureConflict
	case err != nil:
		return t.fail("delete meal", err, StateDeleteConfirm)
	}

	t.reply(msgDeleted, notify.KeyboardMain)
	t.sendSummary(t.m.deps.Clock.Today())
	return StateIdle, FailureNone
}
