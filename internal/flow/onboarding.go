package flow

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/session"
)

const maxHeightCm = 300

// parseNumber принимает и запятую, и точку
func parseNumber(text string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(text), ",", "."), 64)
}

func parseWeight(text string) (float64, bool) {
	w, err := parseNumber(text)
	if err != nil || w <= 0 || w > 500 {
		return 0, false
	}
	return w, true
}

func (t *turn) start() (State, Failure) {
	ctx, cancel := t.store()
	defer cancel()

	t.sess.Reset(string(StateIdle))
	exists, err := t.m.deps.Profiles.Exists(ctx, t.userID)
	if err != nil {
		return t.fail("profile exists", err, StateIdle)
	}
	if exists {
		// анкета могла закончиться без "Понял!", напоминания ставим здесь тоже
		t.registerReminders()
		return t.toIdle(msgWelcomeBack)
	}
	t.reply(msgWelcomeNew, notify.KeyboardRemove)
	return StateAskWeight, FailureNone
}

func (t *turn) cancelOnboarding() (State, Failure) {
	t.reply(msgOnboardStop, notify.KeyboardRemove)
	return StateIdle, FailureNone
}

func (t *turn) askWeight() (State, Failure) {
	w, ok := parseWeight(t.in.Text)
	if !ok {
		return t.stay(msgNumberWeight, notify.KeyboardKeep)
	}
	t.sess.Profile.WeightKg = w
	t.reply(msgAskHeight, notify.KeyboardKeep)
	return StateAskHeight, FailureNone
}

func (t *turn) askHeight() (State, Failure) {
	h, err := strconv.Atoi(strings.TrimSpace(t.in.Text))
	if err != nil || h <= 0 || h > maxHeightCm {
		return t.stay(msgNumberHeight, notify.KeyboardKeep)
	}
	t.sess.Profile.HeightCm = h
	t.reply(msgAskGender, notify.KeyboardGender)
	return StateAskGender, FailureNone
}

func (t *turn) askGender() (State, Failure) {
	gender := models.GenderMale
	if t.in.Kind == KindFemale {
		gender = models.GenderFemale
	}
	t.sess.Profile.Gender = string(gender)
	if !t.sendPhoto(t.m.deps.Images.bodyFat(gender), msgFatByPhoto, notify.KeyboardRemove) {
		t.reply(msgAskFat, notify.KeyboardRemove)
	}
	return StateAskFat, FailureNone
}

func (t *turn) askFat() (State, Failure) {
	fat, err := parseNumber(t.in.Text)
	if err != nil {
		return t.stay(msgNumberFat, notify.KeyboardKeep)
	}
	if service.ValidateBodyFat(fat) != nil {
		return t.stay(msgFatRange, notify.KeyboardKeep)
	}
	t.sess.Profile.BodyFatPercent = fat
	t.reply(msgModes, notify.KeyboardDeficit)
	return StateAskDeficitMode, FailureNone
}

// askDeficitMode - анкета сохраняется, как только выбран режим
func (t *turn) askDeficitMode() (State, Failure) {
	ctx, cancel := t.store()
	defer cancel()

	p := t.sess.Profile
	_, err := t.m.deps.Profiles.Onboard(ctx, service.OnboardingDTO{
		UserID:         t.userID,
		WeightKg:       p.WeightKg,
		HeightCm:       p.HeightCm,
		BodyFatPercent: p.BodyFatPercent,
		Gender:         models.Gender(p.Gender),
		DeficitMode:    modeFor(t.in.Kind),
	})
	if errors.Is(err, service.ErrInvalidProfile) {
		// ответы потерялись или испорчены - анкету заново
		t.m.log.Warn("invalid onboarding answers", zap.Int64("user_id", t.userID), zap.Error(err))
		t.sess.Profile = session.PendingProfile{}
		t.reply(msgWelcomeNew, notify.KeyboardRemove)
		return StateAskWeight, FailureValidation
	}
	if err != nil {
		return t.fail("onboard", err, StateAskDeficitMode)
	}

	t.replyMarkdown(msgHelp, notify.KeyboardKeep)
	t.reply(msgAfterHelp, notify.KeyboardConfirmHelp)
	return StateConfirmHelp, FailureNone
}

// confirmHelp завершает анкету и ставит напоминания
func (t *turn) confirmHelp() (State, Failure) {
	t.registerReminders()

	if url := t.m.deps.Images.MealExample; url != "" {
		t.reply(msgExampleIntro, notify.KeyboardMain)
		if t.sendPhoto(url, msgExampleCaption, notify.KeyboardKeep) {
			return t.toIdle(msgReadyPhoto)
		}
	}
	return t.toIdle(msgReady)
}

func (t *turn) registerReminders() {
	r := t.m.deps.Reminders
	if r == nil {
		return
	}
	ctx, cancel := t.store()
	defer cancel()
	if err := r.Register(ctx, t.userID); err != nil {
		t.m.log.Error("failed to register reminders", zap.Int64("user_id", t.userID), zap.Error(err))
	}
}

func modeFor(k Kind) models.DeficitMode {
	switch k {
	case KindModeLight:
		return models.DeficitLight
	case KindModeExtreme:
		return models.DeficitExtreme
	}
	return models.DeficitMedium
}
