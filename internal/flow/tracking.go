package flow

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
)

var (
	nonWeightChars = regexp.MustCompile(`[^0-9.,]`)
	nonDigitChars  = regexp.MustCompile(`[^0-9]`)
)

func (t *turn) weightMenu() (State, Failure) {
	t.reply(msgWeightDay, notify.KeyboardDayChoice)
	return StateWeightMenu, FailureNone
}

func (t *turn) stepsMenu() (State, Failure) {
	t.reply(msgStepsDay, notify.KeyboardDayChoice)
	return StateStepsMenu, FailureNone
}

func (t *turn) weightToday() (State, Failure) {
	t.reply(msgWeightToday, notify.KeyboardRemove)
	return StateInputWeightToday, FailureNone
}

func (t *turn) weightYesterday() (State, Failure) {
	t.reply(msgWeightYest, notify.KeyboardRemove)
	return StateInputWeightYesterday, FailureNone
}

func (t *turn) stepsToday() (State, Failure) {
	t.reply(msgStepsToday, notify.KeyboardRemove)
	return StateInputStepsToday, FailureNone
}

func (t *turn) stepsYesterday() (State, Failure) {
	t.reply(msgStepsYest, notify.KeyboardRemove)
	return StateInputStepsYesterday, FailureNone
}

func (t *turn) burnPrompt() (State, Failure) {
	t.reply(msgAskBurn, notify.KeyboardRemove)
	return StateInputBurn, FailureNone
}

func (t *turn) back() (State, Failure) {
	return t.toIdle(msgChooseAction)
}

func (t *turn) inputWeight() (State, Failure) {
	w, ok := parseWeight(t.in.Text)
	if !ok {
		return t.stay(msgNumberWeight, notify.KeyboardKeep)
	}
	yesterday := t.state == StateInputWeightYesterday
	text, err := t.saveWeight(w, yesterday)
	if err != nil {
		return t.fail("save weight", err, t.state)
	}
	return t.toIdle(text)
}

// saveWeight сохраняет вес и собирает ответ с трендом
func (t *turn) saveWeight(w float64, yesterday bool) (string, error) {
	ctx, cancel := t.store()
	defer cancel()

	date := t.m.deps.Clock.Today()
	if yesterday {
		date = t.m.deps.Clock.Yesterday()
	}
	res, err := t.m.deps.Tracking.SaveWeight(ctx, t.userID, date, w)
	if err != nil {
		return "", err
	}

	text := fmt.Sprintf("%s Вес %s кг сохранён (%s).", trendEmoji(res.Trend), formatKg(w), dayWord(yesterday))
	switch res.Trend {
	case service.TrendDecrease:
		text += "\n\n" + t.pick(weightLossMessages)
	case service.TrendIncrease:
		text += "\n\n" + t.pick(weightGainMessages)
	}
	return text, nil
}

func (t *turn) inputSteps() (State, Failure) {
	steps, err := strconv.Atoi(strings.TrimSpace(t.in.Text))
	if err != nil || steps < 0 {
		return t.stay(msgNumberSteps, notify.KeyboardKeep)
	}
	yesterday := t.state == StateInputStepsYesterday
	if err := t.saveSteps(steps, yesterday); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return t.stay(msgNumberSteps, notify.KeyboardKeep)
		}
		return t.fail("save steps", err, t.state)
	}
	return StateIdle, FailureNone
}

// saveSteps: поздние шаги за вчера меняют вчерашние итоги, поэтому сразу шлём их заново
func (t *turn) saveSteps(steps int, yesterday bool) error {
	ctx, cancel := t.store()
	defer cancel()

	date := t.m.deps.Clock.Today()
	if yesterday {
		date = t.m.deps.Clock.Yesterday()
	}
	if err := t.m.deps.Tracking.SaveSteps(ctx, t.userID, date, steps); err != nil {
		return err
	}
	t.reply(fmt.Sprintf("👍 Шаги за %s сохранены: %d.", dayWord(yesterday), steps), notify.KeyboardMain)
	if yesterday {
		t.sendSummary(date)
	}
	return nil
}

func (t *turn) inputBurn() (State, Failure) {
	kcal, err := strconv.Atoi(strings.TrimSpace(t.in.Text))
	if err != nil || kcal < 0 {
		return t.stay(msgNumberBurn, notify.KeyboardKeep)
	}

	ctx, cancel := t.store()
	defer cancel()
	if err := t.m.deps.Tracking.SaveBurn(ctx, t.userID, t.m.deps.Clock.Today(), kcal); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return t.stay(msgNumberBurn, notify.KeyboardKeep)
		}
		return t.fail("save burn", err, t.state)
	}
	return t.toIdle(fmt.Sprintf("🔥 Учтено %d ккал дополнительной активности", kcal))
}

// track - /track вес 80.5, /track шаги вчера 9000
func (t *turn) track() (State, Failure) {
	text := strings.ToLower(t.in.Text)
	yesterday := strings.Contains(text, "вчера")

	if _, rest, ok := strings.Cut(text, "вес"); ok {
		w, ok := parseWeight(nonWeightChars.ReplaceAllString(rest, ""))
		if !ok {
			return t.stay(msgTrackBadWeigh, notify.KeyboardKeep)
		}
		reply, err := t.saveWeight(w, yesterday)
		if err != nil {
			return t.fail("track weight", err, StateIdle)
		}
		t.reply(reply, notify.KeyboardKeep)
		return StateIdle, FailureNone
	}

	if _, rest, ok := strings.Cut(text, "шаги"); ok {
		steps, err := strconv.Atoi(nonDigitChars.ReplaceAllString(rest, ""))
		if err != nil {
			return t.stay(msgTrackBadSteps, notify.KeyboardKeep)
		}
		if err := t.saveSteps(steps, yesterday); err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				return t.stay(msgTrackBadSteps, notify.KeyboardKeep)
			}
			return t.fail("track steps", err, StateIdle)
		}
		return StateIdle, FailureNone
	}

	return t.stay(msgTrackUsage, notify.KeyboardKeep)
}
