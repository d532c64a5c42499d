package flow

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/charts"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
)

var chartKinds = map[Kind]charts.Kind{
	KindChartWeight:   charts.KindWeight,
	KindChartCalories: charts.KindCalories,
	KindChartMacros:   charts.KindMacros,
	KindChartActivity: charts.KindActivity,
}

var chartTitles = map[charts.Kind]string{
	charts.KindWeight:   "📉 Динамика веса за 30 дней",
	charts.KindCalories: "🔥 Калории за 7 дней",
	charts.KindMacros:   "🥗 Баланс БЖУ за 7 дней",
	charts.KindActivity: "👣 Активность за 7 дней",
}

func (t *turn) help() (State, Failure) {
	t.replyMarkdown(msgHelp, notify.KeyboardMain)
	return StateIdle, FailureNone
}

func (t *turn) keyboard() (State, Failure) {
	return t.toIdle(msgKeyboardReset)
}

func (t *turn) summaryToday() (State, Failure) {
	if !t.sendSummary(t.m.deps.Clock.Today()) {
		return StateIdle, FailureCollaborator
	}
	return StateIdle, FailureNone
}

// sendSummary отправляет итоги за дату, ошибку сообщает тем же сообщением
func (t *turn) sendSummary(date string) bool {
	ctx, cancel := t.store()
	defer cancel()

	s, err := t.m.deps.Summary.Daily(ctx, t.userID, date)
	if err != nil {
		t.m.log.Error("failed to build summary", zap.Int64("user_id", t.userID), zap.Error(err))
		t.reply("⚠️ Ошибка при формировании отчета. Попробуйте позже.", notify.KeyboardKeep)
		return false
	}
	t.replyMarkdown(FormatSummary(s), notify.KeyboardKeep)
	return true
}

func (t *turn) changeModePrompt() (State, Failure) {
	ctx, cancel := t.store()
	defer cancel()

	exists, err := t.m.deps.Profiles.Exists(ctx, t.userID)
	if err != nil {
		return t.fail("profile exists", err, StateIdle)
	}
	if !exists {
		return t.stay(msgNeedProfile, notify.KeyboardKeep)
	}
	t.reply(msgModes, notify.KeyboardDeficit)
	return StateChangeDeficitMode, FailureNone
}

func (t *turn) changeMode() (State, Failure) {
	ctx, cancel := t.store()
	defer cancel()

	change, err := t.m.deps.Profiles.ChangeDeficitMode(ctx, t.userID, modeFor(t.in.Kind))
	switch {
	case errors.Is(err, service.ErrNoProfile):
		t.reply(msgNeedProfile, notify.KeyboardMain)
		return StateIdle, FailureValidation
	case err != nil:
		return t.fail("change deficit mode", err, StateChangeDeficitMode)
	}
	return t.toIdle(formatModeChange(change))
}

func (t *turn) chartsMenu() (State, Failure) {
	if t.m.deps.Charts == nil {
		return t.stay(msgChartsOff, notify.KeyboardMain)
	}
	t.replyMarkdown(msgChartsMenu, notify.KeyboardCharts)
	return StateChartsMenu, FailureNone
}

func (t *turn) renderChart() (State, Failure) {
	kind := chartKinds[t.in.Kind]
	t.reply(msgChartsLoading, notify.KeyboardKeep)

	ctx, cancel := context.WithTimeout(t.parent, t.m.deps.RenderTimeout)
	defer cancel()

	path, ok, err := t.m.deps.Charts.Render(ctx, kind, t.userID, kind.Days())
	switch {
	case err != nil:
		t.m.log.Error("failed to render chart", zap.Int64("user_id", t.userID), zap.Error(err))
		t.reply(msgChartsFailed, notify.KeyboardCharts)
		return StateChartsMenu, FailureCollaborator
	case !ok:
		t.reply(msgChartsNoData, notify.KeyboardCharts)
		return StateChartsMenu, FailureNone
	}

	t.send(notify.Message{Text: chartTitles[kind], PhotoPath: path, Keyboard: notify.KeyboardCharts})
	return StateChartsMenu, FailureNone
}
