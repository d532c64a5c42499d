package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/flow"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
)

// Подписи кнопок
const (
	btnTrackWeight = "⚖️ Track вес"
	btnTrackSteps  = "👣 Track шаги"
	btnSummary     = "📊 Summary"
	btnBurn        = "🔥 Burn"
	btnFavorites   = "🍎 Любимые блюда"
	btnCharts      = "📈 Графики"
	btnDeleteMeal  = "🗑️ Удалить еду"
	btnHelp        = "❓ Help"
	btnMode        = "⚙️ Режим"

	btnMale   = "👨 Мужчина"
	btnFemale = "👩 Женщина"
	btnGotIt  = "✅ Понял!"

	btnModeLight   = "🟢 Лёгкий"
	btnModeMedium  = "🟠 Средний"
	btnModeExtreme = "🔴 Экстремальный"

	btnToday     = "📅 Сегодня"
	btnYesterday = "↩️ Вчера"
	btnBack      = "🔙 Назад"
	btnBackMenu  = "🔙 Назад в меню"

	btnConfirmDelete = "✅ Да, удалить"
	btnCancel        = "❌ Отмена"
	btnSaveFavorite  = "💾 Сохранить как любимое"
	btnSkipFavorite  = "❌ Не сохранять"

	btnChartWeight   = "📉 График веса"
	btnChartCalories = "🔥 График калорий"
	btnChartMacros   = "🥗 Баланс БЖУ"
	btnChartActivity = "👣 Активность"
)

var labelKinds = map[string]flow.Kind{
	btnTrackWeight: flow.KindTrackWeight,
	btnTrackSteps:  flow.KindTrackSteps,
	btnSummary:     flow.KindSummary,
	btnBurn:        flow.KindBurn,
	btnFavorites:   flow.KindFavorites,
	btnCharts:      flow.KindCharts,
	btnDeleteMeal:  flow.KindDeleteMeal,
	btnHelp:        flow.KindHelp,
	btnMode:        flow.KindChangeMode,

	btnMale:   flow.KindMale,
	btnFemale: flow.KindFemale,
	btnGotIt:  flow.KindGotIt,

	btnModeLight:    flow.KindModeLight,
	btnModeMedium:   flow.KindModeMedium,
	btnModeExtreme:  flow.KindModeExtreme,
	"Лёгкий":        flow.KindModeLight,
	"Средний":       flow.KindModeMedium,
	"Экстремальный": flow.KindModeExtreme,

	btnToday:     flow.KindToday,
	btnYesterday: flow.KindYesterday,
	btnBack:      flow.KindBack,
	btnBackMenu:  flow.KindBack,

	btnConfirmDelete: flow.KindConfirm,
	btnCancel:        flow.KindCancel,
	btnSaveFavorite:  flow.KindSaveFavorite,
	btnSkipFavorite:  flow.KindSkipFavorite,

	btnChartWeight:   flow.KindChartWeight,
	btnChartCalories: flow.KindChartCalories,
	btnChartMacros:   flow.KindChartMacros,
	btnChartActivity: flow.KindChartActivity,
}

func row(labels ...string) []tgbotapi.KeyboardButton {
	buttons := make([]tgbotapi.KeyboardButton, 0, len(labels))
	for _, l := range labels {
		buttons = append(buttons, tgbotapi.NewKeyboardButton(l))
	}
	return tgbotapi.NewKeyboardButtonRow(buttons...)
}

func replyKeyboard(oneTime bool, rows ...[]tgbotapi.KeyboardButton) tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	keyboard.OneTimeKeyboard = oneTime
	return keyboard
}

// markup переводит notify.Keyboard в разметку Telegram. nil - клавиатуру не трогаем
func markup(k notify.Keyboard) interface{} {
	switch k {
	case notify.KeyboardRemove:
		return tgbotapi.NewRemoveKeyboard(true)
	case notify.KeyboardMain:
		return replyKeyboard(false,
			row(btnTrackWeight, btnTrackSteps),
			row(btnSummary, btnBurn),
			row(btnFavorites, btnCharts),
			row(btnDeleteMeal, btnHelp),
			row(btnMode),
		)
	case notify.KeyboardGender:
		return replyKeyboard(true, row(btnMale, btnFemale))
	case notify.KeyboardDeficit:
		return replyKeyboard(true, row(btnModeLight, btnModeMedium, btnModeExtreme))
	case notify.KeyboardConfirmHelp:
		return replyKeyboard(true, row(btnGotIt))
	case notify.KeyboardDayChoice:
		return replyKeyboard(false, row(btnToday, btnYesterday), row(btnBack))
	case notify.KeyboardDeleteConfirm:
		return replyKeyboard(true, row(btnConfirmDelete, btnCancel))
	case notify.KeyboardSaveFavorite:
		return replyKeyboard(true, row(btnSaveFavorite, btnSkipFavorite))
	case notify.KeyboardBack:
		return replyKeyboard(false, row(btnBack))
	case notify.KeyboardCharts:
		return replyKeyboard(false,
			row(btnChartWeight, btnChartCalories),
			row(btnChartMacros, btnChartActivity),
			row(btnBackMenu),
		)
	}
	return nil
}
