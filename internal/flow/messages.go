package flow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/recognizer"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
)

const (
	msgApology      = "Извините, произошла ошибка. Попробуйте еще раз или обратитесь к администратору."
	msgGenericError = "⚠️ Произошла ошибка. Попробуйте ещё раз."
	msgChooseAction = "Выберите действие:"
	msgUseButtons   = "Пожалуйста, используй кнопки меню:"
	msgIdleHint     = "Используй кнопки ниже или отправь фото еды с описанием порций в граммах 📸"

	msgWelcomeNew  = "👋 Добро пожаловать! Давай настроим твой профиль для точного расчета нормы калорий.\n\nСколько ты сейчас весишь (в кг)?"
	msgWelcomeBack = "Привет! Скидывай фотки еды, я тебя поддержу 💚"
	msgAskHeight   = "Отлично! А какой у тебя рост (в см)?"
	msgAskGender   = "Теперь выбери свой пол:"
	msgReGender    = "Пожалуйста, выбери свой пол, используя кнопки ниже:"
	msgAskFat      = "Напиши свой примерный процент жира (число от 3 до 50).\nНапример: 15"
	msgFatByPhoto  = "Посмотри на картинку и определи свой примерный процент жира.\nПросто напиши число, например: 15"
	msgFatRange    = "⚠️ Процент жира должен быть от 3 до 50. Попробуй еще раз:"
	msgReMode      = "Пожалуйста, выбери режим, используя кнопки ниже:"
	msgAfterHelp   = "👆 Это основная инструкция по использованию бота. Прочитай её внимательно и нажми кнопку ниже:"
	msgReGotIt     = "Пожалуйста, нажми кнопку '✅ Понял!' чтобы продолжить:"
	msgReadyPhoto  = "Теперь ты готов к использованию бота! Отправляй фото своей еды с описанием порций в граммах 🚀"
	msgReady       = msgReadyPhoto + "\n\nПример: " + msgExampleCaption

	msgExampleIntro   = "👨‍🍳 Вот пример того, как нужно отправлять фото еды:"
	msgExampleCaption = "гречка 80г, курица 200г, морковь 50г, зелень"
	msgOnboardStop    = "Анкета прервана. Нажми /start, чтобы начать заново."
	msgNeedProfile    = "Сначала заполни анкету: /start"

	msgNumberWeight = "⚠️ Введи число, напр.: 85"
	msgNumberHeight = "⚠️ Введи число, напр.: 180"
	msgNumberFat    = "⚠️ Введи число, напр.: 18.5"
	msgNumberSteps  = "⚠️ Введи целое число, напр.: 9000"
	msgNumberBurn   = "⚠️ Введи целое число, напр.: 250"

	msgWeightDay     = "Выбери, за какой день вводишь вес:"
	msgStepsDay      = "Выбери, за какой день вводишь шаги:"
	msgWeightToday   = "Введи вес (в кг):"
	msgWeightYest    = "Введи вес за вчера:"
	msgStepsToday    = "Введи шаги (сегодня):"
	msgStepsYest     = "Введи шаги за вчера:"
	msgAskBurn       = "Введи потраченные калории за активность:"
	msgTrackUsage    = "Формат: /track вес 80.5, /track шаги 9000, /track шаги вчера 12000"
	msgTrackBadWeigh = "⚠️ Не смог распознать вес."
	msgTrackBadSteps = "⚠️ Не смог распознать количество шагов."

	msgRecognizing    = "🧠 Пытаюсь распознать по фото..."
	msgNotRecognized  = "❌ Не удалось распознать блюдо. Добавь описание вручную."
	msgOfferFavorite  = "💾 Хотите сохранить это блюдо в избранное для быстрого добавления в будущем?"
	msgSkipFavorite   = "👍 Понятно, не сохраняем."
	msgAskFavName     = "✏️ Введите название для этого блюда в избранном:\nНапример: 'Моя овсянка с бананом'"
	msgFavNameShort   = "⚠️ Название слишком короткое. Попробуйте еще раз:"
	msgFavDuplicate   = "⚠️ Блюдо с таким названием уже существует в избранном.\nПопробуйте другое название:"
	msgMealLost       = "❌ Данные потерялись. Попробуйте еще раз."
	msgNoFavorites    = "🤷‍♂️ У вас пока нет любимых блюд.\nДобавьте фото еды и сохраните блюдо в избранное!"
	msgFavNumber      = "⚠️ Введите номер блюда или нажмите 'Назад':"
	msgWrongNumber    = "⚠️ Неверный номер. Попробуйте еще раз:"
	msgFavoriteFailed = "❌ Ошибка при добавлении блюда."

	msgNoMealsToday  = "🤷‍♂️ За сегодня нет записей о еде для удаления."
	msgDeleteNumber  = "⚠️ Введи номер приема пищи или 'отмена':"
	msgMealNotFound  = "❌ Прием пищи не найден."
	msgDeleteCancel  = "❌ Удаление отменено."
	msgDeleteChoose  = "⚠️ Пожалуйста, выбери один из вариантов:"
	msgDeleted       = "✅ Прием пищи успешно удален!\nОбновленная сводка:"
	msgKeyboardReset = "⌨️ Клавиатура обновлена!"

	msgChartsOff     = "📈 Графики пока недоступны."
	msgChartsNoData  = "📊 Недостаточно данных для создания этого графика.\nПопробуйте другой тип или добавьте больше записей."
	msgChartsFailed  = "❌ Произошла ошибка при создании графика. Попробуйте позже."
	msgChartsLoading = "📊 Генерирую график, подождите..."
)

const msgModes = "Выбери режим похудения:\n\n" +
	"🟢 Лёгкий\n" +
	"Рацион основан на сухой массе тела, без искусственного дефицита.\n" +
	"Ожидаемый результат: –0.2…0.4 кг/нед\n" +
	"📌 Подходит для старта: организм адаптируется без стресса, вес будет снижаться за счёт активности в течение дня.\n\n" +
	"🟠 Средний\n" +
	"Создаём дефицит ~500 ккал от нормы.\n" +
	"Ожидаемый результат: –0.5…0.8 кг/нед\n" +
	"👍 Универсальный режим: сбалансирован между скоростью и устойчивостью.\n\n" +
	"🔴 Экстремальный\n" +
	"Создаём дефицит ~750 ккал от нормы.\n" +
	"Ожидаемый результат: –0.8…1.2 кг/нед\n" +
	"⚠️ Требует дисциплины и контроля самочувствия. Не рекомендуется при высокой нагрузке."

const msgHelp = `📘 *Как пользоваться ботом:*

📸 *1. Фото еды:*
Просто отправь фото с кратким описанием еды.
Пример:
куриная грудка 200г, кабачок 100г, масло оливковое 5г

⚠️ Чем точнее описание (вес, состав), тем точнее подсчёт калорий!
Можно прислать и просто текст с граммовкой, без фото.

⚖️ *2. Вес и шаги:*
Кнопки Track вес и Track шаги, затем выбери сегодня или вчера.
Или командой: /track вес 80.5, /track шаги вчера 9000

📊 *3. Итоги дня:*
Кнопка Summary покажет КБЖУ, шаги, расход и статус (норма или превышение).

🔥 *4. Ккал за активность:*
Нажми Burn и введи число, например 250. Бот учтёт эти калории в итогах дня.

🍎 *5. Любимые блюда:*
После анализа фото можешь сохранить блюдо в избранное и потом добавлять его одним сообщением.

📈 *6. Графики:*
Вес за 30 дней, калории, БЖУ и активность за 7 дней.

🗑️ *7. Удаление записей:*
Ошибся при вводе? Нажми 'Удалить еду' и выбери неверную запись.

⚙️ *8. Режим:*
Смена дефицита калорий: лёгкий, средний или экстремальный.

Бот сам напомнит про шаги и еду и пришлёт итоги дня в 22:30.`

const msgChartsMenu = "📈 *Выберите тип графика:*\n\n" +
	"📉 *График веса* - динамика за 30 дней\n" +
	"🔥 *График калорий* - потребление за 7 дней\n" +
	"🥗 *Баланс БЖУ* - распределение макронутриентов\n" +
	"👣 *Активность* - шаги и сожженные калории\n\n" +
	"_Генерация графика может занять несколько секунд..._"

var weightLossMessages = []string{
	"📉 Отличная работа! Продолжай в том же духе! 💪",
	"📉 Прогресс налицо! Ты на верном пути 🎯",
	"📉 Вау, это успех! Так держать! 🌟",
	"📉 Результат твоих усилий виден! Молодец! ⭐️",
	"📉 Каждый грамм это победа! Ты справляешься! 🏆",
}

var weightGainMessages = []string{
	"📈 Небольшое отклонение - не проблема! Фокусируйся на своей цели 🎯",
	"📈 Помни о своих целях - у тебя все получится! 💫",
	"📈 Прогресс не всегда линейный, продолжай работать! 💪",
	"📈 Завтра новый день - новые возможности! ✨",
	"📈 Не сдавайся, следующее взвешивание будет лучше! 🌟",
}

var modeTitles = map[models.DeficitMode]string{
	models.DeficitLight:   "Лёгкий",
	models.DeficitMedium:  "Средний",
	models.DeficitExtreme: "Экстремальный",
}

func trendEmoji(t service.Trend) string {
	switch t {
	case service.TrendDecrease:
		return "📉"
	case service.TrendIncrease:
		return "📈"
	}
	return "⚖️"
}

func dayWord(yesterday bool) string {
	if yesterday {
		return "вчера"
	}
	return "сегодня"
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// groupThousands: 12345 -> "12,345"
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func shortDate(date string) string {
	d, err := time.Parse(service.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("02.01")
}

// FormatSummary - текст итогов дня, один и тот же для /summary и вечернего отчёта
func FormatSummary(s service.DailySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Итоги за %s:*\n", shortDate(s.Date))

	if s.HasMeals {
		fmt.Fprintf(&b, "Калории: %d/%d ккал (с учетом дневной активности)\n", s.Consumed.Calories, s.DailyBudget)
		fmt.Fprintf(&b, "Белки: %.1f/%d г\n", s.Consumed.ProteinG, s.Targets.ProteinG)
		fmt.Fprintf(&b, "Жиры: %.1f/%d г\n", s.Consumed.FatG, s.Targets.FatG)
		fmt.Fprintf(&b, "Углеводы: %.1f/%d г\n", s.Consumed.CarbsG, s.Targets.CarbsG)
	} else {
		fmt.Fprintf(&b, "Нет записей по еде (дневная норма: %d ккал с учетом активности)\n", s.DailyBudget)
	}

	fmt.Fprintf(&b, "👟 Шаги: %s | 🔥 От шагов: %d ккал\n", groupThousands(s.Steps), s.StepBurnKcal)
	if s.ManualBurnKcal > 0 {
		fmt.Fprintf(&b, "💪 Доп. активность: %d ккал\n", s.ManualBurnKcal)
	}
	fmt.Fprintf(&b, "🔥 Всего сожжено: %d ккал\n", s.TotalBurnKcal)

	if s.WithinBudget() {
		b.WriteString("Баланс: ✅ В пределах нормы")
	} else {
		fmt.Fprintf(&b, "Баланс: ⚠️ Превышено на %d ккал", s.ExceededBy())
	}
	return b.String()
}

func formatAnalysis(a *recognizer.Analysis) string {
	var b strings.Builder
	b.WriteString("🍽️ *Разбор еды:*\n")
	for _, it := range a.Breakdown {
		fmt.Fprintf(&b, "- %s: %.0f ккал, Б: %.1fг, Ж: %.1fг, У: %.1fг\n",
			it.Name, it.Calories, it.Protein, it.Fat, it.Carbs)
	}
	fmt.Fprintf(&b, "\n*Итого:* %.0f ккал\n", a.Total.Calories)
	fmt.Fprintf(&b, "Б: %.1fг | Ж: %.1fг | У: %.1fг\n\n", a.Total.Protein, a.Total.Fat, a.Total.Carbs)

	switch a.Source {
	case recognizer.SourceCaption:
		b.WriteString("_📋 Калории рассчитаны по описанию блюда._")
	case recognizer.SourcePhoto:
		b.WriteString("_📷 Калории рассчитаны по фото, могут быть неточности._")
	case recognizer.SourceCaptionFallback:
		b.WriteString("_⚠️ Фото не удалось распознать. Калории рассчитаны по описанию._")
	}
	return b.String()
}

func formatMealLine(calories int, p, f, c float64) string {
	return fmt.Sprintf("%d ккал, Б: %.1fг, Ж: %.1fг, У: %.1fг", calories, p, f, c)
}

func formatFavorites(favs []models.FavoriteMeal) string {
	var b strings.Builder
	b.WriteString("🍎 *Ваши любимые блюда:*\n\n")
	for i, fav := range favs {
		usage := "(новое)"
		if fav.UsageCount > 0 {
			usage = fmt.Sprintf("(использовано %d раз)", fav.UsageCount)
		}
		fmt.Fprintf(&b, "*%d.* %s %s\n    %s\n\n", i+1, fav.Name, usage,
			formatMealLine(fav.Calories, fav.ProteinG, fav.FatG, fav.CarbsG))
	}
	b.WriteString("Введите номер блюда (1, 2, 3...) чтобы добавить его в дневник:")
	return b.String()
}

func formatMealsForDelete(meals []models.MealEntry, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("🗑️ *Выбери прием пищи для удаления:*\n\n")
	for i, meal := range meals {
		fmt.Fprintf(&b, "*%d.* (%s) %s\n    %s\n\n", i+1, meal.CreatedAt.In(loc).Format("15:04"), meal.Description,
			formatMealLine(meal.Calories, meal.ProteinG, meal.FatG, meal.CarbsG))
	}
	b.WriteString("Напиши номер приема пищи (1, 2, 3...) или 'отмена' для выхода:")
	return b.String()
}

func formatDeleteConfirm(meal *models.MealEntry) string {
	return fmt.Sprintf("🗑️ *Удалить этот прием пищи?*\n\n📝 %s\n🔥 %d ккал\nБ: %.1fг, Ж: %.1fг, У: %.1fг\n\n⚠️ Это действие нельзя отменить!",
		meal.Description, meal.Calories, meal.ProteinG, meal.FatG, meal.CarbsG)
}

func formatModeChange(c service.ModeChange) string {
	return fmt.Sprintf("✅ Режим изменён на «%s»\nНовая норма калорий: %d ккал (%+d)\n(было %d ккал дефицита, стало %d ккал)",
		modeTitles[c.NewMode], c.NewTargets.Calories, c.CalorieDelta(), c.OldDeficitKcal, c.NewDeficitKcal)
}
