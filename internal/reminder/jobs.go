package reminder

import "fmt"

// Kind - вид ежедневного напоминания
type Kind string

const (
	KindSteps         Kind = "steps"
	KindMorningMeal   Kind = "morning_meal"
	KindAfternoonMeal Kind = "afternoon_meal"
	KindEveningMeal   Kind = "evening_meal"
	KindSummary       Kind = "summary"
)

// Job - время срабатывания по местному времени и окно часов,
// в которое приём пищи гасит напоминание
type Job struct {
	Kind     Kind
	Hour     int
	Minute   int
	FromHour int
	ToHour   int
}

// Spec - расписание в формате cron
func (j Job) Spec() string {
	return fmt.Sprintf("%d %d * * *", j.Minute, j.Hour)
}

// Jobs - пять напоминаний каждого пользователя
var Jobs = []Job{
	{Kind: KindSteps, Hour: 9},
	{Kind: KindMorningMeal, Hour: 11, FromHour: 0, ToHour: 10},
	{Kind: KindAfternoonMeal, Hour: 16, FromHour: 11, ToHour: 15},
	{Kind: KindEveningMeal, Hour: 22, FromHour: 16, ToHour: 22},
	{Kind: KindSummary, Hour: 22, Minute: 30},
}

func jobFor(kind Kind) (Job, bool) {
	for _, j := range Jobs {
		if j.Kind == kind {
			return j, true
		}
	}
	return Job{}, false
}

var stepsReminders = []string{
	"👣 Доброе утро! Не забудь внести шаги за вчера: Track шаги → Вчера",
	"👟 Сколько шагов было вчера? Внеси их, чтобы итоги были точными",
	"☀️ Новый день! Но сначала вчерашние шаги: Track шаги → Вчера",
}

var morningMealReminders = []string{
	"🍳 Завтрак уже был? Сфотографируй тарелку и подпиши граммовку",
	"☕️ Не забудь записать завтрак, даже если это был только кофе",
	"🥣 Утро без записей о еде. Пришли фото завтрака 📸",
}

var afternoonMealReminders = []string{
	"🍲 Время обеда! Не забудь отправить фото с описанием",
	"🥗 Обед записан? Пришли фото, я посчитаю калории",
	"🍛 После обеда легко забыть. Отправь фото, пока помнишь",
}

var eveningMealReminders = []string{
	"🍽️ Ужин уже был? Запиши его, чтобы итоги дня были точными",
	"🌙 Вечером ещё не было записей о еде. Пришли фото ужина",
	"🥘 Не забудь про ужин в дневнике 📸",
}

var pools = map[Kind][]string{
	KindSteps:         stepsReminders,
	KindMorningMeal:   morningMealReminders,
	KindAfternoonMeal: afternoonMealReminders,
	KindEveningMeal:   eveningMealReminders,
}
