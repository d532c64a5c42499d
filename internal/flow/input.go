// Package flow - диалоговый конечный автомат бота: анкета, ввод веса, шагов
// и активности, учёт еды, избранное, удаление записей и смена режима.
package flow

// State - шаг диалога, хранится в сессии
type State string

const (
	StateIdle State = "idle"

	StateAskWeight      State = "ask_weight"
	StateAskHeight      State = "ask_height"
	StateAskGender      State = "ask_gender"
	StateAskFat         State = "ask_fat"
	StateAskDeficitMode State = "ask_deficit_mode"
	StateConfirmHelp    State = "confirm_help"

	StateWeightMenu           State = "weight_menu"
	StateInputWeightToday     State = "input_weight_today"
	StateInputWeightYesterday State = "input_weight_yesterday"
	StateStepsMenu            State = "steps_menu"
	StateInputStepsToday      State = "input_steps_today"
	StateInputStepsYesterday  State = "input_steps_yesterday"
	StateInputBurn            State = "input_burn"

	StateSaveFavoriteMenu  State = "save_favorite_menu"
	StateSaveFavoriteName  State = "save_favorite_name"
	StateFavoriteMealsMenu State = "favorite_meals_menu"
	StateDeleteMenu        State = "delete_menu"
	StateDeleteConfirm     State = "delete_confirm"
	StateChangeDeficitMode State = "change_deficit_mode"
	StateChartsMenu        State = "charts_menu"
)

// Kind - команда, в которую транспорт переводит входящее сообщение
type Kind int

const (
	KindText Kind = iota
	KindPhoto

	KindStart
	KindHelp
	KindSummary
	KindKeyboard
	KindTrack

	KindTrackWeight
	KindTrackSteps
	KindBurn
	KindFavorites
	KindCharts
	KindDeleteMeal
	KindChangeMode

	KindToday
	KindYesterday
	KindBack
	KindCancel
	KindConfirm
	KindGotIt
	KindSaveFavorite
	KindSkipFavorite

	KindMale
	KindFemale
	KindModeLight
	KindModeMedium
	KindModeExtreme

	KindChartWeight
	KindChartCalories
	KindChartMacros
	KindChartActivity
)

var kindNames = map[Kind]string{
	KindText: "text", KindPhoto: "photo",
	KindStart: "start", KindHelp: "help", KindSummary: "summary", KindKeyboard: "keyboard", KindTrack: "track",
	KindTrackWeight: "track_weight", KindTrackSteps: "track_steps", KindBurn: "burn",
	KindFavorites: "favorites", KindCharts: "charts", KindDeleteMeal: "delete_meal", KindChangeMode: "change_mode",
	KindToday: "today", KindYesterday: "yesterday", KindBack: "back", KindCancel: "cancel",
	KindConfirm: "confirm", KindGotIt: "got_it", KindSaveFavorite: "save_favorite", KindSkipFavorite: "skip_favorite",
	KindMale: "male", KindFemale: "female",
	KindModeLight: "mode_light", KindModeMedium: "mode_medium", KindModeExtreme: "mode_extreme",
	KindChartWeight: "chart_weight", KindChartCalories: "chart_calories",
	KindChartMacros: "chart_macros", KindChartActivity: "chart_activity",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Input - разобранное сообщение пользователя.
// Text - текст сообщения или аргументы команды, Photo и Caption - для фото еды
type Input struct {
	Kind    Kind
	Text    string
	Photo   []byte
	Caption string
}

// Failure - категория неуспеха обработки сообщения
type Failure int

const (
	FailureNone Failure = iota
	FailureValidation
	FailureConflict
	FailureCollaborator
	FailureInternal
)

func (f Failure) String() string {
	switch f {
	case FailureValidation:
		return "validation"
	case FailureConflict:
		return "conflict"
	case FailureCollaborator:
		return "collaborator"
	case FailureInternal:
		return "internal"
	}
	return "none"
}

// Result - состояние после обработки и категория неуспеха
type Result struct {
	State   State
	Failure Failure
}
