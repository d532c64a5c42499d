package flow

// buildTable - переходы состояние x команда. Всё, чего нет в таблице,
// уходит в обработчик состояния по умолчанию
func (m *Machine) buildTable() {
	m.table = map[State]map[Kind]handler{
		StateIdle: {
			KindHelp:        (*turn).help,
			KindSummary:     (*turn).summaryToday,
			KindKeyboard:    (*turn).keyboard,
			KindTrack:       (*turn).track,
			KindTrackWeight: (*turn).weightMenu,
			KindTrackSteps:  (*turn).stepsMenu,
			KindBurn:        (*turn).burnPrompt,
			KindFavorites:   (*turn).showFavorites,
			KindCharts:      (*turn).chartsMenu,
			KindDeleteMeal:  (*turn).showDeleteMenu,
			KindChangeMode:  (*turn).changeModePrompt,
			KindPhoto:       (*turn).photo,
		},

		StateAskWeight:      {KindText: (*turn).askWeight, KindCancel: (*turn).cancelOnboarding},
		StateAskHeight:      {KindText: (*turn).askHeight, KindCancel: (*turn).cancelOnboarding},
		StateAskGender:      {KindMale: (*turn).askGender, KindFemale: (*turn).askGender, KindCancel: (*turn).cancelOnboarding},
		StateAskFat:         {KindText: (*turn).askFat, KindCancel: (*turn).cancelOnboarding},
		StateAskDeficitMode: modeKinds((*turn).askDeficitMode, (*turn).cancelOnboarding),
		StateConfirmHelp:    {KindGotIt: (*turn).confirmHelp},

		StateWeightMenu: {
			KindToday:     (*turn).weightToday,
			KindYesterday: (*turn).weightYesterday,
			KindBack:      (*turn).back,
		},
		StateInputWeightToday:     {KindText: (*turn).inputWeight, KindBack: (*turn).back},
		StateInputWeightYesterday: {KindText: (*turn).inputWeight, KindBack: (*turn).back},
		StateStepsMenu: {
			KindToday:     (*turn).stepsToday,
			KindYesterday: (*turn).stepsYesterday,
			KindBack:      (*turn).back,
		},
		StateInputStepsToday:     {KindText: (*turn).inputSteps, KindBack: (*turn).back},
		StateInputStepsYesterday: {KindText: (*turn).inputSteps, KindBack: (*turn).back},
		StateInputBurn:           {KindText: (*turn).inputBurn, KindBack: (*turn).back, KindCancel: (*turn).back},

		StateSaveFavoriteMenu: {
			KindSaveFavorite: (*turn).saveFavoritePrompt,
			KindSkipFavorite: (*turn).skipFavorite,
		},
		StateSaveFavoriteName: {
			KindText:         (*turn).saveFavoriteName,
			KindSkipFavorite: (*turn).skipFavorite,
			KindCancel:       (*turn).skipFavorite,
		},
		StateFavoriteMealsMenu: {KindText: (*turn).useFavorite, KindBack: (*turn).back},

		StateDeleteMenu: {
			KindText:   (*turn).selectMealToDelete,
			KindCancel: (*turn).cancelDelete,
			KindBack:   (*turn).cancelDelete,
		},
		StateDeleteConfirm: {
			KindConfirm: (*turn).confirmDelete,
			KindCancel:  (*turn).cancelDelete,
		},

		StateChangeDeficitMode: modeKinds((*turn).changeMode, (*turn).back),

		StateChartsMenu: {
			KindChartWeight:   (*turn).renderChart,
			KindChartCalories: (*turn).renderChart,
			KindChartMacros:   (*turn).renderChart,
			KindChartActivity: (*turn).renderChart,
			KindBack:          (*turn).back,
		},
	}

	m.defaults = map[State]handler{
		StateIdle: (*turn).idleText,

		StateAskWeight:      rePrompt(msgNumberWeight),
		StateAskHeight:      rePrompt(msgNumberHeight),
		StateAskGender:      rePrompt(msgReGender),
		StateAskFat:         rePrompt(msgNumberFat),
		StateAskDeficitMode: rePrompt(msgReMode),
		StateConfirmHelp:    rePrompt(msgReGotIt),

		StateWeightMenu:           rePrompt(msgUseButtons),
		StateStepsMenu:            rePrompt(msgUseButtons),
		StateInputWeightToday:     rePrompt(msgNumberWeight),
		StateInputWeightYesterday: rePrompt(msgNumberWeight),
		StateInputStepsToday:      rePrompt(msgNumberSteps),
		StateInputStepsYesterday:  rePrompt(msgNumberSteps),
		StateInputBurn:            rePrompt(msgNumberBurn),

		StateSaveFavoriteMenu:  rePrompt(msgOfferFavorite),
		StateSaveFavoriteName:  rePrompt(msgAskFavName),
		StateFavoriteMealsMenu: rePrompt(msgFavNumber),
		StateDeleteMenu:        rePrompt(msgDeleteNumber),
		StateDeleteConfirm:     rePrompt(msgDeleteChoose),
		StateChangeDeficitMode: rePrompt(msgReMode),
		StateChartsMenu:        rePrompt(msgUseButtons),
	}
}

func modeKinds(choose, cancel handler) map[Kind]handler {
	return map[Kind]handler{
		KindModeLight:   choose,
		KindModeMedium:  choose,
		KindModeExtreme: choose,
		KindBack:        cancel,
		KindCancel:      cancel,
	}
}
