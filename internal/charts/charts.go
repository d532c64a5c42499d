// Package charts описывает построение графиков по истории пользователя.
// Сама отрисовка подключается снаружи.
package charts

import "context"

type Kind string

const (
	KindWeight   Kind = "weight"
	KindCalories Kind = "calories"
	KindMacros   Kind = "macros"
	KindActivity Kind = "activity"
)

// Days - за сколько дней строится график
func (k Kind) Days() int {
	if k == KindWeight {
		return 30
	}
	return 7
}

// Renderer строит картинку и возвращает путь к файлу.
// ok=false - данных недостаточно
type Renderer interface {
	Render(ctx context.Context, kind Kind, userID int64, days int) (path string, ok bool, err error)
}
