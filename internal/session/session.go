// Package session хранит состояние диалога пользователя между сообщениями.
package session

import (
	"context"
	"encoding/json"
	"time"
)

// PendingProfile - ответы анкеты до сохранения профиля
type PendingProfile struct {
	WeightKg       float64 `json:"weight_kg,omitempty"`
	HeightCm       int     `json:"height_cm,omitempty"`
	BodyFatPercent float64 `json:"body_fat_percent,omitempty"`
	Gender         string  `json:"gender,omitempty"`
}

// PendingMeal - распознанное блюдо, которое можно сохранить в избранное
type PendingMeal struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Calories    int     `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	FatG        float64 `json:"fat_g"`
	CarbsG      float64 `json:"carbs_g"`
}

// Session - текущий шаг диалога и временные данные
type Session struct {
	UserID     int64          `json:"user_id"`
	State      string         `json:"state"`
	Profile    PendingProfile `json:"profile"`
	Meal       *PendingMeal   `json:"meal,omitempty"`
	Choices    map[int]uint   `json:"choices,omitempty"` // номер в списке -> id записи
	SelectedID uint           `json:"selected_id,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// New - пустая сессия в начальном состоянии
func New(userID int64) *Session {
	return &Session{UserID: userID}
}

// Reset очищает временные данные и переводит в state
func (s *Session) Reset(state string) {
	s.State = state
	s.Profile = PendingProfile{}
	s.Meal = nil
	s.Choices = nil
	s.SelectedID = 0
}

// Store - хранилище сессий с вытеснением по неактивности
type Store interface {
	// Get возвращает сохранённую сессию или New(userID)
	Get(ctx context.Context, userID int64) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, userID int64) error
}

func encode(s *Session) ([]byte, error) { return json.Marshal(s) }

func decode(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
