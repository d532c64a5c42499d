// Package notify - граница между логикой бота и транспортом сообщений.
package notify

import (
	"context"
	"sync"
)

// Keyboard - какую клавиатуру показать вместе с сообщением
type Keyboard int

const (
	KeyboardKeep Keyboard = iota // не трогать текущую
	KeyboardRemove
	KeyboardMain
	KeyboardGender
	KeyboardDeficit
	KeyboardConfirmHelp
	KeyboardDayChoice
	KeyboardDeleteConfirm
	KeyboardSaveFavorite
	KeyboardBack
	KeyboardCharts
)

// Message - текст или фото для пользователя
type Message struct {
	Text      string
	Markdown  bool
	Keyboard  Keyboard
	PhotoPath string // локальный файл
	PhotoURL  string
}

// Notifier доставляет сообщения пользователю
type Notifier interface {
	Send(ctx context.Context, userID int64, msg Message) error
}

// Recorder - Notifier в памяти, для тестов и dry-run
type Recorder struct {
	mu   sync.Mutex
	Sent []Sent
}

type Sent struct {
	UserID  int64
	Message Message
}

func (r *Recorder) Send(_ context.Context, userID int64, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, Sent{UserID: userID, Message: msg})
	return nil
}

// Last - последнее сообщение пользователю
func (r *Recorder) Last(userID int64) (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.Sent) - 1; i >= 0; i-- {
		if r.Sent[i].UserID == userID {
			return r.Sent[i].Message, true
		}
	}
	return Message{}, false
}

// Texts - все тексты пользователю по порядку
func (r *Recorder) Texts(userID int64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.Sent {
		if s.UserID == userID {
			out = append(out, s.Message.Text)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = nil
}
