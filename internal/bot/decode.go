package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/flow"
)

var commandKinds = map[string]flow.Kind{
	"start":    flow.KindStart,
	"help":     flow.KindHelp,
	"summary":  flow.KindSummary,
	"keyboard": flow.KindKeyboard,
	"track":    flow.KindTrack,
}

// Update - разобранное сообщение. Фото ещё не скачано: PhotoFileID
type Update struct {
	UserID      int64
	Input       flow.Input
	PhotoFileID string
}

// Decode переводит сообщение Telegram в команду автомата.
// ok=false - сообщение боту не интересно (стикер, сервисное и т.п.)
func Decode(msg *tgbotapi.Message) (Update, bool) {
	if msg == nil || msg.From == nil {
		return Update{}, false
	}
	u := Update{UserID: msg.From.ID}

	if len(msg.Photo) > 0 {
		// последний размер - самый крупный
		u.PhotoFileID = msg.Photo[len(msg.Photo)-1].FileID
		u.Input = flow.Input{Kind: flow.KindPhoto, Caption: strings.TrimSpace(msg.Caption)}
		return u, true
	}

	if msg.IsCommand() {
		kind, ok := commandKinds[strings.ToLower(msg.Command())]
		if !ok {
			u.Input = flow.Input{Kind: flow.KindText, Text: msg.Text}
			return u, true
		}
		u.Input = flow.Input{Kind: kind, Text: strings.TrimSpace(msg.CommandArguments())}
		return u, true
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return Update{}, false
	}
	u.Input = decodeText(text)
	return u, true
}

func decodeText(text string) flow.Input {
	if kind, ok := labelKinds[text]; ok {
		return flow.Input{Kind: kind, Text: text}
	}
	switch strings.ToLower(text) {
	case "итоги":
		return flow.Input{Kind: flow.KindSummary, Text: text}
	case "отмена":
		return flow.Input{Kind: flow.KindCancel, Text: text}
	}
	return flow.Input{Kind: flow.KindText, Text: text}
}
