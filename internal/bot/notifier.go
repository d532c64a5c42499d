package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
)

// Sender - часть tgbotapi.BotAPI, которой хватает для отправки
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier отправляет notify.Message в личный чат пользователя
type Notifier struct {
	api    Sender
	logger *zap.Logger
}

func NewNotifier(api Sender, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{api: api, logger: logger.Named("notifier")}
}

func (n *Notifier) Send(ctx context.Context, userID int64, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := n.api.Send(build(userID, msg, msg.Markdown))
	if err == nil {
		return nil
	}
	if !msg.Markdown {
		return fmt.Errorf("send to %d: %w", userID, err)
	}

	// Markdown не разобрался - отправляем как есть
	n.logger.Warn("markdown rejected, retrying as plain text", zap.Int64("user_id", userID), zap.Error(err))
	if _, err := n.api.Send(build(userID, msg, false)); err != nil {
		return fmt.Errorf("send to %d: %w", userID, err)
	}
	return nil
}

func build(chatID int64, msg notify.Message, markdown bool) tgbotapi.Chattable {
	parseMode := ""
	if markdown {
		parseMode = tgbotapi.ModeMarkdown
	}
	replyMarkup := markup(msg.Keyboard)

	var file tgbotapi.RequestFileData
	switch {
	case msg.PhotoPath != "":
		file = tgbotapi.FilePath(msg.PhotoPath)
	case msg.PhotoURL != "":
		file = tgbotapi.FileURL(msg.PhotoURL)
	}
	if file != nil {
		photo := tgbotapi.NewPhoto(chatID, file)
		photo.Caption = msg.Text
		photo.ParseMode = parseMode
		if replyMarkup != nil {
			photo.ReplyMarkup = replyMarkup
		}
		return photo
	}

	m := tgbotapi.NewMessage(chatID, msg.Text)
	m.ParseMode = parseMode
	if replyMarkup != nil {
		m.ReplyMarkup = replyMarkup
	}
	return m
}
