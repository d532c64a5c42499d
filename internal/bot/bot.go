// Package bot - транспорт Telegram: long polling, разбор сообщений и отправка ответов.
package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/flow"
)

const (
	pollTimeout   = 60
	maxPhotoBytes = 20 << 20
)

// Handler - автомат диалога
type Handler interface {
	Handle(ctx context.Context, userID int64, in flow.Input) flow.Result
}

// BotApp - long polling Telegram поверх автомата
type BotApp struct {
	API *tgbotapi.BotAPI

	handler  Handler
	notifier *Notifier
	logger   *zap.Logger
	http     *http.Client

	wg sync.WaitGroup
}

// NewAPI подключается к Telegram
func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}
	return api, nil
}

func NewBotApp(api *tgbotapi.BotAPI, handler Handler, notifier *Notifier, logger *zap.Logger) *BotApp {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BotApp{
		API:      api,
		handler:  handler,
		notifier: notifier,
		logger:   logger.Named("bot"),
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Run читает обновления до отмены ctx и ждёт незавершённые обработки
func (b *BotApp) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.API.GetUpdatesChan(u)
	b.logger.Info("🤖 Bot started", zap.String("username", b.API.Self.UserName))

	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.API.StopReceivingUpdates()
			b.logger.Info("bot stopping")
			return nil
		case update, ok := <-updates:
			if !ok {
				return errors.New("updates channel closed")
			}
			upd, ok := Decode(update.Message)
			if !ok {
				continue
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.process(ctx, upd)
			}()
		}
	}
}

func (b *BotApp) process(ctx context.Context, upd Update) {
	log := b.logger.With(zap.Int64("user_id", upd.UserID), zap.Stringer("kind", upd.Input.Kind))

	if upd.PhotoFileID != "" {
		data, err := b.downloadPhoto(ctx, upd.PhotoFileID)
		if err != nil {
			log.Error("photo download failed", zap.Error(err))
		}
		// пустое фото автомат примет как нераспознанное
		upd.Input.Photo = data
	}

	res := b.handler.Handle(ctx, upd.UserID, upd.Input)
	log.Debug("update handled", zap.String("state", string(res.State)), zap.Stringer("failure", res.Failure))
}

func (b *BotApp) downloadPhoto(ctx context.Context, fileID string) ([]byte, error) {
	url, err := b.API.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download photo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download photo: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
}
