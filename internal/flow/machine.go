package flow

import (
	"context"
	"math/rand/v2"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/charts"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/recognizer"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/session"
)

const (
	defaultStoreTimeout     = 5 * time.Second
	defaultRecognizeTimeout = 45 * time.Second
	defaultRenderTimeout    = 30 * time.Second
)

// Registrar ставит ежедневные напоминания пользователю. Повторный вызов ничего не меняет
type Registrar interface {
	Register(ctx context.Context, userID int64) error
}

// Deps - зависимости автомата
type Deps struct {
	Profiles *service.ProfileService
	Tracking *service.TrackingService
	Meals    *service.MealService
	Summary  *service.SummaryService
	Clock    service.Clock

	Recognizer recognizer.Recognizer
	Charts     charts.Renderer // nil - графики недоступны
	Reminders  Registrar
	Images     Images
	Sessions   session.Store
	Notifier   notify.Notifier
	Logger     *zap.Logger

	StoreTimeout     time.Duration
	RecognizeTimeout time.Duration
	RenderTimeout    time.Duration

	// Pick выбирает случайный индекс в [0, n), подменяется в тестах
	Pick func(n int) int
}

// Images - ссылки на картинки для анкеты. Пусто - вместо картинки текст
type Images struct {
	BodyFatMale   string
	BodyFatFemale string
	MealExample   string
}

func (i Images) bodyFat(g models.Gender) string {
	if g == models.GenderFemale {
		return i.BodyFatFemale
	}
	return i.BodyFatMale
}

type handler func(t *turn) (State, Failure)

// Machine обрабатывает сообщения пользователей. Сообщения одного
// пользователя обрабатываются строго по очереди
type Machine struct {
	deps     Deps
	log      *zap.Logger
	locks    *userLocks
	table    map[State]map[Kind]handler
	defaults map[State]handler
}

func New(deps Deps) *Machine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.StoreTimeout <= 0 {
		deps.StoreTimeout = defaultStoreTimeout
	}
	if deps.RecognizeTimeout <= 0 {
		deps.RecognizeTimeout = defaultRecognizeTimeout
	}
	if deps.RenderTimeout <= 0 {
		deps.RenderTimeout = defaultRenderTimeout
	}
	if deps.Pick == nil {
		deps.Pick = rand.IntN
	}

	m := &Machine{
		deps:  deps,
		log:   deps.Logger.Named("flow"),
		locks: newUserLocks(),
	}
	m.buildTable()
	return m
}

// Handle обрабатывает одно сообщение. Паника внутри обработчика не роняет
// процесс: пользователь получает извинение, сессия остаётся как была
func (m *Machine) Handle(ctx context.Context, userID int64, in Input) (res Result) {
	unlock := m.locks.lock(userID)
	defer unlock()

	current := StateIdle
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("panic while handling message",
				zap.Int64("user_id", userID),
				zap.Stringer("kind", in.Kind),
				zap.String("state", string(current)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			m.send(ctx, userID, notify.Message{Text: msgApology})
			res = Result{State: current, Failure: FailureInternal}
		}
	}()

	sctx, cancel := context.WithTimeout(ctx, m.deps.StoreTimeout)
	sess, err := m.deps.Sessions.Get(sctx, userID)
	cancel()
	if err != nil {
		m.log.Error("failed to load session", zap.Int64("user_id", userID), zap.Error(err))
		m.send(ctx, userID, notify.Message{Text: msgGenericError})
		return Result{State: current, Failure: FailureCollaborator}
	}
	if sess.State != "" {
		current = State(sess.State)
	}

	t := &turn{m: m, parent: ctx, userID: userID, sess: sess, in: in, state: current}
	next, failure := m.lookup(current, in.Kind)(t)

	m.log.Debug("message handled",
		zap.Int64("user_id", userID),
		zap.Stringer("kind", in.Kind),
		zap.String("from", string(current)),
		zap.String("to", string(next)),
		zap.Stringer("failure", failure),
	)

	if err := m.persist(ctx, sess, next); err != nil {
		m.log.Error("failed to save session", zap.Int64("user_id", userID), zap.Error(err))
		return Result{State: current, Failure: FailureCollaborator}
	}
	return Result{State: next, Failure: failure}
}

func (m *Machine) lookup(state State, kind Kind) handler {
	// /start сбрасывает диалог из любого состояния
	if kind == KindStart {
		return (*turn).start
	}
	if h, ok := m.table[state][kind]; ok {
		return h
	}
	if h, ok := m.defaults[state]; ok {
		return h
	}
	return (*turn).unknownState
}

// persist: Idle - сессия удаляется, иначе сохраняется с новым состоянием
func (m *Machine) persist(ctx context.Context, sess *session.Session, next State) error {
	ctx, cancel := context.WithTimeout(ctx, m.deps.StoreTimeout)
	defer cancel()

	if next == StateIdle {
		return m.deps.Sessions.Delete(ctx, sess.UserID)
	}
	sess.State = string(next)
	return m.deps.Sessions.Save(ctx, sess)
}

func (m *Machine) send(ctx context.Context, userID int64, msg notify.Message) {
	if err := m.deps.Notifier.Send(ctx, userID, msg); err != nil {
		m.log.Warn("failed to send message", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// turn - контекст обработки одного сообщения
type turn struct {
	m      *Machine
	parent context.Context
	userID int64
	sess   *session.Session
	in     Input
	state  State
}

// store - контекст с таймаутом для одного обращения к хранилищу
func (t *turn) store() (context.Context, context.CancelFunc) {
	return context.WithTimeout(t.parent, t.m.deps.StoreTimeout)
}

func (t *turn) send(msg notify.Message) {
	t.m.send(t.parent, t.userID, msg)
}

// sendPhoto отправляет картинку по ссылке. false - ссылки нет или отправка не удалась
func (t *turn) sendPhoto(url, caption string, kb notify.Keyboard) bool {
	if url == "" {
		return false
	}
	err := t.m.deps.Notifier.Send(t.parent, t.userID, notify.Message{PhotoURL: url, Text: caption, Keyboard: kb})
	if err != nil {
		t.m.log.Warn("failed to send image", zap.Int64("user_id", t.userID), zap.String("url", url), zap.Error(err))
		return false
	}
	return true
}

func (t *turn) reply(text string, kb notify.Keyboard) {
	t.send(notify.Message{Text: text, Keyboard: kb})
}

func (t *turn) replyMarkdown(text string, kb notify.Keyboard) {
	t.send(notify.Message{Text: text, Markdown: true, Keyboard: kb})
}

// stay - повторить подсказку и остаться в текущем состоянии
func (t *turn) stay(text string, kb notify.Keyboard) (State, Failure) {
	t.reply(text, kb)
	return t.state, FailureValidation
}

// fail - ошибка внешней зависимости
func (t *turn) fail(op string, err error, next State) (State, Failure) {
	t.m.log.Error("operation failed",
		zap.Int64("user_id", t.userID),
		zap.String("op", op),
		zap.String("state", string(t.state)),
		zap.Error(err),
	)
	t.reply(msgGenericError, keyboardFor(next))
	return next, FailureCollaborator
}

func rePrompt(text string) handler {
	return func(t *turn) (State, Failure) {
		return t.stay(text, keyboardFor(t.state))
	}
}

func (t *turn) toIdle(text string) (State, Failure) {
	t.reply(text, notify.KeyboardMain)
	return StateIdle, FailureNone
}

func (t *turn) pick(pool []string) string {
	return pool[t.m.deps.Pick(len(pool))]
}

func (t *turn) unknownState() (State, Failure) {
	t.m.log.Warn("unknown session state, resetting", zap.Int64("user_id", t.userID), zap.String("state", string(t.state)))
	return t.toIdle(msgChooseAction)
}

// keyboardFor - клавиатура, которую надо показать после ошибки в состоянии
func keyboardFor(s State) notify.Keyboard {
	switch s {
	case StateIdle:
		return notify.KeyboardMain
	case StateAskGender:
		return notify.KeyboardGender
	case StateAskDeficitMode, StateChangeDeficitMode:
		return notify.KeyboardDeficit
	case StateWeightMenu, StateStepsMenu:
		return notify.KeyboardDayChoice
	case StateConfirmHelp:
		return notify.KeyboardConfirmHelp
	case StateSaveFavoriteMenu:
		return notify.KeyboardSaveFavorite
	case StateFavoriteMealsMenu:
		return notify.KeyboardBack
	case StateDeleteConfirm:
		return notify.KeyboardDeleteConfirm
	case StateChartsMenu:
		return notify.KeyboardCharts
	}
	return notify.KeyboardKeep
}
