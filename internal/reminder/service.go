// Package reminder - ежедневные напоминания пользователям по местному времени.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/flow"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
)

const defaultJobTimeout = 30 * time.Second

type Deps struct {
	Profiles *service.ProfileService
	Tracking *service.TrackingService
	Meals    *service.MealService
	Summary  *service.SummaryService
	Clock    service.Clock
	Notifier notify.Notifier
	Logger   *zap.Logger

	// JobTimeout ограничивает одно срабатывание
	JobTimeout time.Duration
	Pick       func(n int) int
}

// Service держит cron с пятью задачами на каждого пользователя
type Service struct {
	deps Deps
	log  *zap.Logger
	cron *cron.Cron

	mu      sync.Mutex
	entries map[int64][]cron.EntryID
}

func New(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.JobTimeout <= 0 {
		deps.JobTimeout = defaultJobTimeout
	}
	if deps.Pick == nil {
		deps.Pick = rand.IntN
	}
	log := deps.Logger.Named("reminder")
	cl := cronLogger{log.Sugar()}

	return &Service{
		deps: deps,
		log:  log,
		cron: cron.New(
			cron.WithLocation(deps.Clock.Location()),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		entries: make(map[int64][]cron.EntryID),
	}
}

// Register ставит пользователю пять напоминаний. Повторный вызов ничего не делает
func (s *Service) Register(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[userID]; ok {
		return nil
	}

	ids := make([]cron.EntryID, 0, len(Jobs))
	for _, job := range Jobs {
		kind := job.Kind
		id, err := s.cron.AddFunc(job.Spec(), func() { s.run(userID, kind) })
		if err != nil {
			for _, added := range ids {
				s.cron.Remove(added)
			}
			return fmt.Errorf("schedule %s for %d: %w", kind, userID, err)
		}
		ids = append(ids, id)
	}
	s.entries[userID] = ids
	s.log.Debug("reminders registered", zap.Int64("user_id", userID))
	return nil
}

// RegisterAll ставит напоминания всем, у кого есть анкета
func (s *Service) RegisterAll(ctx context.Context) (int, error) {
	ids, err := s.deps.Profiles.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}
	var errs []error
	for _, id := range ids {
		if err := s.Register(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	return len(ids), errors.Join(errs...)
}

// Unregister снимает все напоминания пользователя
func (s *Service) Unregister(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, ok := s.entries[userID]
	if !ok {
		return false
	}
	for _, id := range ids {
		s.cron.Remove(id)
	}
	delete(s.entries, userID)
	s.log.Debug("reminders unregistered", zap.Int64("user_id", userID))
	return true
}

func (s *Service) Registered(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[userID]
	return ok
}

// Users - сколько пользователей с напоминаниями
func (s *Service) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Service) Start() {
	s.cron.Start()
	s.log.Info("reminder scheduler started", zap.Int("users", s.Users()))
}

// Stop останавливает cron и ждёт выполняющиеся задачи
func (s *Service) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.log.Info("reminder scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) run(userID int64, kind Kind) {
	ctx, cancel := context.WithTimeout(context.Background(), s.deps.JobTimeout)
	defer cancel()

	sent, err := s.Fire(ctx, userID, kind)
	if err != nil {
		// без повторов: следующее срабатывание завтра
		s.log.Error("reminder failed", zap.Int64("user_id", userID), zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	s.log.Debug("reminder done", zap.Int64("user_id", userID), zap.String("kind", string(kind)), zap.Bool("sent", sent))
}

// Fire выполняет одно напоминание сейчас. sent=false - напоминание погашено
func (s *Service) Fire(ctx context.Context, userID int64, kind Kind) (sent bool, err error) {
	job, ok := jobFor(kind)
	if !ok {
		return false, fmt.Errorf("unknown reminder kind %q", kind)
	}

	var msg notify.Message
	switch job.Kind {
	case KindSummary:
		summary, err := s.deps.Summary.Daily(ctx, userID, s.deps.Clock.Today())
		if err != nil {
			return false, err
		}
		msg = notify.Message{Text: flow.FormatSummary(summary), Markdown: true}

	case KindSteps:
		done, err := s.deps.Tracking.StepsExist(ctx, userID, s.deps.Clock.Yesterday())
		if err != nil {
			return false, fmt.Errorf("check steps: %w", err)
		}
		if done {
			return false, nil
		}
		msg = notify.Message{Text: s.pick(pools[job.Kind])}

	default:
		eaten, err := s.deps.Meals.HasMealsInHours(ctx, userID, s.deps.Clock.Today(), job.FromHour, job.ToHour)
		if err != nil {
			return false, fmt.Errorf("check meals: %w", err)
		}
		if eaten {
			return false, nil
		}
		msg = notify.Message{Text: s.pick(pools[job.Kind])}
	}

	if err := s.deps.Notifier.Send(ctx, userID, msg); err != nil {
		return false, fmt.Errorf("send %s: %w", kind, err)
	}
	return true, nil
}

func (s *Service) pick(pool []string) string {
	return pool[s.deps.Pick(len(pool))]
}

// cronLogger пишет события cron в zap
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
