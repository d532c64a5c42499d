package flow

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/charts"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/database"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/notify"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/recognizer"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/repository"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/session"
)

const testUser int64 = 4242

var vilnius = mustLocation("Europe/Vilnius")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type fakeRecognizer struct {
	analysis    recognizer.Analysis
	description string
	describeErr error
	err         error
	panics      bool
}

func (f *fakeRecognizer) AnalyzeText(_ context.Context, description string) (*recognizer.Analysis, error) {
	if f.panics {
		panic("recognizer exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	a := f.analysis
	return &a, nil
}

func (f *fakeRecognizer) DescribeImage(context.Context, []byte) (string, error) {
	if f.describeErr != nil {
		return "", f.describeErr
	}
	return f.description, nil
}

type fakeRegistrar struct {
	mu    sync.Mutex
	calls []int64
}

func (f *fakeRegistrar) Register(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, userID)
	return nil
}

type fakeCharts struct {
	path   string
	ok     bool
	panics bool
	kinds  []charts.Kind
}

func (f *fakeCharts) Render(_ context.Context, kind charts.Kind, _ int64, _ int) (string, bool, error) {
	if f.panics {
		panic("renderer exploded")
	}
	f.kinds = append(f.kinds, kind)
	return f.path, f.ok, nil
}

type testEnv struct {
	now        time.Time
	clock      service.Clock
	machine    *Machine
	sessions   *session.MemoryStore
	sent       *notify.Recorder
	recognizer *fakeRecognizer
	registrar  *fakeRegistrar
	charts     *fakeCharts

	profiles *service.ProfileService
	tracking *service.TrackingService
	meals    *service.MealService
	summary  *service.SummaryService
}

type envOption func(*Deps)

func withoutCharts() envOption {
	return func(d *Deps) { d.Charts = nil }
}

func withImages(images Images) envOption {
	return func(d *Deps) { d.Images = images }
}

// rejectPhotos ломает отправку картинок, текст уходит как обычно
func rejectPhotos() envOption {
	return func(d *Deps) { d.Notifier = photoRejecter{d.Notifier} }
}

type photoRejecter struct {
	notify.Notifier
}

func (p photoRejecter) Send(ctx context.Context, userID int64, msg notify.Message) error {
	if msg.PhotoURL != "" {
		return errors.New("wrong file identifier/HTTP URL specified")
	}
	return p.Notifier.Send(ctx, userID, msg)
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "flow.db"), database.Options{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		now:        time.Date(2024, 5, 2, 12, 0, 0, 0, vilnius),
		sessions:   session.NewMemoryStore(time.Hour),
		sent:       &notify.Recorder{},
		recognizer: &fakeRecognizer{},
		registrar:  &fakeRegistrar{},
		charts:     &fakeCharts{path: "/tmp/chart.png", ok: true},
	}
	env.clock = service.NewClock(vilnius, func() time.Time { return env.now })

	profileRepo := repository.NewProfileRepo(db)
	recordRepo := repository.NewDailyRecordRepo(db)
	mealRepo := repository.NewMealRepo(db)
	burnRepo := repository.NewBurnRepo(db)
	favRepo := repository.NewFavoriteRepo(db)

	env.profiles = service.NewProfileService(profileRepo)
	env.tracking = service.NewTrackingService(recordRepo, profileRepo, burnRepo, env.clock)
	env.meals = service.NewMealService(mealRepo, favRepo, env.clock)
	env.summary = service.NewSummaryService(profileRepo, recordRepo, mealRepo, burnRepo)

	deps := Deps{
		Profiles:   env.profiles,
		Tracking:   env.tracking,
		Meals:      env.meals,
		Summary:    env.summary,
		Clock:      env.clock,
		Recognizer: env.recognizer,
		Charts:     env.charts,
		Reminders:  env.registrar,
		Sessions:   env.sessions,
		Notifier:   env.sent,
		Pick:       func(int) int { return 0 },
	}
	for _, opt := range opts {
		opt(&deps)
	}
	env.machine = New(deps)
	return env
}

func (e *testEnv) handle(t *testing.T, in Input) Result {
	t.Helper()
	return e.machine.Handle(context.Background(), testUser, in)
}

func (e *testEnv) text(t *testing.T, s string) Result {
	t.Helper()
	return e.handle(t, Input{Kind: KindText, Text: s})
}

func (e *testEnv) cmd(t *testing.T, k Kind) Result {
	t.Helper()
	return e.handle(t, Input{Kind: k})
}

func (e *testEnv) lastText(t *testing.T) string {
	t.Helper()
	msg, ok := e.sent.Last(testUser)
	require.True(t, ok, "no messages sent")
	return msg.Text
}

func (e *testEnv) onboard(t *testing.T) {
	t.Helper()
	_, err := e.profiles.Onboard(context.Background(), service.OnboardingDTO{
		UserID:         testUser,
		WeightKg:       80,
		HeightCm:       180,
		BodyFatPercent: 20,
		Gender:         "male",
		DeficitMode:    "medium",
	})
	require.NoError(t, err)
}

func (e *testEnv) addMeal(t *testing.T, desc string, kcal float64) {
	t.Helper()
	_, err := e.meals.AddMeal(context.Background(), service.MealDTO{UserID: testUser, Description: desc, Calories: kcal})
	require.NoError(t, err)
}

func (e *testEnv) sessionState(t *testing.T) string {
	t.Helper()
	s, err := e.sessions.Get(context.Background(), testUser)
	require.NoError(t, err)
	return s.State
}
