package service

import (
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/database"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/repository"
)

var vilnius = mustLocation("Europe/Vilnius")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// fakeNow - управляемое время для тестов
type fakeNow struct{ t time.Time }

func (f *fakeNow) Now() time.Time { return f.t }

type testEnv struct {
	now      *fakeNow
	clock    Clock
	profiles *ProfileService
	tracking *TrackingService
	meals    *MealService
	summary  *SummaryService

	burnRepo repository.BurnRepository
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "svc.db"), database.Options{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	profileRepo := repository.NewProfileRepo(db)
	recordRepo := repository.NewDailyRecordRepo(db)
	mealRepo := repository.NewMealRepo(db)
	burnRepo := repository.NewBurnRepo(db)
	favRepo := repository.NewFavoriteRepo(db)

	fn := &fakeNow{t: now}
	clock := NewClock(vilnius, fn.Now)

	return &testEnv{
		now:      fn,
		clock:    clock,
		profiles: NewProfileService(profileRepo),
		tracking: NewTrackingService(recordRepo, profileRepo, burnRepo, clock),
		meals:    NewMealService(mealRepo, favRepo, clock),
		summary:  NewSummaryService(profileRepo, recordRepo, mealRepo, burnRepo),
		burnRepo: burnRepo,
	}
}
