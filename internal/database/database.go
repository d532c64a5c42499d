package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/models"
)

const connectAttempts = 15

// Options - параметры подключения
type Options struct {
	Debug  bool
	Logger *zap.Logger
}

func gormConfig(opts Options) *gorm.Config {
	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}

	return &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
			},
		),
		// Время храним в UTC, локальная зона нужна только для дат и диапазонов
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

// Open выбирает драйвер: postgres или sqlite
func Open(driver, dsn string, opts Options) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return NewPostgres(dsn, opts)
	case "sqlite":
		return NewSQLite(dsn, opts)
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

// NewPostgres подключается к PostgreSQL с retry логикой
func NewPostgres(dsn string, opts Options) (*gorm.DB, error) {
	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}

	var db *gorm.DB
	var err error

	lg.Info("connecting to postgres")

	// Пытаемся подключиться 15 раз с увеличением паузы
	for i := 1; i <= connectAttempts; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig(opts))
		if err == nil {
			if err = ping(db); err == nil {
				lg.Info("database connected", zap.Int("attempt", i))
				return db, nil
			}
		}

		lg.Warn("database connect attempt failed", zap.Int("attempt", i), zap.Error(err))

		// Экспоненциальная backoff: 1, 2, 4, 8 секунд...
		waitTime := time.Duration(1<<uint(i-1)) * time.Second
		if waitTime > 10*time.Second {
			waitTime = 10 * time.Second
		}
		time.Sleep(waitTime)
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, err)
}

// NewSQLite - локальная база для разработки и тестов
func NewSQLite(path string, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	// sqlite не любит параллельных писателей
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// AutoMigrateTables создает таблицы
func AutoMigrateTables(db *gorm.DB, models ...interface{}) error {
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}
	return nil
}

// Migrate - все таблицы бота
func Migrate(db *gorm.DB) error {
	return AutoMigrateTables(db,
		&models.UserProfile{},
		&models.DailyRecord{},
		&models.BurnedCalories{},
		&models.MealEntry{},
		&models.FavoriteMeal{},
	)
}
