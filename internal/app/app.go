// Package app собирает хранилище и сервисы по конфигу. Общая часть cmd/bot и cmd/admin.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/config"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/database"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/repository"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/service"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/session"
)

// Core - база и сервисы предметной области
type Core struct {
	DB    *gorm.DB
	Clock service.Clock

	Profiles *service.ProfileService
	Tracking *service.TrackingService
	Meals    *service.MealService
	Summary  *service.SummaryService
}

// NewCore подключается к базе, при migrate=true создаёт таблицы
func NewCore(cfg *config.Config, logger *zap.Logger, migrate bool) (*Core, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN, database.Options{
		Debug:  cfg.Database.Debug,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("database migrated")
	}

	clock := service.NewClock(loc, nil)

	// -----------------------
	// REPOSITORIES
	profileRepo := repository.NewProfileRepo(db)
	recordRepo := repository.NewDailyRecordRepo(db)
	mealRepo := repository.NewMealRepo(db)
	burnRepo := repository.NewBurnRepo(db)
	favoriteRepo := repository.NewFavoriteRepo(db)

	// -----------------------
	// SERVICES
	return &Core{
		DB:       db,
		Clock:    clock,
		Profiles: service.NewProfileService(profileRepo),
		Tracking: service.NewTrackingService(recordRepo, profileRepo, burnRepo, clock),
		Meals:    service.NewMealService(mealRepo, favoriteRepo, clock),
		Summary:  service.NewSummaryService(profileRepo, recordRepo, mealRepo, burnRepo),
	}, nil
}

// Ping - для /healthz
func (c *Core) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Core) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Sessions выбирает хранилище сессий: Redis, если задан адрес, иначе память.
// Для памяти возвращается и сам MemoryStore, чтобы запустить чистку
func Sessions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (session.Store, *session.MemoryStore, func() error, error) {
	if cfg.Redis.Addr == "" {
		mem := session.NewMemoryStore(cfg.Session.TTL)
		logger.Info("sessions in memory", zap.Duration("ttl", cfg.Session.TTL))
		return mem, mem, func() error { return nil }, nil
	}

	client, err := session.NewRedisClient(ctx, session.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("sessions in redis", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Session.TTL))
	return session.NewRedisStore(client, cfg.Session.TTL), nil, client.Close, nil
}
