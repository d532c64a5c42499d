package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AliaksandrTarashkevich/smartcalories/internal/admin"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/app"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/bot"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/config"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/flow"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/recognizer"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/reminder"
	"github.com/AliaksandrTarashkevich/smartcalories/pkg/utils"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

var (
	configPath string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartcalories",
		Short:         "SmartCalories Telegram bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := cfg.ValidateStorage(); err != nil {
				return err
			}
			core, err := app.NewCore(cfg, logger, true)
			if err != nil {
				return err
			}
			defer core.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "Database migrated")
			return nil
		},
	})
	return root
}

func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, utils.MustLogger(cfg.LogLevel), nil
}

func run(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// -----------------------
	// DATABASE + SERVICES
	core, err := app.NewCore(cfg, logger, true)
	if err != nil {
		return err
	}
	defer core.Close()

	sessions, memSessions, closeSessions, err := app.Sessions(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	rec, err := recognizer.New(ctx, recognizer.Config{
		Provider:    cfg.Recognizer.Provider,
		APIKey:      cfg.Recognizer.APIKey,
		BaseURL:     cfg.Recognizer.BaseURL,
		TextModel:   cfg.Recognizer.TextModel,
		VisionModel: cfg.Recognizer.VisionModel,
	}, logger)
	if err != nil {
		return err
	}

	// -----------------------
	// BOT
	api, err := bot.NewAPI(cfg.TelegramToken)
	if err != nil {
		return err
	}
	notifier := bot.NewNotifier(api, logger)

	reminders := reminder.New(reminder.Deps{
		Profiles: core.Profiles,
		Tracking: core.Tracking,
		Meals:    core.Meals,
		Summary:  core.Summary,
		Clock:    core.Clock,
		Notifier: notifier,
		Logger:   logger,
	})

	machine := flow.New(flow.Deps{
		Profiles:   core.Profiles,
		Tracking:   core.Tracking,
		Meals:      core.Meals,
		Summary:    core.Summary,
		Clock:      core.Clock,
		Recognizer: rec,
		Reminders:  reminders,
		Images: flow.Images{
			BodyFatMale:   cfg.Images.BodyFatMale,
			BodyFatFemale: cfg.Images.BodyFatFemale,
			MealExample:   cfg.Images.MealExample,
		},
		Sessions:         sessions,
		Notifier:         notifier,
		Logger:           logger,
		StoreTimeout:     cfg.StoreTimeout,
		RecognizeTimeout: cfg.Recognizer.Timeout,
	})
	botApp := bot.NewBotApp(api, machine, notifier, logger)

	n, err := reminders.RegisterAll(ctx)
	if err != nil {
		logger.Error("some reminders were not registered", zap.Error(err))
	}
	logger.Info("reminders registered", zap.Int("users", n))

	// -----------------------
	// RUN
	g, gctx := errgroup.WithContext(ctx)

	reminders.Start()
	g.Go(func() error {
		<-gctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return reminders.Stop(stopCtx)
	})

	g.Go(func() error { return botApp.Run(gctx) })

	if memSessions != nil {
		g.Go(func() error {
			memSessions.Run(gctx, sweepInterval)
			return nil
		})
	}

	if cfg.Admin.Addr != "" {
		auth := admin.AuthConfig{KeyHash: cfg.Admin.KeyHash, JWTSecret: cfg.Admin.JWTSecret}
		if !auth.Enabled() {
			logger.Warn("admin API has no credentials configured, every request will be rejected")
		}
		if !verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		server := &http.Server{
			Addr: cfg.Admin.Addr,
			Handler: admin.NewRouter(&admin.Handlers{
				Profiles:  core.Profiles,
				Summary:   core.Summary,
				Meals:     core.Meals,
				Clock:     core.Clock,
				Reminders: reminders,
				Health:    core.Ping,
			}, auth, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("admin API listening", zap.String("addr", cfg.Admin.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin API: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	logger.Info("Telegram bot starting...")
	err = g.Wait()
	logger.Info("bot stopped")
	return err
}
