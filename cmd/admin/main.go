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

	"github.com/AliaksandrTarashkevich/smartcalories/internal/admin"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/app"
	"github.com/AliaksandrTarashkevich/smartcalories/internal/config"
	"github.com/AliaksandrTarashkevich/smartcalories/pkg/utils"
)

const defaultAddr = ":8080"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartcalories-admin",
		Short:         "SmartCalories admin API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config")

	root.AddCommand(&cobra.Command{
		Use:   "hash-key <key>",
		Short: "Print bcrypt hash for ADMIN_KEY_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := admin.HashKey(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	})

	var subject string
	var ttl time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a Bearer token signed with ADMIN_JWT_SECRET",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			token, err := admin.IssueToken(cfg.Admin.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&subject, "subject", "admin", "Token subject")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	root.AddCommand(tokenCmd)

	return root
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := utils.MustLogger(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.ValidateStorage(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	core, err := app.NewCore(cfg, logger, true)
	if err != nil {
		return err
	}
	defer core.Close()

	auth := admin.AuthConfig{KeyHash: cfg.Admin.KeyHash, JWTSecret: cfg.Admin.JWTSecret}
	if !auth.Enabled() {
		return errors.New("set ADMIN_KEY_HASH or ADMIN_JWT_SECRET")
	}

	addr := cfg.Admin.Addr
	if addr == "" {
		addr = defaultAddr
	}

	gin.SetMode(gin.ReleaseMode)
	// без планировщика: напоминаниями управляет процесс бота
	server := &http.Server{
		Addr: addr,
		Handler: admin.NewRouter(&admin.Handlers{
			Profiles: core.Profiles,
			Summary:  core.Summary,
			Meals:    core.Meals,
			Clock:    core.Clock,
			Health:   core.Ping,
		}, auth, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Admin panel starting", zap.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to run admin panel: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
