package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/aarogya/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/repository/postgres"
	"github.com/dmehra2102/prod-golang-projects/aarogya/internal/service"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/cache"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/media"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/aarogya/pkg/tracer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "aarogya",
		Short:        "Clinic appointment booking API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Connect(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeDB(db, log)

			return database.Migrate(db, log)
		},
	}
}

func createAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-admin",
		Short: "Seed the clinic operator from ADMIN_EMAIL and ADMIN_PASSWORD",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Connect(cfg.Database, log)
			if err != nil {
				return err
			}
			defer closeDB(db, log)

			authSvc := service.NewAuthService(
				postgres.NewAccountRepository(db),
				postgres.NewPractitionerRepository(db),
				postgres.NewOperatorRepository(db),
				auth.NewJWTManager(cfg.JWT),
				cfg.Operator,
				metrics.NewCollector("aarogya"),
				log,
			)

			created, err := authSvc.EnsureOperator(cmd.Context(), cfg.Operator.Email, cfg.Operator.Password)
			if err != nil {
				return fmt.Errorf("creating operator: %w", err)
			}
			if !created {
				fmt.Printf("Operator %s already exists.\n", cfg.Operator.Email)
				return nil
			}
			fmt.Printf("Operator %s created.\n", cfg.Operator.Email)
			return nil
		},
	}
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		return nil, nil, fmt.Errorf("initialising logger: %w", err)
	}
	return cfg, log, nil
}

func runServer(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting aarogya")

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("initialising tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	if err := database.Migrate(db, log); err != nil {
		return err
	}

	m := metrics.NewCollector("aarogya")

	store, err := media.New(ctx, cfg.Media)
	if err != nil {
		return fmt.Errorf("initialising media store: %w", err)
	}
	images := media.NewBreakerStore(store, log)

	// A nil *RedisCache must not end up inside the interface.
	var practitionerCache service.JSONCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, cfg.Redis, "aarogya")
		if err != nil {
			return err
		}
		defer func() { _ = rc.Close() }()
		practitionerCache = rc
	}

	accountRepo := postgres.NewAccountRepository(db)
	practitionerRepo := postgres.NewPractitionerRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	operatorRepo := postgres.NewOperatorRepository(db)

	authSvc := service.NewAuthService(accountRepo, practitionerRepo, operatorRepo, auth.NewJWTManager(cfg.JWT), cfg.Operator, m, log)
	if cfg.Operator.Email != "" {
		if _, err := authSvc.EnsureOperator(ctx, cfg.Operator.Email, cfg.Operator.Password); err != nil {
			return fmt.Errorf("seeding operator: %w", err)
		}
	}

	router := v1.NewRouter(v1.RouterDeps{
		Config:       cfg,
		Auth:         authSvc,
		Accounts:     service.NewAccountService(accountRepo, images, m, log),
		Directory:    service.NewDirectoryService(practitionerRepo, images, practitionerCache, cfg.Redis.PractitionerTTL, m, log),
		Appointments: service.NewAppointmentService(appointmentRepo, accountRepo, practitionerRepo, cfg.Payment, m, log),
		Metrics:      m,
		Log:          log,
		MediaDir:     localMediaDir(cfg.Media),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func localMediaDir(cfg config.MediaConfig) string {
	if cfg.Driver == "local" {
		return cfg.LocalDir
	}
	return ""
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("closing database", zap.Error(err))
	}
}
