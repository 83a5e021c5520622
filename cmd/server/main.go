// @title           Rent App API
// @version         1.0
// @description     Property management for independent landlords: properties, tenants, leases, payments and a portfolio dashboard

// @host      localhost:3001
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer ` prefix
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arasfeld/rent-app/internal/app/routes"
	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/infrastructure/config"
	"github.com/arasfeld/rent-app/internal/infrastructure/database"
	"github.com/arasfeld/rent-app/internal/infrastructure/storage"
	"github.com/arasfeld/rent-app/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	rootCmd := &cobra.Command{
		Use:           "rentapp",
		Short:         "Rent App HTTP service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads .env and sets up logging before any command runs
func bootstrap() error {
	envErr := godotenv.Load()

	cfg := config.GetConfig()
	if err := logger.SetupLogger(logger.Options{Level: cfg.LogLevel, Dir: cfg.LogDir}); err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}

	if envErr != nil {
		logger.Warning("could not load .env file: %v", envErr)
	} else {
		logger.Info(".env file loaded")
	}
	if cfg.EnvType == "SERVER" {
		gin.SetMode(gin.ReleaseMode)
	}
	return nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the schema and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			mode, _ := cmd.Flags().GetString("mode")
			if mode == "" {
				mode = cfg.DBMigrationMode
			}

			pool, err := database.NewConnectionPool(cfg)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			return database.Migrate(pool.GetDB(), mode)
		},
	}
	cmd.Flags().String("mode", "", "auto or drop, defaults to DB_MIGRATION_MODE")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo landlord and sample portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			pool, err := database.NewConnectionPool(cfg)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			if err := database.AutoMigrate(pool.GetDB()); err != nil {
				return err
			}
			if err := database.Seed(cmd.Context(), pool.GetDB(), time.Now()); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			logger.Info("seed complete, sign in as %s / %s", database.DemoEmail, database.DemoPassword)
			return nil
		},
	}
}

func serve() error {
	cfg := config.GetConfig()

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(pool.GetDB(), cfg.DBMigrationMode); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// documents are unavailable rather than fatal when the backend cannot be reached
	store, err := storage.New(ctx, cfg)
	if err != nil {
		logger.Warning("document storage unavailable: %v", err)
		store = nil
	}

	serviceContainer := container.NewServiceContainer(pool.GetDB(), cfg, store)
	defer serviceContainer.Close()

	r := routes.SetupRouter(serviceContainer, cfg)
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if stats, err := pool.Stats(); err == nil {
		logger.L().Info("database pool", zap.Any("stats", stats))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening on http://0.0.0.0:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
