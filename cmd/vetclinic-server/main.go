package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vetclinic/vetclinic/internal/config"
	"github.com/vetclinic/vetclinic/internal/domain/breed"
	"github.com/vetclinic/vetclinic/internal/domain/client"
	"github.com/vetclinic/vetclinic/internal/domain/medicalrecord"
	"github.com/vetclinic/vetclinic/internal/domain/patient"
	"github.com/vetclinic/vetclinic/internal/domain/procedure"
	"github.com/vetclinic/vetclinic/internal/domain/procedurelog"
	"github.com/vetclinic/vetclinic/internal/domain/scheduling"
	"github.com/vetclinic/vetclinic/internal/domain/stats"
	"github.com/vetclinic/vetclinic/internal/domain/user"
	"github.com/vetclinic/vetclinic/internal/platform/auth"
	"github.com/vetclinic/vetclinic/internal/platform/db"
	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/lock"
	"github.com/vetclinic/vetclinic/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vetclinic-server",
		Short: "Veterinary clinic management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connect()
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, cfg.MigrationsDir)
			count, err := migrator.Up(context.Background())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connect()
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, cfg.MigrationsDir)
			statuses, err := migrator.Status(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	cmd.AddCommand(statusCmd)

	return cmd
}

// connect loads the configuration and opens the connection pool, shared by
// the non-serve commands.
func connect() (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL, db.PoolConfig{
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		AcquireTimeout: cfg.DBAcquireTimeout,
		IdleTimeout:    cfg.DBIdleTimeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfig{
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		AcquireTimeout: cfg.DBAcquireTimeout,
		IdleTimeout:    cfg.DBIdleTimeout,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Booking lock: advisory locks in the database by default, Redis when a
	// shared instance is configured.
	var locker lock.Locker = lock.NewPgAdvisoryLocker(pool)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		locker = lock.NewRedisLocker(redis.NewClient(opts), 30*time.Second)
		logger.Info().Msg("using redis booking lock")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httperr.NewHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", db.HealthHandler(pool))

	// Every API route sits behind the static key gate, login included.
	api := e.Group("/api", auth.APIKeyMiddleware(cfg.APIKey))

	breedRepo := breed.NewBreedRepoPG(pool)
	breed.NewHandler(breed.NewService(breedRepo)).RegisterRoutes(api)
	client.NewHandler(client.NewService(client.NewClientRepoPG(pool))).RegisterRoutes(api)
	patient.NewHandler(patient.NewService(patient.NewPatientRepoPG(pool), breedRepo)).RegisterRoutes(api)
	user.NewHandler(user.NewService(user.NewUserRepoPG(pool), []byte(cfg.JWTSecret))).RegisterRoutes(api)
	procedure.NewHandler(procedure.NewService(procedure.NewProcedureRepoPG(pool))).RegisterRoutes(api)
	procedurelog.NewHandler(procedurelog.NewService(procedurelog.NewEntryRepoPG(pool))).RegisterRoutes(api)
	medicalrecord.NewHandler(medicalrecord.NewService(medicalrecord.NewRecordRepoPG(pool))).RegisterRoutes(api)
	scheduling.NewHandler(scheduling.NewService(scheduling.NewAppointmentRepoPG(pool), locker)).RegisterRoutes(api)
	stats.NewHandler(stats.NewService(stats.NewStatsRepoPG(pool))).RegisterRoutes(api)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
