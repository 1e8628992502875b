package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/albusdente/materiais/internal/config"
	"github.com/albusdente/materiais/internal/domain/clinic"
	"github.com/albusdente/materiais/internal/domain/delivery"
	"github.com/albusdente/materiais/internal/domain/lista"
	"github.com/albusdente/materiais/internal/domain/material"
	"github.com/albusdente/materiais/internal/domain/professional"
	"github.com/albusdente/materiais/internal/domain/report"
	"github.com/albusdente/materiais/internal/platform/auth"
	"github.com/albusdente/materiais/internal/platform/blobstore"
	"github.com/albusdente/materiais/internal/platform/db"
	"github.com/albusdente/materiais/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "materiais-server",
		Short: "Materials request and delivery tracking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(listsCmd())

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
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func listsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage material-request lists",
	}

	createCmd := &cobra.Command{
		Use:   "create-monthly",
		Short: "Create one empty list per professional for a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			month, _ := cmd.Flags().GetString("month")
			if month == "" {
				month = time.Now().Format("2006-01")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := lista.NewService(lista.NewRepo(pool), material.NewRepo(pool), pool)
			count, err := svc.CreateMonthly(ctx, month)
			if err != nil {
				return err
			}

			fmt.Printf("Created %d list(s) for %s.\n", count, month)
			return nil
		},
	}
	createCmd.Flags().String("month", "", `Month in YYYY-MM format (default: current month)`)
	cmd.AddCommand(createCmd)

	return cmd
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
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	store, err := newBlobStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M", "12M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	if cfg.MetricsEnabled {
		e.Use(middleware.Metrics())
		e.GET("/metrics", middleware.MetricsHandler())
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))

	e.GET("/health", db.HealthHandler(pool))

	// Login stays public with a tighter rate limit than the rest of the API.
	// The issuer claim must match what JWTMiddleware validates.
	issuerName := cfg.AuthIssuer
	if issuerName == "" {
		issuerName = "materiais"
	}
	issuer := auth.NewIssuer(cfg.JWTSecret, issuerName, cfg.AuthAudience,
		time.Duration(cfg.TokenTTLMin)*time.Minute)
	public := e.Group("/api/v1", middleware.RateLimit(middleware.LoginRateLimitConfig()))

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
	if cfg.IsDev() && cfg.JWTSecret == "" && cfg.AuthIssuer == "" {
		apiV1.Use(auth.DevAuthMiddleware())
	} else {
		apiV1.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.JWTSecret),
		}, nil))
	}

	materialRepo := material.NewRepo(pool)
	materialHandler := material.NewHandler(material.NewService(materialRepo))
	materialHandler.RegisterRoutes(apiV1)

	clinicHandler := clinic.NewHandler(clinic.NewService(clinic.NewRepo(pool)))
	clinicHandler.RegisterRoutes(apiV1)

	professionalHandler := professional.NewHandler(
		professional.NewService(professional.NewRepo(pool)), issuer)
	professionalHandler.RegisterRoutes(apiV1)
	professionalHandler.RegisterAuthRoutes(public)

	listaHandler := lista.NewHandler(lista.NewService(lista.NewRepo(pool), materialRepo, pool))
	listaHandler.RegisterRoutes(apiV1)

	deliveryHandler := delivery.NewHandler(
		delivery.NewService(delivery.NewRepo(pool), pool, logger), store)
	deliveryHandler.RegisterRoutes(apiV1)

	reportHandler := report.NewHandler(report.NewService(report.NewRepo(pool)))
	reportHandler.RegisterRoutes(apiV1)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
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
	return nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	switch cfg.StorageBackend {
	case "s3":
		return blobstore.NewS3Store(ctx, blobstore.S3Config{
			Region:    cfg.StorageRegion,
			Bucket:    cfg.StorageBucket,
			Endpoint:  cfg.StorageEndpoint,
			PublicURL: cfg.StoragePublicURL,
			AccessKey: cfg.StorageAccessKey,
			SecretKey: cfg.StorageSecretKey,
		})
	default:
		return blobstore.NewMemoryStore(cfg.StoragePublicURL), nil
	}
}
