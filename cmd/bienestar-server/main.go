package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bienestar/bienestar/internal/config"
	"github.com/bienestar/bienestar/internal/domain/company"
	"github.com/bienestar/bienestar/internal/domain/consultation"
	"github.com/bienestar/bienestar/internal/domain/dashboard"
	"github.com/bienestar/bienestar/internal/domain/identity"
	"github.com/bienestar/bienestar/internal/domain/report"
	"github.com/bienestar/bienestar/internal/domain/sve"
	"github.com/bienestar/bienestar/internal/domain/worker"
	"github.com/bienestar/bienestar/internal/platform/auth"
	"github.com/bienestar/bienestar/internal/platform/db"
	"github.com/bienestar/bienestar/internal/platform/middleware"
)

// WorkerDirectoryAdapter resolves a worker's owning professional for the
// consultation and sve services, avoiding circular imports between those
// packages and the worker package.
type WorkerDirectoryAdapter struct {
	repo worker.Repository
}

func NewWorkerDirectoryAdapter(repo worker.Repository) *WorkerDirectoryAdapter {
	return &WorkerDirectoryAdapter{repo: repo}
}

// OwnerOf implements consultation.WorkerDirectory and sve.WorkerDirectory.
func (a *WorkerDirectoryAdapter) OwnerOf(ctx context.Context, workerID uuid.UUID) (uuid.UUID, error) {
	w, err := a.repo.GetByID(ctx, workerID)
	if err != nil {
		return uuid.Nil, err
	}
	return w.ProfessionalID, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "bienestar-server",
		Short: "Occupational health case management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(tenantCmd())
	rootCmd.AddCommand(userCmd())

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
			schema, _ := cmd.Flags().GetString("schema")
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
			fmt.Printf("Running migrations on schema: %s\n", schema)

			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, _ := cmd.Flags().GetString("schema")
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
			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("Migration status for schema: %s\n", schema)
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
	statusCmd.Flags().String("schema", "tenant_default", "Target schema for migrations")
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new tenant schema and run migrations on it",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			dir, _ := cmd.Flags().GetString("dir")
			if name == "" {
				return fmt.Errorf("--name is required")
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

			fmt.Printf("Creating tenant schema: tenant_%s\n", name)
			if err := db.CreateTenantSchema(ctx, pool, name, dir); err != nil {
				return err
			}
			fmt.Println("Tenant created successfully.")
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Tenant identifier (alphanumeric)")
	createCmd.Flags().String("dir", "./migrations", "Path to migrations directory")

	cmd.AddCommand(createCmd)
	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account in a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, _ := cmd.Flags().GetString("tenant")
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			password, _ := cmd.Flags().GetString("password")
			if email == "" || name == "" || password == "" {
				return fmt.Errorf("--email, --name and --password are required")
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

			conn, err := pool.Acquire(ctx)
			if err != nil {
				return err
			}
			defer conn.Release()
			if _, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO tenant_%s, public", tenant)); err != nil {
				return fmt.Errorf("tenant %s: %w", tenant, err)
			}
			ctx = db.WithConn(ctx, conn)

			svc := identity.NewService(identity.NewRepo(pool))
			u := &identity.User{Email: email, Name: name, Role: auth.RoleAdmin}
			if err := svc.CreateUser(ctx, u, password); err != nil {
				return err
			}
			fmt.Printf("Admin %s created in tenant %s (id %s)\n", email, tenant, u.ID)
			return nil
		},
	}
	createAdminCmd.Flags().String("tenant", "default", "Tenant identifier")
	createAdminCmd.Flags().String("email", "", "Account email")
	createAdminCmd.Flags().String("name", "", "Display name")
	createAdminCmd.Flags().String("password", "", "Initial password")

	cmd.AddCommand(createAdminCmd)
	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID"},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestTimeout(30 * time.Second))

	e.GET("/health", db.HealthHandler(pool))

	// Login and other unauthenticated routes still resolve a tenant so the
	// credential lookup hits the right schema.
	public := e.Group("/api/v1")
	public.Use(db.TenantMiddleware(pool, cfg.DefaultTenant))

	// Everything else requires a valid token.
	api := e.Group("/api/v1")
	api.Use(auth.JWTMiddleware([]byte(cfg.JWTSecret)))
	api.Use(db.TenantMiddleware(pool, cfg.DefaultTenant))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	// -- Domain wiring --

	issuer := auth.NewIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.JWTTTLHours)*time.Hour)

	identityRepo := identity.NewRepo(pool)
	identitySvc := identity.NewService(identityRepo)
	identityHandler := identity.NewHandler(identitySvc, issuer, cfg.DefaultTenant)
	identityHandler.RegisterRoutes(public, api)

	companyRepo := company.NewRepo(pool)
	companySvc := company.NewService(companyRepo)
	companyHandler := company.NewHandler(companySvc)
	companyHandler.RegisterRoutes(api)

	workerRepo := worker.NewRepo(pool)
	workerSvc := worker.NewService(workerRepo)
	workerHandler := worker.NewHandler(workerSvc)
	workerHandler.RegisterRoutes(api)

	workerDir := NewWorkerDirectoryAdapter(workerRepo)

	consultationRepo := consultation.NewRepo(pool)
	consultationSvc := consultation.NewService(consultationRepo, workerDir)
	consultationHandler := consultation.NewHandler(consultationSvc)
	consultationHandler.RegisterRoutes(api)

	sveRepo := sve.NewRepo(pool)
	sveSvc := sve.NewService(sveRepo, workerDir)
	sveHandler := sve.NewHandler(sveSvc)
	sveHandler.RegisterRoutes(api)

	dashboardRepo := dashboard.NewRepo(pool)
	dashboardSvc := dashboard.NewService(dashboardRepo)
	dashboardHandler := dashboard.NewHandler(dashboardSvc)
	dashboardHandler.RegisterRoutes(api)

	reportSvc := report.NewService(workerRepo, consultationRepo, companyRepo)
	reportHandler := report.NewHandler(reportSvc)
	reportHandler.RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
