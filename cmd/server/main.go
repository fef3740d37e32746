package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"

	"github.com/zphere-app/zphere/internal/config"
	"github.com/zphere-app/zphere/internal/handler"
	"github.com/zphere-app/zphere/internal/repository"
	"github.com/zphere-app/zphere/internal/service"
	"github.com/zphere-app/zphere/internal/telemetry"
	"github.com/zphere-app/zphere/internal/tenantdb"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	tel, err := telemetry.New(ctx, telemetry.Config{
		ServiceName: cfg.ServiceName,
		Endpoint:    cfg.TelemetryEndpoint,
		Insecure:    cfg.TelemetryInsecure,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	tenants, err := tenantdb.New(ctx, tenantdb.Config{
		MasterURL: cfg.DatabaseURL,
		Prefix:    cfg.TenantDBPrefix,
	})
	if err != nil {
		return fmt.Errorf("init tenant manager: %w", err)
	}
	defer func() {
		if err := tenants.Close(); err != nil {
			slog.Warn("close databases", "error", err)
		}
	}()

	node, err := snowflake.NewNode(1)
	if err != nil {
		return fmt.Errorf("init snowflake node: %w", err)
	}

	master := tenants.Master()
	userRepo := repository.NewUserRepository(master)
	orgRepo := repository.NewOrganizationRepository(master)

	authSvc := service.NewAuthService(userRepo, orgRepo, tenants, service.AuthConfig{
		JWTSecret:       cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	})
	analyticsSvc := service.NewAnalyticsService()
	numbers := service.NewInvoiceNumbers(node)

	e := newEcho(cfg, tel)
	registerRoutes(e, cfg, tenants, authSvc, analyticsSvc, numbers, userRepo, orgRepo)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newEcho(cfg config.Config, tel *telemetry.Provider) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewAppValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(otelecho.Middleware(cfg.ServiceName, otelecho.WithTracerProvider(tel.TracerProvider())))
	e.Use(handler.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, handler.TenantHeader},
	}))

	return e
}

func registerRoutes(
	e *echo.Echo,
	cfg config.Config,
	tenants *tenantdb.Manager,
	authSvc *service.AuthService,
	analyticsSvc *service.AnalyticsService,
	numbers *service.InvoiceNumbers,
	userRepo *repository.UserRepository,
	orgRepo *repository.OrganizationRepository,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	authHandler := handler.NewAuthHandler(authSvc)
	authHandler.Register(api.Group("/auth"))

	protected := api.Group("", handler.JWTAuth(authSvc))
	protected.GET("/auth/me", authHandler.Me)
	handler.NewOrganizationHandler(orgRepo, userRepo, tenants).Register(protected)

	limiter := handler.NewRateLimiter(cfg.RateLimitRPM)
	tenant := protected.Group("", handler.TenantContext(tenants), limiter.Middleware())
	handler.NewProjectHandler().Register(tenant)
	handler.NewTaskHandler().Register(tenant)
	handler.NewCustomerHandler().Register(tenant)
	handler.NewInvoiceHandler(numbers).Register(tenant)
	handler.NewGoalHandler().Register(tenant)
	handler.NewAnalyticsHandler(analyticsSvc).Register(tenant)
}
