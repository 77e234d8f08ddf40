package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/RohitKonga/cake-haven/internal/domain/auth"
	"github.com/RohitKonga/cake-haven/internal/domain/banner"
	"github.com/RohitKonga/cake-haven/internal/domain/coupon"
	"github.com/RohitKonga/cake-haven/internal/domain/custom"
	"github.com/RohitKonga/cake-haven/internal/domain/order"
	"github.com/RohitKonga/cake-haven/internal/domain/user"
	"github.com/RohitKonga/cake-haven/internal/handler"
	"github.com/RohitKonga/cake-haven/internal/media"
	"github.com/RohitKonga/cake-haven/internal/repository"
	"github.com/RohitKonga/cake-haven/pkg/health"
	"github.com/RohitKonga/cake-haven/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Media host. Nil when credentials are absent; upload endpoints then
	// fail per-request instead of blocking startup.
	var images media.Uploader
	if uploader, err := media.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret); err != nil {
		if !errors.Is(err, media.ErrNotConfigured) {
			return errors.Wrap(err, "create media uploader")
		}
		lg.Warn("Media host not configured, image uploads disabled")
	} else {
		images = uploader
	}

	// Repositories.
	userRepo := repository.NewUserRepository(pool)
	cakeRepo := repository.NewCakeRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	customRepo := repository.NewCustomRequestRepository(pool)
	couponRepo := repository.NewCouponRepository(pool)
	bannerRepo := repository.NewBannerRepository(pool)

	// Domain services.
	tokens := auth.NewTokens([]byte(cfg.JWTSecret))
	userService := user.NewService(userRepo)
	orderService := order.NewService(cakeRepo, customRepo, orderRepo)
	customService := custom.NewService(customRepo)
	couponValidator := coupon.NewRepoValidator(couponRepo)
	bannerService := banner.NewService(bannerRepo, images)

	// HTTP handlers.
	h := handler.NewHandler(
		tokens,
		userService,
		cakeRepo,
		orderService,
		customService,
		couponValidator,
		couponRepo,
		bannerService,
		images,
	)

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", http.StripPrefix("/api", h.Routes()))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			func(next http.Handler) http.Handler {
				return otelhttp.NewHandler(next, "cake-api",
					otelhttp.WithTracerProvider(m.TracerProvider()),
					otelhttp.WithMeterProvider(m.MeterProvider()),
				)
			},
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
