package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"

	"haulboard/internal/domain/audit"
	"haulboard/internal/domain/financials"
	"haulboard/internal/domain/payroll"
	"haulboard/internal/platform/config"
	"haulboard/internal/platform/db"
	"haulboard/internal/platform/metrics"
	"haulboard/internal/transport/http/api"
	audithandler "haulboard/internal/transport/http/handlers/audit"
	financialshandler "haulboard/internal/transport/http/handlers/financials"
	payrollhandler "haulboard/internal/transport/http/handlers/payroll"
	"haulboard/internal/transport/http/middleware"
	"haulboard/internal/transport/http/shared"
	"haulboard/internal/upstream"
)

const sessionTTL = 30 * time.Minute

type App struct {
	Config   config.Config
	Log      *slog.Logger
	DB       *pgxpool.Pool
	Upstream *upstream.Client
	Metrics  *metrics.Collector
	Router   http.Handler
}

// New wires the dashboard. The audit trail is backed by PostgreSQL only when
// DATABASE_URL is set.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	m := metrics.New()
	app := &App{Config: cfg, Log: log, Metrics: m}

	var recorder audit.Recorder = audit.Nop{}
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		app.DB = pool
		recorder = audit.New(pool)
	} else {
		log.Info("audit trail disabled", "reason", "DATABASE_URL not set")
	}

	app.Upstream = upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout,
		upstream.WithMetrics(m),
		upstream.WithLogger(log),
	)
	payrollService := payroll.NewService(app.Upstream, cfg.PaymentFetchConcurrency, cfg.Location(), log)
	financialsService := financials.NewService(app.Upstream)

	rs := shared.Responder{
		CookieName:   cfg.SessionCookie,
		SecureCookie: cfg.IsProduction(),
		LoginPath:    shared.DefaultLoginPath,
		Metrics:      m,
		Log:          log,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log, m))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", app.handleReady)
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, m.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	login := loginHandler{secret: cfg.JWTSecret, errors: rs}
	router.Get(shared.DefaultLoginPath, login.handlePage)
	router.Post(shared.DefaultLoginPath, login.handleLogin)
	router.Post("/logout", login.handleLogout)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionAuth(cfg.JWTSecret, rs))
		r.Use(middleware.MutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

		payrollhandler.NewHandler(payrollService, payroll.NewSessions(payrollService, sessionTTL), recorder, rs, m).RegisterRoutes(r)
		financialshandler.NewHandler(financialsService, recorder, rs, m).RegisterRoutes(r)
		audithandler.NewHandler(recorder, rs).RegisterRoutes(r)
	})

	app.Router = router
	return app, nil
}

func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.Upstream.Ping(ctx); err != nil {
		a.Log.Warn("readiness: upstream not reachable", "err", err)
		http.Error(w, "upstream not ready", http.StatusServiceUnavailable)
		return
	}
	if a.DB != nil {
		if err := a.DB.Ping(ctx); err != nil {
			a.Log.Warn("readiness: db not reachable", "err", err)
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
