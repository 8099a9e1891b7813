package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"clinichr/internal/domain/attendance"
	"clinichr/internal/domain/auth"
	"clinichr/internal/domain/leave"
	"clinichr/internal/domain/overtime"
	"clinichr/internal/domain/payroll"
	"clinichr/internal/domain/reports"
	"clinichr/internal/domain/users"
	"clinichr/internal/identity"
	"clinichr/internal/platform/config"
	"clinichr/internal/platform/db"
	"clinichr/internal/store"
	attendancehandler "clinichr/internal/transport/http/handlers/attendance"
	authhandler "clinichr/internal/transport/http/handlers/auth"
	leavehandler "clinichr/internal/transport/http/handlers/leave"
	overtimehandler "clinichr/internal/transport/http/handlers/overtime"
	payrollhandler "clinichr/internal/transport/http/handlers/payroll"
	reportshandler "clinichr/internal/transport/http/handlers/reports"
	usershandler "clinichr/internal/transport/http/handlers/users"
	"clinichr/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Store  store.Store
	Tokens *identity.JWT
	// Ready reports backend readiness for the /readyz probe.
	Ready  func(ctx context.Context) error
	Router http.Handler
}

// New wires the full route tree over the given store. Tests inject a
// memory store and skip the database entirely.
func New(cfg config.Config, st store.Store, tokens *identity.JWT, ready func(ctx context.Context) error) *App {
	app := &App{Config: cfg, Store: st, Tokens: tokens, Ready: ready}

	resolver := auth.NewResolver(tokens, st)
	authService := auth.NewService(st, tokens)

	authHandler := authhandler.NewHandler(authService)
	attendanceHandler := attendancehandler.NewHandler(attendance.NewService(st))
	leaveHandler := leavehandler.NewHandler(leave.NewService(st))
	overtimeHandler := overtimehandler.NewHandler(overtime.NewService(st))
	reportsHandler := reportshandler.NewHandler(reports.NewService(st))
	payrollHandler := payrollhandler.NewHandler(payroll.NewService(st))
	usersHandler := usershandler.NewHandler(users.NewService(st))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service":"clinichr","status":"running"}`))
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if app.Ready != nil {
			if err := app.Ready(ctx); err != nil {
				http.Error(w, "store not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	authHandler.RegisterPublicRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(resolver))
		authHandler.RegisterRoutes(r)
		attendanceHandler.RegisterRoutes(r)
		leaveHandler.RegisterRoutes(r)
		overtimeHandler.RegisterRoutes(r)
		reportsHandler.RegisterRoutes(r)
		payrollHandler.RegisterRoutes(r)
		usersHandler.RegisterRoutes(r)
	})

	app.Router = router
	return app
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}

	st := store.NewPostgres(pool)
	tokens := identity.NewJWT(cfg.JWTSecret, cfg.TokenTTL)

	if cfg.RunSeed {
		if err := db.Seed(ctx, st, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	app := New(cfg, st, tokens, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	log.Printf("clinichr server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
