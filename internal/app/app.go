package app

import (
	"context"
	"fmt"
	"net/http"

	"mess-app-go/internal/config"
	"mess-app-go/internal/db"
	accountdomain "mess-app-go/internal/domain/account"
	admindomain "mess-app-go/internal/domain/admin"
	attendancedomain "mess-app-go/internal/domain/attendance"
	menudomain "mess-app-go/internal/domain/menu"
	reviewdomain "mess-app-go/internal/domain/review"
	statsdomain "mess-app-go/internal/domain/stats"
	"mess-app-go/internal/identity/memory"
	"mess-app-go/internal/identity/supabase"
	"mess-app-go/internal/metrics"
	"mess-app-go/internal/repository/inmemory"
	accountrepo "mess-app-go/internal/repository/postgres/account"
	adminrepo "mess-app-go/internal/repository/postgres/admin"
	attendancerepo "mess-app-go/internal/repository/postgres/attendance"
	menurepo "mess-app-go/internal/repository/postgres/menu"
	reviewrepo "mess-app-go/internal/repository/postgres/review"
	statsrepo "mess-app-go/internal/repository/postgres/stats"
	"mess-app-go/internal/transport/httpserver"
	"mess-app-go/internal/transport/httpserver/handler"
	adminhandler "mess-app-go/internal/transport/httpserver/handler/admin"
	attendancehandler "mess-app-go/internal/transport/httpserver/handler/attendance"
	commonhandler "mess-app-go/internal/transport/httpserver/handler/common"
	menuhandler "mess-app-go/internal/transport/httpserver/handler/menu"
	reviewshandler "mess-app-go/internal/transport/httpserver/handler/reviews"
	authmw "mess-app-go/internal/transport/httpserver/middleware"
	"mess-app-go/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	log        logger.Logger
}

// Services is the domain layer built on top of one database handle. The
// CLI reuses it without starting the HTTP server.
type Services struct {
	Accounts   *accountdomain.Service
	Attendance *attendancedomain.Service
	Menu       *menudomain.Service
	Reviews    *reviewdomain.Service
	Stats      *statsdomain.Service
	Gateway    *admindomain.Gateway
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(dbConn, log); err != nil {
			_ = db.Close(dbConn)
			return nil, err
		}
	}

	log.Info("app: initializing services")
	services, err := NewServices(cfg, dbConn, log)
	if err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}

	m := metrics.New()
	validate := commonhandler.NewValidator(services.Accounts.Rules())

	health := func(ctx context.Context) error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}

	handlers := handler.New(
		commonhandler.New(services.Accounts, health, validate, log),
		attendancehandler.New(services.Attendance, m, validate, log),
		menuhandler.New(services.Menu, services.Attendance, cfg.Mess.Location, validate, log),
		reviewshandler.New(services.Reviews, m, validate, log),
		adminhandler.New(services.Stats, services.Gateway, services.Accounts, m, validate, log),
	)

	log.Info("app: initializing router")
	auth := authmw.NewAuth(services.Accounts, log)
	router := httpserver.NewRouter(cfg, handlers, auth, m, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		log:        log,
	}, nil
}

// NewServices wires repositories and the identity provider into the domain
// services.
func NewServices(cfg config.Config, dbConn *gorm.DB, log logger.Logger) (*Services, error) {
	identity, err := newIdentity(cfg.Identity, log)
	if err != nil {
		return nil, err
	}

	rules := accountdomain.NewEmailRules(cfg.Mess.EmailDomain, cfg.Mess.AdminEmail)
	policy := attendancedomain.NewPolicy(cfg.Mess.CutoffHour, cfg.Mess.Location)

	accounts := accountdomain.NewService(accountrepo.NewPostgres(dbConn), identity, rules)
	attendance := attendancedomain.NewService(attendancerepo.NewPostgres(dbConn), policy)
	menu := menudomain.NewService(menurepo.NewPostgres(dbConn), inmemory.NewInMemoryMenuCache(), cfg.Mess.MenuCacheTTL)
	reviews := reviewdomain.NewService(reviewrepo.NewPostgres(dbConn))
	stats := statsdomain.NewService(statsrepo.NewPostgres(dbConn), policy, rules)
	gateway := admindomain.NewGateway(adminrepo.NewPostgres(dbConn), accounts, identity, attendance)

	return &Services{
		Accounts:   accounts,
		Attendance: attendance,
		Menu:       menu,
		Reviews:    reviews,
		Stats:      stats,
		Gateway:    gateway,
	}, nil
}

func newIdentity(cfg config.IdentityConfig, log logger.Logger) (accountdomain.Identity, error) {
	switch cfg.Provider {
	case config.IdentityProviderMemory:
		log.Warn("identity: using in-memory provider, accounts do not survive restarts")
		return memory.New(cfg.MemoryJWTSecret), nil
	case config.IdentityProviderSupabase:
		if cfg.Supabase.URL == "" {
			return nil, fmt.Errorf("identity: %w", supabase.ErrNotConfigured)
		}
		log.Info("identity: using supabase", "url", cfg.Supabase.URL, "local_jwt", cfg.Supabase.JWTSecret != "")
		return supabase.New(cfg.Supabase), nil
	default:
		return nil, fmt.Errorf("identity: unknown provider %q", cfg.Provider)
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return db.Close(a.db)
}
