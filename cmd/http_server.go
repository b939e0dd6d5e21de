package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/office-calendar/internal"
	"github.com/frahmantamala/office-calendar/internal/auth"
	authpg "github.com/frahmantamala/office-calendar/internal/auth/postgres"
	"github.com/frahmantamala/office-calendar/internal/booking"
	bookingpg "github.com/frahmantamala/office-calendar/internal/booking/postgres"
	"github.com/frahmantamala/office-calendar/internal/core/events"
	"github.com/frahmantamala/office-calendar/internal/employee"
	employeepg "github.com/frahmantamala/office-calendar/internal/employee/postgres"
	"github.com/frahmantamala/office-calendar/internal/event"
	eventpg "github.com/frahmantamala/office-calendar/internal/event/postgres"
	"github.com/frahmantamala/office-calendar/internal/realtime"
	"github.com/frahmantamala/office-calendar/internal/room"
	roompg "github.com/frahmantamala/office-calendar/internal/room/postgres"
	"github.com/frahmantamala/office-calendar/internal/settings"
	settingspg "github.com/frahmantamala/office-calendar/internal/settings/postgres"
	"github.com/frahmantamala/office-calendar/internal/transport/rest"
	"github.com/frahmantamala/office-calendar/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Hub      *realtime.Hub
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go deps.Hub.Run(hubCtx)

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		stopHub()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		stopHub()
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), config.Observability.Logging.Level)
	log := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(log)

	hub := realtime.NewHub(log)
	hub.SubscribeTo(bus)

	tokens, err := auth.NewJWTTokenGenerator(config.Security)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token generator: %w", err)
	}

	authRepo := authpg.NewRepository(gormDB)
	authService := auth.NewService(authRepo, tokens, config.Security.RefreshTokenDuration, log)

	employeeRepo := employeepg.NewEmployeeRepository(gormDB)
	employeeService := employee.NewService(employeeRepo, config.Security.BCryptCost, log)

	settingsRepo := settingspg.NewSettingsRepository(gormDB)
	settingsService := settings.NewService(settingsRepo, log)

	roomRepo := roompg.NewRoomRepository(gormDB)
	bookingRepo := bookingpg.NewBookingRepository(gormDB)
	eventRepo := eventpg.NewEventRepository(gormDB)

	roomService := room.NewService(roomRepo, bookingRepo, bus, log)
	bookingService := booking.NewService(bookingRepo, roomService, bus, log)
	eventService := event.NewService(eventRepo, roomService, bus, log)

	handlers := rest.Handlers{
		Auth:     auth.NewHandler(authService),
		Employee: employee.NewHandler(employeeService),
		Booking:  booking.NewHandler(bookingService),
		Event:    event.NewHandler(eventService),
		Room:     room.NewHandler(roomService),
		Settings: settings.NewHandler(settingsService),
		Realtime: realtime.NewHandler(hub, nil),
	}

	return &Dependencies{
		Config:   config,
		Logger:   log,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Hub:      hub,
	}, nil
}

// initDB opens the pgx-backed connection pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers gorm over the already-open pool so both query styles share
// one set of connections. TranslateError maps unique violations onto
// gorm.ErrDuplicatedKey, which the repositories rely on.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
}
