package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/study-planner/internal/application"
	"github.com/example/study-planner/internal/config"
	httptransport "github.com/example/study-planner/internal/http"
	"github.com/example/study-planner/internal/logging"
	"github.com/example/study-planner/internal/persistence"
	"github.com/example/study-planner/internal/persistence/memory"
	"github.com/example/study-planner/internal/persistence/sqlite"
	"github.com/example/study-planner/internal/recurrence"
	"github.com/example/study-planner/internal/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stdout, slog.LevelInfo).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)

	store, health, err := openStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to open storage", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(cfg, store, health, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("study planner API listening", "addr", server.Addr, "store", cfg.Store, "timezone", cfg.Timezone)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// openStore opens the configured backend. The returned health check is nil for
// backends that cannot become unreachable.
func openStore(ctx context.Context, kind string) (persistence.Store, func(context.Context) error, error) {
	switch kind {
	case config.StoreSQLite:
		store, err := sqlite.Open()
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, store.Ping, nil
	default:
		return memory.New(), nil, nil
	}
}

// newHandler assembles services, handlers and middleware over store.
func newHandler(cfg config.Config, store persistence.Store, health func(context.Context) error, logger *slog.Logger) http.Handler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := func() time.Time { return time.Now().In(loc) }

	app := state.New(store)
	timetable := application.NewTimetableServiceWithLogger(app, uuid.NewString, now, logger)
	planner := application.NewPlannerServiceWithLogger(app, uuid.NewString, now, logger)
	profile := application.NewProfileServiceWithLogger(app, logger)
	dashboard := application.NewDashboardServiceWithLogger(app, recurrence.NewEngine(loc), now, logger)
	screen := application.NewPlannerScreen(planner, logger)

	middleware := []func(http.Handler) http.Handler{
		httptransport.RequestLogger(logger),
		httptransport.RateLimit(cfg.RateLimit, logger),
	}

	return httptransport.NewRouter(httptransport.RouterConfig{
		Dashboard:  httptransport.NewDashboardHandler(dashboard, logger),
		Timetable:  httptransport.NewTimetableHandler(timetable, dashboard, loc, logger),
		Planner:    httptransport.NewPlannerHandler(planner, screen, logger),
		Profile:    httptransport.NewProfileHandler(profile, logger),
		Health:     health,
		Middleware: middleware,
	})
}
