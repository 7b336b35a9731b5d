package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/example/theater-roster/internal/application"
	"github.com/example/theater-roster/internal/config"
	httptransport "github.com/example/theater-roster/internal/http"
	"github.com/example/theater-roster/internal/logging"
	"github.com/example/theater-roster/internal/notify"
	"github.com/example/theater-roster/internal/persistence/sqlite"
	"github.com/example/theater-roster/internal/roster"
)

func main() {
	// A missing .env is fine; real deployments configure the environment
	// directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	employeeRepo := sqlite.NewEmployeeRepository(pool)
	showRepo := sqlite.NewShowRepository(pool)
	busyRepo := sqlite.NewUnavailabilityRepository(pool)
	windowRepo := sqlite.NewWindowRepository(pool)
	eventRepo := sqlite.NewEventRepository(pool)
	sessionRepo := sqlite.NewSessionRepository(pool)
	assignmentStore := sqlite.NewAssignmentStore(pool)

	notifier := buildNotifier(cfg, logger)

	engine := roster.NewEngine(assignmentStore,
		roster.WithHomeCity(cfg.HomeCity),
		roster.WithLogger(logger),
	)

	authService := application.NewAuthService(sessionRepo, cfg.AdminPasswordHash, nil, idGenerator, tokenGenerator, now, cfg.SessionTTL, logger)
	employeeService := application.NewEmployeeService(employeeRepo, idGenerator, now, logger)
	showService := application.NewShowService(showRepo, idGenerator, logger)
	unavailabilityService := application.NewUnavailabilityService(busyRepo, windowRepo, now, logger)
	eventService := application.NewEventService(eventRepo, logger)
	assignmentService := application.NewAssignmentService(engine, notifier, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:           httptransport.NewAuthHandler(authService, logger),
		Employees:      httptransport.NewEmployeeHandler(employeeService, logger),
		Shows:          httptransport.NewShowHandler(showService, logger),
		Unavailability: httptransport.NewUnavailabilityHandler(unavailabilityService, logger),
		Events:         httptransport.NewEventHandler(eventService, logger),
		Assignments:    httptransport.NewAssignmentHandler(assignmentService, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Session creation is the only route reachable without a token.
		if r.Method == http.MethodPost && strings.EqualFold(r.URL.Path, "/sessions") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
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

	logger.Info("roster API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// buildNotifier connects the summary channel. Without a broker URL summaries
// go to the log only.
func buildNotifier(cfg config.Config, logger *slog.Logger) notify.Notifier {
	if cfg.NATSURL == "" {
		return notify.NewLogNotifier(logger)
	}

	conn, err := nats.Connect(cfg.NATSURL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		logger.Warn("failed to connect to summary broker, falling back to log delivery", "error", err)
		return notify.NewLogNotifier(logger)
	}
	return notify.NewNATSNotifier(conn, cfg.SummarySubject)
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
