/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the attendance reporting server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and parse command-line flags
  2. Initialize SQLite check-in log
  3. Wire the notifier (Gmail when credentials are given, log-only otherwise)
  4. Create API handler and report scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port       HTTP server port (default: 8080)
  -db         SQLite database path (default: attendance.db)
              Use ":memory:" for an in-memory database
  -schedule   Enable the daily report scheduler (default: true)

ENVIRONMENT (also read from .env):
  ATTENDANCE_TZ        IANA time zone for calendar days (default: UTC)
  REPORT_RECIPIENTS    Comma-separated notification recipients
  REPORT_SOURCE_ID     Source scope for report runs (empty: whole log)
  REPORT_SEND_HOUR     Local hour the scheduler fires (default: 17)
  GMAIL_CREDENTIALS    Path to a Google service-account JSON key
  GMAIL_FROM           Sender address for Gmail delivery
  LOG_LEVEL            zerolog level (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the database connection

EXAMPLES:
  # Local run, mail to the log only
  ./server -db=":memory:"

  # Production run with Gmail delivery
  GMAIL_CREDENTIALS=./key.json GMAIL_FROM=reports@example.com ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Daily report scheduler
  - source/sqlite/sqlite.go: Check-in log implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/pulse/attendance-engine/api"
	"github.com/pulse/attendance-engine/attendance"
	"github.com/pulse/attendance-engine/notify"
	"github.com/pulse/attendance-engine/report"
	"github.com/pulse/attendance-engine/source/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "attendance.db", "SQLite database path")
	schedule := flag.Bool("schedule", true, "enable the daily report scheduler")
	flag.Parse()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	log := newLogger()

	cfg, err := attendance.NewConfig(envOr("ATTENDANCE_TZ", "UTC"), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid time zone")
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Wire the notifier
	notifier, err := newNotifier(context.Background(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize mail transport")
	}

	recipients := splitList(os.Getenv("REPORT_RECIPIENTS"))
	sourceID := os.Getenv("REPORT_SOURCE_ID")

	runner := report.NewRunner(cfg, store, notifier, sourceID, recipients, log)
	leave := report.NewLeaveNotifier(cfg, store, notifier, recipients, log)
	handler := api.NewHandler(cfg, store, runner, leave, sourceID)

	// Scheduler
	scheduler := api.NewReportScheduler(cfg, runner, leave, log)
	scheduler.Enabled = *schedule
	if hour, err := strconv.Atoi(envOr("REPORT_SEND_HOUR", "17")); err == nil {
		scheduler.SendHour = hour
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", *port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newLogger builds the process logger from LOG_LEVEL.
func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// newNotifier wires Gmail delivery when credentials are configured, a
// log-only notifier otherwise. Either way the transport is wrapped with the
// standard retry policy.
func newNotifier(ctx context.Context, log zerolog.Logger) (notify.Notifier, error) {
	credsPath := os.Getenv("GMAIL_CREDENTIALS")
	from := os.Getenv("GMAIL_FROM")
	if credsPath == "" || from == "" {
		log.Warn().Msg("no mail credentials configured, notifications go to the log")
		return notify.NewLogNotifier(log), nil
	}

	data, err := os.ReadFile(credsPath)
	if err != nil {
		return nil, fmt.Errorf("read mail credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parse mail credentials: %w", err)
	}

	gm, err := notify.NewGmailNotifier(ctx, creds.TokenSource, from)
	if err != nil {
		return nil, err
	}
	return notify.WithRetry(gm, log), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
