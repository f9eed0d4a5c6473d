package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "gymdesk/internal/adapters/email"
	web "gymdesk/internal/adapters/http"
	"gymdesk/internal/adapters/http/perf"
	"gymdesk/internal/adapters/storage"
	calendarStorePkg "gymdesk/internal/adapters/storage/calendar"
	forecastStorePkg "gymdesk/internal/adapters/storage/forecast"
	memberStorePkg "gymdesk/internal/adapters/storage/member"
	outboxStorePkg "gymdesk/internal/adapters/storage/outbox"
	saleStorePkg "gymdesk/internal/adapters/storage/sale"
	sessionStorePkg "gymdesk/internal/adapters/storage/session"
	weeklyStorePkg "gymdesk/internal/adapters/storage/weekly"
	"gymdesk/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// WAL mode, foreign keys, and busy timeout keep concurrent reads cheap
	dbPath := envOrDefault("GYMDESK_DB_PATH", "gymdesk.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	obStore := outboxStorePkg.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		MemberStore:   memberStorePkg.NewSQLiteStore(timedDB),
		SaleStore:     saleStorePkg.NewSQLiteStore(timedDB),
		SessionStore:  sessionStorePkg.NewSQLiteStore(timedDB),
		CalendarStore: calendarStorePkg.NewSQLiteStore(timedDB),
		WeeklyStore:   weeklyStorePkg.NewSQLiteStore(timedDB),
		ForecastStore: forecastStorePkg.NewSQLiteStore(timedDB),
		OutboxStore:   obStore,
	}

	// Configure email sender
	resendKey := os.Getenv("GYMDESK_RESEND_API_KEY")
	emailFrom := envOrDefault("GYMDESK_EMAIL_FROM", "Gym Desk <noreply@gymdesk.local>")
	reminderTo := os.Getenv("GYMDESK_REMINDER_TO")
	var sender emailPkg.Sender
	if resendKey != "" {
		sender = emailPkg.NewResendSender(resendKey, emailFrom)
		log.Println("Email sender configured (Resend)")
	} else {
		sender = emailPkg.NewNoopSender()
		if os.Getenv("GYMDESK_ENV") == "production" {
			log.Println("WARNING: GYMDESK_RESEND_API_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set GYMDESK_RESEND_API_KEY for real delivery)")
		}
	}
	web.SetEmailSender(sender, reminderTo)

	// Background worker drains queued re-registration reminders
	reminderStopCh := make(chan struct{})
	processor := orchestrators.NewReminderProcessor(obStore, sender)
	orchestrators.StartBackgroundWorker(processor, 1*time.Minute, reminderStopCh)
	defer close(reminderStopCh)

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux("static", stores, collector)

	addr := envOrDefault("GYMDESK_ADDR", ":8080")
	log.Printf("Gym Desk %s starting on %s (env=%s)", version, addr, envOrDefault("GYMDESK_ENV", "development"))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
