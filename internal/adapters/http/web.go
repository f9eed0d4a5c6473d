package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"gymdesk/internal/adapters/email"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/http/perf"
	calendarStore "gymdesk/internal/adapters/storage/calendar"
	forecastStore "gymdesk/internal/adapters/storage/forecast"
	memberStore "gymdesk/internal/adapters/storage/member"
	outboxStore "gymdesk/internal/adapters/storage/outbox"
	saleStore "gymdesk/internal/adapters/storage/sale"
	sessionStore "gymdesk/internal/adapters/storage/session"
	weeklyStore "gymdesk/internal/adapters/storage/weekly"
)

// Stores holds all storage dependencies.
type Stores struct {
	MemberStore   memberStore.Store
	SaleStore     saleStore.Store
	SessionStore  sessionStore.Store
	CalendarStore calendarStore.Store
	WeeklyStore   weeklyStore.Store
	ForecastStore forecastStore.Store
	OutboxStore   outboxStore.Store
}

// loadCSRFKey reads the CSRF secret from GYMDESK_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("GYMDESK_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("GYMDESK_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("GYMDESK_ENV") == "production" {
		log.Fatal("GYMDESK_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (tokens won't survive restart). Set GYMDESK_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// reminderRecipient is the front-desk address reminder digests go to.
var reminderRecipient string

// SetEmailSender sets the global email sender and the reminder recipient.
func SetEmailSender(sender email.Sender, to string) {
	emailSender = sender
	reminderRecipient = to
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP (OWASP A04)
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
