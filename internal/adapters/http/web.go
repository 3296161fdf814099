package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"rollcall/internal/adapters/email"
	"rollcall/internal/adapters/http/middleware"
	"rollcall/internal/adapters/http/perf"
	scheduleStore "rollcall/internal/adapters/storage/schedule"
	rollcallStore "rollcall/internal/adapters/storage/rollcall"
)

// Stores holds all storage dependencies. Both fields are interfaces, so the
// relational and flat-file backends are interchangeable here.
type Stores struct {
	ScheduleStore scheduleStore.Store
	RollCallStore rollcallStore.Store
}

// Secrets holds the two shared login secrets.
type Secrets struct {
	Admin string
	Squad string
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global secrets (set by NewMux)
var secrets Secrets

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender
var notifyAddress string

// SetEmailSender sets the sender used to announce new roll-call rounds.
// A nil sender or empty address disables notifications.
func SetEmailSender(sender email.Sender, notifyTo string) {
	emailSender = sender
	notifyAddress = notifyTo
}

// loadCSRFKey reads the CSRF secret from ROLLCALL_CSRF_KEY (hex-encoded,
// 32 bytes). In production, the key MUST be set. In development, a random key
// is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("ROLLCALL_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("ROLLCALL_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("ROLLCALL_ENV") == "production" {
		log.Fatal("ROLLCALL_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set ROLLCALL_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, sec Secrets, collector *perf.Collector) http.Handler {
	stores = s
	secrets = sec
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("ROLLCALL_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
