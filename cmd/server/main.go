package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	emailPkg "rollcall/internal/adapters/email"
	web "rollcall/internal/adapters/http"
	"rollcall/internal/adapters/http/perf"
	"rollcall/internal/adapters/storage"
	rollcallStore "rollcall/internal/adapters/storage/rollcall"
	scheduleStore "rollcall/internal/adapters/storage/schedule"
	"rollcall/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	collector := perf.NewCollector(perf.DefaultRingSize)

	var stores *web.Stores
	backend := envOrDefault("ROLLCALL_STORE", "sqlite")
	switch backend {
	case "sqlite":
		// WAL mode, foreign keys, and busy timeout for concurrent form posts
		dbPath := envOrDefault("ROLLCALL_DB_PATH", "rollcall.db")
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

		timedDB := storage.NewTimedDB(db, collector)
		stores = &web.Stores{
			ScheduleStore: scheduleStore.NewSQLiteStore(timedDB),
			RollCallStore: rollcallStore.NewSQLiteStore(timedDB),
		}
		log.Printf("Storage backend: sqlite (%s)", dbPath)

	case "file":
		dataDir := envOrDefault("ROLLCALL_DATA_DIR", "data")
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			log.Fatalf("failed to create data dir: %v", err)
		}
		stores = &web.Stores{
			ScheduleStore: scheduleStore.NewFileStore(filepath.Join(dataDir, "schedule.json")),
			RollCallStore: rollcallStore.NewFileStore(filepath.Join(dataDir, "attendance.json")),
		}
		log.Printf("Storage backend: file (%s)", dataDir)

	default:
		log.Fatalf("unknown ROLLCALL_STORE %q (want sqlite or file)", backend)
	}

	// The first roll-call round exists from the moment the app starts
	ensureDeps := orchestrators.EnsureSessionDeps{
		RollCallStore: stores.RollCallStore,
		GenerateID:    func() string { return uuid.New().String() },
		Now:           time.Now,
	}
	if _, err := orchestrators.ExecuteEnsureSession(context.Background(), ensureDeps); err != nil {
		log.Fatalf("failed to ensure roll-call session: %v", err)
	}

	// Configure email sender for new-round notifications
	resendKey := os.Getenv("ROLLCALL_RESEND_KEY")
	notifyTo := os.Getenv("ROLLCALL_NOTIFY_EMAIL")
	emailFrom := envOrDefault("ROLLCALL_RESEND_FROM", "Roll Call <noreply@localhost>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), notifyTo)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), notifyTo)
		log.Println("Email sender configured (noop; set ROLLCALL_RESEND_KEY for real delivery)")
	}

	secrets := web.Secrets{
		Admin: envOrDefault("ROLLCALL_ADMIN_PASSWORD", "00"),
		Squad: envOrDefault("ROLLCALL_SQUAD_PASSWORD", "00"),
	}
	if os.Getenv("ROLLCALL_ENV") == "production" && (secrets.Admin == "00" || secrets.Squad == "00") {
		log.Println("WARNING: running in production with a default password. Set ROLLCALL_ADMIN_PASSWORD and ROLLCALL_SQUAD_PASSWORD")
	}

	mux := web.NewMux("static", stores, secrets, collector)

	addr := envOrDefault("ROLLCALL_ADDR", ":8080")
	log.Printf("Roll Call %s starting on %s (env=%s, store=%s)", version, addr, envOrDefault("ROLLCALL_ENV", "development"), backend)

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
