package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "qless/internal/adapters/email"
	web "qless/internal/adapters/http"
	"qless/internal/adapters/http/perf"
	"qless/internal/adapters/storage"
	accountStore "qless/internal/adapters/storage/account"
	facilityStore "qless/internal/adapters/storage/facility"
	settingsStore "qless/internal/adapters/storage/settings"
	"qless/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg := config.Default()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("QLESS_DB_PATH", "qless.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check
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

	// Create store instances (using timed DB for query instrumentation)
	stores := &web.Stores{
		FacilityStore: facilityStore.NewSQLiteStore(timedDB),
		AccountStore:  accountStore.NewSQLiteStore(timedDB),
		SettingsStore: settingsStore.NewSQLiteStore(timedDB),
	}

	// Configure email sender for high-occupancy alerts
	resendKey := os.Getenv("QLESS_RESEND_KEY")
	emailFrom := envOrDefault("QLESS_RESEND_FROM", "QLess <noreply@qless.iiti.ac.in>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if cfg.Env == "production" {
			log.Println("WARNING: QLESS_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set QLESS_RESEND_KEY for real delivery)")
		}
	}

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux("static", stores, collector, cfg)

	// Start server
	addr := envOrDefault("QLESS_ADDR", ":8080")
	log.Printf("%s %s starting on %s (env=%s)", cfg.AppName, version, addr, cfg.Env)

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
