package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"qless/internal/adapters/storage"
	accountStore "qless/internal/adapters/storage/account"
	facilityStore "qless/internal/adapters/storage/facility"
	settingsStore "qless/internal/adapters/storage/settings"
	"qless/internal/application/orchestrators"
	"qless/internal/config"
)

// main provisions the default facilities, super-admin, sample accounts,
// and the settings singleton. Safe to re-run: duplicates are reported per
// item and tolerated.
func main() {
	cfg := config.Default()

	dbPath := envOrDefault("QLESS_DB_PATH", "qless.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	deps := orchestrators.SeedDeps{
		FacilityStore: facilityStore.NewSQLiteStore(db),
		AccountStore:  accountStore.NewSQLiteStore(db),
		SettingsStore: settingsStore.NewSQLiteStore(db),
	}

	fmt.Printf("Seeding %s database at %s\n\n", cfg.AppName, dbPath)

	report, err := orchestrators.ExecuteSeedDatabase(context.Background(), deps, cfg, time.Now())
	for _, item := range report.Items {
		if item.Created {
			fmt.Printf("  created %-8s %s\n", item.Kind, item.Name)
		} else {
			fmt.Printf("  skipped %-8s %s (%s)\n", item.Kind, item.Name, item.Message)
		}
	}
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	fmt.Printf("\nDone: %d of %d items written.\n\n", report.CreatedCount(), len(report.Items))
	fmt.Println("Demo credentials:")
	for _, email := range cfg.SuperAdminEmails {
		fmt.Printf("  super admin  %s / %s\n", email, orchestrators.SuperAdminPassword)
	}
	fmt.Printf("  admin        %s / %s\n", orchestrators.SampleAdminEmail, orchestrators.SampleAdminPassword)
	fmt.Printf("  student      %s / %s\n", orchestrators.SampleStudentEmail, orchestrators.SampleStudentPass)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
