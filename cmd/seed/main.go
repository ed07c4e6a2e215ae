package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/CommunityWatchNC/CW-Backend/internal/coverage"
	"github.com/CommunityWatchNC/CW-Backend/internal/db"
	"github.com/CommunityWatchNC/CW-Backend/internal/seeds"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// CLI flags
var (
	fixturesPath = flag.String("fixtures", "fixtures/coverage.yaml", "Path to the YAML fixture file")
	dsn          = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun       = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm      = flag.Bool("confirm", false, "Required to perform destructive replace")
	advisoryKey  = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key (e.g., 424242). 0 = disabled")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	fixture, err := seeds.Load(*fixturesPath)
	if err != nil {
		fatalf("Fixture error: %v", err)
	}
	if err := seeds.Validate(fixture); err != nil {
		fatalf("Fixture validation failed: %v", err)
	}

	fmt.Printf("Loaded %d orgs from %s\n", len(fixture.Orgs), *fixturesPath)

	if *dryRun {
		printPlan(fixture)
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sqlDB, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	if *advisoryKey != 0 {
		if _, err := sqlDB.ExecContext(ctx, "SELECT pg_advisory_lock($1)", *advisoryKey); err != nil {
			fatalf("Failed to take advisory lock: %v", err)
		}
		defer sqlDB.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", *advisoryKey)
	}

	// Destructive replace of the coverage tables. Auth rows are untouched.
	wipe := []string{
		"coverage.shift_signups",
		"coverage.shifts",
		"coverage.dispatcher_assignments",
		"coverage.regional_lead_assignments",
		"coverage.zones",
		"coverage.org_settings",
	}
	for _, table := range wipe {
		if _, err := sqlDB.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			fatalf("Failed to wipe %s: %v", table, err)
		}
	}

	db.Connect()
	coverage.Init()

	if err := seeds.Apply(fixture); err != nil {
		fatalf("Seeding failed: %v", err)
	}

	fmt.Println("Seeding complete.")
}

func printPlan(f *seeds.Fixture) {
	for _, org := range f.Orgs {
		fmt.Printf("  org %-16s zones=%-3d shifts=%-4d dispatchers=%-4d leads=%d\n",
			org.OrgID, len(org.Zones), len(org.Shifts), len(org.Dispatchers), len(org.RegionalLeads))
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
