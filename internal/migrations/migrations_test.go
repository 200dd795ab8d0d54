package migrations_test

import (
	"context"
	"testing"

	"github.com/bridgetime/bridgetime/internal/database"
	"github.com/bridgetime/bridgetime/internal/migrations"
)

func TestMigrations(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	// Verify all tables exist by querying sqlite_master.
	want := []string{"questions", "admins", "admin_sessions"}

	for _, table := range want {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(db); err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}
}

func TestMigrationsSeedQuestions(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	var era string
	if err := db.QueryRow("SELECT time_period FROM questions WHERE id = '1'").Scan(&era); err != nil {
		t.Fatalf("seed question 1 missing: %v", err)
	}
	if era != "past" {
		t.Errorf("question 1 era = %q, want past", era)
	}

	if err := db.QueryRow("SELECT time_period FROM questions WHERE id = '26'").Scan(&era); err != nil {
		t.Fatalf("seed question 26 missing: %v", err)
	}
	if era != "present" {
		t.Errorf("question 26 era = %q, want present", era)
	}
}
