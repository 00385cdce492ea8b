package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestListMigrationsSortsSQLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700); err != nil {
		t.Fatal(err)
	}

	resolved, migrations, err := listMigrations(dir)
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if resolved != dir {
		t.Fatalf("unexpected dir %q", resolved)
	}
	if len(migrations) != 2 || migrations[0] != "0001_a.sql" || migrations[1] != "0002_b.sql" {
		t.Fatalf("unexpected migrations %v", migrations)
	}
}

func TestListMigrationsMissingDir(t *testing.T) {
	if _, _, err := listMigrations(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRepositoryMigrationsExist(t *testing.T) {
	_, migrations, err := listMigrations(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	if len(migrations) == 0 || migrations[0] != "0001_session_contexts.sql" {
		t.Fatalf("unexpected migrations %v", migrations)
	}
}

func TestShouldRetryMigration(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"serialization", &pgconn.PgError{Code: "40001"}, true},
		{"wrapped deadlock", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"syntax", &pgconn.PgError{Code: "42601"}, false},
		{"tx closed", pgx.ErrTxClosed, true},
		{"other", fmt.Errorf("boom"), false},
	}
	for _, tc := range cases {
		if got := shouldRetryMigration(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestMigrationBackoff(t *testing.T) {
	if migrationBackoff(0) != 0 {
		t.Fatal("first attempt should not wait")
	}
	if migrationBackoff(1) != migrationBaseBackoff {
		t.Fatalf("unexpected first backoff %v", migrationBackoff(1))
	}
	if migrationBackoff(2) != 2*migrationBaseBackoff {
		t.Fatalf("unexpected second backoff %v", migrationBackoff(2))
	}
	if migrationBackoff(20) != migrationMaxBackoff {
		t.Fatalf("backoff should cap at %v", migrationMaxBackoff)
	}
}

func TestMigrateNeedsDatabaseURL(t *testing.T) {
	c := &cli{}
	root := c.rootCommand()
	root.SetArgs([]string{"migrate", "status"})
	err := root.ExecuteContext(context.Background())
	if err == nil || err.Error() != "PRESENT_DATABASE_URL is not set" {
		t.Fatalf("unexpected error %v", err)
	}
}
