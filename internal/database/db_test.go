package database

import (
	"io/fs"
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	got := DSN("app", "pw", "db", "3306", "hotel")
	if !strings.HasPrefix(got, "app:pw@tcp(db:3306)/hotel?") {
		t.Fatalf("unexpected dsn %q", got)
	}
	for _, opt := range []string{"parseTime=true", "loc=UTC", "multiStatements=true"} {
		if !strings.Contains(got, opt) {
			t.Fatalf("dsn %q is missing %s", got, opt)
		}
	}
	if got := DSN("app", "", "db", "3306", "hotel"); !strings.HasPrefix(got, "app@tcp(") {
		t.Fatalf("expected no password separator, got %q", got)
	}
}

func TestMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil || len(ups) == 0 {
		t.Fatalf("expected up migrations, got %v (%v)", ups, err)
	}
	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		if _, err := fs.Stat(migrationsFS, down); err != nil {
			t.Fatalf("missing %s for %s", down, up)
		}
	}
}
