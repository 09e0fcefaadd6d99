package postgres

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
)

func TestMigrationsAreEmbeddedInOrder(t *testing.T) {
	migrations, err := Migrations()
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatalf("expected at least one embedded migration")
	}
	if migrations[0].Version != "0001_init" {
		t.Fatalf("unexpected first migration: %s", migrations[0].Version)
	}
	for _, table := range []string{"profiles", "swipes", "matches", "messages"} {
		if !strings.Contains(migrations[0].SQL, "CREATE TABLE IF NOT EXISTS "+table) {
			t.Fatalf("initial migration does not create %s", table)
		}
	}
	if !strings.Contains(migrations[0].SQL, "matches_pair_key_key UNIQUE (pair_key)") {
		t.Fatalf("initial migration must keep pair_key unique")
	}
}

func TestLoadMigrationsSortsByFileName(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_b.sql": {Data: []byte("SELECT 2;")},
		"migrations/0001_a.sql": {Data: []byte("SELECT 1;")},
		"migrations/readme.txt": {Data: []byte("ignored")},
	}

	migrations, err := loadMigrations(fsys)
	if err != nil {
		t.Fatalf("load migrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != "0001_a" || migrations[1].Version != "0002_b" {
		t.Fatalf("unexpected order: %+v", migrations)
	}
}

func TestReposReportUnavailableWithoutPool(t *testing.T) {
	store := NewStore(nil, 0)

	if _, err := store.Profiles.GetByID(context.Background(), "u1"); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable from profiles, got %v", err)
	}
	if _, err := store.Swipes.ListTargets(context.Background(), "u1"); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable from swipes, got %v", err)
	}
	if _, err := store.Matches.ListPendingPairs(context.Background(), 10); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable from matches, got %v", err)
	}
	if _, err := store.Messages.ListByMatch(context.Background(), "m1"); err != ErrUnavailable {
		t.Fatalf("expected ErrUnavailable from messages, got %v", err)
	}
}
