package shared

import (
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		if count == 0 {
			t.Error("expected at least one migration to be applied")
		}

		if _, err := db.Exec("SELECT 1 FROM client_state LIMIT 1"); err != nil {
			t.Errorf("client_state table should exist after migrations: %v", err)
		}
		if _, err := db.Exec("SELECT 1 FROM movie_cache LIMIT 1"); err != nil {
			t.Errorf("movie_cache table should exist after migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}

		if _, err := db.Exec("SELECT 1 FROM movie_cache LIMIT 1"); err == nil {
			t.Error("movie_cache table should not exist after rollback")
		}

		// Re-running migrations restores the rolled back version only.
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to re-run migrations: %v", err)
		}
		if _, err := db.Exec("SELECT 1 FROM movie_cache LIMIT 1"); err != nil {
			t.Errorf("movie_cache table should exist after re-run: %v", err)
		}
	})

	t.Run("RunMigrations Is Idempotent", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run failed: %v", err)
		}
	})
}

func TestStateLock(t *testing.T) {
	t.Run("Acquire And Release", func(t *testing.T) {
		dir := t.TempDir()

		lock, err := AcquireStateLock(dir)
		if err != nil {
			t.Fatalf("failed to acquire lock: %v", err)
		}

		if err := lock.Release(); err != nil {
			t.Errorf("failed to release lock: %v", err)
		}
	})

	t.Run("Release Nil Lock", func(t *testing.T) {
		var lock *StateLock
		if err := lock.Release(); err != nil {
			t.Errorf("nil release should be a no-op: %v", err)
		}
	})
}
