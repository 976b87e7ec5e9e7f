package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"reelx/internal/models"
	"reelx/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestStateRepository(t *testing.T) {
	t.Run("missing keys read as empty", func(t *testing.T) {
		repo := NewStateRepository(setupTestDB(t))

		token, err := repo.Token()
		if err != nil {
			t.Fatalf("Token failed: %v", err)
		}
		if token != "" {
			t.Errorf("Expected empty token, got %q", token)
		}

		acct, err := repo.Account()
		if err != nil {
			t.Fatalf("Account failed: %v", err)
		}
		if acct != nil {
			t.Errorf("Expected nil account, got %+v", acct)
		}

		id, err := repo.ActiveProfileID()
		if err != nil {
			t.Fatalf("ActiveProfileID failed: %v", err)
		}
		if id != "" {
			t.Errorf("Expected empty profile id, got %q", id)
		}
	})

	t.Run("token round trips and overwrites", func(t *testing.T) {
		repo := NewStateRepository(setupTestDB(t))

		if err := repo.SetToken("t1"); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}
		if err := repo.SetToken("t2"); err != nil {
			t.Fatalf("SetToken overwrite failed: %v", err)
		}

		token, err := repo.Token()
		if err != nil {
			t.Fatalf("Token failed: %v", err)
		}
		if token != "t2" {
			t.Errorf("Expected t2, got %q", token)
		}
	})

	t.Run("empty token deletes the row", func(t *testing.T) {
		repo := NewStateRepository(setupTestDB(t))

		if err := repo.SetToken("t1"); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}
		if err := repo.SetToken(""); err != nil {
			t.Fatalf("SetToken delete failed: %v", err)
		}

		token, _ := repo.Token()
		if token != "" {
			t.Errorf("Expected deleted token, got %q", token)
		}
	})

	t.Run("account projection round trips", func(t *testing.T) {
		repo := NewStateRepository(setupTestDB(t))

		in := &models.Account{ID: "u1", Email: "a@b.c", IsAdmin: true}
		if err := repo.SetAccount(in); err != nil {
			t.Fatalf("SetAccount failed: %v", err)
		}

		out, err := repo.Account()
		if err != nil {
			t.Fatalf("Account failed: %v", err)
		}
		if out == nil || out.ID != "u1" || !out.IsAdmin {
			t.Errorf("Unexpected account projection: %+v", out)
		}

		if err := repo.SetAccount(nil); err != nil {
			t.Fatalf("SetAccount nil failed: %v", err)
		}
		out, _ = repo.Account()
		if out != nil {
			t.Errorf("Expected deleted account, got %+v", out)
		}
	})

	t.Run("clear removes everything at once", func(t *testing.T) {
		repo := NewStateRepository(setupTestDB(t))

		if err := repo.SetToken("t1"); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}
		if err := repo.SetAccount(&models.Account{ID: "u1"}); err != nil {
			t.Fatalf("SetAccount failed: %v", err)
		}
		if err := repo.SetActiveProfileID("p1"); err != nil {
			t.Fatalf("SetActiveProfileID failed: %v", err)
		}

		if err := repo.Clear(); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		token, _ := repo.Token()
		acct, _ := repo.Account()
		id, _ := repo.ActiveProfileID()
		if token != "" || acct != nil || id != "" {
			t.Error("Expected all session state to be removed")
		}
	})
}

func TestMovieCacheRepository(t *testing.T) {
	movie := models.Movie{
		ID:       "m1",
		Title:    "Spirited Away",
		Genre:    "animation",
		Director: "Hayao Miyazaki",
		Year:     2001,
		Rating:   8.6,
		Duration: "2h 5m",
		ImdbID:   "tt0245429",
	}

	t.Run("create and get round trips", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		entry := models.NewCachedMovie(movie)
		if err := repo.Create(entry); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if entry.ID() == "" {
			t.Error("Expected generated id")
		}

		got, err := repo.Get(entry.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Movie().Title != "Spirited Away" {
			t.Errorf("Unexpected title: %q", got.Movie().Title)
		}
		if !got.KidSafe() {
			t.Error("Expected animation title to be kid safe")
		}

		byMovie, err := repo.GetByMovieID("m1")
		if err != nil {
			t.Fatalf("GetByMovieID failed: %v", err)
		}
		if byMovie.ID() != entry.ID() {
			t.Error("Expected backend id lookup to find the same entry")
		}
	})

	t.Run("create rejects invalid entries", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		if err := repo.Create(models.NewCachedMovie(models.Movie{Title: "No ID"})); err == nil {
			t.Error("Expected validation error for missing catalog id")
		}
	})

	t.Run("duplicate movie id violates the constraint", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		if err := repo.Create(models.NewCachedMovie(movie)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := repo.Create(models.NewCachedMovie(movie)); err == nil {
			t.Error("Expected UNIQUE constraint violation")
		}
	})

	t.Run("update replaces catalog fields", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		if err := repo.Create(models.NewCachedMovie(movie)); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		changed := movie
		changed.Rating = 9.0
		changed.Genre = "drama"
		if err := repo.Update(models.NewCachedMovie(changed)); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		got, err := repo.GetByMovieID("m1")
		if err != nil {
			t.Fatalf("GetByMovieID failed: %v", err)
		}
		if got.Movie().Rating != 9.0 || got.Movie().Genre != "drama" {
			t.Errorf("Expected updated fields, got %+v", got.Movie())
		}
	})

	t.Run("update of a missing entry fails", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		err := repo.Update(models.NewCachedMovie(movie))
		if !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("Expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		entry := models.NewCachedMovie(movie)
		if err := repo.Create(entry); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := repo.Delete(entry.ID()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.Get(entry.ID()); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("Expected ErrMovieNotFound after delete, got %v", err)
		}

		// Blind prune by backend id is not an error.
		if err := repo.DeleteByMovieID("m1"); err != nil {
			t.Errorf("DeleteByMovieID failed: %v", err)
		}
	})

	t.Run("list filters by genre search and kid safety", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))

		entries := []models.Movie{
			movie,
			{ID: "m2", Title: "Heat", Genre: "crime", Rating: 8.3},
			{ID: "m3", Title: "Paddington", Genre: "family", Rating: 7.3},
		}
		for _, m := range entries {
			if err := repo.Create(models.NewCachedMovie(m)); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("Expected 3 entries, got %d", len(all))
		}

		family, err := repo.List(map[string]any{"genre": "family"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(family) != 1 || family[0].Movie().ID != "m3" {
			t.Errorf("Unexpected genre filter result: %+v", family)
		}

		kidSafe, err := repo.List(map[string]any{"kid_safe": true})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(kidSafe) != 2 {
			t.Errorf("Expected 2 kid-safe entries, got %d", len(kidSafe))
		}

		search, err := repo.List(map[string]any{"search": "spirited"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(search) != 1 || search[0].Movie().ID != "m1" {
			t.Errorf("Unexpected search result: %+v", search)
		}
	})
}

func TestMovieCacheAdapter(t *testing.T) {
	t.Run("caches and deduplicates as updates", func(t *testing.T) {
		repo := NewMovieCacheRepository(setupTestDB(t))
		adapter := NewMovieCacheAdapter(repo)

		movie := models.Movie{ID: "m1", Title: "Heat", Genre: "crime", Rating: 8.3}
		if err := adapter.CacheMovie(movie); err != nil {
			t.Fatalf("CacheMovie failed: %v", err)
		}

		movie.Rating = 8.5
		if err := adapter.CacheMovie(movie); err != nil {
			t.Fatalf("Duplicate CacheMovie failed: %v", err)
		}

		entries, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("Expected a single deduplicated entry, got %d", len(entries))
		}
		if entries[0].Movie().Rating != 8.5 {
			t.Errorf("Expected update in place, got rating %v", entries[0].Movie().Rating)
		}
	})
}
