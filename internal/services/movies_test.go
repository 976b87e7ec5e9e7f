package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelx/internal/shared"
)

func newTestMovieService(handler http.HandlerFunc) (*MovieService, *httptest.Server) {
	server := httptest.NewServer(handler)
	api := NewAPIService(server.URL, nil, TokenSourceFunc(func() string { return "t1" }))
	return NewMovieService(api), server
}

func TestMovieServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("lists the catalog", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/movies" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`[{"_id":"m1","title":"Heat","genre":"crime","rating":8.3}]`))
		})
		defer server.Close()

		movies, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(movies) != 1 || movies[0].ID != "m1" {
			t.Errorf("Unexpected catalog: %+v", movies)
		}
	})

	t.Run("failure maps to api request error", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		defer server.Close()

		if _, err := svc.List(ctx); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("Expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestMovieServiceGet(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches a single movie", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/movies/m1" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`{"_id":"m1","title":"Heat"}`))
		})
		defer server.Close()

		movie, err := svc.Get(ctx, "m1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if movie.Title != "Heat" {
			t.Errorf("Unexpected movie: %+v", movie)
		}
	})

	t.Run("404 maps to movie not found", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		defer server.Close()

		if _, err := svc.Get(ctx, "gone"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("Expected ErrMovieNotFound, got %v", err)
		}
	})

	t.Run("requires an id", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {})
		defer server.Close()

		if _, err := svc.Get(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("Expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestMovieServiceDetails(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches details through the proxy", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/movies/details/tt0113277" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`{"Title":"Heat","Plot":"A heist crew and a detective collide.","Response":"True"}`))
		})
		defer server.Close()

		details, err := svc.Details(ctx, "tt0113277")
		if err != nil {
			t.Fatalf("Details failed: %v", err)
		}
		if details.Plot == "" {
			t.Errorf("Unexpected details: %+v", details)
		}
	})

	t.Run("omdb miss maps to movie not found", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		})
		defer server.Close()

		if _, err := svc.Details(ctx, "tt0000000"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("Expected ErrMovieNotFound, got %v", err)
		}
	})
}

func TestMovieServiceMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("create posts json", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/movies" {
				t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			}
			var input MovieInput
			json.NewDecoder(r.Body).Decode(&input)
			if input.Title != "Heat" || input.Genre != "crime" {
				t.Errorf("Unexpected input: %+v", input)
			}
			w.Write([]byte(`{"movie":{"_id":"m1","title":"Heat"}}`))
		})
		defer server.Close()

		movie, err := svc.Create(ctx, MovieInput{Title: "Heat", Genre: "crime"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if movie.ID != "m1" {
			t.Errorf("Unexpected movie: %+v", movie)
		}
	})

	t.Run("create requires a title", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {})
		defer server.Close()

		if _, err := svc.Create(ctx, MovieInput{Genre: "crime"}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("update puts to the movie path", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/movies/m1" {
				t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			}
			w.Write([]byte(`{"_id":"m1","title":"Heat","rating":9}`))
		})
		defer server.Close()

		movie, err := svc.Update(ctx, "m1", MovieInput{Title: "Heat", Rating: 9})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if movie.Rating != 9 {
			t.Errorf("Unexpected movie: %+v", movie)
		}
	})

	t.Run("delete maps 404 to movie not found", func(t *testing.T) {
		svc, server := newTestMovieService(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		defer server.Close()

		if err := svc.Delete(ctx, "gone"); !errors.Is(err, shared.ErrMovieNotFound) {
			t.Errorf("Expected ErrMovieNotFound, got %v", err)
		}
	})
}

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("lists accounts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/users" {
				t.Errorf("Unexpected path: %s", r.URL.Path)
			}
			w.Write([]byte(`[{"_id":"u1","email":"a@b.c","role":"admin"}]`))
		}))
		defer server.Close()
		svc := NewUserService(NewAPIService(server.URL, nil, nil))

		users, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(users) != 1 || !users[0].IsAdmin {
			t.Errorf("Unexpected users: %+v", users)
		}
	})

	t.Run("403 maps to not authorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"admin only"}`))
		}))
		defer server.Close()
		svc := NewUserService(NewAPIService(server.URL, nil, nil))

		if _, err := svc.List(ctx); !errors.Is(err, shared.ErrNotAuthorized) {
			t.Errorf("Expected ErrNotAuthorized, got %v", err)
		}
		if err := svc.Delete(ctx, "u1"); !errors.Is(err, shared.ErrNotAuthorized) {
			t.Errorf("Expected ErrNotAuthorized, got %v", err)
		}
	})
}
