package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/grouptodo/gtd/todo"
)

type memStore struct {
	mu    sync.Mutex
	token string
	user  json.RawMessage
}

func (s *memStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *memStore) SetSession(token string, user json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	return nil
}

func (s *memStore) User() (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, nil
}

func (s *memStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}

func newTestClient(t *testing.T, serverURL string, store CredentialStore) *Client {
	t.Helper()
	client, err := NewClient(Options{BaseURL: serverURL, Credentials: store})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestBearerAttachedFromStore(t *testing.T) {
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "abc"})
	if _, err := client.TodosByDate(context.Background(), todo.Date("2026-09-01")); err != nil {
		t.Fatalf("todos by date: %v", err)
	}
	if authHeader != "Bearer abc" {
		t.Fatalf("expected bearer header, got %q", authHeader)
	}
}

func TestNoBearerForEmptyOrNullToken(t *testing.T) {
	for _, token := range []string{"", "null"} {
		var sawHeader bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, sawHeader = r.Header["Authorization"]
			w.Write([]byte(`[]`))
		}))

		client := newTestClient(t, server.URL, &memStore{token: token})
		if _, err := client.TodosByDate(context.Background(), todo.Date("2026-09-01")); err != nil {
			t.Fatalf("todos by date with token %q: %v", token, err)
		}
		if sawHeader {
			t.Fatalf("expected no authorization header for token %q", token)
		}
		server.Close()
	}
}

func TestRequestIDAttached(t *testing.T) {
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "abc"})
	if _, err := client.TodosByDate(context.Background(), todo.Date("2026-09-01")); err != nil {
		t.Fatalf("todos by date: %v", err)
	}
	if requestID == "" {
		t.Fatal("expected a request id header")
	}
}

func TestExpiredTokenReissuedAndRetriedOnce(t *testing.T) {
	var todoCalls, reissueCalls int
	var tokens []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == reissuePath {
			reissueCalls++
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "xyz"})
			return
		}
		todoCalls++
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		tokens = append(tokens, token)
		if token != "xyz" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[{"id": 1, "content": "water the plants", "todoType": "COPYABLE", "startDate": "2026-09-01", "dueDate": "2026-09-01"}]`))
	}))
	defer server.Close()

	store := &memStore{token: "abc"}
	client := newTestClient(t, server.URL, store)

	todos, err := client.TodosByDate(context.Background(), todo.Date("2026-09-01"))
	if err != nil {
		t.Fatalf("todos by date: %v", err)
	}
	if len(todos) != 1 || todos[0].Content != "water the plants" {
		t.Fatalf("unexpected todos: %+v", todos)
	}
	if todoCalls != 2 || reissueCalls != 1 {
		t.Fatalf("expected 2 todo calls and 1 reissue, got %d and %d", todoCalls, reissueCalls)
	}
	if tokens[0] != "abc" || tokens[1] != "xyz" {
		t.Fatalf("expected abc then xyz, got %v", tokens)
	}
	if store.token != "xyz" {
		t.Fatalf("expected reissued token persisted, got %q", store.token)
	}
}

func TestSecond401Propagates(t *testing.T) {
	var todoCalls, reissueCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == reissuePath {
			reissueCalls++
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "fresh"})
			return
		}
		todoCalls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "stale"})
	_, err := client.TodosByDate(context.Background(), todo.Date("2026-09-01"))
	if !IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if todoCalls != 2 || reissueCalls != 1 {
		t.Fatalf("expected exactly one retry, got %d todo calls and %d reissues", todoCalls, reissueCalls)
	}
}

func TestDeadSessionClearsCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := &memStore{token: "stale", user: json.RawMessage(`{"id": 7}`)}
	client := newTestClient(t, server.URL, store)

	_, err := client.TodosByDate(context.Background(), todo.Date("2026-09-01"))
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if store.token != "" || store.user != nil {
		t.Fatalf("expected credentials cleared, got token %q user %q", store.token, store.user)
	}
}

func TestNetworkErrorPropagatesWithoutRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "abc"})
	_, err := client.TodosByDate(context.Background(), todo.Date("2026-09-01"))

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if IsAuthError(err) {
		t.Fatal("network failure must not be tagged as an auth error")
	}
}

func TestErrorBodyDecoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "only admins may delete todos"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "abc"})
	err := client.DeleteGroupTodo(context.Background(), 3, 7)
	if !IsPermissionDenied(err) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if !strings.Contains(err.Error(), "only admins may delete todos") {
		t.Fatalf("expected backend message in error, got %q", err)
	}
}

func TestConcurrent401sShareOneReissue(t *testing.T) {
	var reissueCalls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == reissuePath {
			reissueCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "fresh"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "stale"})

	const callers = 8
	errs := make(chan error, callers)
	for range callers {
		go func() {
			_, err := client.TodosByDate(context.Background(), todo.Date("2026-09-01"))
			errs <- err
		}()
	}
	for range callers {
		if err := <-errs; err != nil {
			t.Fatalf("todos by date: %v", err)
		}
	}
	if calls := reissueCalls.Load(); calls != 1 {
		t.Fatalf("expected one reissue across concurrent callers, got %d", calls)
	}
}

func TestProfileImageSourcesAreExclusive(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "abc"})
	_, err := client.UpdateProfile(context.Background(), ProfileUpdate{
		Nickname: "casey",
		Image:    &Upload{Filename: "me.png", Content: []byte("png")},
		ImageURL: "https://example.com/me.png",
	})
	if err == nil {
		t.Fatal("expected error for file plus image URL")
	}
	if called {
		t.Fatal("expected no request when inputs are invalid")
	}
}
