package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grouptodo/gtd/internal/credentials"
)

func TestLoginStoresHeaderTokenAndProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != loginPath {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if code := r.URL.Query().Get("code"); code != "auth-code" {
			t.Errorf("expected auth code in query, got %q", code)
		}
		w.Header().Set("Authorization", "Bearer issued-token")
		json.NewEncoder(w).Encode(User{ID: 7, Email: "casey@example.com", Nickname: "casey"})
	}))
	defer server.Close()

	store := &memStore{}
	client := newTestClient(t, server.URL, store)

	user, err := client.LoginWithGoogle(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Nickname != "casey" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if store.token != "issued-token" {
		t.Fatalf("expected token persisted, got %q", store.token)
	}

	stored, err := client.StoredUser()
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if stored.ID != 7 {
		t.Fatalf("expected persisted profile, got %+v", stored)
	}
}

func TestLoginFallsBackToBodyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7, "nickname": "casey", "accessToken": "body-token"}`))
	}))
	defer server.Close()

	store := &memStore{}
	client := newTestClient(t, server.URL, store)

	if _, err := client.LoginWithGoogle(context.Background(), "auth-code"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if store.token != "body-token" {
		t.Fatalf("expected body token persisted, got %q", store.token)
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{})
	if _, err := client.LoginWithGoogle(context.Background(), "auth-code"); err == nil {
		t.Fatal("expected error when no token is issued")
	}
}

func TestSessionCookieCarriesReissue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case loginPath:
			http.SetCookie(w, &http.Cookie{Name: "refresh", Value: "session-1", Path: "/"})
			w.Header().Set("Authorization", "Bearer first")
			w.Write([]byte(`{"id": 7}`))
		case reissuePath:
			cookie, err := r.Cookie("refresh")
			if err != nil || cookie.Value != "session-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "second"})
		}
	}))
	defer server.Close()

	jar, err := credentials.OpenJar(t.TempDir())
	if err != nil {
		t.Fatalf("open jar: %v", err)
	}
	store := &memStore{}
	client, err := NewClient(Options{BaseURL: server.URL, Credentials: store, Jar: jar})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.LoginWithGoogle(context.Background(), "auth-code"); err != nil {
		t.Fatalf("login: %v", err)
	}
	token, err := client.Reissue(context.Background())
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	if token != "second" || store.token != "second" {
		t.Fatalf("expected reissued token, got %q (stored %q)", token, store.token)
	}
}

func TestReissueWithoutSessionExpires(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	store := &memStore{token: "old", user: json.RawMessage(`{"id": 7}`)}
	client := newTestClient(t, server.URL, store)

	if _, err := client.Reissue(context.Background()); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if store.token != "" || store.user != nil {
		t.Fatal("expected credentials cleared")
	}
}

func TestLogoutClearsCredentials(t *testing.T) {
	store := &memStore{token: "tok", user: json.RawMessage(`{"id": 7}`)}
	client := newTestClient(t, "http://127.0.0.1:0", store)

	if err := client.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if store.token != "" || store.user != nil {
		t.Fatal("expected credentials cleared")
	}
	if client.LoggedIn() {
		t.Fatal("expected logged out client")
	}
	if _, err := client.StoredUser(); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestGoogleAuthURL(t *testing.T) {
	authURL := GoogleAuthURL("client-123", "http://localhost:8910/callback")
	if !strings.HasPrefix(authURL, "https://accounts.google.com/o/oauth2/v2/auth?") {
		t.Fatalf("unexpected auth URL %q", authURL)
	}
	for _, want := range []string{"client_id=client-123", "response_type=code"} {
		if !strings.Contains(authURL, want) {
			t.Fatalf("expected %q in auth URL %q", want, authURL)
		}
	}
}
