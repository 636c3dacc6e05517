package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Tokens the fake backend accepts. The stale token is never valid; a client
// holding it must reissue, which succeeds only with the session cookie below.
const (
	scriptToken   = "script-token"
	reissuedToken = "script-token-2"
	staleToken    = "stale-token"

	sessionCookieName  = "refresh"
	sessionCookieValue = "script-session"
)

// newScriptBackend serves a small fixed dataset for CLI end-to-end scripts.
// It is stateless so concurrent scripts cannot interfere.
func newScriptBackend(t testing.TB) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	authorized := func(r *http.Request) bool {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		return token == scriptToken || token == reissuedToken
	}
	guard := func(handler http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !authorized(r) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			handler(w, r)
		}
	}
	respond := func(w http.ResponseWriter, value any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(value)
	}

	mux.HandleFunc("POST /api/v1/users/auth/reissue", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value != sessionCookieValue {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		respond(w, map[string]string{"accessToken": reissuedToken})
	})

	mux.HandleFunc("GET /api/v1/users/profile", guard(func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{"id": 1, "nickname": "scripter", "email": "scripter@example.com"})
	}))

	mux.HandleFunc("GET /api/v1/users/stats", guard(func(w http.ResponseWriter, r *http.Request) {
		respond(w, map[string]any{
			"totalTodos": 10, "completedTodos": 7, "failedTodos": 1,
			"completionRate": 70, "streakDays": 3,
		})
	}))

	mux.HandleFunc("GET /api/v1/users/me/activities/recent", guard(func(w http.ResponseWriter, r *http.Request) {
		respond(w, []map[string]any{
			{"id": 1, "type": "TODO_COMPLETED", "message": "completed 'water the plants'", "createdAt": "2026-09-01T09:00:00Z"},
		})
	}))

	mux.HandleFunc("GET /api/v1/users/achievements", guard(func(w http.ResponseWriter, r *http.Request) {
		respond(w, []map[string]any{
			{"id": 1, "name": "First Steps", "description": "Complete a todo", "achieved": true, "progress": 1, "goal": 1},
			{"id": 2, "name": "Streak Week", "description": "Seven-day streak", "achieved": false, "progress": 3, "goal": 7},
		})
	}))

	mux.HandleFunc("GET /api/v1/users/me/groups", guard(func(w http.ResponseWriter, r *http.Request) {
		respond(w, []map[string]any{
			{"id": 1, "groupName": "Mine", "category": "OTHER", "scope": "PRIVATE", "numMember": 1},
			{"id": 2, "groupName": "Study Club", "category": "STUDY", "scope": "PUBLIC", "numMember": 4},
		})
	}))

	mux.HandleFunc("GET /api/v1/groups/{id}/members", guard(func(w http.ResponseWriter, r *http.Request) {
		respond(w, []map[string]any{
			{"id": 21, "userId": 1, "groupId": 2, "nickname": "scripter", "role": "CREATOR"},
			{"id": 22, "userId": 5, "groupId": 2, "nickname": "jamie", "role": "MEMBER"},
		})
	}))

	mux.HandleFunc("GET /api/v1/todos", guard(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date") != "2026-09-01" {
			respond(w, []any{})
			return
		}
		respond(w, []map[string]any{
			{"id": 11, "content": "water the plants", "todoType": "COPYABLE",
				"startDate": "2026-09-01", "dueDate": "2026-09-01"},
			{"id": 12, "content": "write weekly summary", "todoType": "PERSONAL",
				"startDate": "2026-09-01", "dueDate": "2026-09-03", "isCompleted": true},
		})
	}))

	mux.HandleFunc("GET /api/v1/todos/groups/{id}", guard(func(w http.ResponseWriter, r *http.Request) {
		respond(w, []map[string]any{
			{"id": 11, "content": "water the plants", "todoType": "COPYABLE",
				"startDate": "2026-09-01", "dueDate": "2026-09-01"},
			{"id": 13, "content": "present chapter 4", "todoType": "EXCLUSIVE",
				"startDate": "2026-09-01", "dueDate": "2026-12-31"},
		})
	}))

	mux.HandleFunc("POST /api/v1/groups/{id}", guard(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("DELETE /api/v1/groups/{id}/members", guard(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("GET /api/v1/todos/me/recommend", guard(func(w http.ResponseWriter, r *http.Request) {
		respond(w, []map[string]any{
			{"id": 31, "content": "stretch for ten minutes", "todoType": "COPYABLE",
				"startDate": "2026-09-01", "dueDate": "2026-12-31"},
		})
	}))

	mux.HandleFunc("POST /api/v1/todos/{id}", guard(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Date string `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Date == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		respond(w, map[string]any{"id": 31, "content": "stretch for ten minutes",
			"todoType": "COPYABLE", "startDate": payload.Date, "dueDate": payload.Date})
	}))

	mux.HandleFunc("PATCH /api/v1/todos/{id}/groups/{gid}", guard(func(w http.ResponseWriter, r *http.Request) {
		var change struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&change); err != nil || change.Content == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		respond(w, map[string]any{"id": 11, "content": change.Content, "todoType": "COPYABLE",
			"startDate": "2026-09-01", "dueDate": "2026-09-01"})
	}))

	mux.HandleFunc("DELETE /api/v1/todos/{id}/groups/{gid}", guard(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("DELETE /api/v1/todos/{id}", guard(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("PATCH /api/v1/todos/{id}/complete", guard(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Completed bool `json:"completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
