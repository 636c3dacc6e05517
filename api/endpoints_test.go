package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grouptodo/gtd/todo"
)

// The backend addresses group todos through /todos/{id}/groups/{id} and
// reuses /todos/{id} for both the per-user delete and the recommended-todo
// add, so the wrapper paths are asserted one by one.
func TestResourceEndpointPaths(t *testing.T) {
	var method, path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		body = string(raw)
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "abc"})
	ctx := context.Background()
	change := TodoChange{Content: "water the plants", Type: todo.TypeCopyable,
		StartDate: "2026-09-01", DueDate: "2026-09-01"}

	cases := []struct {
		name   string
		call   func() error
		method string
		path   string
	}{
		{"join group", func() error { return client.JoinGroup(ctx, 5) },
			http.MethodPost, "/api/v1/groups/5"},
		{"leave group", func() error { return client.LeaveGroup(ctx, 5) },
			http.MethodDelete, "/api/v1/groups/5/members"},
		{"recommended todos", func() error { _, err := client.RecommendedTodos(ctx); return err },
			http.MethodGet, "/api/v1/todos/me/recommend"},
		{"update group todo", func() error { _, err := client.UpdateGroupTodo(ctx, 9, 4, change); return err },
			http.MethodPatch, "/api/v1/todos/9/groups/4"},
		{"delete group todo", func() error { return client.DeleteGroupTodo(ctx, 9, 4) },
			http.MethodDelete, "/api/v1/todos/9/groups/4"},
		{"delete own todo", func() error { return client.DeleteTodo(ctx, 9) },
			http.MethodDelete, "/api/v1/todos/9"},
		{"add recommended todo", func() error { _, err := client.AddRecommendedTodo(ctx, 9, "2026-09-01"); return err },
			http.MethodPost, "/api/v1/todos/9"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); err != nil {
				t.Fatalf("call: %v", err)
			}
			if method != tc.method || path != tc.path {
				t.Fatalf("emitted %s %s, want %s %s", method, path, tc.method, tc.path)
			}
		})
	}

	if err := func() error { _, err := client.AddRecommendedTodo(ctx, 9, "2026-09-01"); return err }(); err != nil {
		t.Fatalf("add recommended todo: %v", err)
	}
	if !strings.Contains(body, `"date":"2026-09-01"`) {
		t.Fatalf("expected date in request body, got %q", body)
	}
}

func TestGroupCreateMultipartShape(t *testing.T) {
	var method, path string
	var fields map[string][]string
	var fileField string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		fields = r.MultipartForm.Value
		for name := range r.MultipartForm.File {
			fileField = name
		}
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "abc"})
	_, err := client.CreateGroup(context.Background(), GroupChange{
		Name:     "book club",
		Scope:    "PUBLIC",
		Category: "STUDY",
		Image:    &Upload{Filename: "cover.png", Content: []byte("png")},
	})
	if err != nil {
		t.Fatalf("create group: %v", err)
	}

	if method != http.MethodPost || path != "/api/v1/groups" {
		t.Fatalf("emitted %s %s, want POST /api/v1/groups", method, path)
	}
	if got := fields["groupName"]; len(got) != 1 || got[0] != "book club" {
		t.Fatalf("expected groupName field, got %v", fields)
	}
	if fileField != "image" {
		t.Fatalf("expected image file part, got %q", fileField)
	}
}

func TestProfileUpdatePostsMultipart(t *testing.T) {
	var method, path, fileField string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		for name := range r.MultipartForm.File {
			fileField = name
		}
		w.Write([]byte(`null`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, &memStore{token: "abc"})
	_, err := client.UpdateProfile(context.Background(), ProfileUpdate{
		Nickname: "casey",
		Image:    &Upload{Filename: "me.png", Content: []byte("png")},
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}

	if method != http.MethodPost || path != "/api/v1/users/me/profile" {
		t.Fatalf("emitted %s %s, want POST /api/v1/users/me/profile", method, path)
	}
	if fileField != "profileImage" {
		t.Fatalf("expected profileImage file part, got %q", fileField)
	}
}
