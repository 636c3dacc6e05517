package main

import (
	"strings"
	"testing"

	"github.com/grouptodo/gtd/internal/ui"
	"github.com/grouptodo/gtd/todo"
)

func fixtureTodos() []todo.Todo {
	completed := true
	return []todo.Todo{
		{ID: 1, Content: "water the plants", Type: todo.TypeCopyable,
			StartDate: "2026-09-01", DueDate: "2026-09-03"},
		{ID: 2, Content: "book the study room", Type: todo.TypePersonal,
			StartDate: "2026-09-01", DueDate: "2026-09-01", IsCompleted: &completed},
		{ID: 3, Content: "present chapter 4", Type: todo.TypeExclusive,
			StartDate: "2026-09-01", DueDate: "2026-09-05"},
	}
}

func TestFormatTodoTableDerivesStatuses(t *testing.T) {
	ui.SetColorMode("never")
	todos := fixtureTodos()
	today := todo.Date("2026-09-02")

	output := formatTodoTable(todos, today, todo.NewCompletionOverrides(todos))

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines:\n%s", len(lines), output)
	}
	if !strings.Contains(lines[0], "STATUS") || !strings.Contains(lines[0], "CONTENT") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "in-progress") {
		t.Errorf("active copyable todo should be in-progress: %q", lines[1])
	}
	if !strings.Contains(lines[2], "completed") {
		t.Errorf("todo with a completion mark should be completed: %q", lines[2])
	}
	if !strings.Contains(lines[3], "pending") {
		t.Errorf("unclaimed exclusive todo should be pending: %q", lines[3])
	}
}

func TestFormatTodoTableAfterDueDate(t *testing.T) {
	ui.SetColorMode("never")
	todos := fixtureTodos()
	today := todo.Date("2026-09-09")

	output := formatTodoTable(todos, today, nil)

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if !strings.Contains(lines[1], "completed") {
		t.Errorf("expired copyable todo auto-closes: %q", lines[1])
	}
	if !strings.Contains(lines[3], "failed") {
		t.Errorf("expired exclusive todo fails: %q", lines[3])
	}
}

func TestFormatTodoTableTruncatesContent(t *testing.T) {
	ui.SetColorMode("never")
	todos := []todo.Todo{{
		ID: 1, Content: strings.Repeat("plan the retreat ", 10), Type: todo.TypePersonal,
		StartDate: "2026-09-01", DueDate: "2026-09-01",
	}}

	output := formatTodoTable(todos, "2026-09-01", nil)
	if !strings.Contains(output, "...") {
		t.Fatalf("expected truncated content, got:\n%s", output)
	}
}
