package main

import (
	"fmt"
	"strconv"

	"github.com/grouptodo/gtd/internal/markdown"
	"github.com/grouptodo/gtd/internal/ui"
	"github.com/grouptodo/gtd/todo"
)

// printTodoTable prints todos with their derived status for the given day.
func printTodoTable(todos []todo.Todo, today todo.Date, overrides todo.CompletionOverrides) {
	if len(todos) == 0 {
		fmt.Println("No todos found.")
		return
	}
	fmt.Print(formatTodoTable(todos, today, overrides))
}

func formatTodoTable(todos []todo.Todo, today todo.Date, overrides todo.CompletionOverrides) string {
	builder := ui.NewTableBuilder([]string{"ID", "TYPE", "STATUS", "START", "DUE", "CONTENT"}, len(todos))

	for _, t := range todos {
		status := todo.DeriveStatus(t, today, overrides.For(t.ID))
		builder.AddRow([]string{
			strconv.FormatInt(t.ID, 10),
			t.Type.Label(),
			ui.StatusBadge(status),
			string(t.StartDate),
			string(t.DueDate),
			ui.TruncateTableCell(t.Content),
		})
	}

	return builder.String()
}

// printTodoDetail prints one todo with its derived status for the given day.
func printTodoDetail(t todo.Todo, today todo.Date, override *bool) {
	fmt.Printf("ID:      %d\n", t.ID)
	fmt.Printf("Type:    %s\n", t.Type.Label())
	fmt.Printf("Status:  %s\n", ui.StatusBadge(todo.DeriveStatus(t, today, override)))
	fmt.Printf("Window:  %s to %s\n", t.StartDate, t.DueDate)
	if t.Assigned != nil {
		fmt.Printf("Claimed: member %d\n", *t.Assigned)
	}
	fmt.Printf("\n%s\n", markdown.ReflowParagraphs(t.Content, detailLineWidth))
}

// printTodoStats prints the per-status counts and completion percentage shown
// under a group listing.
func printTodoStats(todos []todo.Todo, today todo.Date, overrides todo.CompletionOverrides) {
	if len(todos) == 0 {
		return
	}

	stats := todo.ComputeStats(todos, today, overrides)
	fmt.Println()
	fmt.Printf("%d todos: %d pending, %d in progress, %d completed, %d failed (%d%% done)\n",
		stats.Total(), stats.Pending, stats.InProgress, stats.Completed, stats.Failed,
		stats.CompletionPercent())
}
