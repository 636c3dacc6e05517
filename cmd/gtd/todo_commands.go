package main

import (
	"context"
	"fmt"

	"github.com/grouptodo/gtd/api"
	"github.com/grouptodo/gtd/internal/editor"
	"github.com/grouptodo/gtd/todo"
	"github.com/spf13/cobra"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Manage todos",
}

// todo list
var todoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos",
	Long: `List todos.

By default lists your todos for today across all groups. Use --date for
another day, or --group to list everything in one group. Statuses are derived
from the todo's window, its type, and your own completion marks.`,
	Args: cobra.NoArgs,
	RunE: runTodoList,
}

var (
	todoListDate  string
	todoListGroup int64
	todoListJSON  bool
)

// todo add
var todoAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a todo to a group",
	Long: `Add a todo to a group.

By default, opens $EDITOR with a TOML form when running interactively and no
content flag is provided. Use --no-edit to skip the editor.`,
	Args: cobra.NoArgs,
	RunE: runTodoAdd,
}

// todo update
var todoUpdateCmd = &cobra.Command{
	Use:     "update <todo-id>",
	Short:   "Update a group todo",
	Aliases: []string{"edit"},
	Args:    cobra.ExactArgs(1),
	RunE:    runTodoUpdate,
}

var (
	todoChangeGroup    int64
	todoChangeContent  string
	todoChangeType     string
	todoChangeStart    string
	todoChangeDue      string
	todoChangeAssigned int64
	todoChangeEdit     bool
	todoChangeNoEdit   bool
)

// todo show
var todoShowCmd = &cobra.Command{
	Use:   "show <todo-id>",
	Short: "Show one group todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoShow,
}

var (
	todoShowGroup int64
	todoShowJSON  bool
)

// todo delete
var todoDeleteCmd = &cobra.Command{
	Use:   "delete <todo-id>...",
	Short: "Delete todos",
	Long: `Delete todos.

With --group, removes group todos (the IDs are group todo IDs). Without it,
removes your own copies (the IDs are per-user todo IDs from 'todo list').`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTodoDelete,
}

var todoDeleteGroup int64

// todo done
var todoDoneCmd = &cobra.Command{
	Use:   "done <todo-id>...",
	Short: "Mark your copy of one or more todos completed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoDone,
}

// todo undone
var todoUndoneCmd = &cobra.Command{
	Use:   "undone <todo-id>...",
	Short: "Clear your completion mark on one or more todos",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTodoUndone,
}

// todo recommend
var todoRecommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "List todos the backend suggests you adopt",
	Args:  cobra.NoArgs,
	RunE:  runTodoRecommend,
}

var todoRecommendJSON bool

// todo recommend add
var todoRecommendAddCmd = &cobra.Command{
	Use:   "add <todo-id>",
	Short: "Copy a recommended todo onto your list",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoRecommendAdd,
}

var todoRecommendAddDate string

func init() {
	rootCmd.AddCommand(todoCmd)
	todoCmd.AddCommand(todoListCmd, todoAddCmd, todoUpdateCmd, todoShowCmd, todoDeleteCmd,
		todoDoneCmd, todoUndoneCmd, todoRecommendCmd)
	todoRecommendCmd.AddCommand(todoRecommendAddCmd)

	todoListCmd.Flags().StringVar(&todoListDate, "date", "", "List todos for a date (YYYY-MM-DD, default today)")
	todoListCmd.Flags().Int64VarP(&todoListGroup, "group", "g", 0, "List a group's todos")
	todoListCmd.Flags().BoolVar(&todoListJSON, "json", false, "Output as JSON")
	todoListCmd.MarkFlagsMutuallyExclusive("date", "group")

	for _, cmd := range []*cobra.Command{todoAddCmd, todoUpdateCmd} {
		cmd.Flags().Int64VarP(&todoChangeGroup, "group", "g", 0, "Group the todo belongs to")
		cmd.Flags().StringVarP(&todoChangeContent, "content", "c", "", "Todo text")
		cmd.Flags().StringVarP(&todoChangeType, "type", "t", string(todo.TypePersonal), "Todo type (EXCLUSIVE, COPYABLE, PERSONAL)")
		cmd.Flags().StringVar(&todoChangeStart, "start", "", "First day of the window (YYYY-MM-DD, default today)")
		cmd.Flags().StringVar(&todoChangeDue, "due", "", "Last day of the window (YYYY-MM-DD, default start)")
		cmd.Flags().Int64Var(&todoChangeAssigned, "assigned", 0, "Member ID to claim an exclusive todo")
		cmd.Flags().BoolVarP(&todoChangeEdit, "edit", "e", false, "Open $EDITOR (default if interactive and no content flag)")
		cmd.Flags().BoolVar(&todoChangeNoEdit, "no-edit", false, "Do not open $EDITOR")
	}
	todoAddCmd.MarkFlagRequired("group")
	todoUpdateCmd.MarkFlagRequired("group")

	todoShowCmd.Flags().Int64VarP(&todoShowGroup, "group", "g", 0, "Group the todo belongs to")
	todoShowCmd.Flags().BoolVar(&todoShowJSON, "json", false, "Output as JSON")
	todoShowCmd.MarkFlagRequired("group")

	todoDeleteCmd.Flags().Int64VarP(&todoDeleteGroup, "group", "g", 0, "Delete group todos instead of your own copies")

	todoRecommendCmd.Flags().BoolVar(&todoRecommendJSON, "json", false, "Output as JSON")
	todoRecommendAddCmd.Flags().StringVar(&todoRecommendAddDate, "date", "", "Date to schedule it on (YYYY-MM-DD, default today)")
}

func runTodoList(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	if todoListGroup != 0 {
		return listGroupTodos(cmd.Context(), client, todoListGroup)
	}

	date := todo.Today()
	if todoListDate != "" {
		date, err = todo.ParseDate(todoListDate)
		if err != nil {
			return err
		}
	}

	todos, err := client.TodosByDate(cmd.Context(), date)
	if err != nil {
		return err
	}

	if todoListJSON {
		return encodeJSONToStdout(todos)
	}
	printTodoTable(todos, date, todo.NewCompletionOverrides(todos))
	return nil
}

// listGroupTodos shows all of a group's todos. The group feed carries no
// per-user completion flags, so today's feed is fetched alongside and merged
// as overrides before statuses are derived.
func listGroupTodos(ctx context.Context, client *api.Client, groupID int64) error {
	todos, err := client.GroupTodos(ctx, groupID)
	if err != nil {
		return err
	}

	today := todo.Today()
	overrides := todo.CompletionOverrides{}
	if mine, err := client.TodosByDate(ctx, today); err == nil {
		overrides = todo.NewCompletionOverrides(mine)
	}

	if todoListJSON {
		return encodeJSONToStdout(todos)
	}
	printTodoTable(todos, today, overrides)
	printTodoStats(todos, today, overrides)
	return nil
}

// changeFromFlags builds a change payload from the todo add/update flags.
func changeFromFlags() (api.TodoChange, error) {
	start := todo.Today()
	if todoChangeStart != "" {
		parsed, err := todo.ParseDate(todoChangeStart)
		if err != nil {
			return api.TodoChange{}, fmt.Errorf("invalid --start: %w", err)
		}
		start = parsed
	}
	due := start
	if todoChangeDue != "" {
		parsed, err := todo.ParseDate(todoChangeDue)
		if err != nil {
			return api.TodoChange{}, fmt.Errorf("invalid --due: %w", err)
		}
		due = parsed
	}
	if due.Before(start) {
		return api.TodoChange{}, fmt.Errorf("--due %s is before --start %s", due, start)
	}

	typ := todo.Type(todoChangeType)
	if !typ.IsValid() {
		return api.TodoChange{}, fmt.Errorf("invalid --type %q: must be EXCLUSIVE, COPYABLE, or PERSONAL", todoChangeType)
	}
	if todoChangeContent == "" {
		return api.TodoChange{}, fmt.Errorf("--content is required without the editor")
	}
	if len(todoChangeContent) > todo.MaxContentLength {
		return api.TodoChange{}, fmt.Errorf("content exceeds %d characters", todo.MaxContentLength)
	}

	change := api.TodoChange{
		Content:   todoChangeContent,
		Type:      typ,
		StartDate: start,
		DueDate:   due,
	}
	if todoChangeAssigned != 0 {
		if typ != todo.TypeExclusive {
			return api.TodoChange{}, fmt.Errorf("--assigned only applies to EXCLUSIVE todos")
		}
		assigned := todoChangeAssigned
		change.Assigned = &assigned
	}
	return change, nil
}

// useEditor decides whether the add/update flow opens $EDITOR.
func useEditor() bool {
	if todoChangeNoEdit {
		return false
	}
	if todoChangeEdit {
		return true
	}
	return todoChangeContent == "" && editor.IsInteractive()
}

func runTodoAdd(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	var change api.TodoChange
	if useEditor() {
		parsed, err := editor.EditTodo(nil)
		if err != nil {
			return err
		}
		change = parsed.ToChange()
	} else {
		change, err = changeFromFlags()
		if err != nil {
			return err
		}
	}

	created, err := client.CreateGroupTodo(cmd.Context(), todoChangeGroup, change)
	if err != nil {
		return describePermissionError(err, "add todos to this group")
	}
	fmt.Printf("Added todo %d: %s\n", created.ID, created.Content)
	return nil
}

func runTodoUpdate(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	todoID, err := parseID(args[0], "todo id")
	if err != nil {
		return err
	}

	var change api.TodoChange
	if useEditor() {
		existing, err := findGroupTodo(cmd.Context(), client, todoChangeGroup, todoID)
		if err != nil {
			return err
		}
		parsed, err := editor.EditTodo(existing)
		if err != nil {
			return err
		}
		change = parsed.ToChange()
	} else {
		change, err = changeFromFlags()
		if err != nil {
			return err
		}
	}

	updated, err := client.UpdateGroupTodo(cmd.Context(), todoID, todoChangeGroup, change)
	if err != nil {
		return describePermissionError(err, "edit this group's todos")
	}
	fmt.Printf("Updated todo %d: %s\n", updated.ID, updated.Content)
	return nil
}

// findGroupTodo fetches the current version of a todo to seed the editor.
func findGroupTodo(ctx context.Context, client *api.Client, groupID, todoID int64) (*todo.Todo, error) {
	todos, err := client.GroupTodos(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for i := range todos {
		if todos[i].ID == todoID {
			return &todos[i], nil
		}
	}
	return nil, fmt.Errorf("todo %d not found in group %d", todoID, groupID)
}

func runTodoShow(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	todoID, err := parseID(args[0], "todo id")
	if err != nil {
		return err
	}

	found, err := findGroupTodo(cmd.Context(), client, todoShowGroup, todoID)
	if err != nil {
		return err
	}

	if todoShowJSON {
		return encodeJSONToStdout(found)
	}

	today := todo.Today()
	var override *bool
	if mine, err := client.TodosByDate(cmd.Context(), today); err == nil {
		override = todo.NewCompletionOverrides(mine).For(todoID)
	}
	printTodoDetail(*found, today, override)
	return nil
}

func runTodoDelete(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	for _, arg := range args {
		todoID, err := parseID(arg, "todo id")
		if err != nil {
			return err
		}
		if todoDeleteGroup != 0 {
			err = client.DeleteGroupTodo(cmd.Context(), todoID, todoDeleteGroup)
		} else {
			err = client.DeleteTodo(cmd.Context(), todoID)
		}
		if err != nil {
			return describePermissionError(err, "delete this group's todos")
		}
		fmt.Printf("Deleted todo %d\n", todoID)
	}
	return nil
}

func runTodoDone(cmd *cobra.Command, args []string) error {
	return setTodosCompleted(cmd, args, true)
}

func runTodoUndone(cmd *cobra.Command, args []string) error {
	return setTodosCompleted(cmd, args, false)
}

func setTodosCompleted(cmd *cobra.Command, args []string, completed bool) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	for _, arg := range args {
		todoID, err := parseID(arg, "todo id")
		if err != nil {
			return err
		}
		if err := client.CompleteTodo(cmd.Context(), todoID, completed); err != nil {
			return err
		}
		if completed {
			fmt.Printf("Completed todo %d\n", todoID)
		} else {
			fmt.Printf("Reopened todo %d\n", todoID)
		}
	}
	return nil
}

func runTodoRecommend(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}

	todos, err := client.RecommendedTodos(cmd.Context())
	if err != nil {
		return err
	}

	if todoRecommendJSON {
		return encodeJSONToStdout(todos)
	}
	printTodoTable(todos, todo.Today(), nil)
	return nil
}

func runTodoRecommendAdd(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	todoID, err := parseID(args[0], "todo id")
	if err != nil {
		return err
	}

	date := todo.Today()
	if todoRecommendAddDate != "" {
		date, err = todo.ParseDate(todoRecommendAddDate)
		if err != nil {
			return err
		}
	}

	added, err := client.AddRecommendedTodo(cmd.Context(), todoID, date)
	if err != nil {
		return err
	}
	fmt.Printf("Added todo %d for %s\n", added.ID, date)
	return nil
}
