package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/grouptodo/gtd/api"
	"github.com/grouptodo/gtd/todo"
)

// TodoData represents the data used to render the TOML template.
type TodoData struct {
	// IsUpdate is true when editing an existing todo.
	IsUpdate bool
	// ID is the todo ID (only for updates).
	ID int64
	// Type is the todo type (EXCLUSIVE, COPYABLE, PERSONAL).
	Type string
	// StartDate is the first day of the todo's window, YYYY-MM-DD.
	StartDate string
	// DueDate is the last day of the todo's window, YYYY-MM-DD.
	DueDate string
	// Assigned is the member ID an exclusive todo is claimed by; 0 means
	// unassigned.
	Assigned int64
	// Content is the todo text.
	Content string
}

// DefaultCreateData returns TodoData defaulted to a one-day personal todo
// starting today.
func DefaultCreateData() TodoData {
	today := string(todo.Today())
	return TodoData{
		Type:      string(todo.TypePersonal),
		StartDate: today,
		DueDate:   today,
	}
}

// DataFromTodo creates TodoData from an existing todo for editing.
func DataFromTodo(t todo.Todo) TodoData {
	data := TodoData{
		IsUpdate:  true,
		ID:        t.ID,
		Type:      string(t.Type),
		StartDate: string(t.StartDate),
		DueDate:   string(t.DueDate),
		Content:   t.Content,
	}
	if t.Assigned != nil {
		data.Assigned = *t.Assigned
	}
	return data
}

var todoTemplate = template.Must(template.New("todo").Parse(`type = {{ printf "%q" .Type }} # EXCLUSIVE, COPYABLE, PERSONAL
startDate = {{ printf "%q" .StartDate }}
dueDate = {{ printf "%q" .DueDate }}
{{- if .Assigned }}
assigned = {{ .Assigned }} # member id, exclusive todos only
{{- end }}
---
{{ .Content }}
`))

// RenderTodoTOML renders the todo data as a TOML string for editing.
func RenderTodoTOML(data TodoData) (string, error) {
	var buf bytes.Buffer
	if err := todoTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTodo represents the parsed result from the TOML editor output.
type ParsedTodo struct {
	Type      string `toml:"type"`
	StartDate string `toml:"startDate"`
	DueDate   string `toml:"dueDate"`
	Assigned  *int64 `toml:"assigned"`
	Content   string
}

// ParseTodoTOML parses the TOML content from the editor and validates it.
func ParseTodoTOML(content string) (*ParsedTodo, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedTodo
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Content = strings.TrimSpace(body)
	parsed.Type = strings.ToUpper(strings.TrimSpace(parsed.Type))

	if parsed.Content == "" {
		return nil, fmt.Errorf("todo content is required")
	}
	if len(parsed.Content) > todo.MaxContentLength {
		return nil, fmt.Errorf("todo content exceeds %d characters", todo.MaxContentLength)
	}
	if !todo.Type(parsed.Type).IsValid() {
		return nil, fmt.Errorf("invalid type %q: must be %s", parsed.Type, validTypeList())
	}
	startDate, err := todo.ParseDate(parsed.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate: %w", err)
	}
	dueDate, err := todo.ParseDate(parsed.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid dueDate: %w", err)
	}
	if dueDate.Before(startDate) {
		return nil, fmt.Errorf("dueDate %s is before startDate %s", dueDate, startDate)
	}
	if parsed.Assigned != nil && todo.Type(parsed.Type) != todo.TypeExclusive {
		return nil, fmt.Errorf("assigned only applies to %s todos", todo.TypeExclusive)
	}

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

func createTodoTempFile() (*os.File, error) {
	return os.CreateTemp("", "gtd-todo-*.md")
}

func validTypeList() string {
	valid := todo.ValidTypes()
	values := make([]string, 0, len(valid))
	for _, t := range valid {
		values = append(values, string(t))
	}
	return strings.Join(values, ", ")
}

// EditTodo opens the editor for a todo and returns the parsed result.
// For create: pass nil for existing.
// For update: pass the existing todo.
func EditTodo(existing *todo.Todo) (*ParsedTodo, error) {
	var data TodoData
	if existing == nil {
		data = DefaultCreateData()
	} else {
		data = DataFromTodo(*existing)
	}
	return EditTodoWithData(data)
}

// EditTodoWithData opens the editor with pre-populated data and returns the parsed result.
func EditTodoWithData(data TodoData) (*ParsedTodo, error) {
	content, err := RenderTodoTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := createTodoTempFile()
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTodoTOML(string(edited))
}

// ToChange converts the parsed form into the wire change payload.
func (p *ParsedTodo) ToChange() api.TodoChange {
	return api.TodoChange{
		Content:   p.Content,
		Type:      todo.Type(p.Type),
		StartDate: todo.Date(p.StartDate),
		DueDate:   todo.Date(p.DueDate),
		Assigned:  p.Assigned,
	}
}
