// Package todo defines the group-todo domain types and the rules for
// deriving a display status from the raw records the backend returns.
//
// The backend stores todos with a type tag, an optional assignee, a date
// window, and (sometimes) its own status enum or completion flag. What the
// user actually sees is a four-state lifecycle label computed client-side;
// DeriveStatus implements those rules as a pure function.
package todo

// Type categorizes a todo.
type Type string

const (
	// TypeExclusive is a group todo with at most one accountable assignee.
	TypeExclusive Type = "EXCLUSIVE"

	// TypeCopyable is a group todo shared by every member, with no single
	// accountable assignee.
	TypeCopyable Type = "COPYABLE"

	// TypePersonal is a todo scoped to one user outside any group workflow.
	TypePersonal Type = "PERSONAL"
)

// ValidTypes returns all valid todo type values.
func ValidTypes() []Type {
	return []Type{TypeExclusive, TypeCopyable, TypePersonal}
}

// IsValid returns true if the type is a known valid value.
func (t Type) IsValid() bool {
	for _, valid := range ValidTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

// Label returns a short human-readable name for the type.
func (t Type) Label() string {
	switch t {
	case TypeExclusive:
		return "exclusive"
	case TypeCopyable:
		return "shared"
	case TypePersonal:
		return "personal"
	default:
		return string(t)
	}
}

// ServerStatus is the status enum the backend reports for a todo, when it
// reports one at all.
type ServerStatus string

const (
	ServerWaiting    ServerStatus = "WAITING"
	ServerInProgress ServerStatus = "IN_PROGRESS"
	ServerComplete   ServerStatus = "COMPLETE"
	ServerCompleted  ServerStatus = "COMPLETED"
	ServerFailed     ServerStatus = "FAILED"
)

// claimsCompletion reports whether the server status represents completion.
// The backend has been observed to use both spellings.
func (s ServerStatus) claimsCompletion() bool {
	return s == ServerComplete || s == ServerCompleted
}

// DisplayStatus is the presentation-level lifecycle label for a todo.
type DisplayStatus string

const (
	// StatusPending indicates the todo has not started, or cannot progress
	// without an assignee.
	StatusPending DisplayStatus = "pending"

	// StatusInProgress indicates the todo is inside its active window.
	StatusInProgress DisplayStatus = "in-progress"

	// StatusCompleted indicates the todo finished, or auto-closed.
	StatusCompleted DisplayStatus = "completed"

	// StatusFailed indicates the window closed with no completion recorded.
	StatusFailed DisplayStatus = "failed"
)

// DisplayStatuses returns the lifecycle labels in presentation order.
func DisplayStatuses() []DisplayStatus {
	return []DisplayStatus{StatusPending, StatusInProgress, StatusCompleted, StatusFailed}
}

// Todo is a raw, server-shaped todo record.
type Todo struct {
	// ID is the backend identifier for the todo.
	ID int64 `json:"id"`

	// Content is the free-text body of the todo.
	Content string `json:"content"`

	// Type tags the todo as exclusive, copyable, or personal.
	Type Type `json:"todoType"`

	// Assigned is the user ID of the assignee, when one is set.
	Assigned *int64 `json:"assigned,omitempty"`

	// StartDate is the first day of the todo's active window.
	StartDate Date `json:"startDate"`

	// DueDate is the last day of the todo's active window.
	DueDate Date `json:"dueDate"`

	// ServerStatus is the backend's own status enum, when present.
	ServerStatus ServerStatus `json:"todoStatus,omitempty"`

	// Completed is the backend's boolean completion flag, when present.
	Completed *bool `json:"completed,omitempty"`

	// IsCompleted is an alternate spelling of Completed some endpoints use.
	IsCompleted *bool `json:"isCompleted,omitempty"`
}

// CompletedFlag returns the todo's own completion flag, preferring the
// isCompleted spelling when both are present.
func (t Todo) CompletedFlag() *bool {
	if t.IsCompleted != nil {
		return t.IsCompleted
	}
	return t.Completed
}

// MaxContentLength is the maximum allowed length for todo content.
const MaxContentLength = 500
