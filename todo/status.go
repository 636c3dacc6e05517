package todo

// DeriveStatus computes the display status for a todo on a given day.
//
// override is a per-day completion flag fetched separately from the user's
// own todo list; pass nil when no override is known. The rules, first match
// wins:
//
//  1. An effective completion flag of true means completed, full stop.
//  2. A flag of explicitly false suppresses a server status that claims
//     completion. The backend's boolean and its status enum have been seen
//     to disagree, and the boolean reflects the most recent user action,
//     so it wins.
//  3. A recognized server status maps directly to its display status.
//  4. With no usable server status, status follows the date window and type:
//     before the window every todo is pending; inside it a copyable todo is
//     in progress, an exclusive todo without an assignee stays pending, and
//     anything else is in progress; after it a copyable todo counts as
//     completed (nobody owns its failure) while the rest have failed.
//
// The result depends only on the arguments, so it is safe to recompute or
// memoize per (todo, today) pair.
func DeriveStatus(t Todo, today Date, override *bool) DisplayStatus {
	completed := override
	if completed == nil {
		completed = t.CompletedFlag()
	}

	if completed != nil && *completed {
		return StatusCompleted
	}

	suppressed := completed != nil && !*completed && t.ServerStatus.claimsCompletion()
	if !suppressed {
		if status, ok := mapServerStatus(t.ServerStatus); ok {
			return status
		}
	}

	if today.Before(t.StartDate) {
		return StatusPending
	}

	if t.Type == TypeCopyable {
		if today.After(t.DueDate) {
			return StatusCompleted
		}
		return StatusInProgress
	}

	if today.After(t.DueDate) {
		return StatusFailed
	}
	if t.Type == TypeExclusive && t.Assigned == nil {
		return StatusPending
	}
	return StatusInProgress
}

// mapServerStatus converts the backend status enum to a display status.
// Unknown or absent values fall through to the date-based rules.
func mapServerStatus(s ServerStatus) (DisplayStatus, bool) {
	switch s {
	case ServerWaiting:
		return StatusPending, true
	case ServerInProgress:
		return StatusInProgress, true
	case ServerComplete, ServerCompleted:
		return StatusCompleted, true
	case ServerFailed:
		return StatusFailed, true
	default:
		return "", false
	}
}

// CompletionOverrides maps todo IDs to per-day completion flags, built from
// a same-day fetch of the user's own todos.
type CompletionOverrides map[int64]bool

// NewCompletionOverrides collects the completion flags from the given todos.
// Todos without a flag contribute no entry.
func NewCompletionOverrides(todos []Todo) CompletionOverrides {
	overrides := make(CompletionOverrides, len(todos))
	for _, t := range todos {
		if flag := t.CompletedFlag(); flag != nil {
			overrides[t.ID] = *flag
		}
	}
	return overrides
}

// For returns the override for a todo ID, or nil when none is recorded.
func (o CompletionOverrides) For(id int64) *bool {
	if o == nil {
		return nil
	}
	value, ok := o[id]
	if !ok {
		return nil
	}
	return &value
}
