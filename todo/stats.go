package todo

// Stats counts todos by display status.
type Stats struct {
	Pending    int
	InProgress int
	Completed  int
	Failed     int
}

// ComputeStats derives the status of each todo and tallies the results.
func ComputeStats(todos []Todo, today Date, overrides CompletionOverrides) Stats {
	var stats Stats
	for _, t := range todos {
		switch DeriveStatus(t, today, overrides.For(t.ID)) {
		case StatusPending:
			stats.Pending++
		case StatusInProgress:
			stats.InProgress++
		case StatusCompleted:
			stats.Completed++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats
}

// Total returns the number of todos counted.
func (s Stats) Total() int {
	return s.Pending + s.InProgress + s.Completed + s.Failed
}

// CompletionPercent returns the share of completed todos as a whole
// percentage, or 0 when there are no todos.
func (s Stats) CompletionPercent() int {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return s.Completed * 100 / total
}

// Count returns the tally for a single display status.
func (s Stats) Count(status DisplayStatus) int {
	switch status {
	case StatusPending:
		return s.Pending
	case StatusInProgress:
		return s.InProgress
	case StatusCompleted:
		return s.Completed
	case StatusFailed:
		return s.Failed
	default:
		return 0
	}
}
