package api

import "github.com/grouptodo/gtd/todo"

// User is the profile the backend returns at login and from the profile
// endpoints.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profileImage"`
}

// UserStats summarizes a user's todo history.
type UserStats struct {
	TotalTodos     int     `json:"totalTodos"`
	CompletedTodos int     `json:"completedTodos"`
	FailedTodos    int     `json:"failedTodos"`
	CompletionRate float64 `json:"completionRate"`
	StreakDays     int     `json:"streakDays"`
}

// Activity is one entry in the recent-activity feed.
type Activity struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

// WeekDay is one day of the weekly overview: the date plus that day's todos.
type WeekDay struct {
	Date  todo.Date   `json:"date"`
	Todos []todo.Todo `json:"todos"`
}

// Report is the periodic summary the backend computes per user.
type Report struct {
	Period         string  `json:"period"`
	TotalTodos     int     `json:"totalTodos"`
	CompletedTodos int     `json:"completedTodos"`
	FailedTodos    int     `json:"failedTodos"`
	CompletionRate float64 `json:"completionRate"`
	BestGroupName  string  `json:"bestGroupName"`
}

// Achievement is a badge the user has earned or is progressing toward.
type Achievement struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Achieved    bool   `json:"achieved"`
	Progress    int    `json:"progress"`
	Goal        int    `json:"goal"`
}
