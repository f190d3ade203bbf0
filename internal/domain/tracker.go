package domain

import "time"

// TodoItem is one task on the todo list.
type TodoItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Completed   bool   `json:"completed"`
}

// TodoUpdate is a partial update for a todo item. Nil fields are left
// untouched.
type TodoUpdate struct {
	Completed *bool `json:"completed"`
}

// SleepEntry records one night of sleep. Date is a calendar day in
// YYYY-MM-DD form.
type SleepEntry struct {
	ID    int64   `json:"id"`
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Notes string  `json:"notes,omitempty"`
}

// ExerciseEntry records one workout. Duration is in minutes.
type ExerciseEntry struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	Intensity string `json:"intensity,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// WellnessEntry records a daily mood/energy check-in on a 1-10 scale.
type WellnessEntry struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Mood   int    `json:"mood"`
	Energy int    `json:"energy"`
	Notes  string `json:"notes,omitempty"`
}

// Goal is a longer-term objective shown on the dashboard.
type Goal struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	TargetDate  string    `json:"targetDate,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WeeklyAverage is the rolling seven-day sleep summary.
type WeeklyAverage struct {
	WeekStart    string  `json:"week_start"`
	WeekEnd      string  `json:"week_end"`
	AverageHours float64 `json:"average_hours"`
}
