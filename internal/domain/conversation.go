package domain

import "time"

// ChatTurn is a single persisted conversation turn. Turns are append-only:
// created once by the history store, never updated or deleted.
type ChatTurn struct {
	ID        int64
	UserID    string
	Role      string
	Content   string
	CreatedAt time.Time
}

// ContextSnapshot is the caller-supplied dashboard state sent along with a
// chat message. It is consumed once to render the context summary and then
// discarded; it is never persisted. Ordering of the entry lists is the
// caller's responsibility — "latest" means the first element.
type ContextSnapshot struct {
	TodoTasks       []SnapshotTodo     `json:"todoTasks"`
	SleepEntries    []SnapshotSleep    `json:"sleepEntries"`
	ExerciseEntries []SnapshotExercise `json:"exerciseEntries"`
	WellnessEntries []SnapshotWellness `json:"wellnessEntries"`
}

// SnapshotTodo carries the only todo field the context summary uses.
type SnapshotTodo struct {
	Title string `json:"title"`
}

// SnapshotSleep carries the hours of one sleep entry.
type SnapshotSleep struct {
	Hours float64 `json:"hours"`
}

// SnapshotExercise carries the duration in minutes of one exercise entry.
type SnapshotExercise struct {
	Minutes int `json:"minutes"`
}

// SnapshotWellness carries the free-text note of one wellness entry.
type SnapshotWellness struct {
	Note string `json:"note"`
}
