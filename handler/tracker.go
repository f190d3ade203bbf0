package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"student-coach/internal/domain"
)

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ---------------------------------------------------------------------------
// Todos
// ---------------------------------------------------------------------------

func (h *Handler) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var item domain.TodoItem
	if err := decodeBody(r, &item); err != nil {
		h.badRequest(w, r, "malformed_body")
		return
	}
	if strings.TrimSpace(item.Title) == "" {
		h.badRequest(w, r, "empty_title")
		return
	}
	item.ID = 0
	created, err := h.tracker.CreateTodo(r.Context(), item)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	items, err := h.tracker.ListTodos(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.badRequest(w, r, "invalid_id")
		return
	}
	var upd domain.TodoUpdate
	if err := decodeBody(r, &upd); err != nil {
		h.badRequest(w, r, "malformed_body")
		return
	}
	item, err := h.tracker.UpdateTodo(r.Context(), id, upd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, h.tracker.DeleteTodo)
}

// ---------------------------------------------------------------------------
// Sleep
// ---------------------------------------------------------------------------

func (h *Handler) handleCreateSleep(w http.ResponseWriter, r *http.Request) {
	var entry domain.SleepEntry
	if err := decodeBody(r, &entry); err != nil {
		h.badRequest(w, r, "malformed_body")
		return
	}
	if !validDate(entry.Date) {
		h.badRequest(w, r, "invalid_date")
		return
	}
	if entry.Hours < 0 || entry.Hours > 24 {
		h.badRequest(w, r, "invalid_hours")
		return
	}
	entry.ID = 0
	created, err := h.tracker.CreateSleep(r.Context(), entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListSleep(w http.ResponseWriter, r *http.Request) {
	entries, err := h.tracker.ListSleep(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleSleepWeeklyAverage(w http.ResponseWriter, r *http.Request) {
	avg, err := h.tracker.SleepWeeklyAverage(r.Context(), time.Now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avg)
}

func (h *Handler) handleDeleteSleep(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, h.tracker.DeleteSleep)
}

// ---------------------------------------------------------------------------
// Exercise
// ---------------------------------------------------------------------------

func (h *Handler) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var entry domain.ExerciseEntry
	if err := decodeBody(r, &entry); err != nil {
		h.badRequest(w, r, "malformed_body")
		return
	}
	if strings.TrimSpace(entry.Title) == "" {
		h.badRequest(w, r, "empty_title")
		return
	}
	if !validDate(entry.Date) {
		h.badRequest(w, r, "invalid_date")
		return
	}
	if entry.Duration <= 0 {
		h.badRequest(w, r, "invalid_duration")
		return
	}
	entry.ID = 0
	created, err := h.tracker.CreateExercise(r.Context(), entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListExercise(w http.ResponseWriter, r *http.Request) {
	entries, err := h.tracker.ListExercise(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, h.tracker.DeleteExercise)
}

// ---------------------------------------------------------------------------
// Wellness
// ---------------------------------------------------------------------------

func (h *Handler) handleCreateWellness(w http.ResponseWriter, r *http.Request) {
	var entry domain.WellnessEntry
	if err := decodeBody(r, &entry); err != nil {
		h.badRequest(w, r, "malformed_body")
		return
	}
	if !validDate(entry.Date) {
		h.badRequest(w, r, "invalid_date")
		return
	}
	entry.ID = 0
	created, err := h.tracker.CreateWellness(r.Context(), entry)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListWellness(w http.ResponseWriter, r *http.Request) {
	entries, err := h.tracker.ListWellness(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) handleDeleteWellness(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, h.tracker.DeleteWellness)
}

// ---------------------------------------------------------------------------
// Goals
// ---------------------------------------------------------------------------

func (h *Handler) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var goal domain.Goal
	if err := decodeBody(r, &goal); err != nil {
		h.badRequest(w, r, "malformed_body")
		return
	}
	if strings.TrimSpace(goal.Title) == "" {
		h.badRequest(w, r, "empty_title")
		return
	}
	goal.ID = 0
	created, err := h.tracker.CreateGoal(r.Context(), goal)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.tracker.ListGoals(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, goals)
}

func (h *Handler) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.badRequest(w, r, "invalid_id")
		return
	}
	var goal domain.Goal
	if err := decodeBody(r, &goal); err != nil {
		h.badRequest(w, r, "malformed_body")
		return
	}
	if strings.TrimSpace(goal.Title) == "" {
		h.badRequest(w, r, "empty_title")
		return
	}
	updated, err := h.tracker.UpdateGoal(r.Context(), id, goal)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	h.handleDelete(w, r, h.tracker.DeleteGoal)
}

// handleDelete is the shared delete-by-id flow.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id int64) error) {
	id, ok := pathID(r)
	if !ok {
		h.badRequest(w, r, "invalid_id")
		return
	}
	if err := del(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
