package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"student-coach/internal/repository"
	"student-coach/internal/usecase"
)

// ChatService is the coach use case consumed by the chat endpoint.
type ChatService interface {
	Chat(ctx context.Context, in usecase.ChatInput) (usecase.ChatOutput, error)
}

// Handler serves the dashboard API: the chat relay plus the tracker CRUD
// resources.
type Handler struct {
	coach   ChatService
	tracker *repository.TrackerStore
	origins map[string]struct{}
	log     zerolog.Logger
}

// New creates a Handler.
func New(coach ChatService, tracker *repository.TrackerStore, allowedOrigins []string, logger zerolog.Logger) (*Handler, error) {
	if coach == nil {
		return nil, errors.New("handler: chat service must not be nil")
	}
	if tracker == nil {
		return nil, errors.New("handler: tracker store must not be nil")
	}
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &Handler{coach: coach, tracker: tracker, origins: origins, log: logger}, nil
}

// Routes builds the full route table wrapped in the shared middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.handleStatus)
	mux.HandleFunc("POST /chat", h.handleChat)

	mux.HandleFunc("POST /todos", h.handleCreateTodo)
	mux.HandleFunc("GET /todos", h.handleListTodos)
	mux.HandleFunc("PUT /todos/{id}", h.handleUpdateTodo)
	mux.HandleFunc("DELETE /todos/{id}", h.handleDeleteTodo)

	mux.HandleFunc("POST /sleep", h.handleCreateSleep)
	mux.HandleFunc("GET /sleep", h.handleListSleep)
	mux.HandleFunc("GET /sleep/weekly_average", h.handleSleepWeeklyAverage)
	mux.HandleFunc("DELETE /sleep/{id}", h.handleDeleteSleep)

	mux.HandleFunc("POST /exercise", h.handleCreateExercise)
	mux.HandleFunc("GET /exercise", h.handleListExercise)
	mux.HandleFunc("DELETE /exercise/{id}", h.handleDeleteExercise)

	mux.HandleFunc("POST /wellness", h.handleCreateWellness)
	mux.HandleFunc("GET /wellness", h.handleListWellness)
	mux.HandleFunc("DELETE /wellness/{id}", h.handleDeleteWellness)

	mux.HandleFunc("POST /goals", h.handleCreateGoal)
	mux.HandleFunc("GET /goals", h.handleListGoals)
	mux.HandleFunc("PUT /goals/{id}", h.handleUpdateGoal)
	mux.HandleFunc("DELETE /goals/{id}", h.handleDeleteGoal)

	return h.withMiddleware(mux)
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "student-coach"})
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

type ctxKey int

const correlationKey ctxKey = 0

const correlationHeader = "X-Correlation-Id"

// withMiddleware applies CORS handling, correlation ids, and request logging
// around the route table.
func (h *Handler) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corrID := r.Header.Get(correlationHeader)
		if corrID == "" {
			corrID = uuid.NewString()
		}
		w.Header().Set(correlationHeader, corrID)
		r = r.WithContext(context.WithValue(r.Context(), correlationKey, corrID))

		if origin := r.Header.Get("Origin"); origin != "" {
			if _, ok := h.origins[origin]; !ok {
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+correlationHeader)
			w.WriteHeader(http.StatusNoContent)
			return
		}

		h.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("correlation_id", corrID).
			Msg("request")
		next.ServeHTTP(w, r)
	})
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey).(string)
	return id
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError logs the diagnostic detail server-side and maps the error to a
// single generic failure response. The caller only ever sees the error code.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := usecase.ErrorInternal
	status := http.StatusInternalServerError

	var ucErr *usecase.Error
	switch {
	case errors.As(err, &ucErr):
		code = ucErr.Code
		switch ucErr.Code {
		case usecase.ErrorInvalidRequest:
			status = http.StatusBadRequest
		case usecase.ErrorUpstream:
			status = http.StatusBadGateway
		case usecase.ErrorPersistence, usecase.ErrorInternal:
			status = http.StatusInternalServerError
		}
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "NOT_FOUND"})
		return
	}

	h.log.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("correlation_id", correlationID(r.Context())).
		Msg("request failed")
	writeJSON(w, status, errorResponse{Error: string(code)})
}

// badRequest reports a malformed inbound payload without involving the use case.
func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, reason string) {
	h.log.Warn().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("reason", reason).
		Str("correlation_id", correlationID(r.Context())).
		Msg("invalid request")
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: string(usecase.ErrorInvalidRequest)})
}
