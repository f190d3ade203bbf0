package usecase

import (
	"context"
	"errors"
	"strings"

	"student-coach/internal/domain"
)

const (
	defaultHistoryWindow = 10
	defaultTemperature   = 0.7
)

// LLMClient is the narrow completion capability the coach depends on.
type LLMClient interface {
	Complete(ctx context.Context, model string, messages []domain.ChatMessage, temperature float64) (string, error)
}

// HistoryReadWriter is the conversation log interface consumed by the coach.
type HistoryReadWriter interface {
	Append(ctx context.Context, userID, role, content string) error
	Recent(ctx context.Context, userID string, limit int) ([]domain.ChatTurn, error)
}

// CoachService turns one inbound chat request into one persisted, returned
// assistant reply. It is stateless across invocations; concurrent calls only
// share the history store.
type CoachService struct {
	llm           LLMClient
	history       HistoryReadWriter
	model         string
	historyWindow int
	temperature   float64
}

// ChatInput is the inbound unit of work for one relay invocation.
type ChatInput struct {
	Message string
	UserID  string
	Page    string
	Context *domain.ContextSnapshot
}

// ChatOutput carries the assistant reply and the identity it was recorded
// under.
type ChatOutput struct {
	Reply  string
	UserID string
}

// CoachOption adjusts the tunable constants of a CoachService.
type CoachOption func(*CoachService)

// WithHistoryWindow overrides the bounded-history window size.
func WithHistoryWindow(n int) CoachOption {
	return func(s *CoachService) {
		if n > 0 {
			s.historyWindow = n
		}
	}
}

// WithTemperature overrides the sampling temperature sent upstream.
func WithTemperature(t float64) CoachOption {
	return func(s *CoachService) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// NewCoachService creates a CoachService.
func NewCoachService(llm LLMClient, history HistoryReadWriter, model string, opts ...CoachOption) (*CoachService, error) {
	if llm == nil {
		return nil, errors.New("usecase: llm client must not be nil")
	}
	if history == nil {
		return nil, errors.New("usecase: history store must not be nil")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("usecase: model must not be empty")
	}
	s := &CoachService{
		llm:           llm,
		history:       history,
		model:         model,
		historyWindow: defaultHistoryWindow,
		temperature:   defaultTemperature,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Chat runs one relay transaction: persist the user turn, fetch the bounded
// history, call the completion API, persist the assistant turn, return the
// reply. Once the user turn is persisted it is never rolled back, even when a
// later step fails; the history is a best-effort log, not a transactional
// ledger.
func (s *CoachService) Chat(ctx context.Context, in ChatInput) (ChatOutput, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return ChatOutput{}, newError(ErrorInvalidRequest, "empty_message", nil)
	}

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		userID = domain.DefaultUserID
	}

	if err := s.history.Append(ctx, userID, domain.RoleUser, message); err != nil {
		return ChatOutput{}, newError(ErrorPersistence, "user_turn_append_error", err)
	}

	// The just-appended user turn lands at the tail of the window, so the
	// prompt carries the prior turns plus the fresh message exactly once.
	history, err := s.history.Recent(ctx, userID, s.historyWindow)
	if err != nil {
		return ChatOutput{}, newError(ErrorPersistence, "history_read_error", err)
	}
	history = trimCurrentTurn(history, message)

	messages := buildPromptMessages(buildSystemPrompt(in.Page, in.Context), history, message)

	reply, err := s.llm.Complete(ctx, s.model, messages, s.temperature)
	if err != nil {
		return ChatOutput{}, newError(ErrorUpstream, "completion_error", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return ChatOutput{}, newError(ErrorUpstream, "empty_completion", nil)
	}

	if err := s.history.Append(ctx, userID, domain.RoleAssistant, reply); err != nil {
		return ChatOutput{}, newError(ErrorPersistence, "assistant_turn_append_error", err)
	}

	return ChatOutput{Reply: reply, UserID: userID}, nil
}

// trimCurrentTurn drops the trailing user turn when it is the message that
// was appended at the start of this invocation, so it is not sent twice.
func trimCurrentTurn(history []domain.ChatTurn, message string) []domain.ChatTurn {
	n := len(history)
	if n == 0 {
		return history
	}
	last := history[n-1]
	if last.Role == domain.RoleUser && last.Content == message {
		return history[:n-1]
	}
	return history
}
