package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"student-coach/internal/domain"
)

type appendCall struct {
	userID  string
	role    string
	content string
}

type mockHistory struct {
	turns       []domain.ChatTurn
	appends     []appendCall
	appendErrs  []error
	recentErr   error
	recentLimit int
	recentUser  string
}

func (m *mockHistory) Append(_ context.Context, userID, role, content string) error {
	if len(m.appendErrs) > 0 {
		err := m.appendErrs[0]
		m.appendErrs = m.appendErrs[1:]
		if err != nil {
			return err
		}
	}
	m.appends = append(m.appends, appendCall{userID: userID, role: role, content: content})
	return nil
}

func (m *mockHistory) Recent(_ context.Context, userID string, limit int) ([]domain.ChatTurn, error) {
	m.recentUser = userID
	m.recentLimit = limit
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	return m.turns, nil
}

type mockLLM struct {
	reply     string
	err       error
	callCount int
	model     string
	temp      float64
	captured  []domain.ChatMessage
}

func (m *mockLLM) Complete(_ context.Context, model string, messages []domain.ChatMessage, temperature float64) (string, error) {
	m.callCount++
	m.model = model
	m.temp = temperature
	m.captured = messages
	return m.reply, m.err
}

func priorTurns() []domain.ChatTurn {
	return []domain.ChatTurn{
		{ID: 1, UserID: domain.DefaultUserID, Role: domain.RoleUser, Content: "I slept badly"},
		{ID: 2, UserID: domain.DefaultUserID, Role: domain.RoleAssistant, Content: "Try an earlier bedtime tonight."},
	}
}

func newTestService(t *testing.T, llm LLMClient, history HistoryReadWriter, opts ...CoachOption) *CoachService {
	t.Helper()
	svc, err := NewCoachService(llm, history, "gpt-4o-mini", opts...)
	require.NoError(t, err)
	return svc
}

func expectChatError(t *testing.T, err error, code ErrorCode, reason string) {
	t.Helper()
	var ucErr *Error
	require.ErrorAs(t, err, &ucErr)
	require.Equal(t, code, ucErr.Code)
	require.Equal(t, reason, ucErr.Reason)
}

func TestNewCoachService_ValidatesDependencies(t *testing.T) {
	_, err := NewCoachService(nil, &mockHistory{}, "gpt-4o-mini")
	require.Error(t, err)

	_, err = NewCoachService(&mockLLM{}, nil, "gpt-4o-mini")
	require.Error(t, err)

	_, err = NewCoachService(&mockLLM{}, &mockHistory{}, " ")
	require.Error(t, err)
}

func TestChat_HappyPath(t *testing.T) {
	history := &mockHistory{turns: priorTurns()}
	llm := &mockLLM{reply: "Sorry to hear that. A short walk might help."}
	svc := newTestService(t, llm, history)

	out, err := svc.Chat(context.Background(), ChatInput{Message: "I feel tired", UserID: "alice"})
	require.NoError(t, err)
	require.Equal(t, "Sorry to hear that. A short walk might help.", out.Reply)
	require.Equal(t, "alice", out.UserID)

	// user turn first, assistant turn second
	require.Equal(t, []appendCall{
		{userID: "alice", role: domain.RoleUser, content: "I feel tired"},
		{userID: "alice", role: domain.RoleAssistant, content: "Sorry to hear that. A short walk might help."},
	}, history.appends)

	// 1 system + 2 history turns + 1 new user message
	require.Len(t, llm.captured, 4)
	require.Equal(t, domain.RoleSystem, llm.captured[0].Role)
	require.Equal(t, "I slept badly", llm.captured[1].Content)
	require.Equal(t, "Try an earlier bedtime tonight.", llm.captured[2].Content)
	require.Equal(t, domain.ChatMessage{Role: domain.RoleUser, Content: "I feel tired"}, llm.captured[3])

	require.Equal(t, "gpt-4o-mini", llm.model)
	require.InDelta(t, 0.7, llm.temp, 1e-9)
}

func TestChat_EmptyMessage(t *testing.T) {
	history := &mockHistory{}
	llm := &mockLLM{reply: "ok"}
	svc := newTestService(t, llm, history)

	_, err := svc.Chat(context.Background(), ChatInput{Message: ""})
	expectChatError(t, err, ErrorInvalidRequest, "empty_message")

	_, err = svc.Chat(context.Background(), ChatInput{Message: "   \t\n"})
	expectChatError(t, err, ErrorInvalidRequest, "empty_message")

	require.Empty(t, history.appends, "no turn may be persisted for an invalid request")
	require.Zero(t, llm.callCount)
}

func TestChat_DefaultsToSentinelUser(t *testing.T) {
	history := &mockHistory{}
	llm := &mockLLM{reply: "hello"}
	svc := newTestService(t, llm, history)

	out, err := svc.Chat(context.Background(), ChatInput{Message: "hi"})
	require.NoError(t, err)
	require.Equal(t, domain.DefaultUserID, out.UserID)
	require.Equal(t, domain.DefaultUserID, history.appends[0].userID)
	require.Equal(t, domain.DefaultUserID, history.recentUser)
}

func TestChat_UserAppendFailure_AbortsBeforeUpstream(t *testing.T) {
	history := &mockHistory{appendErrs: []error{errors.New("disk full")}}
	llm := &mockLLM{reply: "ok"}
	svc := newTestService(t, llm, history)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi"})
	expectChatError(t, err, ErrorPersistence, "user_turn_append_error")
	require.Zero(t, llm.callCount, "the completion call must not be made when the user turn cannot be persisted")
	require.Empty(t, history.appends)
}

func TestChat_HistoryReadFailure(t *testing.T) {
	history := &mockHistory{recentErr: errors.New("db locked")}
	llm := &mockLLM{reply: "ok"}
	svc := newTestService(t, llm, history)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi"})
	expectChatError(t, err, ErrorPersistence, "history_read_error")
	require.Zero(t, llm.callCount)
	require.Len(t, history.appends, 1, "the user turn stays persisted")
}

func TestChat_UpstreamFailure_KeepsUserTurn(t *testing.T) {
	history := &mockHistory{}
	llm := &mockLLM{err: errors.New("connection refused")}
	svc := newTestService(t, llm, history)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi"})
	expectChatError(t, err, ErrorUpstream, "completion_error")
	require.Len(t, history.appends, 1, "exactly the user turn, never the assistant turn")
	require.Equal(t, domain.RoleUser, history.appends[0].role)
}

func TestChat_EmptyCompletion(t *testing.T) {
	history := &mockHistory{}
	llm := &mockLLM{reply: "   "}
	svc := newTestService(t, llm, history)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi"})
	expectChatError(t, err, ErrorUpstream, "empty_completion")
	require.Len(t, history.appends, 1)
}

func TestChat_AssistantAppendFailure(t *testing.T) {
	history := &mockHistory{appendErrs: []error{nil, errors.New("write failed")}}
	llm := &mockLLM{reply: "ok"}
	svc := newTestService(t, llm, history)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi"})
	expectChatError(t, err, ErrorPersistence, "assistant_turn_append_error")
	require.Len(t, history.appends, 1)
	require.Equal(t, domain.RoleUser, history.appends[0].role)
}

func TestChat_DoesNotReplayTheFreshUserTurn(t *testing.T) {
	// A real store returns the turn appended in step one at the tail of the
	// window; it must not be sent upstream twice.
	turns := append(priorTurns(), domain.ChatTurn{
		ID: 3, UserID: domain.DefaultUserID, Role: domain.RoleUser, Content: "I feel tired",
	})
	history := &mockHistory{turns: turns}
	llm := &mockLLM{reply: "ok"}
	svc := newTestService(t, llm, history)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "I feel tired"})
	require.NoError(t, err)
	require.Len(t, llm.captured, 4)

	count := 0
	for _, m := range llm.captured {
		if m.Role == domain.RoleUser && m.Content == "I feel tired" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestChat_SystemPromptCarriesSnapshot(t *testing.T) {
	history := &mockHistory{}
	llm := &mockLLM{reply: "ok"}
	svc := newTestService(t, llm, history)

	snap := &domain.ContextSnapshot{
		TodoTasks: []domain.SnapshotTodo{{Title: "Study for finals"}},
	}
	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi", Page: "home", Context: snap})
	require.NoError(t, err)

	system := llm.captured[0]
	require.Equal(t, domain.RoleSystem, system.Role)
	require.Contains(t, system.Content, "User dashboard snapshot:")
	require.Contains(t, system.Content, "Current page: home")
	require.Contains(t, system.Content, "Study for finals")
}

func TestChat_NoSnapshot_NoSummaryBlock(t *testing.T) {
	history := &mockHistory{}
	llm := &mockLLM{reply: "ok"}
	svc := newTestService(t, llm, history)

	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi"})
	require.NoError(t, err)
	require.NotContains(t, llm.captured[0].Content, "User dashboard snapshot:")
	require.Contains(t, llm.captured[0].Content, "wellness coach")
}

func TestChat_HistoryWindow(t *testing.T) {
	history := &mockHistory{}
	llm := &mockLLM{reply: "ok"}

	svc := newTestService(t, llm, history)
	_, err := svc.Chat(context.Background(), ChatInput{Message: "hi"})
	require.NoError(t, err)
	require.Equal(t, 10, history.recentLimit)

	svc = newTestService(t, llm, history, WithHistoryWindow(5))
	_, err = svc.Chat(context.Background(), ChatInput{Message: "hi"})
	require.NoError(t, err)
	require.Equal(t, 5, history.recentLimit)
}

func TestChat_LongMessagePassesThrough(t *testing.T) {
	history := &mockHistory{}
	llm := &mockLLM{reply: "ok"}
	svc := newTestService(t, llm, history)

	msg := strings.Repeat("sleep ", 500)
	_, err := svc.Chat(context.Background(), ChatInput{Message: msg})
	require.NoError(t, err)
	require.Equal(t, strings.TrimSpace(msg), history.appends[0].content)
}
