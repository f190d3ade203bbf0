package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"student-coach/internal/domain"
)

// maxSummaryTitles bounds how many todo titles the summary quotes.
const maxSummaryTitles = 3

// placeholder stands in for a value the snapshot does not carry.
const placeholder = "N/A"

// buildPromptMessages assembles the full outbound sequence: one system
// instruction, the retrieved history in chronological order, then the new
// user message.
func buildPromptMessages(system string, history []domain.ChatTurn, message string) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: system})
	for _, t := range history {
		messages = append(messages, domain.ChatMessage{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: message})
	return messages
}

// buildSystemPrompt renders the coach persona, embedding the dashboard
// snapshot when one was supplied.
func buildSystemPrompt(page string, snap *domain.ContextSnapshot) string {
	lines := []string{
		"You are a supportive college wellness coach.",
		"Rules:",
		"- Keep replies short and friendly (1 to 5 sentences).",
		"- Ground advice in the dashboard context when it is provided.",
		"- Encourage the student to log entries when the context is empty.",
	}
	if snap != nil {
		lines = append(lines, "", "Latest context:", renderContextSummary(page, snap))
	}
	return strings.Join(lines, "\n")
}

// renderContextSummary produces the fixed-order, human-readable snapshot
// block. "Latest" entries are the first element of each caller-supplied
// list; the relay does not re-sort them.
func renderContextSummary(page string, snap *domain.ContextSnapshot) string {
	if page == "" {
		page = "unknown"
	}
	return strings.Join([]string{
		"User dashboard snapshot:",
		"- Current page: " + page,
		fmt.Sprintf("- Todos: %d tasks (%s)", len(snap.TodoTasks), summaryTitles(snap.TodoTasks)),
		fmt.Sprintf("- Sleep entries: %d (latest: %s hrs)", len(snap.SleepEntries), latestHours(snap.SleepEntries)),
		fmt.Sprintf("- Exercise entries: %d (latest: %s mins)", len(snap.ExerciseEntries), latestMinutes(snap.ExerciseEntries)),
		fmt.Sprintf("- Wellness entries: %d (latest: %s)", len(snap.WellnessEntries), latestNote(snap.WellnessEntries)),
	}, "\n")
}

func summaryTitles(tasks []domain.SnapshotTodo) string {
	if len(tasks) == 0 {
		return "none"
	}
	n := len(tasks)
	if n > maxSummaryTitles {
		n = maxSummaryTitles
	}
	titles := make([]string, 0, n)
	for _, t := range tasks[:n] {
		titles = append(titles, t.Title)
	}
	return strings.Join(titles, ", ")
}

func latestHours(entries []domain.SnapshotSleep) string {
	if len(entries) == 0 {
		return placeholder
	}
	return strconv.FormatFloat(entries[0].Hours, 'g', -1, 64)
}

func latestMinutes(entries []domain.SnapshotExercise) string {
	if len(entries) == 0 {
		return placeholder
	}
	return strconv.Itoa(entries[0].Minutes)
}

func latestNote(entries []domain.SnapshotWellness) string {
	if len(entries) == 0 || strings.TrimSpace(entries[0].Note) == "" {
		return placeholder
	}
	return entries[0].Note
}
