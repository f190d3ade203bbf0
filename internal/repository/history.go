package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"student-coach/internal/domain"
)

// defaultHistoryLimit is applied when a caller asks for a non-positive
// number of turns.
const defaultHistoryLimit = 10

// HistoryStore is the append-only chat turn log.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a HistoryStore over an open database.
func NewHistoryStore(db *sql.DB) (*HistoryStore, error) {
	if db == nil {
		return nil, errors.New("repository: db must not be nil")
	}
	return &HistoryStore{db: db}, nil
}

// Append persists a new turn for the user. The row id and created-at
// timestamp establish the total order of turns.
func (s *HistoryStore) Append(ctx context.Context, userID, role, content string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("repository: Append: user id must not be empty")
	}
	if role != domain.RoleUser && role != domain.RoleAssistant {
		return fmt.Errorf("repository: Append: invalid role %q", role)
	}
	if strings.TrimSpace(content) == "" {
		return errors.New("repository: Append: content must not be empty")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (user_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		userID, role, content, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("repository: Append: %w", err)
	}
	return nil
}

// Recent returns the limit most recent turns for the user in chronological
// order (oldest first). The scan reads newest first so LIMIT favors the most
// recent context; the reversal happens here so callers never see a
// reverse-chronological result. A user with no history gets an empty slice,
// not an error.
func (s *HistoryStore) Recent(ctx context.Context, userID string, limit int) ([]domain.ChatTurn, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, role, content, created_at
		 FROM messages WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("repository: Recent query: %w", err)
	}
	defer rows.Close()

	turns := make([]domain.ChatTurn, 0, limit)
	for rows.Next() {
		var t domain.ChatTurn
		if err := rows.Scan(&t.ID, &t.UserID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: Recent scan: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: Recent rows: %w", err)
	}

	// Reverse to chronological order before returning to prompt assembly.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
