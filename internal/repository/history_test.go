package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"student-coach/internal/domain"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(t.TempDir() + "/test.db")
	require.NoError(t, err)
	require.NoError(t, InitSchema(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func testHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(testDB(t))
	require.NoError(t, err)
	return store
}

func countMessages(t *testing.T, store *HistoryStore) int {
	t.Helper()
	var n int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&n))
	return n
}

func TestNewHistoryStore_NilDB(t *testing.T) {
	_, err := NewHistoryStore(nil)
	require.Error(t, err)
}

func TestHistory_AppendAndRecent_ChronologicalOrder(t *testing.T) {
	store := testHistoryStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		require.NoError(t, store.Append(ctx, "alice", role, fmt.Sprintf("msg-%d", i)))
	}

	turns, err := store.Recent(ctx, "alice", 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	// The 3 most recent, oldest first.
	require.Equal(t, "msg-2", turns[0].Content)
	require.Equal(t, "msg-3", turns[1].Content)
	require.Equal(t, "msg-4", turns[2].Content)
	require.True(t, turns[0].ID < turns[1].ID && turns[1].ID < turns[2].ID)

	all, err := store.Recent(ctx, "alice", 50)
	require.NoError(t, err)
	require.Len(t, all, 5, "fewer turns than the limit returns everything")
	require.Equal(t, "msg-0", all[0].Content)
	require.Equal(t, "msg-4", all[4].Content)
}

func TestHistory_Recent_EmptyUser(t *testing.T) {
	store := testHistoryStore(t)

	turns, err := store.Recent(context.Background(), "nobody", 10)
	require.NoError(t, err)
	require.Empty(t, turns)
}

func TestHistory_Recent_DefaultLimit(t *testing.T) {
	store := testHistoryStore(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, store.Append(ctx, "alice", domain.RoleUser, fmt.Sprintf("msg-%d", i)))
	}

	turns, err := store.Recent(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, turns, 10)
	require.Equal(t, "msg-2", turns[0].Content)
	require.Equal(t, "msg-11", turns[9].Content)
}

func TestHistory_Append_Validation(t *testing.T) {
	store := testHistoryStore(t)
	ctx := context.Background()

	require.Error(t, store.Append(ctx, "", domain.RoleUser, "hi"))
	require.Error(t, store.Append(ctx, "alice", "moderator", "hi"))
	require.Error(t, store.Append(ctx, "alice", domain.RoleUser, "   "))
	require.Zero(t, countMessages(t, store))
}

func TestHistory_UsersAreIsolated(t *testing.T) {
	store := testHistoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", domain.RoleUser, "from alice"))
	require.NoError(t, store.Append(ctx, "bob", domain.RoleUser, "from bob"))

	turns, err := store.Recent(ctx, "alice", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	require.Equal(t, "from alice", turns[0].Content)
	require.Equal(t, "alice", turns[0].UserID)
}

func TestHistory_TurnFieldsPopulated(t *testing.T) {
	store := testHistoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice", domain.RoleAssistant, "hello"))
	turns, err := store.Recent(ctx, "alice", 1)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	require.Positive(t, turns[0].ID)
	require.Equal(t, domain.RoleAssistant, turns[0].Role)
	require.False(t, turns[0].CreatedAt.IsZero())
}
