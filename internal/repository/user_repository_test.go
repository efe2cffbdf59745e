package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dental-solution/internal/domain"
)

func TestUserRepositoryCreate(t *testing.T) {
	t.Run("inserted", func(t *testing.T) {
		var gotSQL string
		var gotArgs []any
		db := &fakeDB{QueryRowFn: func(_ context.Context, sql string, args ...any) pgx.Row {
			gotSQL, gotArgs = sql, args
			return fakeRow{values: []any{args[0]}}
		}}

		user := &domain.User{Email: "a@x.com", PasswordHash: "hash", Role: domain.RoleUser, Status: domain.UserStatusActive}
		created, err := NewUserRepository(db).Create(context.Background(), user)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEmpty(t, user.ID)
		assert.Contains(t, gotSQL, "ON CONFLICT (email) DO NOTHING")
		assert.Equal(t, "a@x.com", gotArgs[1])
		assert.Equal(t, 1, gotArgs[4])
		assert.Equal(t, map[string]any{}, gotArgs[5])
	})

	t.Run("email taken", func(t *testing.T) {
		db := &fakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return fakeRow{err: pgx.ErrNoRows}
		}}
		created, err := NewUserRepository(db).Create(context.Background(), &domain.User{Email: "a@x.com"})
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("driver error", func(t *testing.T) {
		boom := errors.New("connection reset")
		db := &fakeDB{QueryRowFn: func(context.Context, string, ...any) pgx.Row {
			return fakeRow{err: boom}
		}}
		_, err := NewUserRepository(db).Create(context.Background(), &domain.User{Email: "a@x.com"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	db := &fakeDB{QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
		if args[0] != "a@x.com" {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{values: []any{"u-1", "a@x.com", "hash", "admin", 0, map[string]any{"name": "Ann"}}}
	}}
	repo := NewUserRepository(db)

	user, err := repo.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, domain.UserStatusLocked, user.Status)
	assert.Equal(t, "admin", user.Role)
	assert.Equal(t, "Ann", user.Extra["name"])

	_, err = repo.GetByEmail(context.Background(), "A@x.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestUserRepositoryList(t *testing.T) {
	var gotSQL string
	var gotArgs []any
	db := &fakeDB{QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
		gotSQL, gotArgs = sql, args
		return &fakeRows{data: [][]any{
			{"u-1", "a@x.com", "h1", "doctor", 1, map[string]any{}},
			{"u-2", "b@x.com", "h2", "doctor", 1, nil},
		}}, nil
	}}
	repo := NewUserRepository(db)

	users, err := repo.List(context.Background(), "doctor", nil)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "b@x.com", users[1].Email)
	assert.NotContains(t, gotSQL, "status=")
	assert.Equal(t, []any{"doctor"}, gotArgs)

	active := domain.UserStatusActive
	_, err = repo.List(context.Background(), "doctor", &active)
	require.NoError(t, err)
	assert.True(t, strings.Contains(gotSQL, "AND status=$2"))
	assert.Equal(t, []any{"doctor", 1}, gotArgs)
}

func TestUserRepositoryUpdateStatus(t *testing.T) {
	db := &fakeDB{QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
		switch args[0] {
		case "u-1":
			return fakeRow{values: []any{true}}
		case "u-2":
			return fakeRow{values: []any{false}}
		default:
			return fakeRow{err: pgx.ErrNoRows}
		}
	}}
	repo := NewUserRepository(db)

	changed, err := repo.UpdateStatus(context.Background(), "u-1", domain.UserStatusLocked)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.UpdateStatus(context.Background(), "u-2", domain.UserStatusLocked)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = repo.UpdateStatus(context.Background(), "missing", domain.UserStatusActive)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
