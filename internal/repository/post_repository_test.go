package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/dental-solution/internal/domain"
)

func TestPostRepositoryCreate(t *testing.T) {
	now := time.Now().UTC()
	var gotArgs []any
	db := &fakeDB{ExecFn: func(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
		gotArgs = args
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}}

	post := &domain.Post{
		UserName:  "Ann",
		Email:     "a@x.com",
		TextPost:  "smile",
		Image:     &domain.PostImage{ContentType: "image/png", Size: 3, Data: []byte{1, 2, 3}},
		CreatedAt: now,
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "image/png", gotArgs[4])
	assert.Equal(t, int64(3), gotArgs[5])
	assert.Equal(t, []byte{1, 2, 3}, gotArgs[6])
	assert.Equal(t, 0, gotArgs[7])
	assert.Equal(t, now, gotArgs[8])
}

func TestPostRepositoryCreateNotStored(t *testing.T) {
	db := &fakeDB{ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag("INSERT 0 0"), nil
	}}
	err := NewPostRepository(db).Create(context.Background(), &domain.Post{})
	assert.ErrorIs(t, err, ErrNotInserted)

	boom := errors.New("disk full")
	db.ExecFn = func(context.Context, string, ...any) (pgconn.CommandTag, error) {
		return pgconn.CommandTag{}, boom
	}
	err = NewPostRepository(db).Create(context.Background(), &domain.Post{})
	assert.ErrorIs(t, err, boom)
}

func TestPostRepositoryList(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	comments := []domain.Comment{{Author: "Bob", Text: "nice"}}

	tests := []struct {
		name     string
		filter   domain.PostFilter
		wantSQL  string
		wantArgs []any
		row      []any
	}{
		{
			name:     "all posts with images",
			filter:   domain.PostFilter{},
			wantSQL:  "SELECT id, user_name, email, text_post, status, created_at, comments, image_content_type, image_size, image_data FROM posts ORDER BY created_at DESC",
			wantArgs: nil,
			row:      []any{"p-1", "Ann", "a@x.com", "smile", 1, created, comments, "image/png", int64(3), []byte{1, 2, 3}},
		},
		{
			name:     "approved posts of others",
			filter:   domain.PostFilter{ApprovedExcludingEmail: true, ExcludeEmail: "me@x.com"},
			wantSQL:  "SELECT id, user_name, email, text_post, status, created_at, comments, image_content_type, image_size, image_data FROM posts WHERE status=$1 AND email IS DISTINCT FROM $2::text ORDER BY created_at DESC",
			wantArgs: []any{1, "me@x.com"},
			row:      []any{"p-1", "Ann", "a@x.com", "smile", 1, created, comments, "image/png", int64(3), []byte{1, 2, 3}},
		},
		{
			name:     "approved posts without viewer email",
			filter:   domain.PostFilter{ApprovedExcludingEmail: true},
			wantSQL:  "SELECT id, user_name, email, text_post, status, created_at, comments, image_content_type, image_size, image_data FROM posts WHERE status=$1 AND email IS DISTINCT FROM $2::text ORDER BY created_at DESC",
			wantArgs: []any{1, nil},
			row:      []any{"p-1", "Ann", "a@x.com", "smile", 1, created, comments, "image/png", int64(3), []byte{1, 2, 3}},
		},
		{
			name:     "single post without image",
			filter:   domain.PostFilter{ID: "p-1", OmitImage: true},
			wantSQL:  "SELECT id, user_name, email, text_post, status, created_at, comments FROM posts WHERE id=$1 ORDER BY created_at DESC",
			wantArgs: []any{"p-1"},
			row:      []any{"p-1", "Ann", "a@x.com", "smile", 0, created, nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSQL string
			var gotArgs []any
			db := &fakeDB{QueryFn: func(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
				gotSQL, gotArgs = sql, args
				return &fakeRows{data: [][]any{tt.row}}, nil
			}}

			posts, err := NewPostRepository(db).List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, gotSQL)
			assert.Equal(t, tt.wantArgs, gotArgs)
			require.Len(t, posts, 1)
			assert.Equal(t, "p-1", posts[0].ID)
			assert.Equal(t, created, posts[0].CreatedAt)
			assert.NotNil(t, posts[0].Comments)
			if tt.filter.OmitImage {
				assert.Nil(t, posts[0].Image)
			} else {
				require.NotNil(t, posts[0].Image)
				assert.Equal(t, []byte{1, 2, 3}, posts[0].Image.Data)
			}
		})
	}
}

func TestPostRepositoryListEmptyAndFailure(t *testing.T) {
	db := &fakeDB{QueryFn: func(context.Context, string, ...any) (pgx.Rows, error) {
		return &fakeRows{}, nil
	}}
	posts, err := NewPostRepository(db).List(context.Background(), domain.PostFilter{})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	boom := errors.New("relation does not exist")
	db.QueryFn = func(context.Context, string, ...any) (pgx.Rows, error) { return nil, boom }
	_, err = NewPostRepository(db).List(context.Background(), domain.PostFilter{})
	assert.ErrorIs(t, err, boom)
}

func TestPostRepositoryApprove(t *testing.T) {
	db := &fakeDB{QueryRowFn: func(_ context.Context, _ string, args ...any) pgx.Row {
		assert.Equal(t, 1, args[1])
		switch args[0] {
		case "pending":
			return fakeRow{values: []any{true}}
		case "approved":
			return fakeRow{values: []any{false}}
		default:
			return fakeRow{err: pgx.ErrNoRows}
		}
	}}
	repo := NewPostRepository(db)

	changed, err := repo.Approve(context.Background(), "pending")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.Approve(context.Background(), "approved")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = repo.Approve(context.Background(), "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPostRepositoryAddCommentAndDelete(t *testing.T) {
	affected := map[string]string{"p-1": "UPDATE 1", "gone": "UPDATE 0"}
	var gotArgs []any
	db := &fakeDB{ExecFn: func(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
		gotArgs = args
		tag := affected[args[0].(string)]
		if sql == `DELETE FROM posts WHERE id=$1` {
			tag = "DELETE" + tag[len("UPDATE"):]
		}
		return pgconn.NewCommandTag(tag), nil
	}}
	repo := NewPostRepository(db)

	require.NoError(t, repo.AddComment(context.Background(), "p-1", domain.Comment{Author: "Bob", Text: "nice"}))
	assert.Equal(t, []any{"p-1", "Bob", "nice"}, gotArgs)
	assert.ErrorIs(t, repo.AddComment(context.Background(), "gone", domain.Comment{}), pgx.ErrNoRows)

	require.NoError(t, repo.Delete(context.Background(), "p-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "gone"), pgx.ErrNoRows)
}
