package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/dental-solution/internal/domain"
)

// MemoryStore keeps users and posts in process memory. It backs the
// "memory" storage driver for local runs and the service level tests, and
// follows the same contracts as the Postgres repositories.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	byEmail  map[string]string
	userSeq  []string
	posts    map[string]*domain.Post
	postSeqs map[string]int
	seq      int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]*domain.User),
		byEmail:  make(map[string]string),
		posts:    make(map[string]*domain.Post),
		postSeqs: make(map[string]int),
	}
}

// Users exposes the store as a UserRepository.
func (m *MemoryStore) Users() UserRepository { return memoryUsers{m} }

// Posts exposes the store as a PostRepository.
func (m *MemoryStore) Posts() PostRepository { return memoryPosts{m} }

type memoryUsers struct{ m *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *domain.User) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, taken := r.m.byEmail[user.Email]; taken {
		return false, nil
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stored := cloneUser(user)
	r.m.users[stored.ID] = stored
	r.m.byEmail[stored.Email] = stored.ID
	r.m.userSeq = append(r.m.userSeq, stored.ID)
	return true, nil
}

func (r memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	id, ok := r.m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cloneUser(r.m.users[id]), nil
}

func (r memoryUsers) List(_ context.Context, role string, status *domain.UserStatus) ([]domain.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	var result []domain.User
	for _, id := range r.m.userSeq {
		user := r.m.users[id]
		if user.Role != role {
			continue
		}
		if status != nil && user.Status != *status {
			continue
		}
		result = append(result, *cloneUser(user))
	}
	return result, nil
}

func (r memoryUsers) UpdateStatus(_ context.Context, id string, status domain.UserStatus) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	user, ok := r.m.users[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	changed := user.Status != status
	user.Status = status
	return changed, nil
}

type memoryPosts struct{ m *MemoryStore }

func (r memoryPosts) Create(_ context.Context, post *domain.Post) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	stored := clonePost(post, true)
	stored.Comments = []domain.Comment{}
	r.m.posts[stored.ID] = stored
	r.m.seq++
	r.m.postSeqs[stored.ID] = r.m.seq
	return nil
}

func (r memoryPosts) List(_ context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()

	result := []domain.Post{}
	for _, post := range r.m.posts {
		if filter.ApprovedExcludingEmail {
			if post.Status != domain.PostStatusApproved {
				continue
			}
			if filter.ExcludeEmail != "" && post.Email == filter.ExcludeEmail {
				continue
			}
		}
		if filter.ID != "" && post.ID != filter.ID {
			continue
		}
		result = append(result, *clonePost(post, !filter.OmitImage))
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return r.m.postSeqs[a.ID] > r.m.postSeqs[b.ID]
	})
	return result, nil
}

func (r memoryPosts) Approve(_ context.Context, id string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	post, ok := r.m.posts[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	changed := post.Status != domain.PostStatusApproved
	post.Status = domain.PostStatusApproved
	return changed, nil
}

func (r memoryPosts) AddComment(_ context.Context, id string, comment domain.Comment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	post, ok := r.m.posts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	post.Comments = append(post.Comments, domain.Comment{
		Author: strings.Clone(comment.Author),
		Text:   strings.Clone(comment.Text),
	})
	return nil
}

func (r memoryPosts) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.m.posts, id)
	delete(r.m.postSeqs, id)
	return nil
}

// cloneUser deep copies the user, strings included, so the store never
// aliases caller memory.
func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.ID = strings.Clone(u.ID)
	c.Email = strings.Clone(u.Email)
	c.PasswordHash = strings.Clone(u.PasswordHash)
	c.Role = strings.Clone(u.Role)
	c.Extra = make(map[string]any, len(u.Extra))
	for k, v := range u.Extra {
		if s, ok := v.(string); ok {
			v = strings.Clone(s)
		}
		c.Extra[strings.Clone(k)] = v
	}
	return &c
}

func clonePost(p *domain.Post, withImage bool) *domain.Post {
	c := *p
	c.ID = strings.Clone(p.ID)
	c.UserName = strings.Clone(p.UserName)
	c.Email = strings.Clone(p.Email)
	c.TextPost = strings.Clone(p.TextPost)
	c.Comments = make([]domain.Comment, 0, len(p.Comments))
	for _, comment := range p.Comments {
		c.Comments = append(c.Comments, domain.Comment{
			Author: strings.Clone(comment.Author),
			Text:   strings.Clone(comment.Text),
		})
	}
	c.Image = nil
	if withImage && p.Image != nil {
		img := *p.Image
		img.ContentType = strings.Clone(p.Image.ContentType)
		img.Data = append([]byte(nil), p.Image.Data...)
		c.Image = &img
	}
	return &c
}
