package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/pairwise/internal/domain"
	domuser "github.com/kailas-cloud/pairwise/internal/domain/user"
)

// store is the consumer interface for participants (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
	Del(ctx context.Context, key string) error
	ZAddNX(ctx context.Context, key string, score float64, member string) error
	ZRangeAll(ctx context.Context, key string) ([]string, error)
}

// Repo stores registered participants.
type Repo struct {
	store  store
	prefix string
}

// New creates a participant repository.
func New(s store) *Repo {
	return &Repo{store: s, prefix: domain.KeyPrefix}
}

// WithPrefix overrides the key namespace.
func (r *Repo) WithPrefix(prefix string) *Repo {
	if prefix != "" {
		r.prefix = prefix
	}
	return r
}

// Create stores u. The public token index is claimed first with HSETNX;
// a taken public or private token fails with domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, u domuser.User) error {
	claimed, err := r.store.HSetNX(ctx, r.publicIndexKey(), u.Public(), u.Token())
	if err != nil {
		return fmt.Errorf("hsetnx public token: %w", err)
	}
	if !claimed {
		return fmt.Errorf("public token: %w", domain.ErrAlreadyExists)
	}

	claimed, err = r.store.HSetNX(ctx, r.userKey(u.Token()), "token", u.Token())
	if err != nil {
		return errors.Join(fmt.Errorf("hsetnx user: %w", err), r.releasePublic(ctx, u))
	}
	if !claimed {
		return errors.Join(fmt.Errorf("user token: %w", domain.ErrAlreadyExists), r.releasePublic(ctx, u))
	}

	if err := r.store.HSet(ctx, r.userKey(u.Token()), userToHash(u)); err != nil {
		return errors.Join(fmt.Errorf("hset user: %w", err), r.rollback(ctx, u))
	}

	if err := r.store.ZAddNX(ctx, r.taskUsersKey(u.Task()), float64(u.RegisteredAt()), u.Token()); err != nil {
		return errors.Join(fmt.Errorf("zadd task users: %w", err), r.rollback(ctx, u))
	}
	return nil
}

// rollback removes the user hash and frees the public token of a failed Create.
func (r *Repo) rollback(ctx context.Context, u domuser.User) error {
	return errors.Join(r.store.Del(ctx, r.userKey(u.Token())), r.releasePublic(ctx, u))
}

func (r *Repo) releasePublic(ctx context.Context, u domuser.User) error {
	return r.store.HDel(ctx, r.publicIndexKey(), u.Public())
}

// Get returns the participant with the private token.
func (r *Repo) Get(ctx context.Context, token string) (domuser.User, error) {
	m, err := r.store.HGetAll(ctx, r.userKey(token))
	if err != nil {
		return domuser.User{}, fmt.Errorf("hgetall user: %w", err)
	}
	if len(m) == 0 {
		return domuser.User{}, domain.ErrNotFound
	}
	return userFromHash(m)
}

// GetByPublic resolves a public share token.
func (r *Repo) GetByPublic(ctx context.Context, public string) (domuser.User, error) {
	m, err := r.store.HGetAll(ctx, r.publicIndexKey())
	if err != nil {
		return domuser.User{}, fmt.Errorf("hgetall public index: %w", err)
	}
	token := m[public]
	if token == "" {
		return domuser.User{}, domain.ErrNotFound
	}
	return r.Get(ctx, token)
}

// ListByTask returns the task's participants in registration order.
func (r *Repo) ListByTask(ctx context.Context, task string) ([]domuser.User, error) {
	tokens, err := r.store.ZRangeAll(ctx, r.taskUsersKey(task))
	if err != nil {
		return nil, fmt.Errorf("zrange task users: %w", err)
	}
	if len(tokens) == 0 {
		return []domuser.User{}, nil
	}

	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = r.userKey(t)
	}
	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi users: %w", err)
	}

	users := make([]domuser.User, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		u, err := userFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse user %s: %w", keys[i], err)
		}
		users = append(users, u)
	}
	return users, nil
}

// Key patterns: {prefix}user:{token}, {prefix}user_public, {prefix}task:{task}:users

func (r *Repo) userKey(token string) string {
	return fmt.Sprintf("%suser:%s", r.prefix, token)
}

func (r *Repo) publicIndexKey() string {
	return r.prefix + "user_public"
}

func (r *Repo) taskUsersKey(task string) string {
	return fmt.Sprintf("%stask:%s:users", r.prefix, task)
}
