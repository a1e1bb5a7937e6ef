// Package participant registers survey participants.
package participant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pairwise/internal/domain"
	"github.com/kailas-cloud/pairwise/internal/domain/user"
)

// Service handles participant registration and lookup.
type Service struct {
	repo     Repository
	samples  SampleResolver
	newToken TokenGenerator
	logger   *zap.Logger
}

// New creates a participant service.
func New(repo Repository, samples SampleResolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, samples: samples, newToken: UUIDToken, logger: logger}
}

// WithTokenGenerator replaces the token source.
func (s *Service) WithTokenGenerator(g TokenGenerator) *Service {
	if g != nil {
		s.newToken = g
	}
	return s
}

// UUIDToken returns a random UUID in its 32-hex simple form.
func UUIDToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Register validates the answers, checks that the task exists and the
// referrer (if any) is a known public token, then stores the participant
// with a fresh private and public token.
func (s *Service) Register(ctx context.Context, p user.Profile) (user.User, error) {
	if err := p.Validate(); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	set, err := s.samples.ListByTask(ctx, p.Task)
	if err != nil {
		return user.User{}, fmt.Errorf("resolve task: %w", err)
	}
	if set.Len() == 0 {
		return user.User{}, fmt.Errorf("task %q: %w", p.Task, domain.ErrNotFound)
	}

	if p.From != "" {
		if _, err := s.repo.GetByPublic(ctx, p.From); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return user.User{}, fmt.Errorf("%w: unknown referrer %q", domain.ErrInvalidInput, p.From)
			}
			return user.User{}, fmt.Errorf("resolve referrer: %w", err)
		}
	}

	u, err := user.New(s.newToken(), s.newToken(), p)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("Participant registered",
		zap.String("task", u.Task()),
		zap.String("public", u.Public()),
		zap.String("source", u.Profile().Source),
	)
	return u, nil
}

// Get returns the participant with the private token.
func (s *Service) Get(ctx context.Context, token string) (user.User, error) {
	u, err := s.repo.Get(ctx, token)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
