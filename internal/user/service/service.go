// Package service implements registration, login, and user lookup.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/token"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/user/models"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/internal/user/store"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domainerrors"
	emailutil "github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/email"
	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/platform/sentinel"
)

// Service owns user accounts and is the only component that issues tokens.
type Service struct {
	store  store.Store
	tokens *token.Service
	logger *slog.Logger
}

func New(store store.Store, tokens *token.Service, logger *slog.Logger) *Service {
	return &Service{store: store, tokens: tokens, logger: logger}
}

// Register creates a MEMBER account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "email and password are required")
	}
	if name == "" {
		first, last := emailutil.DeriveNameFromEmail(email)
		name = first + " " + last
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "hash password", err)
	}

	user, err := s.store.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		Role:         domain.RoleMember,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, domainerrors.New(domainerrors.CodeConflict, "email already registered")
		}
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "create user", err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the password and issues a signed identity token.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (string, *models.User, error) {
	user, err := s.store.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Same rejection as a wrong password so login probing learns nothing.
			return "", nil, domainerrors.New(domainerrors.CodeUnauthorized, "invalid credentials")
		}
		return "", nil, domainerrors.Wrap(domainerrors.CodeInternal, "find user", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
		return "", nil, domainerrors.New(domainerrors.CodeUnauthorized, "invalid credentials")
	}

	signed, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return "", nil, domainerrors.Wrap(domainerrors.CodeInternal, "issue token", err)
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return signed, user, nil
}

// GetByID returns one user for collaborator lookups (event enrichment).
func (s *Service) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.New(domainerrors.CodeNotFound, "user not found")
		}
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "find user", err)
	}
	return user, nil
}

// GetByEmail returns one user by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, domainerrors.New(domainerrors.CodeNotFound, "user not found")
		}
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "find user", err)
	}
	return user, nil
}
