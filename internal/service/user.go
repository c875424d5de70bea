package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/pkg/jwthelper"
)

type UserStore interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type UserService struct {
	repo       UserStore
	signingKey []byte
}

func NewUserService(repo UserStore, signingKey string) *UserService {
	return &UserService{
		repo:       repo,
		signingKey: []byte(signingKey),
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// CreateUser registers a client or admin account. Credentials are owned by
// the identity provider, so only the profile is stored here.
func (s *UserService) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	user.Email = domain.NormalizeEmail(user.Email)
	user.Name = strings.TrimSpace(user.Name)
	if user.Role == "" {
		user.Role = domain.RoleClient
	}
	if user.Role != domain.RoleClient && user.Role != domain.RoleAdmin {
		return domain.User{}, domain.BadRequest(domain.EntityUser, "unknown role", user.Role)
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// IssueToken signs a bearer token for an existing user.
func (s *UserService) IssueToken(ctx context.Context, id uint, userAgent string) (string, domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	token, err := jwthelper.GenerateToken(s.signingKey, user.ID, user.Role, userAgent)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return token, user, nil
}
